package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var healthJSON bool

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the index and generative backend",
	Long: `Reports whether the vector index answers and a generative backend is
configured. The status is healthy only when both hold. Without a backend
answers still work, using the extractive fallback.`,
	Args: cobra.NoArgs,
	RunE: runHealth,
}

func init() {
	healthCmd.Flags().BoolVar(&healthJSON, "json", false, "output status as JSON")
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	status := a.Query.Health(commandContext(cmd))

	if healthJSON {
		data, err := json.MarshalIndent(map[string]any{
			"status":                        status.Status,
			"index_connected":               status.IndexConnected,
			"generative_backend_configured": status.GenerativeBackendConfigured,
			"timestamp":                     status.Timestamp.Format(time.RFC3339),
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal status: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if status.IsHealthy() {
		printOK(cmd, "Status: %s", status.Status)
	} else {
		cmd.Println(warnStyle.Render("Status: " + status.Status))
	}
	cmd.Printf("  Index connected:    %s\n", yesNo(status.IndexConnected))
	cmd.Printf("  Backend configured: %s\n", yesNo(status.GenerativeBackendConfigured))
	if !status.IndexConnected {
		cmd.Println("\nRun 'vedika ingest' to build the index.")
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
