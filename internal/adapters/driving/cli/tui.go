package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vedika/internal/core/domain"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive ask screen",
	Long: `Launch the interactive terminal interface for Vedika.

Type a question and press Enter to get an answer with its sources. Tab
switches between asking and searching.

Controls:
  Enter    - Ask / Open source
  Tab      - Toggle ask and search
  ↑/k, ↓/j - Navigate sources
  n, Esc   - New question
  ?        - Toggle help
  Ctrl+C   - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().IntVarP(&askMaxResults, "max-results", "n", domain.DefaultMaxResults, "documents to retrieve")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	return runAskTUI(cmd, a, "")
}
