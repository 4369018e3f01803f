package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	httpapi "github.com/custodia-labs/vedika/internal/adapters/driving/http"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serves the question answering API over HTTP.

Endpoints:
  GET  /         service information
  GET  /health   index and backend status
  POST /query    {"query": "...", "max_results": 5, "include_metadata": true}
  GET  /search   ?query=...&max_results=5

Host and port default to server.host and server.port from the settings
(HOST and PORT in the environment override them).`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen host (default from settings)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (default from settings)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	host, port := a.Settings.Server.Host, a.Settings.Server.Port
	if serveHost != "" {
		host = serveHost
	}
	if servePort > 0 {
		port = servePort
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var opts []httpapi.Option
	if version != "dev" {
		opts = append(opts, httpapi.WithVersion(version))
	}

	cmd.Printf("Vedika API listening on http://%s:%d\n", host, port)
	return httpapi.New(a.Query, opts...).ListenAndServe(ctx, host, port)
}
