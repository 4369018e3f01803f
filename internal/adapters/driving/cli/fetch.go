package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vedika/internal/connectors/isro"
)

var (
	fetchDir       string
	fetchBaseURL   string
	fetchEndpoints []string
	fetchRate      float64
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download ISRO record batches",
	Long: `Downloads the spacecrafts, launchers, customer_satellites and centres
collections from the ISRO API into the corpus directory, one JSON file
per collection. Requests are paced to one per second by default.

Run 'vedika ingest' afterwards to load the batches into the index.`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVarP(&fetchDir, "dir", "d", "", "target directory (default corpus.dir)")
	fetchCmd.Flags().StringVar(&fetchBaseURL, "url", "", "API base URL (default corpus.source_url)")
	fetchCmd.Flags().StringSliceVarP(&fetchEndpoints, "endpoint", "e", nil, "collections to download (default all)")
	fetchCmd.Flags().Float64Var(&fetchRate, "rate", 1, "requests per second")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, _ []string) error {
	settingsService, err := openSettings()
	if err != nil {
		return err
	}
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	dir := settings.Corpus.Dir
	if fetchDir != "" {
		dir = fetchDir
	}
	baseURL := settings.Corpus.SourceURL
	if fetchBaseURL != "" {
		baseURL = fetchBaseURL
	}

	fetcher, err := isro.NewFetcher(isro.Config{
		BaseURL:           baseURL,
		Dir:               dir,
		Endpoints:         fetchEndpoints,
		RequestsPerSecond: fetchRate,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Downloading from %s into %s\n", baseURL, dir)
	results, err := fetcher.FetchAll(ctx)
	failed := 0
	for _, r := range results {
		if r.OK() {
			cmd.Printf("  %-22s %5d records\n", r.Name, r.Records)
			continue
		}
		failed++
		printWarning(cmd, "%s: %v", r.Name, r.Err)
	}
	if err != nil {
		return fmt.Errorf("fetch interrupted: %w", err)
	}

	if failed == len(results) && failed > 0 {
		return fmt.Errorf("all %d downloads failed", failed)
	}
	printOK(cmd, "Saved %d of %d collections", len(results)-failed, len(results))
	return nil
}
