package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vedika/internal/core/domain"
	"github.com/custodia-labs/vedika/internal/logger"
)

const (
	watchDebounce = 2 * time.Second
	verifyQuery   = "spacecraft"
	verifyResults = 3
)

var (
	ingestRebuild bool
	ingestWatch   bool
	ingestVerify  bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load record batches into the vector index",
	Long: `Reads every *.json batch in the corpus directory, normalises each record
into a document and upserts it into the vector index.

Document identifiers are deterministic, so running ingest again updates
documents in place. Records whose text changed get a new identifier and
the old document stays in the index until --rebuild recreates it.

Use --watch to re-ingest whenever a batch file changes.`,
	Args: cobra.NoArgs,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestRebuild, "rebuild", false, "drop and recreate the collection first")
	ingestCmd.Flags().BoolVarP(&ingestWatch, "watch", "w", false, "re-ingest when batch files change")
	ingestCmd.Flags().BoolVar(&ingestVerify, "verify", false, "run a sample search after ingesting")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := ingestOnce(ctx, cmd, a, ingestRebuild); err != nil {
		return err
	}
	if ingestVerify {
		if err := verifyIndex(ctx, cmd, a); err != nil {
			return err
		}
	}
	if !ingestWatch {
		return nil
	}
	return watchCorpus(ctx, cmd, a)
}

func ingestOnce(ctx context.Context, cmd *cobra.Command, a *app, rebuild bool) error {
	progress := func(p domain.BatchProgress) {
		if p.Err != nil {
			printWarning(cmd, "skipped %s: %v", p.Batch, p.Err)
			return
		}
		cmd.Printf("  %-28s %5d documents\n", p.Batch, p.Records)
	}

	summary, err := a.Ingest.Ingest(ctx, domain.IngestOptions{Rebuild: rebuild, Progress: progress})
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	cmd.Println()
	printOK(cmd, "Ingested %d documents in %s", summary.Processed, summary.Duration.Round(time.Millisecond))
	cmd.Printf("  Upserts:            %d\n", summary.BatchesWritten)
	cmd.Printf("  Documents in index: %d\n", summary.DocumentsInIndex)
	if summary.Skipped > 0 {
		cmd.Printf("  Skipped elements:   %d\n", summary.Skipped)
	}
	if len(summary.FailedBatches) > 0 {
		printWarning(cmd, "%d batches failed: %v", len(summary.FailedBatches), summary.FailedBatches)
	}
	cmd.Println(dimStyle.Render("  Run " + summary.RunID))
	return nil
}

func verifyIndex(ctx context.Context, cmd *cobra.Command, a *app) error {
	resp, err := a.Query.Search(ctx, domain.SearchRequest{Query: verifyQuery, MaxResults: verifyResults})
	if err != nil {
		return fmt.Errorf("verify search failed: %w", err)
	}
	cmd.Println()
	printHeading(cmd, fmt.Sprintf("Sample search %q", verifyQuery))
	if len(resp.Results) == 0 {
		printWarning(cmd, "no documents returned")
		return nil
	}
	for i, r := range resp.Results {
		cmd.Printf("  [%d] %s (%.4f)\n", i+1, truncate(r.Document.EmbeddingText, 80), r.Distance)
	}
	return nil
}

// watchCorpus re-runs ingestion after each settled burst of batch changes.
// Runs are serialised because the loop handles one notification at a time.
func watchCorpus(ctx context.Context, cmd *cobra.Command, a *app) error {
	changes, err := a.Corpus.Watch(ctx, watchDebounce)
	if err != nil {
		return fmt.Errorf("watching %s: %w", a.Corpus.Dir(), err)
	}
	cmd.Printf("\nWatching %s for changes (Ctrl+C to stop)\n", a.Corpus.Dir())

	for {
		select {
		case <-ctx.Done():
			return nil
		case names, ok := <-changes:
			if !ok {
				return nil
			}
			logger.Info("Changed batches: %v", names)
			cmd.Printf("\nChanged: %v\n", names)
			if err := ingestOnce(ctx, cmd, a, false); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				printWarning(cmd, "%v", err)
			}
		}
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
