package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vedika/internal/core/domain"
)

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed documents",
	Long: `Returns the documents nearest to the query by vector distance, closest
first, without generating an answer.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", domain.DefaultMaxResults, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	resp, err := a.Query.Search(commandContext(cmd), domain.SearchRequest{
		Query:      args[0],
		MaxResults: searchLimit,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, resp)
	}
	outputSearchTable(cmd, resp.Results)
	return nil
}

type searchJSONOutput struct {
	Query     string           `json:"query"`
	Results   []resultJSONItem `json:"results"`
	Count     int              `json:"count"`
	Timestamp string           `json:"timestamp"`
}

func outputSearchJSON(cmd *cobra.Command, resp *domain.SearchResponse) error {
	data, err := json.MarshalIndent(searchJSONOutput{
		Query:     resp.Query,
		Results:   toResultItems(resp.Results),
		Count:     len(resp.Results),
		Timestamp: resp.Timestamp.Format(time.RFC3339),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.QueryResult) {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return
	}

	printHeading(cmd, "Results:")
	cmd.Println()
	for i := range results {
		doc := results[i].Document
		title := doc.RecordName()
		if title == "" {
			title = doc.ID
		}

		// Format: [N] Title - Category (Distance)
		cmd.Printf("  [%d] %s (%.4f)\n", i+1, title, results[i].Distance)
		if category := doc.Category(); category != "" {
			cmd.Printf("      Category: %s\n", category)
		}
		cmd.Printf("      %s\n", truncate(doc.EmbeddingText, 100))
		cmd.Println()
	}
}
