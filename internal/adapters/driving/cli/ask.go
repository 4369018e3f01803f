package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/vedika/internal/adapters/driving/tui"
	"github.com/custodia-labs/vedika/internal/core/domain"
)

var (
	askMaxResults int
	askPlain      bool
	askSources    bool
	askJSON       bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about ISRO",
	Long: `Answers a question from the documents closest to it in the index.

In a terminal with no --plain flag the interactive ask screen opens,
pre-filled with the question if one is given. Otherwise the answer is
printed once.

Examples:
  vedika ask "What was the mass of Aryabhata?"
  vedika ask --plain --sources "Which launcher carried Chandrayaan-1?"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askMaxResults, "max-results", "n", domain.DefaultMaxResults, "documents to retrieve")
	askCmd.Flags().BoolVar(&askPlain, "plain", false, "print the answer instead of opening the TUI")
	askCmd.Flags().BoolVarP(&askSources, "sources", "s", false, "list the source documents")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

// isInteractive reports whether cmd writes to a terminal.
var isInteractive = func(cmd *cobra.Command) bool {
	out, ok := cmd.OutOrStdout().(*os.File)
	return ok && term.IsTerminal(int(out.Fd()))
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := ""
	if len(args) == 1 {
		question = strings.TrimSpace(args[0])
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if !askPlain && !askJSON && isInteractive(cmd) {
		return runAskTUI(cmd, a, question)
	}
	if question == "" {
		return fmt.Errorf("%w: a question is required with --plain or when output is not a terminal",
			domain.ErrInvalidInput)
	}

	resp, err := a.Query.Ask(commandContext(cmd), domain.AskRequest{
		Query:           question,
		MaxResults:      askMaxResults,
		IncludeMetadata: true,
	})
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		return outputAskJSON(cmd, resp)
	}
	outputAnswer(cmd, resp.Answer, askSources)
	return nil
}

func runAskTUI(cmd *cobra.Command, a *app, question string) error {
	app, err := tui.NewApp(&tui.Ports{Query: a.Query, MaxResults: askMaxResults})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(commandContext(cmd))
	if question != "" {
		app.WithQuestion(question)
	}
	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

func outputAnswer(cmd *cobra.Command, answer domain.Answer, withSources bool) {
	cmd.Println(answer.Text)
	cmd.Println()
	model := answer.ModelUsed
	if model == "" {
		model = "none"
	}
	cmd.Println(dimStyle.Render(fmt.Sprintf("mode: %s, model: %s, sources: %d",
		answer.Mode, model, len(answer.SourceDocuments))))

	if !withSources || len(answer.SourceDocuments) == 0 {
		return
	}
	cmd.Println()
	printHeading(cmd, "Sources")
	for i, r := range answer.SourceDocuments {
		cmd.Printf("  [%d] %s (%.4f)\n", i+1, r.Document.ID, r.Distance)
		cmd.Printf("      %s\n", truncate(r.Document.EmbeddingText, 100))
	}
}

type askJSONOutput struct {
	Query   string           `json:"query"`
	Answer  string           `json:"answer"`
	Mode    string           `json:"mode"`
	Model   string           `json:"model_used"`
	Sources []resultJSONItem `json:"sources"`
}

type resultJSONItem struct {
	ID       string            `json:"id"`
	Content  string            `json:"content"`
	Distance float64           `json:"distance"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

func toResultItems(results []domain.QueryResult) []resultJSONItem {
	items := make([]resultJSONItem, 0, len(results))
	for _, r := range results {
		items = append(items, resultJSONItem{
			ID:       r.Document.ID,
			Content:  r.Document.EmbeddingText,
			Distance: r.Distance,
			Metadata: r.Document.Metadata,
		})
	}
	return items
}

func outputAskJSON(cmd *cobra.Command, resp *domain.AskResponse) error {
	data, err := json.MarshalIndent(askJSONOutput{
		Query:   resp.Query,
		Answer:  resp.Answer.Text,
		Mode:    resp.Answer.Mode.String(),
		Model:   resp.Answer.ModelUsed,
		Sources: toResultItems(resp.Answer.SourceDocuments),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
