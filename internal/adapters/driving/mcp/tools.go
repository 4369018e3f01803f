package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/vedika/internal/core/domain"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Query      string `json:"query" jsonschema:"a question about ISRO spacecraft, launchers, customer satellites or centres"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"number of documents to retrieve as context (default 5)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer    string         `json:"answer"`
	ModelUsed string         `json:"model_used"`
	Mode      string         `json:"mode"`
	Sources   []SourceOutput `json:"sources"`
}

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query      string `json:"query" jsonschema:"the search query"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"maximum number of results to return (default 5)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SourceOutput `json:"results"`
	Count   int            `json:"count"`
}

// SourceOutput is one retrieved document.
type SourceOutput struct {
	DocumentID string  `json:"document_id"`
	Category   string  `json:"category"`
	Name       string  `json:"name,omitempty"`
	Content    string  `json:"content"`
	Distance   float64 `json:"distance"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question from the ISRO knowledge base, citing the retrieved records",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Find ISRO records nearest to a query without generating an answer",
	}, s.handleSearch)
}

func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	resp, err := s.ports.Query.Ask(ctx, domain.AskRequest{
		Query:      input.Query,
		MaxResults: maxResults(input.MaxResults),
	})
	if err != nil {
		return nil, AskOutput{}, err
	}

	return nil, AskOutput{
		Answer:    resp.Answer.Text,
		ModelUsed: resp.Answer.ModelUsed,
		Mode:      resp.Answer.Mode.String(),
		Sources:   toSources(resp.Answer.SourceDocuments),
	}, nil
}

func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	resp, err := s.ports.Query.Search(ctx, domain.SearchRequest{
		Query:      input.Query,
		MaxResults: maxResults(input.MaxResults),
	})
	if err != nil {
		return nil, SearchOutput{}, err
	}

	return nil, SearchOutput{
		Results: toSources(resp.Results),
		Count:   len(resp.Results),
	}, nil
}

func maxResults(n int) int {
	if n <= 0 {
		return domain.DefaultMaxResults
	}
	return n
}

func toSources(results []domain.QueryResult) []SourceOutput {
	out := make([]SourceOutput, len(results))
	for i := range results {
		doc := results[i].Document
		out[i] = SourceOutput{
			DocumentID: doc.ID,
			Category:   doc.Category(),
			Name:       doc.RecordName(),
			Content:    doc.EmbeddingText,
			Distance:   results[i].Distance,
		}
	}
	return out
}
