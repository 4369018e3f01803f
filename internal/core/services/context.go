package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/vedika/internal/core/domain"
)

// AssembleContext renders retrieved results as numbered blocks, in the
// order received, separated by a blank line:
//
//	Document 1:
//	<embedding text>
//	Category: <category>
//	Name: <record name or Unknown>
//
// Nothing is truncated; the caller bounds the size through k.
func AssembleContext(results []domain.QueryResult) string {
	blocks := make([]string, 0, len(results))
	for i, res := range results {
		name := res.Document.RecordName()
		if name == "" {
			name = unknownValue
		}
		category := res.Document.Category()
		if category == "" {
			category = unknownValue
		}
		blocks = append(blocks, fmt.Sprintf("Document %d:\n%s\nCategory: %s\nName: %s",
			i+1, res.Document.EmbeddingText, category, name))
	}
	return strings.Join(blocks, "\n\n")
}
