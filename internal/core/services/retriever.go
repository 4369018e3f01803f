package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/vedika/internal/core/domain"
	"github.com/custodia-labs/vedika/internal/core/ports/driven"
	"github.com/custodia-labs/vedika/internal/core/ports/driving"
	"github.com/custodia-labs/vedika/internal/logger"
)

// Ensure Retriever implements the interface.
var _ driving.RetrievalService = (*Retriever)(nil)

// Retriever runs nearest-neighbour queries against the vector index.
type Retriever struct {
	index driven.VectorIndex
}

// NewRetriever creates a new retriever.
// A nil index makes every call fail with domain.ErrIndexUnavailable.
func NewRetriever(index driven.VectorIndex) *Retriever {
	return &Retriever{index: index}
}

// Retrieve returns up to k results nearest to query in ascending distance.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]domain.QueryResult, error) {
	if r.index == nil {
		return nil, domain.ErrIndexUnavailable
	}
	if k < 1 {
		return nil, fmt.Errorf("%w: k must be at least 1, got %d", domain.ErrInvalidInput, k)
	}

	logger.Section("Retrieval")
	logger.Debug("Query: %q, k=%d", query, k)

	results, err := r.index.Query(ctx, query, k)
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}
	if results == nil {
		results = []domain.QueryResult{}
	}

	logger.Debug("Retrieved %d documents", len(results))
	for i, res := range results {
		logger.Debug("  %d. %s (distance %.4f)", i+1, res.Document.ID, res.Distance)
	}
	return results, nil
}
