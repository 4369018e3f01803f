package driven

import (
	"context"

	"github.com/custodia-labs/vedika/internal/core/domain"
)

// VectorIndex stores documents with their embeddings in one named collection
// and answers nearest-neighbour queries over them.
// The embedding function is injected at construction and used for both
// storage and query, so distances are always comparable.
type VectorIndex interface {
	// Upsert inserts or replaces documents by id.
	// Large inputs are written in groups; a failure aborts the call.
	Upsert(ctx context.Context, docs []domain.Document) error

	// Query returns up to k documents nearest to the embedded text,
	// ordered by ascending distance with ties broken by id.
	// Returns domain.ErrInvalidInput if k < 1 and an empty slice if the
	// collection is empty.
	Query(ctx context.Context, text string, k int) ([]domain.QueryResult, error)

	// RecreateCollection drops the collection if present and creates it empty.
	// A failed drop is not an error.
	RecreateCollection(ctx context.Context) error

	// Count returns the number of documents in the collection.
	Count(ctx context.Context) (int, error)

	// Ping returns domain.ErrIndexUnavailable if the index cannot serve queries.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
