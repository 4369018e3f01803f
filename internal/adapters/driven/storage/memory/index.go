package memory

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/custodia-labs/vedika/internal/adapters/driven/storage/vector"
	"github.com/custodia-labs/vedika/internal/core/domain"
	"github.com/custodia-labs/vedika/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// VectorIndex is an in-memory implementation of driven.VectorIndex.
// It uses the same exact search as the SQLite index, so results are
// identical for the same documents and embedder.
type VectorIndex struct {
	mu       sync.RWMutex
	embedder driven.EmbeddingService
	distance vector.DistanceFunc
	entries  map[string]vector.Entry
	closed   bool
}

// NewVectorIndex creates an empty in-memory index.
func NewVectorIndex(embedder driven.EmbeddingService, metric domain.DistanceMetric) (*VectorIndex, error) {
	if embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	distance, err := vector.ForMetric(metric)
	if err != nil {
		return nil, err
	}
	return &VectorIndex{
		embedder: embedder,
		distance: distance,
		entries:  make(map[string]vector.Entry),
	}, nil
}

// Upsert embeds and stores documents, replacing any with the same id.
func (idx *VectorIndex) Upsert(ctx context.Context, docs []domain.Document) error {
	if len(docs) == 0 {
		return idx.Ping(ctx)
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.EmbeddingText
	}
	embeddings, err := idx.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed documents: %w", err)
	}
	if len(embeddings) != len(docs) {
		return fmt.Errorf("embed documents: got %d vectors for %d texts", len(embeddings), len(docs))
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.closed {
		return domain.ErrIndexUnavailable
	}
	for i, doc := range docs {
		doc.Metadata = maps.Clone(doc.Metadata)
		idx.entries[doc.ID] = vector.Entry{Document: doc, Embedding: embeddings[i]}
	}
	return nil
}

// Query returns the k documents nearest to text.
func (idx *VectorIndex) Query(ctx context.Context, text string, k int) ([]domain.QueryResult, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: k must be at least 1", domain.ErrInvalidInput)
	}
	if err := idx.Ping(ctx); err != nil {
		return nil, err
	}

	embedding, err := idx.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()
	entries := make([]vector.Entry, 0, len(idx.entries))
	for _, e := range idx.entries {
		entries = append(entries, e)
	}
	return vector.Nearest(embedding, entries, k, idx.distance), nil
}

// RecreateCollection removes every document.
func (idx *VectorIndex) RecreateCollection(_ context.Context) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.closed {
		return domain.ErrIndexUnavailable
	}
	idx.entries = make(map[string]vector.Entry)
	return nil
}

// Count returns the number of stored documents.
func (idx *VectorIndex) Count(_ context.Context) (int, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if idx.closed {
		return 0, domain.ErrIndexUnavailable
	}
	return len(idx.entries), nil
}

// Ping returns domain.ErrIndexUnavailable after Close.
func (idx *VectorIndex) Ping(_ context.Context) error {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if idx.closed {
		return domain.ErrIndexUnavailable
	}
	return nil
}

// Close releases the stored documents.
func (idx *VectorIndex) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.closed = true
	idx.entries = nil
	return nil
}
