package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vedika/internal/adapters/driven/embedding/hashing"
	"github.com/custodia-labs/vedika/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/vedika/internal/core/domain"
	"github.com/custodia-labs/vedika/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockBatchSource implements driven.BatchSource for testing.
type mockBatchSource struct {
	batches map[string]string
	readErr map[string]error
	listErr error
}

func newMockBatchSource(batches map[string]string) *mockBatchSource {
	return &mockBatchSource{batches: batches, readErr: map[string]error{}}
}

func (m *mockBatchSource) List(_ context.Context) ([]domain.BatchRef, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	names := make([]string, 0, len(m.batches)+len(m.readErr))
	for name := range m.batches {
		names = append(names, name)
	}
	for name := range m.readErr {
		if _, ok := m.batches[name]; !ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	refs := make([]domain.BatchRef, len(names))
	for i, name := range names {
		refs[i] = domain.BatchRef{Name: name, Category: domain.Category(stem(name))}
	}
	return refs, nil
}

func (m *mockBatchSource) Read(_ context.Context, name string) ([]byte, error) {
	if err := m.readErr[name]; err != nil {
		return nil, err
	}
	data, ok := m.batches[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return []byte(data), nil
}

func stem(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[:i]
		}
	}
	return name
}

// recordingIndex wraps a VectorIndex and records upsert group sizes.
type recordingIndex struct {
	driven.VectorIndex
	mu        sync.Mutex
	groups    []int
	upsertErr error
	queryErr  error
}

func (r *recordingIndex) Upsert(ctx context.Context, docs []domain.Document) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.mu.Lock()
	r.groups = append(r.groups, len(docs))
	r.mu.Unlock()
	return r.VectorIndex.Upsert(ctx, docs)
}

func (r *recordingIndex) Query(ctx context.Context, text string, k int) ([]domain.QueryResult, error) {
	if r.queryErr != nil {
		return nil, r.queryErr
	}
	return r.VectorIndex.Query(ctx, text, k)
}

// mockLLM implements driven.LLMService for testing.
type mockLLM struct {
	reply    string
	err      error
	calls    int
	messages []driven.ChatMessage
	opts     driven.ChatOptions
}

func (m *mockLLM) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.calls++
	m.messages = messages
	m.opts = opts
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

func (m *mockLLM) ModelName() string            { return "mock-llm" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                 { return nil }

// mockPromptStore implements driven.PromptStore for testing.
type mockPromptStore struct {
	prompts map[string]string
}

func newMockPromptStore() *mockPromptStore {
	return &mockPromptStore{prompts: map[string]string{
		driven.PromptAnswerSystem: "You are Vedika.",
		driven.PromptAnswerUser:   "Context Information:\n%s\n\nQuestion: %s",
	}}
}

func (m *mockPromptStore) Load(name string) (string, error) {
	p, ok := m.prompts[name]
	if !ok {
		return "", errors.New("prompt not found: " + name)
	}
	return p, nil
}

func (m *mockPromptStore) Reload() {}

// newTestIndex returns an in-memory index with the hashing embedder.
func newTestIndex(t *testing.T) *memory.VectorIndex {
	t.Helper()
	embedder, err := hashing.NewEmbeddingService(hashing.Config{})
	require.NoError(t, err)
	idx, err := memory.NewVectorIndex(embedder, domain.DistanceL2)
	require.NoError(t, err)
	return idx
}

func result(id, name, text string, distance float64) domain.QueryResult {
	meta := map[string]string{domain.MetadataCategory: "spacecrafts"}
	if name != "" {
		meta[domain.MetadataRecordName] = name
	}
	return domain.QueryResult{
		Document: domain.Document{ID: id, EmbeddingText: text, Metadata: meta},
		Distance: distance,
	}
}
