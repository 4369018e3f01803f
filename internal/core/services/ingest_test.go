package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vedika/internal/core/domain"
)

func TestNewIngestService(t *testing.T) {
	service := NewIngestService(newMockBatchSource(nil), newTestIndex(t))

	require.NotNil(t, service)
	assert.Equal(t, domain.IngestWriteGroupSize, service.groupSize)
}

func TestIngestService_Ingest_NilIndex(t *testing.T) {
	service := NewIngestService(newMockBatchSource(nil), nil)

	_, err := service.Ingest(context.Background(), domain.IngestOptions{})

	assert.ErrorIs(t, err, domain.ErrIndexUnavailable)
}

func TestIngestService_Ingest_NilSource(t *testing.T) {
	service := NewIngestService(nil, newTestIndex(t))

	_, err := service.Ingest(context.Background(), domain.IngestOptions{})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIngestService_Ingest_Basic(t *testing.T) {
	source := newMockBatchSource(map[string]string{
		"spacecrafts.json": `[{"id":1,"name":"Aryabhata"},{"id":2,"name":"Bhaskara-I"}]`,
		"launchers.json":   `{"launchers":[{"id":"SLV-3","name":"SLV-3"}]}`,
	})
	index := newTestIndex(t)
	service := NewIngestService(source, index)

	summary, err := service.Ingest(context.Background(), domain.IngestOptions{})

	require.NoError(t, err)
	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, 3, summary.Processed)
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, 1, summary.BatchesWritten)
	assert.Equal(t, 3, summary.DocumentsInIndex)
	assert.Empty(t, summary.FailedBatches)
}

func TestIngestService_Ingest_Idempotent(t *testing.T) {
	source := newMockBatchSource(map[string]string{
		"spacecrafts.json": `[{"id":1,"name":"Aryabhata"},{"name":"Rohini"}]`,
		"centres.json":     `[{"id":1,"name":"VSSC"},{"id":2,"name":"SDSC SHAR"}]`,
	})
	index := newTestIndex(t)
	service := NewIngestService(source, index)

	first, err := service.Ingest(context.Background(), domain.IngestOptions{})
	require.NoError(t, err)
	second, err := service.Ingest(context.Background(), domain.IngestOptions{})
	require.NoError(t, err)

	assert.Equal(t, 4, first.DocumentsInIndex)
	assert.Equal(t, first.DocumentsInIndex, second.DocumentsInIndex)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestIngestService_Ingest_GroupsAcrossBatches(t *testing.T) {
	source := newMockBatchSource(map[string]string{
		"a.json": recordsJSON(150, "a"),
		"b.json": recordsJSON(100, "b"),
	})
	index := &recordingIndex{VectorIndex: newTestIndex(t)}
	service := NewIngestService(source, index)

	summary, err := service.Ingest(context.Background(), domain.IngestOptions{})

	require.NoError(t, err)
	assert.Equal(t, []int{100, 100, 50}, index.groups)
	assert.Equal(t, 3, summary.BatchesWritten)
	assert.Equal(t, 250, summary.Processed)
	assert.Equal(t, 250, summary.DocumentsInIndex)
}

func TestIngestService_Ingest_ExactGroupHasNoEmptyFlush(t *testing.T) {
	source := newMockBatchSource(map[string]string{"a.json": recordsJSON(100, "a")})
	index := &recordingIndex{VectorIndex: newTestIndex(t)}
	service := NewIngestService(source, index)

	summary, err := service.Ingest(context.Background(), domain.IngestOptions{})

	require.NoError(t, err)
	assert.Equal(t, []int{100}, index.groups)
	assert.Equal(t, 1, summary.BatchesWritten)
}

func TestIngestService_Ingest_MalformedBatchIsSkipped(t *testing.T) {
	source := newMockBatchSource(map[string]string{
		"broken.json":      `[{"id":1,`,
		"spacecrafts.json": `[{"id":1,"name":"Aryabhata"}]`,
	})
	source.readErr["missing.json"] = errors.New("permission denied")
	index := newTestIndex(t)
	service := NewIngestService(source, index)

	var progress []domain.BatchProgress
	summary, err := service.Ingest(context.Background(), domain.IngestOptions{
		Progress: func(p domain.BatchProgress) { progress = append(progress, p) },
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"broken.json", "missing.json"}, summary.FailedBatches)
	assert.Equal(t, 1, summary.DocumentsInIndex)

	require.Len(t, progress, 3)
	assert.ErrorIs(t, progress[0].Err, domain.ErrMalformedSourceBatch)
	assert.ErrorIs(t, progress[1].Err, domain.ErrMalformedSourceBatch)
	assert.NoError(t, progress[2].Err)
	assert.Equal(t, 1, progress[2].Records)
}

func TestIngestService_Ingest_CountsSkippedElements(t *testing.T) {
	source := newMockBatchSource(map[string]string{
		"launchers.json": `[{"id":"PSLV"}, "junk", 7, {"id":"GSLV"}]`,
	})
	service := NewIngestService(source, newTestIndex(t))

	summary, err := service.Ingest(context.Background(), domain.IngestOptions{})

	require.NoError(t, err)
	assert.Equal(t, 2, summary.Processed)
	assert.Equal(t, 2, summary.Skipped)
}

func TestIngestService_Ingest_Rebuild(t *testing.T) {
	index := newTestIndex(t)
	require.NoError(t, index.Upsert(context.Background(), []domain.Document{
		{ID: "stale_1_deadbeef", EmbeddingText: "old text"},
	}))
	source := newMockBatchSource(map[string]string{
		"spacecrafts.json": `[{"id":1,"name":"Aryabhata"}]`,
	})
	service := NewIngestService(source, index)

	summary, err := service.Ingest(context.Background(), domain.IngestOptions{Rebuild: true})

	require.NoError(t, err)
	assert.Equal(t, 1, summary.DocumentsInIndex)
}

func TestIngestService_Ingest_WithoutRebuildKeepsStale(t *testing.T) {
	index := newTestIndex(t)
	require.NoError(t, index.Upsert(context.Background(), []domain.Document{
		{ID: "stale_1_deadbeef", EmbeddingText: "old text"},
	}))
	source := newMockBatchSource(map[string]string{
		"spacecrafts.json": `[{"id":1,"name":"Aryabhata"}]`,
	})
	service := NewIngestService(source, index)

	summary, err := service.Ingest(context.Background(), domain.IngestOptions{})

	require.NoError(t, err)
	assert.Equal(t, 2, summary.DocumentsInIndex)
}

func TestIngestService_Ingest_UpsertErrorAborts(t *testing.T) {
	source := newMockBatchSource(map[string]string{"a.json": recordsJSON(3, "a")})
	index := &recordingIndex{VectorIndex: newTestIndex(t), upsertErr: errors.New("disk full")}
	service := NewIngestService(source, index)

	_, err := service.Ingest(context.Background(), domain.IngestOptions{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestIngestService_Ingest_ListError(t *testing.T) {
	source := newMockBatchSource(nil)
	source.listErr = errors.New("no such directory")
	service := NewIngestService(source, newTestIndex(t))

	_, err := service.Ingest(context.Background(), domain.IngestOptions{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "list batches")
}

func TestIngestService_Ingest_RebuildKeepsIndexWhenListFails(t *testing.T) {
	index := newTestIndex(t)
	service := NewIngestService(newMockBatchSource(map[string]string{
		"spacecrafts.json": `[{"id":1,"name":"Aryabhata"}]`,
	}), index)
	_, err := service.Ingest(context.Background(), domain.IngestOptions{})
	require.NoError(t, err)

	broken := newMockBatchSource(nil)
	broken.listErr = domain.ErrNotFound
	_, err = NewIngestService(broken, index).Ingest(context.Background(), domain.IngestOptions{Rebuild: true})

	require.ErrorIs(t, err, domain.ErrNotFound)
	count, err := index.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestIngestService_Ingest_RebuildKeepsIndexWhenNoBatchParses(t *testing.T) {
	index := newTestIndex(t)
	require.NoError(t, index.Upsert(context.Background(), []domain.Document{
		{ID: "spacecrafts_1_deadbeef", EmbeddingText: "Spacecraft: Aryabhata with ID 1"},
	}))
	source := newMockBatchSource(map[string]string{"spacecrafts.json": `[{"id":1,`})
	service := NewIngestService(source, index)

	summary, err := service.Ingest(context.Background(), domain.IngestOptions{Rebuild: true})

	require.NoError(t, err)
	assert.Equal(t, []string{"spacecrafts.json"}, summary.FailedBatches)
	assert.Equal(t, 1, summary.DocumentsInIndex)
}

func TestIngestService_Ingest_CancelledContext(t *testing.T) {
	source := newMockBatchSource(map[string]string{"a.json": recordsJSON(3, "a")})
	service := NewIngestService(source, newTestIndex(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := service.Ingest(ctx, domain.IngestOptions{})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildDocument(t *testing.T) {
	rec := batchRecord{Position: 3, Record: domain.RawRecord{"name": "Rohini"}}
	batch := domain.BatchRef{Name: "spacecrafts.json", Category: domain.CategorySpacecrafts}

	doc := buildDocument(rec, batch)

	assert.Equal(t, "Spacecraft: Rohini with ID Unknown", doc.EmbeddingText)
	assert.True(t, strings.HasPrefix(doc.ID, "spacecrafts_3_"))
	assert.Equal(t, "spacecrafts.json", doc.Metadata[domain.MetadataSourceBatch])
	assert.Equal(t, "Rohini", doc.RecordName())
}

func recordsJSON(n int, prefix string) string {
	items := make([]string, n)
	for i := range items {
		items[i] = fmt.Sprintf(`{"id":"%s-%d","name":"Record %s %d"}`, prefix, i, prefix, i)
	}
	return "[" + strings.Join(items, ",") + "]"
}
