package cli

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vedika/internal/core/domain"
)

// mockWatcher delivers a fixed sequence of change sets, then closes.
type mockWatcher struct {
	changes [][]string
	err     error
}

func (w *mockWatcher) Dir() string { return "testdata" }

func (w *mockWatcher) Watch(_ context.Context, _ time.Duration) (<-chan []string, error) {
	if w.err != nil {
		return nil, w.err
	}
	ch := make(chan []string, len(w.changes))
	for _, c := range w.changes {
		ch <- c
	}
	close(ch)
	return ch, nil
}

func TestIngestCmd_Flags(t *testing.T) {
	for _, name := range []string{"rebuild", "watch", "verify"} {
		flag := ingestCmd.Flags().Lookup(name)
		require.NotNil(t, flag, name)
		assert.Equal(t, "false", flag.DefValue)
	}
	assert.Equal(t, "w", ingestCmd.Flags().Lookup("watch").Shorthand)
}

func TestIngestCmd_RejectsArgs(t *testing.T) {
	_, err := execute(t, "ingest", "extra")

	assert.Error(t, err)
}

func TestIngestCmd_Summary(t *testing.T) {
	ingest := &MockIngestService{
		Batches: []domain.BatchProgress{
			{Batch: "spacecrafts.json", Records: 2},
			{Batch: "broken.json", Err: domain.ErrMalformedSourceBatch},
		},
		Summary: &domain.IngestSummary{
			RunID:            "run-42",
			Processed:        2,
			Skipped:          1,
			BatchesWritten:   1,
			FailedBatches:    []string{"broken.json"},
			DocumentsInIndex: 2,
		},
	}
	useTestApp(t, &app{Ingest: ingest})

	out, err := execute(t, "ingest")

	require.NoError(t, err)
	require.Len(t, ingest.Calls, 1)
	assert.False(t, ingest.Calls[0].Rebuild)
	assert.Contains(t, out, "spacecrafts.json")
	assert.Contains(t, out, "skipped broken.json")
	assert.Contains(t, out, "Ingested 2 documents")
	assert.Contains(t, out, "Documents in index: 2")
	assert.Contains(t, out, "Skipped elements:   1")
	assert.Contains(t, out, "1 batches failed")
	assert.Contains(t, out, "run-42")
}

func TestIngestCmd_Rebuild(t *testing.T) {
	ingest := &MockIngestService{}
	useTestApp(t, &app{Ingest: ingest})

	_, err := execute(t, "ingest", "--rebuild")

	require.NoError(t, err)
	require.Len(t, ingest.Calls, 1)
	assert.True(t, ingest.Calls[0].Rebuild)
}

func TestIngestCmd_Error(t *testing.T) {
	useTestApp(t, &app{Ingest: &MockIngestService{Err: domain.ErrIndexUnavailable}})

	_, err := execute(t, "ingest")

	assert.ErrorIs(t, err, domain.ErrIndexUnavailable)
	assert.Contains(t, err.Error(), "ingest failed")
}

func TestIngestCmd_Verify(t *testing.T) {
	a := newPipelineApp(t, map[string]string{
		"spacecrafts.json": spacecraftsBatch,
		"launchers.json":   launchersBatch,
	})
	useTestApp(t, a)

	out, err := execute(t, "ingest", "--verify")

	require.NoError(t, err)
	assert.Contains(t, out, "Ingested 3 documents")
	assert.Contains(t, out, `Sample search "spacecraft"`)
	assert.Contains(t, out, "[3]")
	assert.NotContains(t, out, "[4]")
}

func TestIngestCmd_VerifyEmptyIndex(t *testing.T) {
	a := newPipelineApp(t, nil)
	useTestApp(t, a)

	out, err := execute(t, "ingest", "--verify")

	require.NoError(t, err)
	assert.Contains(t, out, "no documents returned")
}

func TestIngestCmd_Idempotent(t *testing.T) {
	a := newPipelineApp(t, map[string]string{"spacecrafts.json": spacecraftsBatch})
	useTestApp(t, a)

	_, err := execute(t, "ingest")
	require.NoError(t, err)
	out, err := execute(t, "ingest")

	require.NoError(t, err)
	assert.Contains(t, out, "Documents in index: 2")
}

func TestIngestCmd_WatchReingestsOnChange(t *testing.T) {
	ingest := &MockIngestService{}
	useTestApp(t, &app{
		Ingest: ingest,
		Corpus: &mockWatcher{changes: [][]string{{"launchers.json"}, {"centres.json"}}},
	})

	out, err := execute(t, "ingest", "--watch")

	require.NoError(t, err)
	require.Len(t, ingest.Calls, 3)
	for _, call := range ingest.Calls {
		assert.False(t, call.Rebuild)
	}
	assert.Contains(t, out, "Watching testdata")
	assert.Contains(t, out, "Changed: [launchers.json]")
	assert.Contains(t, out, "Changed: [centres.json]")
}

func TestIngestCmd_WatchOnlyFirstRunRebuilds(t *testing.T) {
	ingest := &MockIngestService{}
	useTestApp(t, &app{
		Ingest: ingest,
		Corpus: &mockWatcher{changes: [][]string{{"launchers.json"}}},
	})

	_, err := execute(t, "ingest", "--watch", "--rebuild")

	require.NoError(t, err)
	require.Len(t, ingest.Calls, 2)
	assert.True(t, ingest.Calls[0].Rebuild)
	assert.False(t, ingest.Calls[1].Rebuild)
}

func TestIngestCmd_WatchError(t *testing.T) {
	useTestApp(t, &app{
		Ingest: &MockIngestService{},
		Corpus: &mockWatcher{err: errors.New("no inotify")},
	})

	_, err := execute(t, "ingest", "--watch")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "watching testdata")
}
