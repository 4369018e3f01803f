package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/vedika/internal/core/domain"
	"github.com/custodia-labs/vedika/internal/core/ports/driven"
	"github.com/custodia-labs/vedika/internal/core/ports/driving"
	"github.com/custodia-labs/vedika/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService loads every source batch into the vector index.
type IngestService struct {
	source    driven.BatchSource
	index     driven.VectorIndex
	groupSize int
}

// NewIngestService creates a new ingestion service.
func NewIngestService(source driven.BatchSource, index driven.VectorIndex) *IngestService {
	return &IngestService{
		source:    source,
		index:     index,
		groupSize: domain.IngestWriteGroupSize,
	}
}

// Ingest normalises the records of every batch and upserts them in groups.
// Documents are accumulated across batches so every upsert except the last
// carries exactly one full group.
func (s *IngestService) Ingest(ctx context.Context, opts domain.IngestOptions) (*domain.IngestSummary, error) {
	if s.index == nil {
		return nil, domain.ErrIndexUnavailable
	}
	if s.source == nil {
		return nil, fmt.Errorf("%w: no batch source", domain.ErrInvalidInput)
	}

	start := time.Now()
	summary := &domain.IngestSummary{
		RunID:         uuid.NewString(),
		FailedBatches: []string{},
	}

	logger.Section("Ingestion")
	logger.Debug("Run %s", summary.RunID)

	batches, err := s.source.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	logger.Info("Found %d batches", len(batches))

	// A rebuild drops the collection only once a batch has parsed, so a
	// missing or unreadable corpus leaves the existing index in place.
	pendingRebuild := opts.Rebuild
	rebuild := func() error {
		if !pendingRebuild {
			return nil
		}
		pendingRebuild = false
		logger.Info("Recreating collection")
		if err := s.index.RecreateCollection(ctx); err != nil {
			return fmt.Errorf("recreate collection: %w", err)
		}
		return nil
	}

	pending := make([]domain.Document, 0, s.groupSize)
	flush := func() error {
		if len(pending) == 0 {
			return nil
		}
		if err := s.index.Upsert(ctx, pending); err != nil {
			return fmt.Errorf("upsert %d documents: %w", len(pending), err)
		}
		summary.Processed += len(pending)
		summary.BatchesWritten++
		logger.Debug("Wrote group %d (%d documents)", summary.BatchesWritten, len(pending))
		pending = pending[:0]
		return nil
	}

	for _, batch := range batches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		records, skipped, err := s.readBatch(ctx, batch)
		if err != nil {
			logger.Warn("Skipping batch %s: %v", batch.Name, err)
			summary.FailedBatches = append(summary.FailedBatches, batch.Name)
			report(opts.Progress, domain.BatchProgress{Batch: batch.Name, Err: err})
			continue
		}
		if err := rebuild(); err != nil {
			return nil, err
		}
		summary.Skipped += skipped
		logger.Debug("Batch %s: %d records, %d skipped", batch.Name, len(records), skipped)

		for _, rec := range records {
			pending = append(pending, buildDocument(rec, batch))
			if len(pending) == s.groupSize {
				if err := flush(); err != nil {
					return nil, err
				}
			}
		}
		report(opts.Progress, domain.BatchProgress{Batch: batch.Name, Records: len(records), Skipped: skipped})
	}

	if err := flush(); err != nil {
		return nil, err
	}
	if pendingRebuild {
		logger.Warn("No batch could be read, keeping the existing collection")
	}

	count, err := s.index.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}
	summary.DocumentsInIndex = count
	summary.Duration = time.Since(start)

	logger.Info("Ingestion complete: %d documents written, %d in index, %d failed batches",
		summary.Processed, summary.DocumentsInIndex, len(summary.FailedBatches))

	return summary, nil
}

func (s *IngestService) readBatch(ctx context.Context, batch domain.BatchRef) ([]batchRecord, int, error) {
	data, err := s.source.Read(ctx, batch.Name)
	if err != nil {
		if errors.Is(err, domain.ErrMalformedSourceBatch) {
			return nil, 0, err
		}
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrMalformedSourceBatch, err)
	}
	return parseBatch(data)
}

func buildDocument(rec batchRecord, batch domain.BatchRef) domain.Document {
	text, metadata := Normalise(rec.Record, batch.Category, batch.Name)
	rawID, hasID := recordID(rec.Record)
	return domain.Document{
		ID:            AssignID(batch.Category, rawID, hasID, rec.Position, text),
		EmbeddingText: text,
		Metadata:      metadata,
	}
}

func report(progress func(domain.BatchProgress), p domain.BatchProgress) {
	if progress != nil {
		progress(p)
	}
}
