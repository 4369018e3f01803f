package domain

import "time"

// IngestWriteGroupSize is the number of documents written to the index
// in one upsert call.
const IngestWriteGroupSize = 100

// BatchProgress reports the outcome of one source batch during ingestion.
type BatchProgress struct {
	// Batch is the source batch name.
	Batch string

	// Records is the number of documents produced from the batch.
	Records int

	// Skipped is the number of elements that were not objects.
	Skipped int

	// Err is set when the batch was skipped.
	Err error
}

// IngestOptions controls an ingestion run.
type IngestOptions struct {
	// Rebuild drops and recreates the collection before ingesting.
	// This is the supported way to remove documents whose records changed.
	Rebuild bool

	// Progress is called after each batch. May be nil.
	Progress func(BatchProgress)
}

// IngestSummary describes a finished ingestion run.
type IngestSummary struct {
	// RunID uniquely identifies the run.
	RunID string

	// Processed is the number of documents written.
	Processed int

	// Skipped is the number of array elements that were not objects.
	Skipped int

	// BatchesWritten is the number of upsert calls made.
	BatchesWritten int

	// FailedBatches lists batches that could not be read or parsed.
	FailedBatches []string

	// DocumentsInIndex is the collection size after the run.
	DocumentsInIndex int

	// Duration is the wall time of the run.
	Duration time.Duration
}
