package driving

import (
	"context"

	"github.com/custodia-labs/vedika/internal/core/domain"
)

// IngestService loads source batches into the vector index.
type IngestService interface {
	// Ingest normalises every record of every batch and upserts the resulting
	// documents. Malformed batches are skipped and listed in the summary.
	// Running it twice over the same corpus leaves the index unchanged.
	Ingest(ctx context.Context, opts domain.IngestOptions) (*domain.IngestSummary, error)
}
