package driven

import (
	"context"

	"github.com/custodia-labs/vedika/internal/core/domain"
)

// BatchSource provides the source batches consumed by ingestion.
// Each batch is a JSON document holding an array of records, either at the
// top level or as the first array-valued entry of a top-level object.
type BatchSource interface {
	// List returns the available batches in a stable order.
	List(ctx context.Context) ([]domain.BatchRef, error)

	// Read returns the raw bytes of a batch.
	Read(ctx context.Context, name string) ([]byte, error)
}
