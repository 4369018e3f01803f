package driving

import (
	"context"

	"github.com/custodia-labs/vedika/internal/core/domain"
)

// RetrievalService finds the documents nearest to a query.
type RetrievalService interface {
	// Retrieve returns up to k results ordered by ascending distance.
	// Zero matches is an empty slice, not an error.
	Retrieve(ctx context.Context, query string, k int) ([]domain.QueryResult, error)
}

// QueryService answers questions over the indexed knowledge base.
type QueryService interface {
	// Ask retrieves, assembles context and synthesises an answer.
	// Only index unavailability and invalid input are returned as errors;
	// generation failures are reported inside the answer.
	Ask(ctx context.Context, req domain.AskRequest) (*domain.AskResponse, error)

	// Search retrieves documents without synthesis.
	Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchResponse, error)

	// Health reports index connectivity and backend configuration.
	Health(ctx context.Context) domain.HealthStatus
}
