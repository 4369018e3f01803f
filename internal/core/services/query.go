package services

import (
	"context"
	"time"

	"github.com/custodia-labs/vedika/internal/core/domain"
	"github.com/custodia-labs/vedika/internal/core/ports/driven"
	"github.com/custodia-labs/vedika/internal/core/ports/driving"
	"github.com/custodia-labs/vedika/internal/logger"
)

// Ensure QueryService implements the interface.
var _ driving.QueryService = (*QueryService)(nil)

// QueryService runs the query pipeline: retrieve, assemble context, synthesise.
type QueryService struct {
	index       driven.VectorIndex
	retriever   *Retriever
	synthesizer *Synthesizer
	now         func() time.Time
}

// NewQueryService creates a new query service.
// The llm parameter is optional (can be nil).
func NewQueryService(index driven.VectorIndex, llm driven.LLMService, prompts driven.PromptStore) *QueryService {
	return &QueryService{
		index:       index,
		retriever:   NewRetriever(index),
		synthesizer: NewSynthesizer(llm, prompts),
		now:         time.Now,
	}
}

// Ask answers a question from the indexed documents.
func (s *QueryService) Ask(ctx context.Context, req domain.AskRequest) (*domain.AskResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	results, err := s.retriever.Retrieve(ctx, req.Query, req.MaxResults)
	if err != nil {
		return nil, err
	}

	answer := s.synthesizer.Synthesize(ctx, req.Query, results)
	logger.Info("Answered %q with %d sources (%s)", req.Query, len(answer.SourceDocuments), answer.Mode)

	return &domain.AskResponse{
		Answer:          answer,
		Query:           req.Query,
		IncludeMetadata: req.IncludeMetadata,
	}, nil
}

// Search returns the nearest documents without synthesis.
func (s *QueryService) Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	results, err := s.retriever.Retrieve(ctx, req.Query, req.MaxResults)
	if err != nil {
		return nil, err
	}

	return &domain.SearchResponse{
		Query:     req.Query,
		Results:   results,
		Timestamp: s.now(),
	}, nil
}

// Health reports whether the index answers and a generative backend is set.
// The status is healthy only when both hold.
func (s *QueryService) Health(ctx context.Context) domain.HealthStatus {
	status := domain.HealthStatus{
		IndexConnected:              s.index != nil && s.index.Ping(ctx) == nil,
		GenerativeBackendConfigured: s.synthesizer.Configured(),
		Timestamp:                   s.now(),
	}
	status.Status = domain.HealthStatusUnhealthy
	if status.IndexConnected && status.GenerativeBackendConfigured {
		status.Status = domain.HealthStatusHealthy
	}
	return status
}
