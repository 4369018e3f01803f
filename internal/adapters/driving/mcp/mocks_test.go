package mcp

import (
	"context"

	"github.com/custodia-labs/vedika/internal/core/domain"
)

// mockQueryService is a mock implementation of driving.QueryService.
type mockQueryService struct {
	answer  domain.Answer
	results []domain.QueryResult
	health  domain.HealthStatus
	err     error

	lastAsk    domain.AskRequest
	lastSearch domain.SearchRequest
}

func (m *mockQueryService) Ask(_ context.Context, req domain.AskRequest) (*domain.AskResponse, error) {
	m.lastAsk = req
	if m.err != nil {
		return nil, m.err
	}
	return &domain.AskResponse{Answer: m.answer, Query: req.Query}, nil
}

func (m *mockQueryService) Search(_ context.Context, req domain.SearchRequest) (*domain.SearchResponse, error) {
	m.lastSearch = req
	if m.err != nil {
		return nil, m.err
	}
	return &domain.SearchResponse{Query: req.Query, Results: m.results}, nil
}

func (m *mockQueryService) Health(_ context.Context) domain.HealthStatus {
	return m.health
}

func aryabhata() domain.QueryResult {
	return domain.QueryResult{
		Document: domain.Document{
			ID:            "spacecrafts_1_0a1b2c3d",
			EmbeddingText: "Spacecraft: Aryabhata with ID 1",
			Metadata: map[string]string{
				domain.MetadataCategory:   "spacecrafts",
				domain.MetadataRecordName: "Aryabhata",
			},
		},
		Distance: 0.25,
	}
}
