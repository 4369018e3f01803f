package domain

import (
	"strings"
	"time"
)

// DefaultMaxResults is the number of documents retrieved when a caller
// does not specify one.
const DefaultMaxResults = 5

// AskRequest is a question for the query pipeline.
type AskRequest struct {
	Query           string
	MaxResults      int
	IncludeMetadata bool
}

// Validate checks the request.
func (r AskRequest) Validate() error {
	return validateQuery(r.Query, r.MaxResults)
}

// AskResponse is the answer plus the documents it was built from.
type AskResponse struct {
	Answer          Answer
	Query           string
	IncludeMetadata bool
}

// SearchRequest is a retrieval-only request.
type SearchRequest struct {
	Query      string
	MaxResults int
}

// Validate checks the request.
func (r SearchRequest) Validate() error {
	return validateQuery(r.Query, r.MaxResults)
}

// SearchResponse lists the retrieved documents.
type SearchResponse struct {
	Query     string
	Results   []QueryResult
	Timestamp time.Time
}

// HealthStatus values.
const (
	HealthStatusHealthy   = "healthy"
	HealthStatusUnhealthy = "unhealthy"
)

// HealthStatus reports the readiness of the query pipeline.
type HealthStatus struct {
	Status                      string
	IndexConnected              bool
	GenerativeBackendConfigured bool
	Timestamp                   time.Time
}

// IsHealthy returns true if both the index and the backend are available.
func (h HealthStatus) IsHealthy() bool {
	return h.Status == HealthStatusHealthy
}

func validateQuery(query string, maxResults int) error {
	if strings.TrimSpace(query) == "" {
		return ErrInvalidInput
	}
	if maxResults < 1 {
		return ErrInvalidInput
	}
	return nil
}
