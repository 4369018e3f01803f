package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/custodia-labs/vedika/internal/core/domain"
	"github.com/custodia-labs/vedika/internal/logger"
)

const maxRequestBody = 1 << 20

type infoResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
	Docs    string `json:"docs"`
}

type healthResponse struct {
	Status                      string `json:"status"`
	IndexConnected              bool   `json:"index_connected"`
	GenerativeBackendConfigured bool   `json:"generative_backend_configured"`
	Timestamp                   string `json:"timestamp"`
}

type queryRequest struct {
	Query           string `json:"query"`
	MaxResults      int    `json:"max_results"`
	IncludeMetadata bool   `json:"include_metadata"`
}

type documentResponse struct {
	Content  string            `json:"content"`
	Distance float64           `json:"distance"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type queryResponse struct {
	Answer            string             `json:"answer"`
	RelevantDocuments []documentResponse `json:"relevant_documents"`
	Query             string             `json:"query"`
	Timestamp         string             `json:"timestamp"`
	ModelUsed         string             `json:"model_used"`
}

type searchResponse struct {
	Query     string             `json:"query"`
	Results   []documentResponse `json:"results"`
	Count     int                `json:"count"`
	Timestamp string             `json:"timestamp"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, infoResponse{
		Message: ServiceMessage,
		Version: s.version,
		Docs:    "/docs",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	h := s.query.Health(r.Context())
	writeJSON(w, http.StatusOK, healthResponse{
		Status:                      h.Status,
		IndexConnected:              h.IndexConnected,
		GenerativeBackendConfigured: h.GenerativeBackendConfigured,
		Timestamp:                   formatTime(h.Timestamp),
	})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	req := queryRequest{
		MaxResults:      domain.DefaultMaxResults,
		IncludeMetadata: true,
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	if err := dec.Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	resp, err := s.query.Ask(r.Context(), domain.AskRequest{
		Query:           req.Query,
		MaxResults:      req.MaxResults,
		IncludeMetadata: req.IncludeMetadata,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, queryResponse{
		Answer:            resp.Answer.Text,
		RelevantDocuments: toDocuments(resp.Answer.SourceDocuments, resp.IncludeMetadata),
		Query:             resp.Query,
		Timestamp:         formatTime(resp.Answer.GeneratedAt),
		ModelUsed:         resp.Answer.ModelUsed,
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	maxResults := domain.DefaultMaxResults
	if raw := q.Get("max_results"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeDetail(w, http.StatusBadRequest, "max_results must be an integer")
			return
		}
		maxResults = n
	}

	resp, err := s.query.Search(r.Context(), domain.SearchRequest{
		Query:      q.Get("query"),
		MaxResults: maxResults,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Query:     resp.Query,
		Results:   toDocuments(resp.Results, true),
		Count:     len(resp.Results),
		Timestamp: formatTime(resp.Timestamp),
	})
}

func toDocuments(results []domain.QueryResult, includeMetadata bool) []documentResponse {
	docs := make([]documentResponse, len(results))
	for i, res := range results {
		docs[i] = documentResponse{
			Content:  res.Document.EmbeddingText,
			Distance: res.Distance,
		}
		if includeMetadata && len(res.Document.Metadata) > 0 {
			docs[i].Metadata = res.Document.Metadata
		}
	}
	return docs
}

// statusFor maps a pipeline error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrIndexUnavailable), errors.Is(err, domain.ErrEmbeddingMismatch):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	switch status {
	case http.StatusBadRequest:
		writeDetail(w, status, "query must be non-empty and max_results at least 1")
	case http.StatusServiceUnavailable:
		logger.Warn("Index unavailable: %v", err)
		if errors.Is(err, domain.ErrEmbeddingMismatch) {
			writeDetail(w, status, "Vector index was built with a different embedding model; run 'vedika ingest --rebuild'")
			return
		}
		writeDetail(w, status, "Vector index not available")
	default:
		logger.Error("Error processing request: %v", err)
		writeDetail(w, status, "Internal server error: "+err.Error())
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug("write response: %v", err)
	}
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}
