package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/vedika/internal/core/domain"
)

const uriScheme = "vedika://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "health",
		Name:        "health",
		Description: "Vector index connectivity and generative backend configuration",
		MIMEType:    "application/json",
	}, s.handleHealthResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "categories",
		Name:        "categories",
		Description: "Record categories with dedicated text templates",
		MIMEType:    "application/json",
	}, s.handleCategoriesResource)
}

func (s *Server) handleHealthResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	h := s.ports.Query.Health(ctx)

	info := struct {
		Status                      string `json:"status"`
		IndexConnected              bool   `json:"index_connected"`
		GenerativeBackendConfigured bool   `json:"generative_backend_configured"`
		Timestamp                   string `json:"timestamp"`
	}{
		Status:                      h.Status,
		IndexConnected:              h.IndexConnected,
		GenerativeBackendConfigured: h.GenerativeBackendConfigured,
		Timestamp:                   h.Timestamp.Format(time.RFC3339),
	}

	return jsonResource(req.Params.URI, info)
}

func (s *Server) handleCategoriesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	categories := domain.KnownCategories()
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.String()
	}
	return jsonResource(req.Params.URI, names)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
