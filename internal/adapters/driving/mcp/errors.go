// Package mcp provides an MCP (Model Context Protocol) server adapter for Vedika.
// It lets assistants ask questions of, and search, the ISRO knowledge base.
package mcp

import "errors"

// ErrMissingQueryService is returned when the query service is not provided.
var ErrMissingQueryService = errors.New("mcp: query service is required")
