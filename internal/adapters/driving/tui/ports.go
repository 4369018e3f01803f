// Package tui provides an interactive terminal interface for asking
// questions of the knowledge base.
package tui

import (
	"github.com/custodia-labs/vedika/internal/core/ports/driving"
)

// Ports aggregates the driving ports required by the TUI.
type Ports struct {
	// Query answers and searches.
	Query driving.QueryService

	// MaxResults is the number of documents retrieved per question.
	// Zero uses the default.
	MaxResults int
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Query == nil {
		return ErrMissingQueryService
	}
	return nil
}
