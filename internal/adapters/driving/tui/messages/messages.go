// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/vedika/internal/core/domain"
)

// Mode selects what submitting a question does.
type Mode int

const (
	// ModeAsk retrieves and synthesises an answer.
	ModeAsk Mode = iota
	// ModeSearch only retrieves.
	ModeSearch
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeAsk:
		return "ask"
	case ModeSearch:
		return "search"
	default:
		return "unknown"
	}
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == ModeAsk {
		return ModeSearch
	}
	return ModeAsk
}

// AskCompleted carries an answer back to the model.
type AskCompleted struct {
	Response *domain.AskResponse
	Err      error
}

// SearchCompleted carries retrieval results back to the model.
type SearchCompleted struct {
	Response *domain.SearchResponse
	Err      error
}

// ResultSelected is sent when a source document is opened.
type ResultSelected struct {
	Result domain.QueryResult
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewAsk is the question input, answer and sources view.
	ViewAsk ViewType = iota
	// ViewSource shows one retrieved document.
	ViewSource
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewAsk:
		return "ask"
	case ViewSource:
		return "source"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
