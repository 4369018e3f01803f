package ask

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vedika/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/vedika/internal/core/domain"
)

type mockQueryService struct {
	answer  domain.Answer
	results []domain.QueryResult
	err     error

	lastAsk    *domain.AskRequest
	lastSearch *domain.SearchRequest
}

func (m *mockQueryService) Ask(_ context.Context, req domain.AskRequest) (*domain.AskResponse, error) {
	m.lastAsk = &req
	if m.err != nil {
		return nil, m.err
	}
	return &domain.AskResponse{Answer: m.answer, Query: req.Query}, nil
}

func (m *mockQueryService) Search(_ context.Context, req domain.SearchRequest) (*domain.SearchResponse, error) {
	m.lastSearch = &req
	if m.err != nil {
		return nil, m.err
	}
	return &domain.SearchResponse{Query: req.Query, Results: m.results, Timestamp: time.Now()}, nil
}

func (m *mockQueryService) Health(_ context.Context) domain.HealthStatus {
	return domain.HealthStatus{}
}

func sources() []domain.QueryResult {
	return []domain.QueryResult{
		{
			Document: domain.Document{
				ID:            "spacecrafts_1_11111111",
				EmbeddingText: "Spacecraft: Aryabhata with ID 1",
				Metadata:      map[string]string{domain.MetadataCategory: "spacecrafts", domain.MetadataRecordName: "Aryabhata"},
			},
			Distance: 0.1,
		},
		{
			Document: domain.Document{
				ID:            "launchers_2_22222222",
				EmbeddingText: "Launcher: SLV-3 with ID 2",
				Metadata:      map[string]string{domain.MetadataCategory: "launchers", domain.MetadataRecordName: "SLV-3"},
			},
			Distance: 0.3,
		},
	}
}

func typeText(v *View, text string) *View {
	for _, r := range text {
		v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return v
}

func newReadyView(svc *mockQueryService) *View {
	v := NewView(nil, nil, svc)
	v.SetDimensions(100, 40)
	return v
}

func TestNewView(t *testing.T) {
	v := NewView(nil, nil, nil)

	require.NotNil(t, v)
	assert.False(t, v.Ready())
	assert.True(t, v.InputFocused())
	assert.Equal(t, messages.ModeAsk, v.Mode())
	assert.Equal(t, "Initialising...", v.View())
}

func TestView_SubmitAsk(t *testing.T) {
	svc := &mockQueryService{answer: domain.Answer{
		Text:            "Aryabhata was India's first satellite.",
		SourceDocuments: sources(),
		ModelUsed:       "qwen/qwen3-30b-a3b:free",
		Mode:            domain.AnswerModeGenerated,
	}}
	v := newReadyView(svc).WithMaxResults(3)
	v = typeText(v, "first satellite")

	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg := cmd()

	completed, ok := msg.(messages.AskCompleted)
	require.True(t, ok)
	require.NotNil(t, svc.lastAsk)
	assert.Equal(t, domain.AskRequest{Query: "first satellite", MaxResults: 3, IncludeMetadata: true}, *svc.lastAsk)

	v, _ = v.Update(completed)

	require.NotNil(t, v.Answer())
	assert.Len(t, v.Results(), 2)
	assert.False(t, v.InputFocused())
	view := v.View()
	assert.Contains(t, view, "Aryabhata was India's first satellite.")
	assert.Contains(t, view, "qwen/qwen3-30b-a3b:free")
	assert.Contains(t, view, "Sources (2)")
}

func TestView_EmptyInputDoesNothing(t *testing.T) {
	v := newReadyView(&mockQueryService{})
	v = typeText(v, "   ")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
}

func TestView_SearchMode(t *testing.T) {
	svc := &mockQueryService{results: sources()}
	v := newReadyView(svc)

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, messages.ModeSearch, v.Mode())

	v = typeText(v, "SLV")
	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg := cmd()

	completed, ok := msg.(messages.SearchCompleted)
	require.True(t, ok)
	assert.Nil(t, svc.lastAsk)
	assert.Equal(t, domain.DefaultMaxResults, svc.lastSearch.MaxResults)

	v, _ = v.Update(completed)
	assert.Nil(t, v.Answer())
	assert.Len(t, v.Results(), 2)
	assert.Contains(t, v.View(), "Search:")
}

func TestView_FallbackAnswerIsFlagged(t *testing.T) {
	v := newReadyView(&mockQueryService{})

	v, _ = v.Update(messages.AskCompleted{Response: &domain.AskResponse{Answer: domain.Answer{
		Text:            "Based on the available ISRO data...",
		SourceDocuments: sources(),
		ModelUsed:       "extractive-fallback",
		Mode:            domain.AnswerModeFallback,
	}}})

	assert.Contains(t, v.View(), "extractive summary")
}

func TestView_NoMatchKeepsInputFocused(t *testing.T) {
	v := newReadyView(&mockQueryService{})

	v, _ = v.Update(messages.AskCompleted{Response: &domain.AskResponse{Answer: domain.Answer{
		Text: "I couldn't find any relevant information in the ISRO database for your query.",
		Mode: domain.AnswerModeNoMatch,
	}}})

	assert.True(t, v.InputFocused())
	assert.Contains(t, v.View(), "couldn't find")
}

func TestView_ErrorFromService(t *testing.T) {
	svc := &mockQueryService{err: domain.ErrIndexUnavailable}
	v := newReadyView(svc)
	v = typeText(v, "x")

	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	v, _ = v.Update(cmd())

	assert.ErrorIs(t, v.Err(), domain.ErrIndexUnavailable)
	assert.Contains(t, v.View(), "vector index unavailable")
}

func TestView_NilServiceReportsError(t *testing.T) {
	v := NewView(nil, nil, nil)
	v.SetDimensions(80, 24)
	v = typeText(v, "x")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	msg := cmd()

	errMsg, ok := msg.(messages.ErrorOccurred)
	require.True(t, ok)
	assert.ErrorIs(t, errMsg.Err, ErrNoQueryService)
}

func TestView_ResultsNavigationAndSelect(t *testing.T) {
	v := newReadyView(&mockQueryService{})
	v, _ = v.Update(messages.SearchCompleted{Response: &domain.SearchResponse{Results: sources()}})

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, "SLV-3", v.SelectedResult().Document.RecordName())

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	sel, ok := cmd().(messages.ResultSelected)
	require.True(t, ok)
	assert.Equal(t, "launchers_2_22222222", sel.Result.Document.ID)
}

func TestView_NewQuestionRefocusesInput(t *testing.T) {
	v := newReadyView(&mockQueryService{})
	v.SetQuestion("old")
	v, _ = v.Update(messages.SearchCompleted{Response: &domain.SearchResponse{Results: sources()}})
	require.False(t, v.InputFocused())

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})

	assert.True(t, v.InputFocused())
	assert.Equal(t, "", v.Question())
}

func TestView_EscInInputQuits(t *testing.T) {
	v := newReadyView(&mockQueryService{})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.Quit{}, cmd())
}

func TestView_HelpFromResults(t *testing.T) {
	v := newReadyView(&mockQueryService{})
	v, _ = v.Update(messages.SearchCompleted{Response: &domain.SearchResponse{Results: sources()}})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewHelp}, cmd())
}

func TestView_ErrorOccurredMessage(t *testing.T) {
	v := newReadyView(&mockQueryService{})

	v, _ = v.Update(messages.ErrorOccurred{Err: errors.New("boom")})

	assert.EqualError(t, v.Err(), "boom")
}

func TestView_WithMaxResultsIgnoresNonPositive(t *testing.T) {
	v := NewView(nil, nil, nil).WithMaxResults(0)

	assert.Equal(t, domain.DefaultMaxResults, v.maxResults)
}
