package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vedika/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/vedika/internal/core/domain"
)

func newTestApp(t *testing.T, svc *MockQueryService) *App {
	t.Helper()
	if svc == nil {
		svc = &MockQueryService{}
	}
	app, err := NewApp(&Ports{Query: svc})
	require.NoError(t, err)
	app.SetDimensions(100, 40)
	return app
}

func aryabhataResult() domain.QueryResult {
	return domain.QueryResult{
		Document: domain.Document{
			ID:            "spacecrafts_1_0f0f0f0f",
			EmbeddingText: "Spacecraft: Aryabhata with ID 1",
			Metadata:      map[string]string{domain.MetadataCategory: "spacecrafts", domain.MetadataRecordName: "Aryabhata"},
		},
		Distance: 0.2,
	}
}

func TestNewApp_Success(t *testing.T) {
	app, err := NewApp(&Ports{Query: &MockQueryService{}})

	require.NoError(t, err)
	assert.Equal(t, messages.ViewAsk, app.CurrentView())
	assert.False(t, app.Ready())
	assert.Equal(t, "Initialising...", app.View())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	app, err := NewApp(&Ports{})

	assert.ErrorIs(t, err, ErrMissingQueryService)
	assert.Nil(t, app)
}

func TestApp_Init(t *testing.T) {
	app := newTestApp(t, nil)

	assert.NotNil(t, app.Init())
}

func TestApp_WindowSize(t *testing.T) {
	app, err := NewApp(&Ports{Query: &MockQueryService{}})
	require.NoError(t, err)

	model, cmd := app.Update(tea.WindowSizeMsg{Width: 120, Height: 30})

	assert.Nil(t, cmd)
	assert.True(t, model.(*App).Ready())
	assert.Contains(t, app.View(), "Vedika")
}

func TestApp_CtrlCQuits(t *testing.T) {
	app := newTestApp(t, nil)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_QuitMessage(t *testing.T) {
	app := newTestApp(t, nil)

	_, cmd := app.Update(messages.Quit{})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_AskFlowUsesContextAndMaxResults(t *testing.T) {
	type ctxKey struct{}
	var gotCtx context.Context
	var gotReq domain.AskRequest

	svc := &MockQueryService{AskFunc: func(ctx context.Context, req domain.AskRequest) (*domain.AskResponse, error) {
		gotCtx = ctx
		gotReq = req
		return &domain.AskResponse{Answer: domain.Answer{
			Text:            "Aryabhata was launched on 19 April 1975.",
			SourceDocuments: []domain.QueryResult{aryabhataResult()},
			Mode:            domain.AnswerModeGenerated,
			ModelUsed:       "mock",
		}}, nil
	}}
	app, err := NewApp(&Ports{Query: svc, MaxResults: 2})
	require.NoError(t, err)
	ctx := context.WithValue(context.Background(), ctxKey{}, "v")
	app.WithContext(ctx).WithQuestion("When was Aryabhata launched?")
	app.SetDimensions(100, 40)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	app.Update(cmd())

	assert.Equal(t, "v", gotCtx.Value(ctxKey{}))
	assert.Equal(t, 2, gotReq.MaxResults)
	assert.Equal(t, "When was Aryabhata launched?", gotReq.Query)
	assert.Contains(t, app.View(), "19 April 1975")
}

func TestApp_ResultSelectedOpensSourceView(t *testing.T) {
	app := newTestApp(t, nil)

	app.Update(messages.ResultSelected{Result: aryabhataResult()})

	assert.Equal(t, messages.ViewSource, app.CurrentView())
	assert.Contains(t, app.View(), "Spacecraft: Aryabhata with ID 1")

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	app.Update(cmd())
	assert.Equal(t, messages.ViewAsk, app.CurrentView())
}

func TestApp_HelpView(t *testing.T) {
	app := newTestApp(t, nil)

	app.Update(messages.ViewChanged{View: messages.ViewHelp})
	assert.Contains(t, app.View(), "Switch between ask and search")

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewAsk, app.CurrentView())
}

func TestApp_ErrorOccurred(t *testing.T) {
	app := newTestApp(t, nil)

	app.Update(messages.ErrorOccurred{Err: errors.New("index gone")})

	assert.EqualError(t, app.Err(), "index gone")
	assert.Contains(t, app.View(), "index gone")
}
