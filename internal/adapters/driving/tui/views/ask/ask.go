// Package ask provides the question and answer view for the TUI.
package ask

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/vedika/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/vedika/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/vedika/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/vedika/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/vedika/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/vedika/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/vedika/internal/core/domain"
	"github.com/custodia-labs/vedika/internal/core/ports/driving"
)

// ErrNoQueryService indicates that no query service was provided.
var ErrNoQueryService = errors.New("query service is required")

// View is the ask view: question input, answer, and the sources list.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QuestionInput
	list      *list.ResultList
	statusbar *status.Bar

	query      driving.QueryService
	ctx        context.Context
	maxResults int

	mode       messages.Mode
	answer     *domain.Answer
	width      int
	height     int
	ready      bool
	err        error
	focusInput bool
}

// NewView creates a new ask view.
func NewView(s *styles.Styles, km *keymap.KeyMap, query driving.QueryService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:     s,
		keymap:     km,
		input:      input.NewQuestionInput(s),
		list:       list.NewResultList(s),
		statusbar:  status.NewBar(s, km),
		query:      query,
		ctx:        context.Background(),
		maxResults: domain.DefaultMaxResults,
		mode:       messages.ModeAsk,
		width:      80,
		height:     24,
		focusInput: true,
	}
}

// WithContext sets the context for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// WithMaxResults sets how many documents are retrieved per question.
func (v *View) WithMaxResults(n int) *View {
	if n > 0 {
		v.maxResults = n
	}
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the ask view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AskCompleted:
		v.handleAskCompleted(msg)
		return v, nil

	case messages.SearchCompleted:
		v.handleSearchCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	if v.focusInput {
		v.input, cmd = v.input.Update(msg)
	}
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.focusInput {
		return v.handleInputKey(msg)
	}

	switch {
	case keymap.Matches(msg.String(), v.keymap.Select):
		if result := v.list.SelectedResult(); result != nil {
			selected := *result
			return v, func() tea.Msg { return messages.ResultSelected{Result: selected} }
		}
		return v, nil
	case keymap.Matches(msg.String(), v.keymap.NewQuestion),
		keymap.Matches(msg.String(), v.keymap.Back):
		v.focusInput = true
		v.input.SetValue("")
		return v, v.input.Focus()
	case keymap.Matches(msg.String(), v.keymap.Help):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewHelp} }
	}

	v.list, _ = v.list.Update(msg)
	return v, nil
}

func (v *View) handleInputKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc:
		return v, func() tea.Msg { return messages.Quit{} }

	case msg.Type == tea.KeyTab:
		v.SetMode(v.mode.Toggle())
		return v, nil

	case msg.Type == tea.KeyEnter:
		question := strings.TrimSpace(v.input.Value())
		if question == "" {
			return v, nil
		}
		v.err = nil
		v.statusbar.SetState(status.StateThinking)
		v.statusbar.SetMessage("")
		return v, v.submit(question)
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// submit runs the current mode against the query service.
func (v *View) submit(question string) tea.Cmd {
	mode := v.mode
	ctx := v.ctx
	maxResults := v.maxResults
	svc := v.query

	return func() tea.Msg {
		if svc == nil {
			return messages.ErrorOccurred{Err: ErrNoQueryService}
		}
		if mode == messages.ModeSearch {
			resp, err := svc.Search(ctx, domain.SearchRequest{Query: question, MaxResults: maxResults})
			return messages.SearchCompleted{Response: resp, Err: err}
		}
		resp, err := svc.Ask(ctx, domain.AskRequest{Query: question, MaxResults: maxResults, IncludeMetadata: true})
		return messages.AskCompleted{Response: resp, Err: err}
	}
}

func (v *View) handleAskCompleted(msg messages.AskCompleted) {
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}
	answer := msg.Response.Answer
	v.answer = &answer
	v.showResults(answer.SourceDocuments, answer.Mode.String())
}

func (v *View) handleSearchCompleted(msg messages.SearchCompleted) {
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}
	v.answer = nil
	v.showResults(msg.Response.Results, "search")
}

func (v *View) showResults(results []domain.QueryResult, note string) {
	v.err = nil
	v.list.SetResults(results)
	v.statusbar.SetState(status.StateResults)
	v.statusbar.SetResultCount(len(results))
	v.statusbar.SetMessage(note)

	if len(results) > 0 {
		v.focusInput = false
		v.input.Blur()
	}
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// View renders the ask view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 10)
	sections = append(sections, v.styles.Title.Render("Vedika")+
		v.styles.Muted.Render("  ISRO knowledge assistant"), "")
	sections = append(sections, v.input.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	if v.answer != nil {
		sections = append(sections, v.renderAnswer(), "")
	}

	if v.answer != nil || !v.list.IsEmpty() {
		sections = append(sections, v.list.View())
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) renderAnswer() string {
	header := v.styles.Subtitle.Render("Answer")
	switch v.answer.Mode {
	case domain.AnswerModeFallback:
		header += " " + v.styles.Warning.Render("(no generative backend, extractive summary)")
	case domain.AnswerModeBackendError:
		header += " " + v.styles.Error.Render("(generation failed)")
	case domain.AnswerModeGenerated, domain.AnswerModeNoMatch:
		header += " " + v.styles.Muted.Render("("+v.answer.ModelUsed+")")
	}

	width := v.width - 4
	if width < 20 {
		width = 20
	}
	body := v.styles.Answer.Width(width).Render(v.answer.Text)
	return header + "\n" + body
}

// SetMode switches between ask and search.
func (v *View) SetMode(mode messages.Mode) {
	v.mode = mode
	if mode == messages.ModeSearch {
		v.input.SetLabel("Search")
	} else {
		v.input.SetLabel("Ask")
	}
}

// Mode returns the current mode.
func (v *View) Mode() messages.Mode {
	return v.mode
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height/2)
	v.statusbar.SetWidth(width)
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Question returns the current input value.
func (v *View) Question() string {
	return v.input.Value()
}

// SetQuestion sets the input value.
func (v *View) SetQuestion(q string) {
	v.input.SetValue(q)
}

// Answer returns the last answer, nil after a search.
func (v *View) Answer() *domain.Answer {
	return v.answer
}

// Results returns the current sources.
func (v *View) Results() []domain.QueryResult {
	return v.list.Results()
}

// SelectedResult returns the highlighted source.
func (v *View) SelectedResult() *domain.QueryResult {
	return v.list.SelectedResult()
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}
