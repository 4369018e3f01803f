package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/vedika/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/vedika/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/vedika/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/vedika/internal/adapters/driving/tui/views/ask"
	"github.com/custodia-labs/vedika/internal/adapters/driving/tui/views/source"
)

// App is the TUI root model. It routes messages between the ask view and
// the source view.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles

	askView    *ask.View
	sourceView *source.View

	currentView messages.ViewType
	err         error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		askView:     ask.NewView(s, km, ports.Query).WithMaxResults(ports.MaxResults),
		sourceView:  source.NewView(s),
		currentView: messages.ViewAsk,
	}, nil
}

// WithContext sets the context used for service calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.askView.WithContext(ctx)
	return a
}

// WithQuestion pre-fills the question input.
func (a *App) WithQuestion(q string) *App {
	a.askView.SetQuestion(q)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("Vedika - ISRO Knowledge Assistant"),
		a.askView.Init(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		switch a.currentView {
		case messages.ViewAsk:
			a.askView, cmd = a.askView.Update(msg)
		case messages.ViewSource:
			a.sourceView, cmd = a.sourceView.Update(msg)
		case messages.ViewHelp:
			if msg.Type == tea.KeyEsc || msg.String() == "q" {
				a.currentView = messages.ViewAsk
			}
		}
		return a, cmd

	case messages.ViewChanged:
		a.currentView = msg.View
		return a, nil

	case messages.ResultSelected:
		a.sourceView.SetResult(msg.Result)
		a.currentView = messages.ViewSource
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.askView, cmd = a.askView.Update(msg)
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	// Service replies and cursor blinks belong to the ask view.
	a.askView, cmd = a.askView.Update(msg)
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewSource:
		return a.sourceView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	case messages.ViewAsk:
	}
	return a.askView.View()
}

func (a *App) viewHelp() string {
	return a.styles.Title.Render("Help") + `

Question:
  (type)      Enter a question
  enter       Ask (or search)
  tab         Switch between ask and search
  esc         Quit

Sources:
  j/k, ↑/↓    Navigate sources
  enter       Open source
  n, esc      New question

Anywhere:
  ctrl+c      Quit

` + a.styles.Help.Render("[esc] back")
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error reported to the app.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been sized.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.askView.SetDimensions(width, height)
	a.sourceView.SetDimensions(width, height)
}
