package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/daisytext/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/daisytext/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/daisytext/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/daisytext/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/daisytext/internal/adapters/driving/tui/views/runs"
	"github.com/custodia-labs/daisytext/internal/adapters/driving/tui/views/segments"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	runsView     *runs.View
	segmentsView *segments.View
	statusBar    *status.Bar

	// currentView tracks which view is active.
	currentView messages.ViewType

	// previousView is restored when leaving help.
	previousView messages.ViewType

	// hasSegments is set once segments were provided or loaded.
	hasSegments bool

	err    error
	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// Option configures an App.
type Option func(*App)

// WithSegments opens the app on the given segments instead of the run list.
func WithSegments(title string, segs, warnings []string) Option {
	return func(a *App) {
		a.segmentsView.SetSegments(title, segs, warnings)
		a.hasSegments = true
		a.currentView = messages.ViewSegments
	}
}

// NewApp creates a new TUI application. The app needs either a run
// archive in ports or segments supplied with WithSegments.
func NewApp(ports *Ports, opts ...Option) (*App, error) {
	if ports == nil {
		ports = &Ports{}
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	a := &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		keymap:       km,
		runsView:     runs.NewView(s, ports.Runs),
		segmentsView: segments.NewView(s),
		statusBar:    status.NewBar(s, km),
		currentView:  messages.ViewRuns,
	}
	for _, opt := range opts {
		opt(a)
	}

	if !a.hasSegments && ports.Runs == nil {
		return nil, fmt.Errorf("creating app: %w", ErrNothingToBrowse)
	}
	a.segmentsView.SetCanGoBack(ports.Runs != nil)
	a.syncStatus()
	return a, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.runsView.SetContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.SetWindowTitle("daisytext")}
	if a.ports.Runs != nil {
		cmds = append(cmds, a.runsView.Init())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
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
		case messages.ViewRuns:
			a.runsView, cmd = a.runsView.Update(msg)
		case messages.ViewSegments:
			a.segmentsView, cmd = a.segmentsView.Update(msg)
		case messages.ViewHelp:
			if keymap.Matches(msg.String(), a.keymap.Quit) {
				return a, tea.Quit
			}
			if msg.Type == tea.KeyEsc || keymap.Matches(msg.String(), a.keymap.Help) {
				a.currentView = a.previousView
			}
		}
		a.syncStatus()
		return a, cmd

	case messages.ViewChanged:
		if msg.View == messages.ViewHelp {
			a.previousView = a.currentView
		}
		a.currentView = msg.View
		if msg.View == messages.ViewRuns && a.ports.Runs != nil {
			cmd = a.runsView.Init()
		}
		a.syncStatus()
		return a, cmd

	case messages.RunsLoaded:
		a.runsView, cmd = a.runsView.Update(msg)
		a.err = msg.Err
		a.syncStatus()
		return a, cmd

	case messages.RunSelected:
		a.statusBar.SetState(status.StateLoading)
		return a, a.loadRun(msg.ID)

	case messages.RunLoaded:
		if msg.Err != nil {
			a.err = msg.Err
			a.syncStatus()
			return a, nil
		}
		a.err = nil
		run := msg.Result
		title := fmt.Sprintf("Run %s  %s", shortID(run.Run.ID), run.Run.Source)
		return a.Update(messages.SegmentsOpened{
			Title:    title,
			Segments: run.Segments,
			Warnings: run.Warnings,
		})

	case messages.SegmentsOpened:
		a.segmentsView.SetSegments(msg.Title, msg.Segments, msg.Warnings)
		a.hasSegments = true
		a.currentView = messages.ViewSegments
		a.syncStatus()
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		if a.currentView == messages.ViewRuns {
			a.runsView, cmd = a.runsView.Update(msg)
		}
		a.syncStatus()
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	return a, nil
}

func (a *App) loadRun(id string) tea.Cmd {
	svc := a.ports.Runs
	ctx := a.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.RunLoaded{Err: ErrNothingToBrowse}
		}
		result, err := svc.Get(ctx, id)
		return messages.RunLoaded{Result: result, Err: err}
	}
}

// syncStatus mirrors the active view into the status bar.
func (a *App) syncStatus() {
	a.statusBar.Clear()
	switch {
	case a.err != nil:
		a.statusBar.SetState(status.StateError)
		a.statusBar.SetMessage(a.err.Error())
	case a.currentView == messages.ViewHelp:
		a.statusBar.SetState(status.StateHelp)
	case a.currentView == messages.ViewRuns:
		n := len(a.runsView.Runs())
		a.statusBar.SetCounts(n, n)
		a.statusBar.SetState(status.StateRuns)
	default:
		shown, total := a.segmentsView.Counts()
		a.statusBar.SetCounts(shown, total)
		if a.segmentsView.Filtering() {
			a.statusBar.SetState(status.StateFiltering)
		} else {
			a.statusBar.SetState(status.StateReady)
		}
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewSegments:
		body = a.segmentsView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	default:
		body = a.runsView.View()
	}
	return body + "\n" + a.statusBar.View()
}

func (a *App) viewHelp() string {
	return a.styles.Title.Render("Help") + `

Runs:
  j/k, ↑/↓    Navigate runs
  enter       Browse segments of the run
  r           Reload
  q           Quit

Segments:
  j/k, ↑/↓    Navigate segments
  pgup/pgdn   Page through segments
  g/G         First/last segment
  /           Filter segments
  esc         Clear filter, then back to runs
  q           Quit

[esc] back`
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

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has received its dimensions.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	// One line for the status bar.
	a.runsView.SetDimensions(width, height-1)
	a.segmentsView.SetDimensions(width, height-1)
	a.statusBar.SetWidth(width)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
