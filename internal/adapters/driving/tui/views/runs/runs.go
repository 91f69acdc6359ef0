// Package runs provides the archived runs view for the TUI.
package runs

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/daisytext/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/daisytext/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/daisytext/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/daisytext/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/daisytext/internal/core/domain"
	"github.com/custodia-labs/daisytext/internal/core/ports/driving"
)

// timeLayout formats run start times.
const timeLayout = "2006-01-02 15:04"

// View lists archived runs, most recent first.
type View struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	runService driving.RunService
	ctx        context.Context

	runs     []domain.Run
	selected int
	loading  bool
	err      error
	width    int
	height   int
}

// NewView creates a new runs view.
func NewView(s *styles.Styles, runService driving.RunService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:     s,
		keymap:     keymap.DefaultKeyMap(),
		runService: runService,
		ctx:        context.Background(),
		width:      80,
		height:     24,
	}
}

// SetContext sets the context used for service calls.
func (v *View) SetContext(ctx context.Context) {
	v.ctx = ctx
}

// Init loads the runs.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.loadRuns()
}

func (v *View) loadRuns() tea.Cmd {
	svc := v.runService
	ctx := v.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.RunsLoaded{Err: fmt.Errorf("run archive not available")}
		}
		runs, err := svc.List(ctx)
		return messages.RunsLoaded{Runs: runs, Err: err}
	}
}

// Update handles messages for the runs view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.RunsLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.runs = msg.Runs
			if v.selected >= len(v.runs) {
				v.selected = 0
			}
		}
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}
	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	switch {
	case keymap.Matches(k, v.keymap.Up):
		if v.selected > 0 {
			v.selected--
		}
	case keymap.Matches(k, v.keymap.Down):
		if v.selected < len(v.runs)-1 {
			v.selected++
		}
	case keymap.Matches(k, v.keymap.Top):
		v.selected = 0
	case keymap.Matches(k, v.keymap.Bottom):
		if len(v.runs) > 0 {
			v.selected = len(v.runs) - 1
		}
	case keymap.Matches(k, v.keymap.Select):
		run, ok := v.SelectedRun()
		if !ok {
			return v, nil
		}
		return v, func() tea.Msg { return messages.RunSelected{ID: run.ID} }
	case k == "r":
		v.loading = true
		return v, v.loadRuns()
	case keymap.Matches(k, v.keymap.Help):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewHelp} }
	case keymap.Matches(k, v.keymap.Quit):
		return v, tea.Quit
	}
	return v, nil
}

// View renders the runs list.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Archived runs"))
	b.WriteString("\n\n")

	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %v", v.err)))
		return b.String()
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading runs..."))
		return b.String()
	case len(v.runs) == 0:
		b.WriteString(v.styles.Muted.Render("No archived runs. Run `daisytext run` with archive.enabled = true."))
		return b.String()
	}

	rows := v.height - 3
	if rows < 1 {
		rows = 1
	}
	start := 0
	if v.selected >= rows {
		start = v.selected - rows + 1
	}
	end := start + rows
	if end > len(v.runs) {
		end = len(v.runs)
	}

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, v.renderRun(i))
	}
	b.WriteString(strings.Join(lines, "\n"))
	return b.String()
}

func (v *View) renderRun(i int) string {
	run := v.runs[i]
	id := run.ID
	if len(id) > 8 {
		id = id[:8]
	}

	row := fmt.Sprintf("%s  %s  %-9s  %5d segments  ",
		id, run.StartedAt.Local().Format(timeLayout), run.Strategy, run.SegmentCount)
	sourceWidth := v.width - len(row) - 2
	if sourceWidth < 10 {
		sourceWidth = 10
	}
	row += list.Truncate(run.Source, sourceWidth)

	if i == v.selected {
		return v.styles.Selected.Render("> " + row)
	}
	return "  " + v.styles.Normal.Render(row)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Runs returns the loaded runs.
func (v *View) Runs() []domain.Run {
	return v.runs
}

// Selected returns the selected row.
func (v *View) Selected() int {
	return v.selected
}

// SelectedRun returns the selected run.
func (v *View) SelectedRun() (domain.Run, bool) {
	if v.selected < 0 || v.selected >= len(v.runs) {
		return domain.Run{}, false
	}
	return v.runs[v.selected], true
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
