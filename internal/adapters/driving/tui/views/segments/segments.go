// Package segments provides the segment browser view for the TUI.
package segments

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/daisytext/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/daisytext/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/daisytext/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/daisytext/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/daisytext/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/daisytext/internal/core/domain"
)

const (
	headerLines = 2
	filterLines = 3
	detailLines = 6
)

// View browses a segment sequence with filtering and a detail pane.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	list   *list.SegmentList
	filter *input.FilterInput

	title     string
	warnings  []string
	canGoBack bool
	width     int
	height    int
}

// NewView creates a new segments view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	v := &View{
		styles: s,
		keymap: keymap.DefaultKeyMap(),
		list:   list.NewSegmentList(s),
		filter: input.NewFilterInput(s),
		width:  80,
		height: 24,
	}
	v.layout()
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// SetSegments replaces the browsed segments.
func (v *View) SetSegments(title string, segments, warnings []string) {
	v.title = title
	v.warnings = warnings
	v.filter.Reset()
	v.filter.Blur()
	v.list.SetSegments(segments)
	v.layout()
}

// SetCanGoBack enables returning to the runs view with esc.
func (v *View) SetCanGoBack(canGoBack bool) {
	v.canGoBack = canGoBack
}

// Update handles messages for the segments view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	if v.filter.Focused() {
		return v.handleFilterKey(keyMsg)
	}

	k := keyMsg.String()
	switch {
	case keymap.Matches(k, v.keymap.Filter):
		cmd := v.filter.Focus()
		v.layout()
		return v, cmd
	case keymap.Matches(k, v.keymap.Back):
		if v.list.Filter() != "" {
			v.clearFilter()
			return v, nil
		}
		if v.canGoBack {
			return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewRuns} }
		}
		return v, nil
	case keymap.Matches(k, v.keymap.Help):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewHelp} }
	case keymap.Matches(k, v.keymap.Quit):
		return v, tea.Quit
	}

	v.list, _ = v.list.Update(keyMsg)
	return v, nil
}

func (v *View) handleFilterKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type { //nolint:exhaustive // only filter control keys
	case tea.KeyEsc:
		v.clearFilter()
		return v, nil
	case tea.KeyEnter:
		v.filter.Blur()
		v.layout()
		return v, nil
	case tea.KeyUp, tea.KeyDown:
		v.list, _ = v.list.Update(msg)
		return v, nil
	}

	var cmd tea.Cmd
	v.filter, cmd = v.filter.Update(msg)
	if v.filter.Value() != v.list.Filter() {
		v.list.SetFilter(v.filter.Value())
	}
	return v, cmd
}

func (v *View) clearFilter() {
	v.filter.Reset()
	v.filter.Blur()
	v.list.SetFilter("")
	v.layout()
}

// View renders the segments view.
func (v *View) View() string {
	parts := []string{v.renderHeader()}
	if v.showFilter() {
		parts = append(parts, v.filter.View())
	}
	parts = append(parts, v.list.View(), v.renderDetail())
	return strings.Join(parts, "\n")
}

func (v *View) renderHeader() string {
	title := v.title
	if title == "" {
		title = "Segments"
	}
	header := v.styles.Title.Render(list.Truncate(title, v.width-20)) +
		v.styles.Muted.Render(fmt.Sprintf("  (%d segments)", v.list.Total()))

	if len(v.warnings) == 0 {
		return header + "\n"
	}
	warning := fmt.Sprintf("%d warnings, first: %s", len(v.warnings), v.warnings[0])
	return header + "\n" + v.styles.Warning.Render(list.Truncate(warning, v.width))
}

func (v *View) renderDetail() string {
	seg, ok := v.list.SelectedSegment()
	if !ok {
		return ""
	}
	info := v.styles.Muted.Render(fmt.Sprintf("#%d  %d characters",
		v.list.SelectedPosition()+1, domain.CharCount(seg)))

	width := v.width - 2
	if width < 20 {
		width = 20
	}
	body := v.styles.Detail.Width(width).MaxHeight(detailLines).Render(info + "\n" + seg)
	return body
}

func (v *View) showFilter() bool {
	return v.filter.Focused() || v.filter.Value() != ""
}

// layout sizes the list to the space left by the other panes.
func (v *View) layout() {
	rows := v.height - headerLines - detailLines
	if v.showFilter() {
		rows -= filterLines
	}
	v.list.SetDimensions(v.width, rows)
	v.filter.SetWidth(v.width)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.layout()
}

// Filtering reports whether the filter input has focus.
func (v *View) Filtering() bool {
	return v.filter.Focused()
}

// Counts returns the visible and total segment counts.
func (v *View) Counts() (shown, total int) {
	return v.list.Count(), v.list.Total()
}

// Title returns the view title.
func (v *View) Title() string {
	return v.title
}

// Warnings returns the warnings of the browsed run.
func (v *View) Warnings() []string {
	return v.warnings
}

// SelectedSegment returns the selected segment.
func (v *View) SelectedSegment() (string, bool) {
	return v.list.SelectedSegment()
}
