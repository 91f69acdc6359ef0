// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/daisytext/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/daisytext/internal/adapters/driving/tui/styles"
)

// SegmentList displays segments in a navigable, filterable list.
// Each row shows the 1-based segment position and a one-line preview.
type SegmentList struct {
	segments []string
	visible  []int
	filter   string
	selected int
	offset   int
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	width    int
	height   int
}

// NewSegmentList creates a new segment list component.
func NewSegmentList(s *styles.Styles) *SegmentList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &SegmentList{
		styles: s,
		keymap: keymap.DefaultKeyMap(),
		width:  80,
		height: 10,
	}
}

// Init initialises the segment list.
func (l *SegmentList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation keys.
func (l *SegmentList) Update(msg tea.Msg) (*SegmentList, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return l, nil
	}

	k := keyMsg.String()
	switch {
	case keymap.Matches(k, l.keymap.Up):
		l.MoveUp()
	case keymap.Matches(k, l.keymap.Down):
		l.MoveDown()
	case keymap.Matches(k, l.keymap.PageUp):
		l.move(-l.height)
	case keymap.Matches(k, l.keymap.PageDown):
		l.move(l.height)
	case keymap.Matches(k, l.keymap.Top):
		l.move(-len(l.visible))
	case keymap.Matches(k, l.keymap.Bottom):
		l.move(len(l.visible))
	}
	return l, nil
}

// View renders the visible rows.
func (l *SegmentList) View() string {
	if len(l.segments) == 0 {
		return l.styles.Muted.Render("No segments")
	}
	if len(l.visible) == 0 {
		return l.styles.Muted.Render(fmt.Sprintf("No segments match %q", l.filter))
	}

	end := l.offset + l.height
	if end > len(l.visible) {
		end = len(l.visible)
	}

	digits := len(fmt.Sprint(len(l.segments)))
	lines := make([]string, 0, end-l.offset)
	for row := l.offset; row < end; row++ {
		lines = append(lines, l.renderRow(row, digits))
	}
	return strings.Join(lines, "\n")
}

func (l *SegmentList) renderRow(row, digits int) string {
	pos := l.visible[row]
	index := fmt.Sprintf("%*d", digits, pos+1)

	previewWidth := l.width - digits - 4
	if previewWidth < 10 {
		previewWidth = 10
	}
	preview := Truncate(l.segments[pos], previewWidth)

	if row == l.selected {
		return l.styles.Selected.Render(fmt.Sprintf("> %s %s", index, preview))
	}
	return "  " + l.styles.Index.Render(index) + " " + l.highlight(preview)
}

// highlight marks the first filter match in text.
func (l *SegmentList) highlight(text string) string {
	if l.filter == "" {
		return l.styles.Normal.Render(text)
	}
	start, end, ok := matchRange(text, l.filter)
	if !ok {
		return l.styles.Normal.Render(text)
	}
	return l.styles.Normal.Render(text[:start]) +
		l.styles.Match.Render(text[start:end]) +
		l.styles.Normal.Render(text[end:])
}

// SetSegments replaces the list contents and clears the filter.
func (l *SegmentList) SetSegments(segments []string) {
	l.segments = segments
	l.filter = ""
	l.refilter()
}

// Segments returns all segments, ignoring the filter.
func (l *SegmentList) Segments() []string {
	return l.segments
}

// SetFilter shows only segments containing query, ignoring case.
func (l *SegmentList) SetFilter(query string) {
	l.filter = query
	l.refilter()
}

// Filter returns the current filter.
func (l *SegmentList) Filter() string {
	return l.filter
}

func (l *SegmentList) refilter() {
	l.visible = l.visible[:0]
	for i, seg := range l.segments {
		if l.filter == "" || containsFold(seg, l.filter) {
			l.visible = append(l.visible, i)
		}
	}
	l.selected = 0
	l.offset = 0
}

// Selected returns the selected row among the visible segments.
func (l *SegmentList) Selected() int {
	return l.selected
}

// SelectedPosition returns the 0-based position of the selected segment in
// the full list, or -1 when nothing is visible.
func (l *SegmentList) SelectedPosition() int {
	if len(l.visible) == 0 {
		return -1
	}
	return l.visible[l.selected]
}

// SelectedSegment returns the selected segment text.
func (l *SegmentList) SelectedSegment() (string, bool) {
	pos := l.SelectedPosition()
	if pos < 0 {
		return "", false
	}
	return l.segments[pos], true
}

// MoveUp moves selection up.
func (l *SegmentList) MoveUp() {
	l.move(-1)
}

// MoveDown moves selection down.
func (l *SegmentList) MoveDown() {
	l.move(1)
}

func (l *SegmentList) move(delta int) {
	if len(l.visible) == 0 {
		return
	}
	l.selected += delta
	if l.selected < 0 {
		l.selected = 0
	}
	if l.selected >= len(l.visible) {
		l.selected = len(l.visible) - 1
	}
	l.scroll()
}

// scroll keeps the selected row inside the window.
func (l *SegmentList) scroll() {
	if l.selected < l.offset {
		l.offset = l.selected
	}
	if l.selected >= l.offset+l.height {
		l.offset = l.selected - l.height + 1
	}
}

// SetDimensions sets the component dimensions. Height is the number of rows.
func (l *SegmentList) SetDimensions(width, height int) {
	if height < 1 {
		height = 1
	}
	l.width = width
	l.height = height
	l.scroll()
}

// Count returns the number of visible segments.
func (l *SegmentList) Count() int {
	return len(l.visible)
}

// Total returns the number of segments, ignoring the filter.
func (l *SegmentList) Total() int {
	return len(l.segments)
}

// IsEmpty returns whether the list has no segments at all.
func (l *SegmentList) IsEmpty() bool {
	return len(l.segments) == 0
}
