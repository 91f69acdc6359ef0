// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/daisytext/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewRuns lists archived runs.
	ViewRuns ViewType = iota
	// ViewSegments browses the segments of a run or file.
	ViewSegments
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewRuns:
		return "runs"
	case ViewSegments:
		return "segments"
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

// RunsLoaded carries the archived runs from the service.
type RunsLoaded struct {
	Runs []domain.Run
	Err  error
}

// RunSelected signals a run was chosen from the runs list.
type RunSelected struct {
	ID string
}

// RunLoaded carries a full archived run.
type RunLoaded struct {
	Result *domain.RunResult
	Err    error
}

// SegmentsOpened replaces the browsed segments.
type SegmentsOpened struct {
	Title    string
	Segments []string
	Warnings []string
}
