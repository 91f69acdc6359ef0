// Package tui provides an interactive terminal browser for segments and
// archived runs. It implements a driving adapter following hexagonal
// architecture principles.
package tui

import (
	"github.com/custodia-labs/daisytext/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the TUI.
type Ports struct {
	// Runs gives access to the run archive. Optional when browsing a
	// segments file directly.
	Runs driving.RunService
}

// NewPorts creates a new Ports aggregate.
func NewPorts(runs driving.RunService) *Ports {
	return &Ports{Runs: runs}
}
