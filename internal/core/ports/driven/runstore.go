package driven

import (
	"context"

	"github.com/custodia-labs/daisytext/internal/core/domain"
)

// RunStore archives completed pipeline runs.
// Backed by SQLite for persistence.
type RunStore interface {
	// SaveRun stores a run with its clean text and segments.
	SaveRun(ctx context.Context, result *domain.RunResult) error

	// GetRun retrieves a run by ID, including its segments.
	// Returns domain.ErrNotFound if no run matches.
	GetRun(ctx context.Context, id string) (*domain.RunResult, error)

	// ListRuns returns all runs, most recent first.
	ListRuns(ctx context.Context) ([]domain.Run, error)

	// DeleteRun removes a run and its segments.
	// Returns domain.ErrNotFound if no run matches.
	DeleteRun(ctx context.Context, id string) error
}
