package driving

import (
	"context"

	"github.com/custodia-labs/daisytext/internal/core/domain"
)

// RunService gives access to archived pipeline runs.
type RunService interface {
	// List returns all archived runs, most recent first.
	List(ctx context.Context) ([]domain.Run, error)

	// Get retrieves an archived run with its segments.
	Get(ctx context.Context, id string) (*domain.RunResult, error)

	// Delete removes an archived run.
	Delete(ctx context.Context, id string) error
}
