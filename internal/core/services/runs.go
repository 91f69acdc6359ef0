package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/daisytext/internal/core/domain"
	"github.com/custodia-labs/daisytext/internal/core/ports/driven"
	"github.com/custodia-labs/daisytext/internal/core/ports/driving"
)

// Ensure RunService implements the interface.
var _ driving.RunService = (*RunService)(nil)

// RunService gives access to archived runs.
type RunService struct {
	runStore driven.RunStore
}

// NewRunService creates a new run service.
func NewRunService(runStore driven.RunStore) *RunService {
	return &RunService{runStore: runStore}
}

// List returns all archived runs, most recent first.
func (s *RunService) List(ctx context.Context) ([]domain.Run, error) {
	runs, err := s.runStore.ListRuns(ctx)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// Get retrieves an archived run with its segments.
func (s *RunService) Get(ctx context.Context, id string) (*domain.RunResult, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: run id is required", domain.ErrInvalidInput)
	}
	result, err := s.runStore.GetRun(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}
	return result, nil
}

// Delete removes an archived run.
func (s *RunService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: run id is required", domain.ErrInvalidInput)
	}
	if err := s.runStore.DeleteRun(ctx, id); err != nil {
		return fmt.Errorf("delete run %s: %w", id, err)
	}
	return nil
}
