package mcp

import (
	"context"

	"github.com/custodia-labs/daisytext/internal/core/domain"
)

// mockPipelineService is a mock implementation of driving.PipelineService.
type mockPipelineService struct {
	clean     string
	stage     string
	segments  []string
	result    *domain.RunResult
	err       error
	lastStage string
}

func (m *mockPipelineService) Run(_ context.Context) (*domain.RunResult, error) {
	return m.result, m.err
}

func (m *mockPipelineService) Recognise(_ context.Context) (string, error) {
	return "", m.err
}

func (m *mockPipelineService) Clean(_ string) (string, error) {
	return m.clean, m.err
}

func (m *mockPipelineService) CleanStage(_, stage string) (string, error) {
	m.lastStage = stage
	return m.stage, m.err
}

func (m *mockPipelineService) Stages() []string {
	return []string{"line_filter", "artifacts", "unicode", "whitespace"}
}

func (m *mockPipelineService) Segment(_ string) ([]string, error) {
	return m.segments, m.err
}

func (m *mockPipelineService) Process(_ string) (*domain.RunResult, error) {
	return m.result, m.err
}

// mockRunService is a mock implementation of driving.RunService.
type mockRunService struct {
	runs   []domain.Run
	result *domain.RunResult
	err    error
}

func (m *mockRunService) List(_ context.Context) ([]domain.Run, error) {
	return m.runs, m.err
}

func (m *mockRunService) Get(_ context.Context, _ string) (*domain.RunResult, error) {
	return m.result, m.err
}

func (m *mockRunService) Delete(_ context.Context, _ string) error {
	return m.err
}
