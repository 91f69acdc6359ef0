package driving

import (
	"context"

	"github.com/custodia-labs/daisytext/internal/core/domain"
)

// PipelineService runs the document-to-segments pipeline.
type PipelineService interface {
	// Run executes the full pipeline with the current settings, honouring
	// the execution skip flags, and archives the result.
	Run(ctx context.Context) (*domain.RunResult, error)

	// Recognise rasterises and recognises the configured document and
	// saves the raw text.
	Recognise(ctx context.Context) (string, error)

	// Clean normalises text with the current cleaning settings.
	Clean(text string) (string, error)

	// CleanStage applies a single named cleaning stage.
	CleanStage(text, stage string) (string, error)

	// Stages returns the cleaning stage names in execution order.
	Stages() []string

	// Segment splits clean text with the current segmentation settings.
	Segment(text string) ([]string, error)

	// Process cleans and segments text without touching any files.
	Process(text string) (*domain.RunResult, error)
}
