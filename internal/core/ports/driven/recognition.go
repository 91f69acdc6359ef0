package driven

import (
	"context"

	"github.com/custodia-labs/daisytext/internal/core/domain"
)

// RecognitionEngine extracts text from a single page image.
// Implementations must be safe for concurrent use.
type RecognitionEngine interface {
	// Recognise returns the text of one page image.
	Recognise(ctx context.Context, page domain.PageImage) (string, error)

	// Check verifies the engine can run with its configured language.
	Check(ctx context.Context) error

	// Version returns the engine version string.
	Version() string

	// Close releases engine resources.
	Close() error
}

// RecognitionEngineFactory creates an engine for the given OCR settings.
type RecognitionEngineFactory func(settings domain.OCRSettings) (RecognitionEngine, error)
