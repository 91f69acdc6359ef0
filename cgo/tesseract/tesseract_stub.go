//go:build !cgo || !ocr

package tesseract

import (
	"context"

	"github.com/custodia-labs/daisytext/internal/core/domain"
	"github.com/custodia-labs/daisytext/internal/core/ports/driven"
)

// Ensure Engine implements the interface.
var _ driven.RecognitionEngine = (*Engine)(nil)

// Enabled reports whether the real Tesseract engine is compiled in.
const Enabled = false

// Engine recognises page images with Tesseract.
// This is a stub for builds without CGO or the ocr tag.
type Engine struct {
	languages []string
}

// New creates a Tesseract engine for the given OCR settings.
func New(settings domain.OCRSettings) (driven.RecognitionEngine, error) {
	return &Engine{languages: Languages(settings.Language)}, nil
}

// Recognise returns the text of one page image.
func (e *Engine) Recognise(_ context.Context, _ domain.PageImage) (string, error) {
	return "", domain.ErrOCRNotEnabled
}

// Check verifies the engine can run with its configured language.
func (e *Engine) Check(_ context.Context) error {
	return domain.ErrOCRNotEnabled
}

// Version returns the engine version string.
func (e *Engine) Version() string {
	return "unavailable"
}

// Close releases resources.
func (e *Engine) Close() error {
	return nil
}
