//go:build cgo && ocr

package tesseract

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/custodia-labs/daisytext/internal/core/domain"
	"github.com/custodia-labs/daisytext/internal/core/ports/driven"
)

// Ensure Engine implements the interface.
var _ driven.RecognitionEngine = (*Engine)(nil)

// Enabled reports whether the real Tesseract engine is compiled in.
const Enabled = true

// Engine recognises page images with Tesseract.
// A fresh client is created per page so the engine is safe for concurrent use.
type Engine struct {
	languages     []string
	pageSegMode   gosseract.PageSegMode
	clientFactory func() *gosseract.Client
}

// New creates a Tesseract engine for the given OCR settings.
func New(settings domain.OCRSettings) (driven.RecognitionEngine, error) {
	langs := Languages(settings.Language)
	if len(langs) == 0 {
		return nil, domain.NewConfigError("ocr.language", "must not be empty")
	}
	return &Engine{
		languages:     langs,
		pageSegMode:   gosseract.PageSegMode(settings.PageSegMode),
		clientFactory: gosseract.NewClient,
	}, nil
}

// Recognise returns the text of one page image.
func (e *Engine) Recognise(ctx context.Context, page domain.PageImage) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c := e.clientFactory()
	defer c.Close()

	if err := c.SetLanguage(e.languages...); err != nil {
		return "", fmt.Errorf("set languages: %w", err)
	}
	if err := c.SetPageSegMode(e.pageSegMode); err != nil {
		return "", fmt.Errorf("set page segmentation mode: %w", err)
	}
	if err := c.SetImage(page.Path); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}

	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognise text: %w", err)
	}
	return text, nil
}

// Check verifies that every configured language is installed.
func (e *Engine) Check(_ context.Context) error {
	installed, err := gosseract.GetAvailableLanguages()
	if err != nil {
		return fmt.Errorf("listing tesseract languages: %w", err)
	}
	if missing := missingLanguages(e.languages, installed); len(missing) > 0 {
		return fmt.Errorf("tesseract language data not installed: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Version returns the Tesseract library version.
func (e *Engine) Version() string {
	c := e.clientFactory()
	defer c.Close()
	return c.Version()
}

// Close releases resources.
func (e *Engine) Close() error {
	return nil
}
