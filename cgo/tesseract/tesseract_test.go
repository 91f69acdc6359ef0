//go:build cgo && ocr

package tesseract

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/daisytext/internal/core/domain"
)

func TestNew_EmptyLanguage(t *testing.T) {
	_, err := New(domain.OCRSettings{Language: " + "})
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestEngine_MissingImage(t *testing.T) {
	if _, err := exec.LookPath("tesseract"); err != nil {
		t.Skip("tesseract not installed in PATH")
	}

	engine, err := New(domain.OCRSettings{Language: "eng", PageSegMode: 6})
	require.NoError(t, err)
	defer engine.Close()

	assert.True(t, Enabled)
	assert.NotEmpty(t, engine.Version())

	_, err = engine.Recognise(context.Background(), domain.PageImage{Number: 1, Path: "does-not-exist.png"})
	assert.Error(t, err)
}

func TestEngine_CancelledContext(t *testing.T) {
	engine, err := New(domain.OCRSettings{Language: "eng", PageSegMode: 6})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = engine.Recognise(ctx, domain.PageImage{Number: 1, Path: "page_1.png"})
	assert.ErrorIs(t, err, context.Canceled)
}
