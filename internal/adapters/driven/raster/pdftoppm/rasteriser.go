// Package pdftoppm rasterises PDF documents with the poppler pdftoppm tool.
package pdftoppm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"github.com/custodia-labs/daisytext/internal/adapters/driven/storage/textfile"
	"github.com/custodia-labs/daisytext/internal/core/domain"
	"github.com/custodia-labs/daisytext/internal/core/ports/driven"
	"github.com/custodia-labs/daisytext/internal/logger"
)

// Ensure Rasteriser implements the interface.
var _ driven.Rasteriser = (*Rasteriser)(nil)

const (
	// DefaultBinary is the executable looked up on PATH.
	DefaultBinary = "pdftoppm"

	// rawPrefix names pdftoppm output before it is renumbered.
	rawPrefix = "raster"
)

// CommandRunner executes an external command and returns its combined output.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Rasteriser renders PDF pages to page_<n>.png files.
type Rasteriser struct {
	binary   string
	fs       afero.Fs
	run      CommandRunner
	lookPath func(string) (string, error)
}

// Option configures a Rasteriser.
type Option func(*Rasteriser)

// WithBinary sets the pdftoppm executable.
func WithBinary(binary string) Option {
	return func(r *Rasteriser) { r.binary = binary }
}

// WithFs sets the filesystem used to organise the rendered pages.
func WithFs(fs afero.Fs) Option {
	return func(r *Rasteriser) { r.fs = fs }
}

// WithRunner replaces command execution.
func WithRunner(run CommandRunner) Option {
	return func(r *Rasteriser) { r.run = run }
}

// WithLookPath replaces executable lookup.
func WithLookPath(lookPath func(string) (string, error)) Option {
	return func(r *Rasteriser) { r.lookPath = lookPath }
}

// New creates a rasteriser that shells out to pdftoppm.
func New(opts ...Option) *Rasteriser {
	r := &Rasteriser{
		binary:   DefaultBinary,
		fs:       afero.NewOsFs(),
		run:      runCommand,
		lookPath: exec.LookPath,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Available returns domain.ErrRasteriserUnavailable if pdftoppm is not on PATH.
func (r *Rasteriser) Available(_ context.Context) error {
	if _, err := r.lookPath(r.binary); err != nil {
		return fmt.Errorf("%w: %s not found (install poppler-utils)", domain.ErrRasteriserUnavailable, r.binary)
	}
	return nil
}

// Rasterise renders every page of documentPath at dpi into outDir.
// Page images left over from an earlier run are removed first.
func (r *Rasteriser) Rasterise(ctx context.Context, documentPath, outDir string, dpi int) ([]domain.PageImage, error) {
	if dpi <= 0 {
		return nil, fmt.Errorf("%w: dpi must be positive, got %d", domain.ErrInvalidInput, dpi)
	}
	if _, err := r.fs.Stat(documentPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, documentPath)
		}
		return nil, fmt.Errorf("stat %s: %w", documentPath, err)
	}
	if err := r.Available(ctx); err != nil {
		return nil, err
	}
	if err := r.fs.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("creating image directory: %w", err)
	}
	if err := r.removeMatching(outDir, "page_*.png"); err != nil {
		return nil, err
	}
	if err := r.removeMatching(outDir, rawPrefix+"-*.png"); err != nil {
		return nil, err
	}

	logger.Debug("rasterising %s at %d dpi into %s", documentPath, dpi, outDir)
	args := []string{"-r", strconv.Itoa(dpi), "-png", documentPath, filepath.Join(outDir, rawPrefix)}
	if out, err := r.run(ctx, r.binary, args...); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%s: %w: %s", r.binary, err, strings.TrimSpace(string(out)))
	}

	rendered, err := afero.Glob(r.fs, filepath.Join(outDir, rawPrefix+"-*.png"))
	if err != nil {
		return nil, fmt.Errorf("listing rendered pages: %w", err)
	}
	if len(rendered) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoPages, documentPath)
	}
	textfile.SortPageNames(rendered)

	pages := make([]domain.PageImage, len(rendered))
	for i, src := range rendered {
		dst := filepath.Join(outDir, fmt.Sprintf("page_%d.png", i+1))
		if err := r.fs.Rename(src, dst); err != nil {
			return nil, fmt.Errorf("renaming %s: %w", src, err)
		}
		pages[i] = domain.PageImage{Number: i + 1, Path: dst}
	}
	logger.Info("rasterised %d pages from %s", len(pages), documentPath)
	return pages, nil
}

func (r *Rasteriser) removeMatching(dir, pattern string) error {
	stale, err := afero.Glob(r.fs, filepath.Join(dir, pattern))
	if err != nil {
		return fmt.Errorf("listing %s: %w", pattern, err)
	}
	for _, path := range stale {
		if err := r.fs.Remove(path); err != nil {
			return fmt.Errorf("removing %s: %w", path, err)
		}
	}
	return nil
}
