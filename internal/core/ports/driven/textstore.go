package driven

import "github.com/custodia-labs/daisytext/internal/core/domain"

// TextStore persists pipeline artifacts as UTF-8 files.
type TextStore interface {
	// ReadText loads a whole text file.
	// Returns domain.ErrNotFound if the file does not exist.
	ReadText(path string) (string, error)

	// WriteText stores text, creating parent directories as needed.
	WriteText(path, text string) error

	// ReadSegments loads a segment file, one segment per line.
	// Returns domain.ErrNotFound if the file does not exist.
	ReadSegments(path string) ([]string, error)

	// WriteSegments stores segments, each followed by a newline.
	WriteSegments(path string, segments []string) error

	// Exists reports whether a file or directory exists at path.
	Exists(path string) bool

	// PageImages lists the page images in dir ordered by page number.
	// Returns domain.ErrNotFound if dir does not exist and
	// domain.ErrNoPages if it holds no images.
	PageImages(dir string) ([]domain.PageImage, error)
}
