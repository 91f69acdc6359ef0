// Package textfile persists pipeline artifacts as plain UTF-8 files.
// It is built on afero so tests can run against an in-memory filesystem.
package textfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"github.com/custodia-labs/daisytext/internal/core/domain"
	"github.com/custodia-labs/daisytext/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.TextStore = (*Store)(nil)

const (
	dirPerm  = 0755
	filePerm = 0644
)

// Store is an afero-backed implementation of driven.TextStore.
type Store struct {
	fs afero.Fs
}

// NewStore creates a store on fs.
func NewStore(fs afero.Fs) *Store {
	return &Store{fs: fs}
}

// NewOsStore creates a store on the operating system filesystem.
func NewOsStore() *Store {
	return NewStore(afero.NewOsFs())
}

// ReadText loads a whole text file.
func (s *Store) ReadText(path string) (string, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", path, domain.ErrNotFound)
		}
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// WriteText stores text, creating parent directories as needed.
func (s *Store) WriteText(path, text string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := s.fs.MkdirAll(dir, dirPerm); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := afero.WriteFile(s.fs, path, []byte(text), filePerm); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadSegments loads a segment file, one segment per line.
// Blank lines are skipped.
func (s *Store) ReadSegments(path string) ([]string, error) {
	text, err := s.ReadText(path)
	if err != nil {
		return nil, err
	}

	segments := []string{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line != "" {
			segments = append(segments, line)
		}
	}
	return segments, nil
}

// WriteSegments stores segments, each followed by a newline.
func (s *Store) WriteSegments(path string, segments []string) error {
	var b strings.Builder
	for _, seg := range segments {
		b.WriteString(seg)
		b.WriteByte('\n')
	}
	return s.WriteText(path, b.String())
}

// Exists reports whether a file or directory exists at path.
func (s *Store) Exists(path string) bool {
	ok, err := afero.Exists(s.fs, path)
	return err == nil && ok
}

// PageImages lists the PNG files in dir in page order.
// Files are ordered by the last run of digits in their name, so page_10.png
// follows page_9.png; Number is the 1-based position in that order.
func (s *Store) PageImages(dir string) ([]domain.PageImage, error) {
	ok, err := afero.DirExists(s.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", dir, err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", dir, domain.ErrNotFound)
	}

	entries, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".png") {
			continue
		}
		names = append(names, entry.Name())
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, domain.ErrNoPages)
	}

	SortPageNames(names)

	pages := make([]domain.PageImage, len(names))
	for i, name := range names {
		pages[i] = domain.PageImage{Number: i + 1, Path: filepath.Join(dir, name)}
	}
	return pages, nil
}

// SortPageNames sorts file names by their trailing page number, falling
// back to lexical order for names without one.
func SortPageNames(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		ni, oki := PageNumber(names[i])
		nj, okj := PageNumber(names[j])
		switch {
		case oki && okj && ni != nj:
			return ni < nj
		case oki != okj:
			return oki
		default:
			return names[i] < names[j]
		}
	})
}

// PageNumber extracts the last run of digits in a file name, ignoring the
// extension. "page-012.png" yields 12.
func PageNumber(name string) (int, bool) {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	end := strings.LastIndexFunc(base, isDigit)
	if end < 0 {
		return 0, false
	}
	start := end
	for start > 0 && isDigit(rune(base[start-1])) {
		start--
	}
	n, err := strconv.Atoi(base[start : end+1])
	if err != nil {
		return 0, false
	}
	return n, true
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
