package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	stdsync "sync"
	"time"

	"github.com/custodia-labs/daisytext/internal/core/domain"
	"github.com/custodia-labs/daisytext/internal/core/ports/driven"
)

// mockTextStore implements driven.TextStore over a map.
type mockTextStore struct {
	mu       stdsync.Mutex
	files    map[string]string
	images   map[string][]domain.PageImage
	writeErr error
}

func newMockTextStore() *mockTextStore {
	return &mockTextStore{
		files:  make(map[string]string),
		images: make(map[string][]domain.PageImage),
	}
}

func (m *mockTextStore) ReadText(path string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	text, ok := m.files[path]
	if !ok {
		return "", domain.ErrNotFound
	}
	return text, nil
}

func (m *mockTextStore) WriteText(path, text string) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = text
	return nil
}

func (m *mockTextStore) ReadSegments(path string) ([]string, error) {
	text, err := m.ReadText(path)
	if err != nil {
		return nil, err
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n"), nil
}

func (m *mockTextStore) WriteSegments(path string, segments []string) error {
	var b strings.Builder
	for _, seg := range segments {
		b.WriteString(seg)
		b.WriteString("\n")
	}
	return m.WriteText(path, b.String())
}

func (m *mockTextStore) Exists(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, file := m.files[path]
	_, dir := m.images[path]
	return file || dir
}

func (m *mockTextStore) PageImages(dir string) ([]domain.PageImage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pages, ok := m.images[dir]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if len(pages) == 0 {
		return nil, domain.ErrNoPages
	}
	return pages, nil
}

// mockRasteriser implements driven.Rasteriser.
type mockRasteriser struct {
	pages []domain.PageImage
	err   error
	calls int
	dpi   int
}

func (m *mockRasteriser) Rasterise(_ context.Context, _, _ string, dpi int) ([]domain.PageImage, error) {
	m.calls++
	m.dpi = dpi
	return m.pages, m.err
}

func (m *mockRasteriser) Available(_ context.Context) error { return nil }

// mockEngine implements driven.RecognitionEngine from a path-to-text table.
type mockEngine struct {
	mu       stdsync.Mutex
	texts    map[string]string
	failures map[string]error
	delay    func(page domain.PageImage) time.Duration
	checkErr error
	closed   bool
	active   int
	peak     int
	calls    []int
}

func (m *mockEngine) Recognise(ctx context.Context, page domain.PageImage) (string, error) {
	m.mu.Lock()
	m.active++
	if m.active > m.peak {
		m.peak = m.active
	}
	m.calls = append(m.calls, page.Number)
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.active--
		m.mu.Unlock()
	}()

	if m.delay != nil {
		select {
		case <-time.After(m.delay(page)):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err, ok := m.failures[page.Path]; ok {
		return "", err
	}
	return m.texts[page.Path], nil
}

func (m *mockEngine) Check(_ context.Context) error { return m.checkErr }
func (m *mockEngine) Version() string               { return "mock 1.0" }

func (m *mockEngine) Close() error {
	m.closed = true
	return nil
}

func (m *mockEngine) factory() driven.RecognitionEngineFactory {
	return func(_ domain.OCRSettings) (driven.RecognitionEngine, error) {
		return m, nil
	}
}

// mockRunStore implements driven.RunStore with a configurable failure.
type mockRunStore struct {
	saved   []*domain.RunResult
	saveErr error
}

func (m *mockRunStore) SaveRun(_ context.Context, result *domain.RunResult) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, result)
	return nil
}

func (m *mockRunStore) GetRun(_ context.Context, id string) (*domain.RunResult, error) {
	for _, r := range m.saved {
		if r.Run.ID == id {
			return r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockRunStore) ListRuns(_ context.Context) ([]domain.Run, error) {
	runs := make([]domain.Run, 0, len(m.saved))
	for _, r := range m.saved {
		runs = append(runs, r.Run)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].StartedAt.After(runs[j].StartedAt) })
	return runs, nil
}

func (m *mockRunStore) DeleteRun(_ context.Context, id string) error {
	for i, r := range m.saved {
		if r.Run.ID == id {
			m.saved = append(m.saved[:i], m.saved[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

var errMockFailure = errors.New("mock failure")

// pageImages builds n page images named page_<n>.png under dir.
func pageImages(dir string, n int) []domain.PageImage {
	pages := make([]domain.PageImage, n)
	for i := range pages {
		pages[i] = domain.PageImage{Number: i + 1, Path: pagePath(dir, i+1)}
	}
	return pages
}

func pagePath(dir string, n int) string {
	return fmt.Sprintf("%s/page_%d.png", dir, n)
}

func sortedInts(in []int) []int {
	out := append([]int(nil), in...)
	sort.Ints(out)
	return out
}
