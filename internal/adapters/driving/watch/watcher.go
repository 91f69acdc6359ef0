// Package watch re-runs work when a file changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/daisytext/internal/logger"
)

// ErrAlreadyStarted is returned by Run when the watcher has been run before.
var ErrAlreadyStarted = errors.New("watcher already started")

// DefaultDebounce batches bursts of writes into a single change.
const DefaultDebounce = 500 * time.Millisecond

// Handler is called after the watched file settles.
type Handler func(ctx context.Context) error

// Watcher calls a handler whenever a single file is written.
// The parent directory is watched so that editors replacing the file
// atomically are still noticed.
type Watcher struct {
	path     string
	debounce time.Duration
	handler  Handler
	ready    chan struct{}
	started  atomic.Bool
}

// New creates a watcher for path.
func New(path string, debounce time.Duration, handler Handler) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		path:     path,
		debounce: debounce,
		handler:  handler,
		ready:    make(chan struct{}),
	}
}

// Ready is closed once the watch is registered.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Run watches until ctx is cancelled. Handler errors are logged and
// watching continues. A Watcher runs at most once; later calls return
// ErrAlreadyStarted.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	abs, err := filepath.Abs(w.path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	close(w.ready)
	logger.Debug("watching %s", abs)

	trigger := make(chan struct{}, 1)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			logger.Debug("change detected: %s", event)
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case trigger <- struct{}{}:
				default:
				}
			})
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error: %v", err)
		case <-trigger:
			if err := w.handler(ctx); err != nil {
				logger.Error("%s: %v", w.path, err)
			}
		}
	}
}
