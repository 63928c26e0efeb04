package library

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/famlink/internal/logger"
)

// DefaultDebounce collapses bursts of file events into one reload.
const DefaultDebounce = 250 * time.Millisecond

// Watcher calls a reload function when files matching a pattern change.
type Watcher struct {
	pattern  string
	debounce time.Duration
	reload   func(ctx context.Context) error

	watcher *fsnotify.Watcher
	done    chan struct{}

	mu    sync.Mutex
	timer *time.Timer
}

// NewWatcher creates a watcher for pattern. A non-positive debounce uses
// DefaultDebounce.
func NewWatcher(pattern string, debounce time.Duration, reload func(ctx context.Context) error) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		pattern:  filepath.Clean(pattern),
		debounce: debounce,
		reload:   reload,
		done:     make(chan struct{}),
	}
}

// Start watches the pattern's base directory and the directories of every
// file it currently matches. Events are handled on a tracked goroutine
// until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}

	dirs, err := w.directories()
	if err != nil {
		_ = watcher.Close()
		return err
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			_ = watcher.Close()
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}
	w.watcher = watcher
	logger.Debug("watching %d directories for %s", len(dirs), w.pattern)

	lifecycle.Go(ctx, w.run, lifecycle.WithErrorHandler(func(err error) {
		logger.Error("library watcher: %v", err)
	}))
	return nil
}

// Done is closed when the watcher has stopped.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

func (w *Watcher) directories() ([]string, error) {
	base, _ := doublestar.SplitPattern(filepath.ToSlash(w.pattern))
	seen := map[string]bool{filepath.FromSlash(base): true}
	dirs := []string{filepath.FromSlash(base)}

	matches, err := doublestar.FilepathGlob(w.pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("expanding %q: %w", w.pattern, err)
	}
	for _, m := range matches {
		dir := filepath.Dir(m)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs, nil
}

func (w *Watcher) run(ctx context.Context) error {
	defer close(w.done)
	defer w.watcher.Close()
	defer w.stopTimer()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if w.relevant(event) {
				logger.Debug("seed change: %s", event)
				w.schedule(ctx)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("fsnotify error: %v", err)
		}
	}
}

// relevant reports whether event touches a seed file matching the pattern.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	if !isSeedFile(event.Name) {
		return false
	}
	ok, err := doublestar.PathMatch(w.pattern, filepath.Clean(event.Name))
	return err == nil && ok
}

// schedule arranges one reload after the debounce window, restarting the
// window on every call.
func (w *Watcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		if ctx.Err() != nil {
			return
		}
		if err := w.reload(ctx); err != nil {
			logger.Error("reloading %s: %v", w.pattern, err)
		}
	})
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}
