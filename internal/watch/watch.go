// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package watch re-runs a computation whenever one of a set of files changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"
)

// =============================================================================
// WATCHER
// =============================================================================

// Handler is called with the sorted set of files that changed since the last
// call. Calls never overlap.
type Handler func(ctx context.Context, changed []string)

// Watcher debounces fsnotify events for a fixed set of files.
//
// Parent directories are watched rather than the files themselves so that
// editors which save by writing a new file and renaming it over the old one
// are still observed.
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	files    map[string]bool // Absolute paths of interest
	mu       sync.Mutex
	pending  map[string]time.Time // File path -> last change time

	// Errors receives non-fatal watcher errors (may be nil). Reports are
	// limited to one per ErrorInterval; the rest are dropped.
	Errors func(error)

	errLimit rate.Sometimes
}

// ErrorInterval is the minimum time between two reports to Errors.
const ErrorInterval = time.Second

// ErrNoFiles is returned by New when no paths are given.
var ErrNoFiles = errors.New("no files to watch")

// New creates a watcher for paths. Each path's directory must exist.
func New(paths []string, debounce time.Duration) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, ErrNoFiles
	}
	if debounce <= 0 {
		return nil, fmt.Errorf("debounce must be positive, got %v", debounce)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		watcher:  fsw,
		debounce: debounce,
		files:    make(map[string]bool),
		pending:  make(map[string]time.Time),
		errLimit: rate.Sometimes{First: 1, Interval: ErrorInterval},
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}

	for dir := range dirs {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			fsw.Close()
			return nil, fmt.Errorf("cannot watch %s: not a directory", dir)
		}
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	return w, nil
}

// Files returns the watched file paths, sorted.
func (w *Watcher) Files() []string {
	out := make([]string, 0, len(w.files))
	for f := range w.files {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Close releases the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Run processes events until ctx is cancelled, calling h once a changed file
// has been quiet for the debounce interval. Run returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context, h Handler) error {
	tick := w.debounce / 2
	if tick > 100*time.Millisecond {
		tick = 100 * time.Millisecond
	}
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return errors.New("watcher closed")
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return errors.New("watcher closed")
			}
			w.reportError(err)

		case now := <-ticker.C:
			if ready := w.takeReady(now); len(ready) > 0 {
				h(ctx, ready)
			}
		}
	}
}

// reportError forwards err to the Errors callback, rate limited.
func (w *Watcher) reportError(err error) {
	if w.Errors == nil {
		return
	}
	w.errLimit.Do(func() { w.Errors(err) })
}

// handleEvent records a change to a watched file.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return
	}
	name, err := filepath.Abs(event.Name)
	if err != nil || !w.files[name] {
		return
	}

	w.mu.Lock()
	w.pending[name] = time.Now()
	w.mu.Unlock()
}

// takeReady removes and returns the pending files that have been quiet for
// at least the debounce interval.
func (w *Watcher) takeReady(now time.Time) []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	var ready []string
	for path, changed := range w.pending {
		if now.Sub(changed) >= w.debounce {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	sort.Strings(ready)
	return ready
}
