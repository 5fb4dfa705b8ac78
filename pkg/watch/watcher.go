// Package watch re-runs the analysis when a designated model file changes.
package watch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when a non-positive debounce is given.
const DefaultDebounce = 500 * time.Millisecond

// Watcher monitors the corpus directory and fires once per burst of changes
// to the designated files.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	dir       string
	names     map[string]bool
	debounce  time.Duration
	callback  func(changed []string)
	mu        sync.Mutex
	pending   map[string]time.Time

	// outMu serializes writes to out with callback runs.
	outMu sync.Mutex
	out   io.Writer
}

// NewWatcher creates a watcher for the named files in dir.
func NewWatcher(dir string, names []string, debounce time.Duration) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}

	return &Watcher{
		fsWatcher: fsWatcher,
		dir:       filepath.Clean(dir),
		names:     set,
		debounce:  debounce,
		out:       os.Stdout,
		pending:   make(map[string]time.Time),
	}, nil
}

// SetCallback sets the function called with the sorted names of the files
// that changed. Calls never overlap.
func (w *Watcher) SetCallback(cb func(changed []string)) {
	w.callback = cb
}

// SetOutput redirects the watcher's status messages.
func (w *Watcher) SetOutput(out io.Writer) {
	w.outMu.Lock()
	w.out = out
	w.outMu.Unlock()
}

// Start watches until ctx is done or the watcher is stopped. The directory is
// watched rather than the files so that editors which replace files on save
// are still seen. No callback runs after Start returns.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.fsWatcher.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}

	color.New(color.FgCyan).Fprintf(w.out, "Watching %s in %s...\n", strings.Join(w.Names(), ", "), w.dir)
	color.New(color.FgCyan).Fprintln(w.out, "Press Ctrl+C to stop")
	fmt.Fprintln(w.out)

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.processDebounced(done)
	}()
	defer func() {
		close(done)
		wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.outMu.Lock()
			color.New(color.FgRed).Fprintf(w.out, "Watch error: %v\n", err)
			w.outMu.Unlock()
		}
	}
}

// handleEvent records a change to a designated file.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	if filepath.Dir(filepath.Clean(event.Name)) != w.dir {
		return
	}
	name := filepath.Base(event.Name)
	if !w.names[name] {
		return
	}

	w.mu.Lock()
	w.pending[name] = time.Now()
	w.mu.Unlock()
}

// processDebounced polls pending changes until done is closed.
func (w *Watcher) processDebounced(done <-chan struct{}) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			w.processPending()
		}
	}
}

// processPending fires the callback once the most recent pending change is
// older than the debounce period.
func (w *Watcher) processPending() {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	var latest time.Time
	for _, t := range w.pending {
		if t.After(latest) {
			latest = t
		}
	}
	if time.Since(latest) < w.debounce {
		w.mu.Unlock()
		return
	}
	changed := make([]string, 0, len(w.pending))
	for name := range w.pending {
		changed = append(changed, name)
	}
	clear(w.pending)
	w.mu.Unlock()

	slices.Sort(changed)
	w.runCallback(changed)
}

func (w *Watcher) runCallback(changed []string) {
	w.outMu.Lock()
	defer w.outMu.Unlock()

	color.New(color.FgYellow).Fprintf(w.out, "\nFile changed: %s\n", strings.Join(changed, ", "))
	fmt.Fprintln(w.out, strings.Repeat("-", 40))

	if w.callback != nil {
		w.callback(changed)
	}

	fmt.Fprintln(w.out)
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	return w.fsWatcher.Close()
}

// Names returns the watched file names, sorted.
func (w *Watcher) Names() []string {
	names := make([]string, 0, len(w.names))
	for n := range w.names {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// WatchedPaths returns the paths registered with the underlying watcher.
func (w *Watcher) WatchedPaths() []string {
	return w.fsWatcher.WatchList()
}
