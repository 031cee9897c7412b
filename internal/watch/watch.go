// Package watch implements cmd/compact-watch's directory watcher: it
// notices new or growing *.jsonl rollout logs above a size threshold and
// invokes a caller-supplied callback, debounced so a burst of writes to
// the same file only triggers one call. This sits entirely outside the
// core pipeline (spec.md §1/§5): it is the one reactive, long-running
// piece of the repo, wired from its own optional binary rather than the
// one-shot `compact` command.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

func fileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// Options configures a Watcher.
type Options struct {
	Dir           string
	MinBytes      int64
	DebounceDelay time.Duration
	OnChange      func(path string)
}

// Watcher watches Options.Dir for *.jsonl files reaching Options.MinBytes.
type Watcher struct {
	opts Options
	fsw  *fsnotify.Watcher

	mu      sync.Mutex
	timers  map[string]*time.Timer
	sizeFn  func(path string) (int64, error)
}

// New creates a Watcher rooted at opts.Dir. DebounceDelay defaults to
// 500ms if unset.
func New(opts Options) (*Watcher, error) {
	if opts.DebounceDelay <= 0 {
		opts.DebounceDelay = 500 * time.Millisecond
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(opts.Dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", opts.Dir, err)
	}
	return &Watcher{
		opts:   opts,
		fsw:    fsw,
		timers: make(map[string]*time.Timer),
		sizeFn: fileSize,
	}, nil
}

// Close stops the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run blocks, dispatching debounced OnChange calls until ctx is done or
// the watcher's event channel closes.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			if err != nil {
				return fmt.Errorf("watch error: %w", err)
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Ext(event.Name) != ".jsonl" {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	size, err := w.sizeFn(event.Name)
	if err != nil || size < w.opts.MinBytes {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[event.Name]; ok {
		t.Stop()
	}
	path := event.Name
	w.timers[event.Name] = time.AfterFunc(w.opts.DebounceDelay, func() {
		w.opts.OnChange(path)
	})
}
