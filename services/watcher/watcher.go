// Package watcher notifies the application when the CSV tables are changed on disk,
// by another process or by hand.
package watcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/Nolexnol/CourseRegistration-System/core"
)

const DefaultDebounce = 300 * time.Millisecond

// Watcher watches a data directory for changes to a set of files.
// Bursts of events are coalesced: onChange runs once the directory has been quiet for the debounce duration.
type Watcher struct {
	mu       sync.Mutex
	fsw      *fsnotify.Watcher
	dir      string
	files    map[string]bool // base names; empty means every file
	debounce time.Duration
	logger   core.Logger

	pending  map[string]time.Time
	running  bool
	stopCh   chan struct{}
	doneCh   chan struct{}
	onChange func(changed []string)
}

type Option func(*Watcher)

func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

func WithLogger(logger core.Logger) Option {
	return func(w *Watcher) { w.logger = logger }
}

// New watches dir for changes to files (paths or base names).
func New(dir string, files []string, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "creating watcher")
	}
	w := &Watcher{
		fsw:      fsw,
		dir:      dir,
		files:    make(map[string]bool, len(files)),
		debounce: DefaultDebounce,
		logger:   core.NopLogger{},
		pending:  make(map[string]time.Time),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, f := range files {
		w.files[filepath.Base(f)] = true
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start watches in a goroutine until ctx is done or Stop is called.
// onChange receives the base names of the files changed since the previous call.
func (w *Watcher) Start(ctx context.Context, onChange func(changed []string)) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}
	if err := w.fsw.Add(w.dir); err != nil {
		return errors.Wrapf(err, "watching %s", w.dir)
	}
	w.running = true
	w.onChange = onChange
	go w.run(ctx)
	w.logger.Debug("watching data directory", map[string]interface{}{"dir": w.dir})
	return nil
}

// Stop stops the watcher and waits for its goroutine to exit. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	running := w.running
	w.running = false
	w.mu.Unlock()

	if running {
		close(w.stopCh)
		<-w.doneCh
	}
	if err := w.fsw.Close(); err != nil {
		w.logger.Warn("closing watcher", err)
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	tick := w.debounce / 3
	if tick <= 0 {
		tick = time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("watching data directory", err)
		case <-ticker.C:
			w.flush()
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return // chmod
	}
	name := filepath.Base(event.Name)
	if len(w.files) > 0 && !w.files[name] {
		return
	}
	w.mu.Lock()
	w.pending[name] = time.Now()
	w.mu.Unlock()
}

// flush calls onChange when every pending file has settled.
func (w *Watcher) flush() {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	now := time.Now()
	for _, at := range w.pending {
		if now.Sub(at) < w.debounce {
			w.mu.Unlock()
			return
		}
	}
	changed := make([]string, 0, len(w.pending))
	for name := range w.pending {
		changed = append(changed, name)
	}
	w.pending = make(map[string]time.Time)
	onChange := w.onChange
	w.mu.Unlock()

	w.logger.Debug("data files changed", map[string]interface{}{"files": changed})
	if onChange != nil {
		onChange(changed)
	}
}

// Reloader reloads store whenever the watched files change.
func Reloader(store core.Store, logger core.Logger, then func(err error)) func([]string) {
	return func(changed []string) {
		err := store.Reload()
		if err != nil {
			logger.Error("reloading data", err, map[string]interface{}{"files": changed})
		} else {
			logger.Info("data reloaded", map[string]interface{}{"files": changed})
		}
		if then != nil {
			then(err)
		}
	}
}
