// Package watch feeds changes of a JSON file into a callback.
//
// The watcher observes the file's directory rather than the file itself so
// that editors which save by writing a temporary file and renaming it over
// the original keep being tracked. Bursts of events are debounced, and a
// change is only delivered when the file content actually differs from the
// last delivery.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last event before the file
// is read.
const DefaultDebounce = 200 * time.Millisecond

// Watcher watches a single file.
type Watcher struct {
	path     string
	fs       *fsnotify.Watcher
	onChange func(ctx context.Context, text string)

	debounce time.Duration
	onError  func(error)
	logger   *log.Logger

	mu    sync.Mutex
	timer *time.Timer
	last  string
	fired bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the debounce delay.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithOnError sets the callback for read and fsnotify errors.
func WithOnError(fn func(error)) Option {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// New creates a watcher for path. onChange receives the full file content
// after each settled change.
func New(path string, onChange func(ctx context.Context, text string), opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		path:     abs,
		fs:       fsw,
		onChange: onChange,
		debounce: DefaultDebounce,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Prime records text as already delivered, so an unchanged file does not
// trigger onChange. Call it with the content the consumer was seeded with.
func (w *Watcher) Prime(text string) {
	w.mu.Lock()
	w.last, w.fired = text, true
	w.mu.Unlock()
}

// Run delivers changes until ctx is done, then releases the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()
	defer w.stopTimer()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.reportError(err)
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() { w.deliver(ctx) })
}

func (w *Watcher) deliver(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	data, err := os.ReadFile(w.path)
	if err != nil {
		// Renamed away mid-save; the following Create re-arms the timer.
		if !os.IsNotExist(err) {
			w.reportError(fmt.Errorf("read %s: %w", w.path, err))
		}
		return
	}

	text := string(data)
	w.mu.Lock()
	if w.fired && text == w.last {
		w.mu.Unlock()
		return
	}
	w.last, w.fired = text, true
	w.mu.Unlock()

	w.logger.Debug("file changed", "path", w.path, "bytes", len(data))
	w.onChange(ctx, text)
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

func (w *Watcher) reportError(err error) {
	if w.onError != nil {
		w.onError(err)
		return
	}
	w.logger.Warn("watch error", "path", w.path, "err", err)
}
