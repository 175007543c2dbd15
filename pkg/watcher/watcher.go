// Package watcher monitors the session file for changes so that a
// login or logout performed by another hc process is picked up live,
// the terminal analog of browser storage events.
package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounceDuration coalesces bursts of write events.
const DefaultDebounceDuration = 200 * time.Millisecond

// DefaultPollInterval is the polling interval for fallback mode.
const DefaultPollInterval = 2 * time.Second

// Common errors.
var (
	ErrPermission     = errors.New("permission denied")
	ErrAlreadyStarted = errors.New("watcher already started")
)

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounceDuration sets the debounce duration.
func WithDebounceDuration(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounceDuration = d
	}
}

// WithPollInterval sets the polling interval for fallback mode.
func WithPollInterval(d time.Duration) Option {
	return func(w *Watcher) {
		w.pollInterval = d
	}
}

// WithForcePoll forces polling mode even if fsnotify is available.
func WithForcePoll(force bool) Option {
	return func(w *Watcher) {
		w.forcePoll = force
	}
}

// Watcher monitors a file for changes using fsnotify with polling
// fallback. Removal of the file counts as a change (a cleared session
// is exactly the event the UI needs).
type Watcher struct {
	path             string
	debounceDuration time.Duration
	pollInterval     time.Duration
	forcePoll        bool

	fsWatcher   *fsnotify.Watcher
	useFallback bool
	lastMtime   time.Time
	lastSize    int64
	lastExists  bool

	ctx      context.Context
	cancel   context.CancelFunc
	started  bool
	mu       sync.RWMutex
	changeCh chan struct{}

	debounceMu    sync.Mutex
	debounceTimer *time.Timer
}

// New creates a watcher for the given path. The file does not need to
// exist yet.
func New(path string, opts ...Option) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:             absPath,
		debounceDuration: DefaultDebounceDuration,
		pollInterval:     DefaultPollInterval,
		changeCh:         make(chan struct{}, 1),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// Start begins watching the file for changes.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return ErrAlreadyStarted
	}

	w.ctx, w.cancel = context.WithCancel(context.Background())
	w.useFallback = w.forcePoll || envBool("HC_FORCE_POLLING")

	info, err := os.Stat(w.path)
	if err != nil {
		if os.IsPermission(err) {
			return ErrPermission
		}
		// File might not exist yet, that's okay
		w.lastMtime = time.Time{}
		w.lastSize = 0
		w.lastExists = false
	} else {
		w.lastMtime = info.ModTime()
		w.lastSize = info.Size()
		w.lastExists = true
	}

	if !w.useFallback {
		fsw, err := fsnotify.NewWatcher()
		if err != nil {
			w.useFallback = true
		} else {
			// Watch the directory containing the file (more reliable for
			// atomic writes)
			dir := filepath.Dir(w.path)
			if err := fsw.Add(dir); err != nil {
				fsw.Close()
				w.useFallback = true
			} else {
				w.fsWatcher = fsw
				go w.watchFsnotify()
			}
		}
	}

	if w.useFallback {
		go w.watchPolling()
	}

	w.started = true
	return nil
}

// Stop stops watching the file. The change channel is intentionally
// left open; goroutines blocked on Changed() are cleaned up at process
// exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.started {
		return
	}

	if w.cancel != nil {
		w.cancel()
	}

	if w.fsWatcher != nil {
		w.fsWatcher.Close()
		w.fsWatcher = nil
	}

	w.debounceMu.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceMu.Unlock()

	w.started = false
}

// IsPolling returns true if the watcher is using polling mode.
func (w *Watcher) IsPolling() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.useFallback
}

// Changed returns a channel that receives when the file changes.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changeCh
}

// Path returns the watched file path.
func (w *Watcher) Path() string {
	return w.path
}

func envBool(name string) bool {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return false
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

// watchFsnotify monitors using fsnotify events.
func (w *Watcher) watchFsnotify() {
	targetFile := filepath.Base(w.path)

	// Capture channel references to avoid race with Stop() setting
	// fsWatcher to nil
	w.mu.RLock()
	if w.fsWatcher == nil {
		w.mu.RUnlock()
		return
	}
	events := w.fsWatcher.Events
	errs := w.fsWatcher.Errors
	w.mu.RUnlock()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-events:
			if !ok {
				return
			}

			// Only care about events for our specific file
			if filepath.Base(event.Name) != targetFile {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				w.trigger()
			}

		case _, ok := <-errs:
			if !ok {
				return
			}
		}
	}
}

// watchPolling monitors using periodic stat checks.
func (w *Watcher) watchPolling() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return

		case <-ticker.C:
			info, err := os.Stat(w.path)

			w.mu.Lock()
			var changed bool
			if err != nil {
				changed = w.lastExists && os.IsNotExist(err)
				if changed {
					w.lastExists = false
					w.lastMtime = time.Time{}
					w.lastSize = 0
				}
			} else {
				changed = !w.lastExists || info.ModTime().After(w.lastMtime) || info.Size() != w.lastSize
				if changed {
					w.lastExists = true
					w.lastMtime = info.ModTime()
					w.lastSize = info.Size()
				}
			}
			w.mu.Unlock()

			if changed {
				w.trigger()
			}
		}
	}
}

// trigger debounces bursts of events into one notification.
func (w *Watcher) trigger() {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounceDuration, w.notifyChange)
}

// notifyChange signals the change channel.
func (w *Watcher) notifyChange() {
	w.mu.RLock()
	started := w.started
	w.mu.RUnlock()

	// Best-effort: don't notify after Stop(). There's a small race
	// window, but consumers treat notifications as idempotent.
	if !started {
		return
	}

	select {
	case w.changeCh <- struct{}{}:
	default:
	}
}
