// Package watch reloads the order store when its file changes on disk.
package watch

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/user/orderdesk/internal/debounce"
)

const (
	// DefaultDebounceInterval is how long to wait after the last change before reloading.
	DefaultDebounceInterval = 100 * time.Millisecond
)

// ReloadFunc is called once a burst of changes has settled.
type ReloadFunc func() error

// LogFunc is called to log messages.
type LogFunc func(format string, args ...interface{})

// Watcher monitors a data directory and reloads when the watched file changes.
type Watcher struct {
	dir              string
	file             string
	reloadFn         ReloadFunc
	logFn            LogFunc
	debounceInterval time.Duration

	watcher   *fsnotify.Watcher
	gate      *debounce.Gate[string]
	stopChan  chan struct{}
	doneChan  chan struct{}
	closeOnce sync.Once
}

// NewWatcher creates a watcher for dir/file.
// The directory is watched rather than the file so atomic replacements are seen.
// logFn can be nil for no logging.
func NewWatcher(dir, file string, reloadFn ReloadFunc, logFn LogFunc) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if logFn == nil {
		logFn = func(format string, args ...interface{}) {}
	}

	return &Watcher{
		dir:              dir,
		file:             file,
		reloadFn:         reloadFn,
		logFn:            logFn,
		debounceInterval: DefaultDebounceInterval,
		watcher:          fsWatcher,
		stopChan:         make(chan struct{}),
		doneChan:         make(chan struct{}),
	}, nil
}

// SetInterval changes the debounce interval. It must be called before Start.
func (w *Watcher) SetInterval(d time.Duration) {
	w.debounceInterval = d
}

// Path returns the watched file path.
func (w *Watcher) Path() string {
	return filepath.Join(w.dir, w.file)
}

// Start begins watching for file changes.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	w.logFn("Watching %s", w.Path())

	if w.gate == nil {
		w.gate = debounce.New(w.debounceInterval, w.doReload)
		go w.processEvents()
	}
	return nil
}

// Close stops the watcher and cancels any pending reload.
func (w *Watcher) Close() {
	w.closeOnce.Do(func() {
		close(w.stopChan)
		w.watcher.Close()

		// Wait for event processing to finish
		if w.gate != nil {
			w.gate.Close()
			<-w.doneChan
		}
	})
}

// processEvents handles filesystem events.
func (w *Watcher) processEvents() {
	defer close(w.doneChan)

	for {
		select {
		case <-w.stopChan:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logFn("Watch error: %v", err)
		}
	}
}

// handleEvent schedules a reload for writes to the watched file.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Base(event.Name) != w.file {
		return
	}

	// Atomic replacements show up as Create on the target name
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	w.logFn("File change detected: %s (%s)", w.file, event.Op)
	w.gate.Push(event.Name)
}

// doReload performs the actual reload.
func (w *Watcher) doReload(path string) {
	select {
	case <-w.stopChan:
		return
	default:
	}

	w.logFn("Reloading orders from %s", path)

	if err := w.reloadFn(); err != nil {
		w.logFn("Error reloading orders: %v", err)
	} else {
		w.logFn("Reload complete")
	}
}
