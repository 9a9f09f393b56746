package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vyrodovalexey/routem/internal/observability"
)

// TableCallback is called with every successfully reloaded route table.
type TableCallback func(*RouteTable)

// ErrorCallback is called when an error occurs during reload.
type ErrorCallback func(error)

// Watcher watches a route table file for changes and triggers reloads.
// Tables that fail to load or validate are reported and never delivered.
type Watcher struct {
	path          string
	watcher       *fsnotify.Watcher
	callback      TableCallback
	errorCallback ErrorCallback
	logger        observability.Logger
	debounceDelay time.Duration
	lastTable     *RouteTable
	files         map[string]bool
	dirs          map[string]bool
	mu            sync.RWMutex
	stopCh        chan struct{}
	stoppedCh     chan struct{}
	running       bool
}

// WatcherOption is a functional option for configuring the watcher.
type WatcherOption func(*Watcher)

// WithDebounceDelay sets the debounce delay for file changes.
func WithDebounceDelay(delay time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounceDelay = delay
	}
}

// WithLogger sets the logger for the watcher.
func WithLogger(logger observability.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// WithErrorCallback sets the error callback for the watcher.
func WithErrorCallback(callback ErrorCallback) WatcherOption {
	return func(w *Watcher) {
		w.errorCallback = callback
	}
}

// NewWatcher creates a new route table watcher.
func NewWatcher(path string, callback TableCallback, opts ...WatcherOption) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:          absPath,
		watcher:       fsWatcher,
		callback:      callback,
		debounceDelay: 100 * time.Millisecond,
		logger:        observability.L(),
		files:         map[string]bool{absPath: true},
		dirs:          make(map[string]bool),
		stopCh:        make(chan struct{}),
		stoppedCh:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// Start loads and validates the route table, then watches it for changes.
// The initial table is available from LastTable and is not passed to the
// callback.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	table, files, err := w.load()
	if err != nil {
		w.setRunning(false)
		return err
	}

	w.mu.Lock()
	w.lastTable = table
	w.mu.Unlock()

	if err := w.watchFiles(files); err != nil {
		w.setRunning(false)
		return err
	}

	w.logger.Info("started watching route table",
		observability.String("path", w.path),
		observability.Strings("files", files),
		observability.Int("routes", len(table.Routes)),
		observability.Duration("debounce", w.debounceDelay),
	)

	go w.watch(ctx)

	return nil
}

// Stop stops watching the route table file.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return w.watcher.Close()
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.stoppedCh

	return w.watcher.Close()
}

// LastTable returns the last successfully loaded route table.
func (w *Watcher) LastTable() *RouteTable {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastTable
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

func (w *Watcher) setRunning(running bool) {
	w.mu.Lock()
	w.running = running
	w.mu.Unlock()
}

// load reads and validates the route table. It also returns every file the
// table was assembled from.
func (w *Watcher) load() (*RouteTable, []string, error) {
	loader := NewLoader()
	table, err := loader.Load(w.path)
	if err != nil {
		return nil, nil, err
	}
	if err := ValidateRouteTable(table); err != nil {
		return nil, nil, err
	}
	return table, loader.Files(), nil
}

// watchFiles makes files the set of paths that trigger a reload. Editors
// often replace files, so their directories are watched. Directories are
// never removed, since events from them are filtered by path anyway.
func (w *Watcher) watchFiles(files []string) error {
	set := make(map[string]bool, len(files)+1)
	set[w.path] = true
	for _, f := range files {
		set[filepath.Clean(f)] = true
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.files = set
	for f := range set {
		dir := filepath.Dir(f)
		if w.dirs[dir] {
			continue
		}
		if err := w.watcher.Add(dir); err != nil {
			return err
		}
		w.dirs[dir] = true
	}
	return nil
}

func (w *Watcher) isWatched(name string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.files[filepath.Clean(name)]
}

// watch is the main watch loop.
func (w *Watcher) watch(ctx context.Context) {
	defer close(w.stoppedCh)

	var debounceTimer *time.Timer
	var debounceCh <-chan time.Time
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("route table watcher stopped due to context cancellation")
			return

		case <-w.stopCh:
			w.logger.Info("route table watcher stopped")
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			debounceTimer, debounceCh = w.handleFileEvent(event, debounceTimer, debounceCh)

		case <-debounceCh:
			debounceCh = nil
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.handleWatchError(err)
		}
	}
}

// handleFileEvent processes a file system event and returns updated debounce timer.
func (w *Watcher) handleFileEvent(
	event fsnotify.Event,
	debounceTimer *time.Timer,
	debounceCh <-chan time.Time,
) (timer *time.Timer, ch <-chan time.Time) {
	if !w.isWatched(event.Name) {
		return debounceTimer, debounceCh
	}

	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return debounceTimer, debounceCh
	}

	w.logger.Debug("route table changed",
		observability.String("path", event.Name),
		observability.String("op", event.Op.String()),
	)

	if debounceTimer != nil {
		debounceTimer.Stop()
	}
	debounceTimer = time.NewTimer(w.debounceDelay)
	return debounceTimer, debounceTimer.C
}

// handleWatchError handles watcher errors.
func (w *Watcher) handleWatchError(err error) {
	w.logger.Error("route table watcher error",
		observability.Error(err),
	)
	if w.errorCallback != nil {
		w.errorCallback(err)
	}
}

// reload attempts to reload the route table.
func (w *Watcher) reload() {
	w.logger.Info("reloading route table",
		observability.String("path", w.path),
	)

	table, files, err := w.load()
	if err != nil {
		w.logger.Error("route table reload failed, keeping previous table",
			observability.Error(err),
		)
		if w.errorCallback != nil {
			w.errorCallback(err)
		}
		return
	}

	w.mu.Lock()
	w.lastTable = table
	w.mu.Unlock()

	w.updateFiles(files)

	w.logger.Info("route table reloaded",
		observability.Int("routes", len(table.Routes)),
	)

	if w.callback != nil {
		w.callback(table)
	}
}

// updateFiles applies a new include set after a reload. Failing to watch a
// new directory is reported but does not reject the table.
func (w *Watcher) updateFiles(files []string) {
	if err := w.watchFiles(files); err != nil {
		w.handleWatchError(err)
	}
}

// ForceReload forces an immediate route table reload.
func (w *Watcher) ForceReload() error {
	table, files, err := w.load()
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.lastTable = table
	w.mu.Unlock()

	w.updateFiles(files)

	if w.callback != nil {
		w.callback(table)
	}

	return nil
}
