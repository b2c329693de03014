package catalog

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce groups bursts of editor writes into one reload.
const DefaultDebounce = 200 * time.Millisecond

// Watcher reloads a file-backed catalog when its files change and publishes
// the result through a Source.
//
// A reload that fails to parse or validate keeps the previous catalog.
//
// **Usage:**
//
//	w, err := catalog.NewWatcher(pattern, src, 0, logger)
//	if err != nil {
//	    return err
//	}
//	if err := w.Start(); err != nil {
//	    return err
//	}
//	defer w.Stop()
type Watcher struct {
	watcher  *fsnotify.Watcher
	pattern  string
	source   *Source
	debounce time.Duration
	logger   *slog.Logger

	// OnReload, when set, is called after every reload attempt.
	OnReload func(err error)

	timerMu sync.Mutex
	timer   *time.Timer

	stopChan chan struct{}
	stopped  bool
	mu       sync.Mutex
}

// NewWatcher creates a watcher for the catalog files matching pattern.
// A zero debounce selects DefaultDebounce.
func NewWatcher(pattern string, source *Source, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		watcher:  fw,
		pattern:  filepath.Clean(pattern),
		source:   source,
		debounce: debounce,
		logger:   logger,
		stopChan: make(chan struct{}),
	}, nil
}

// Start watches the directories holding the matched files and begins
// processing events in the background.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return fmt.Errorf("watcher already stopped")
	}
	w.mu.Unlock()

	paths, err := ResolveGlob(w.pattern)
	if err != nil {
		return err
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		dirs[filepath.Dir(p)] = true
	}
	for dir := range dirs {
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	w.logger.Info("catalog watcher started", "pattern", w.pattern, "dirs", len(dirs))

	go w.eventLoop()
	return nil
}

// Stop stops the watcher. Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.stopChan)

	w.timerMu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timerMu.Unlock()

	err := w.watcher.Close()
	w.logger.Info("catalog watcher stopped")
	return err
}

func (w *Watcher) eventLoop() {
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
			w.logger.Error("catalog watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !w.matches(event.Name) {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	w.logger.Debug("catalog file event", "op", event.Op.String(), "file", event.Name)
	w.scheduleReload()
}

// matches reports whether path is one of the catalog files.
func (w *Watcher) matches(path string) bool {
	ok, err := doublestar.PathMatch(w.pattern, filepath.Clean(path))
	return err == nil && ok
}

func (w *Watcher) scheduleReload() {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

// reload loads the catalog again and swaps it in on success.
func (w *Watcher) reload() {
	w.mu.Lock()
	stopped := w.stopped
	w.mu.Unlock()
	if stopped {
		return
	}

	qs, err := LoadAndQuery(w.pattern)
	if err != nil {
		w.logger.Warn("catalog reload failed, keeping previous catalog", "pattern", w.pattern, "error", err)
	} else {
		w.source.Swap(qs)
		w.logger.Info("catalog reloaded", "pattern", w.pattern, "apps", len(qs.Catalog.Apps))
	}

	if w.OnReload != nil {
		w.OnReload(err)
	}
}
