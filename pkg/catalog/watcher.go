package catalog

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for a burst of file events to settle.
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches an icon source directory and runs a rebuild callback when
// SVG files are added, changed or removed. It is used by the offline build
// command only; the server never rebuilds its catalog.
type Watcher struct {
	srcDir       string
	watcher      *fsnotify.Watcher
	rebuild      func() error
	logger       *slog.Logger
	mu           sync.Mutex
	rebuildMu    sync.Mutex
	running      bool
	stopCh       chan struct{}
	debounceTime time.Duration
}

// NewWatcher creates a watcher for srcDir.
func NewWatcher(srcDir string, rebuild func() error, logger *slog.Logger) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		srcDir:       srcDir,
		watcher:      w,
		rebuild:      rebuild,
		logger:       logger,
		stopCh:       make(chan struct{}),
		debounceTime: DefaultDebounce,
	}, nil
}

// SetDebounce overrides the debounce window. Must be called before Start.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounceTime = d
}

// Start begins watching. It returns immediately; events are handled in the background.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(w.srcDir); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return err
	}

	w.logger.Info("Icon watcher started", "src_dir", w.srcDir)

	go w.watchLoop(ctx)
	return nil
}

// Stop stops the watcher and releases the underlying inotify handle.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	return w.watcher.Close()
}

// IsRunning returns whether the watcher is currently running
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Watcher) watchLoop(ctx context.Context) {
	var debounceTimer *time.Timer

	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !isIconEvent(event) {
				continue
			}

			w.logger.Debug("Icon source event", "event", event.Op.String(), "file", event.Name)

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(w.debounceTime, w.triggerRebuild)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Icon watcher error", "error", err)

		case <-w.stopCh:
			w.logger.Info("Icon watcher stopped")
			return

		case <-ctx.Done():
			w.logger.Info("Icon watcher context cancelled")
			return
		}
	}
}

func isIconEvent(event fsnotify.Event) bool {
	if !strings.EqualFold(filepath.Ext(event.Name), SourceExt) {
		return false
	}
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}

// triggerRebuild runs at most one rebuild at a time; a debounce timer that
// fires during a slow rebuild waits for it to finish.
func (w *Watcher) triggerRebuild() {
	w.rebuildMu.Lock()
	defer w.rebuildMu.Unlock()

	w.logger.Info("Icon sources changed, rebuilding catalog", "src_dir", w.srcDir)

	start := time.Now()
	if err := w.rebuild(); err != nil {
		w.logger.Error("Catalog rebuild failed", "error", err, "duration", time.Since(start))
		return
	}
	w.logger.Info("Catalog rebuilt", "duration", time.Since(start))
}
