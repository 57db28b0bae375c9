package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"mentorlab/internal/logging"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches the data directory's config.yaml for changes and invokes
// a reload callback after the writes settle. Used to pick up logging
// changes without restarting a chat session.
type Watcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	configPath  string
	onReload    func()
	lastEvent   time.Time
	debounceDur time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
}

// NewWatcher creates a watcher for <dataDir>/config.yaml. onReload is
// invoked after changes settle past the debounce window.
func NewWatcher(dataDir string, onReload func()) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher:     w,
		configPath:  filepath.Join(dataDir, "config.yaml"),
		onReload:    onReload,
		debounceDur: 500 * time.Millisecond, // Debounce rapid saves
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Start begins watching. Non-blocking; the event loop runs in a goroutine.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	// Watch the directory, not the file: editors replace config.yaml by
	// rename, which drops a direct file watch.
	if err := w.watcher.Add(filepath.Dir(w.configPath)); err != nil {
		logging.Get(logging.CategoryBoot).Warn("config watcher: initial watch failed: %v", err)
	}

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for cleanup.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		logging.Get(logging.CategoryBoot).Error("config watcher: close: %v", err)
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Name != w.configPath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.mu.Lock()
			w.lastEvent = time.Now()
			w.mu.Unlock()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Get(logging.CategoryBoot).Error("config watcher: %v", err)
		case <-ticker.C:
			w.mu.Lock()
			settled := !w.lastEvent.IsZero() && time.Since(w.lastEvent) >= w.debounceDur
			if settled {
				w.lastEvent = time.Time{}
			}
			w.mu.Unlock()
			if settled {
				logging.Boot("config watcher: config.yaml changed, reloading")
				w.onReload()
			}
		}
	}
}
