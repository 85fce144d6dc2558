package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceDuration = 200 * time.Millisecond

// Watcher reloads a config file whenever it is written, created or renamed
// into place, and hands the new Config to onReload.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	onReload func(*Config)
	logger   *slog.Logger
	mu       sync.Mutex
	timer    *time.Timer
	running  bool
}

func NewWatcher(path string, logger *slog.Logger, onReload func(*Config)) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	return &Watcher{
		watcher:  w,
		path:     abs,
		onReload: onReload,
		logger:   logger,
	}, nil
}

// Start watches the directory holding the config file so editors that replace
// the file atomically are still seen.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}

	go w.processEvents(ctx)
	return nil
}

func (w *Watcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			w.schedule(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Config watcher error", "error", err)
		}
	}
}

// schedule reloads once the file has been quiet for debounceDuration, so a
// truncate followed by a write is read as a single change.
func (w *Watcher) schedule(event fsnotify.Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(debounceDuration, func() { w.reload(event) })
}

func (w *Watcher) reload(event fsnotify.Event) {
	cfg, _, err := Load(w.path)
	if err != nil {
		w.logger.Warn("Config reload failed", "path", w.path, "error", err)
		return
	}
	w.logger.Info("Config reloaded", "path", w.path, "op", event.Op.String())
	if w.onReload != nil {
		w.onReload(cfg)
	}
}

func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}
