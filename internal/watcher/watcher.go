// Package watcher signals when a turtle document changes on disk.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/loamstudio/turtlemesh/internal/logger"
)

// Watcher debounces filesystem events for a single document. Editors
// often replace files by rename, so the parent directory is watched and
// events are filtered to the target path.
type Watcher struct {
	path     string
	debounce time.Duration
	fw       *fsnotify.Watcher
	notify   chan struct{}

	mu    sync.Mutex
	timer *time.Timer
}

// New watches the document at path. Change notifications arrive on C
// after the debounce window closes.
func New(path string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{
		path:     abs,
		debounce: debounce,
		fw:       fw,
		notify:   make(chan struct{}, 1),
	}, nil
}

// C delivers one signal per burst of changes.
func (w *Watcher) C() <-chan struct{} {
	return w.notify
}

// Start consumes filesystem events until ctx is canceled or the watcher
// is closed.
func (w *Watcher) Start(ctx context.Context) {
	go w.loop(ctx)
}

func (w *Watcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			logger.Debug("document changed",
				zap.String("path", ev.Name),
				zap.String("op", ev.Op.String()))
			w.schedule()

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			logger.Warn("watch error", zap.Error(err))
		}
	}
}

// schedule arms the debounce timer, restarting it if an earlier event
// is still pending.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case w.notify <- struct{}{}:
		default:
		}
	})
}

// Close stops event delivery. A pending debounced notification is
// dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()
	return w.fw.Close()
}
