// Package watcher reports when the tally database file is removed while the
// tracker is running.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Watcher monitors a file for deletion and calls onDelete when it is removed.
// It watches the parent directory since fsnotify cannot watch non-existent files.
type Watcher struct {
	targetPath string
	parentPath string
	onDelete   func(path string)
	watcher    *fsnotify.Watcher
	debounce   time.Duration
	deleted    atomic.Bool

	mu      sync.Mutex
	cancel  context.CancelFunc
	stopped chan struct{}
}

// New creates a Watcher for targetPath. onDelete may be nil.
func New(targetPath string, onDelete func(path string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	target := filepath.Clean(targetPath)
	return &Watcher{
		targetPath: target,
		parentPath: filepath.Dir(target),
		onDelete:   onDelete,
		watcher:    fsw,
		debounce:   100 * time.Millisecond,
	}, nil
}

// Start begins watching until ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		return nil
	}

	if err := w.watcher.Add(w.parentPath); err != nil {
		return err
	}

	ctx, w.cancel = context.WithCancel(ctx)
	w.stopped = make(chan struct{})
	go w.watchLoop(ctx)

	log.Debug().Str("path", w.targetPath).Msg("Watching database file")
	return nil
}

// Stop stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	cancel, stopped := w.cancel, w.stopped
	w.cancel = nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
		<-stopped
	}
	return w.watcher.Close()
}

// Deleted reports whether the target is currently missing.
func (w *Watcher) Deleted() bool {
	return w.deleted.Load()
}

func (w *Watcher) watchLoop(ctx context.Context) {
	defer close(w.stopped)

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.targetPath {
				continue
			}

			switch {
			case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(w.debounce, w.handleDeletion)

			case event.Op&fsnotify.Create != 0:
				// Recreated within the debounce window: not a deletion.
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				if w.deleted.Swap(false) {
					log.Info().Str("path", w.targetPath).Msg("Database file recreated")
				}
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Error().Err(err).Msg("Watcher error")
		}
	}
}

func (w *Watcher) handleDeletion() {
	if _, err := os.Stat(w.targetPath); err == nil {
		return
	}
	if w.deleted.Swap(true) {
		return
	}

	log.Warn().Str("path", w.targetPath).Msg("Database file was deleted, entries recorded from now on may be lost")
	if w.onDelete != nil {
		w.onDelete(w.targetPath)
	}
}
