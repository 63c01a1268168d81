package gateway

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/marmos91/ingressd/internal/logger"
)

// DefaultDebounce coalesces bursts of filesystem events into one reload.
const DefaultDebounce = 500 * time.Millisecond

// Watcher observes the resolved descriptor file on disk and triggers an
// ingress reload when it changes. Editors and config-management tools tend
// to write files with rename-and-replace, so the watch is placed on the
// parent directory and events are filtered by name.
type Watcher struct {
	ingress  *Ingress
	path     string
	debounce time.Duration

	fsw     *fsnotify.Watcher
	stopped chan struct{}
}

// NewWatcher creates a watcher for the descriptor file at path.
// If debounce is 0, DefaultDebounce is used.
func NewWatcher(ing *Ingress, path string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("descriptor watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("descriptor watcher: watch %q: %w", filepath.Dir(path), err)
	}

	return &Watcher{
		ingress:  ing,
		path:     filepath.Clean(path),
		debounce: debounce,
		fsw:      fsw,
		stopped:  make(chan struct{}),
	}, nil
}

// Start runs the watch loop until the context is cancelled or Stop is
// called.
func (w *Watcher) Start(ctx context.Context) {
	go func() {
		defer close(w.stopped)

		var timer *time.Timer
		var fire <-chan time.Time

		logger.Info("descriptor watcher started",
			logger.Descriptor(w.path),
			"debounce", w.debounce)

		for {
			select {
			case <-ctx.Done():
				logger.Debug("descriptor watcher stopping (context cancelled)")
				return

			case event, ok := <-w.fsw.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != w.path {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				if timer == nil {
					timer = time.NewTimer(w.debounce)
					fire = timer.C
				} else {
					timer.Reset(w.debounce)
				}

			case err, ok := <-w.fsw.Errors:
				if !ok {
					return
				}
				logger.Warn("descriptor watcher error", logger.Err(err))

			case <-fire:
				timer = nil
				fire = nil
				logger.Info("descriptor changed, reloading", logger.Descriptor(w.path))
				if err := w.ingress.Reload(); err != nil {
					logger.Error("descriptor reload failed",
						logger.Descriptor(w.path),
						logger.Err(err))
				}
			}
		}
	}()
}

// Stop closes the underlying filesystem watcher and waits for the loop to
// exit.
func (w *Watcher) Stop() {
	w.fsw.Close()
	<-w.stopped
	logger.Debug("descriptor watcher stopped")
}
