package archive

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const reloadDebounce = 200 * time.Millisecond

// Watcher reloads a local catalog file into a Service whenever it changes.
// An invalid document is logged and the previous catalog stays in place.
type Watcher struct {
	path    string
	loader  *Loader
	service *Service
	logger  *zap.Logger
}

// NewWatcher creates a Watcher for the catalog at path.
func NewWatcher(path string, loader *Loader, service *Service, logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{path: path, loader: loader, service: service, logger: logger}
}

// Run watches until ctx is done. The containing directory is watched so
// editors that replace the file on save are still seen.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", w.path, err)
	}

	target := filepath.Clean(w.path)
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				pending = time.After(reloadDebounce)
			}

		case <-pending:
			pending = nil
			w.reload(ctx)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("catalog watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload(ctx context.Context) {
	c, err := w.loader.LoadErr(ctx, w.path)
	if err != nil {
		w.logger.Warn("catalog reload rejected, keeping previous", zap.String("path", w.path), zap.Error(err))
		return
	}
	w.service.Swap(c)
	w.logger.Info("catalog reloaded", zap.String("path", w.path), zap.Int("entries", c.TotalEntries()))
}
