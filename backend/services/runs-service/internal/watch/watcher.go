// Package watch reports changes to the set of run files in the data directory.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"hotfire/backend/services/runs-service/internal/models"
)

const defaultDebounce = 250 * time.Millisecond

// DirWatcher calls onChange after run files are added, removed or renamed.
// Bursts of events (a copy in progress, a bulk import) collapse into one call.
type DirWatcher struct {
	dir      string
	watcher  *fsnotify.Watcher
	onChange func()
	debounce time.Duration
	logger   *zap.Logger
}

// NewDirWatcher starts watching dir. Run must be called to deliver events.
func NewDirWatcher(dir string, debounce time.Duration, onChange func(), logger *zap.Logger) (*DirWatcher, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve %s: %w", dir, err)
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create watcher: %w", err)
	}
	if err := fsWatcher.Add(absDir); err != nil {
		_ = fsWatcher.Close()
		return nil, fmt.Errorf("watch: add %s: %w", absDir, err)
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &DirWatcher{
		dir:      absDir,
		watcher:  fsWatcher,
		onChange: onChange,
		debounce: debounce,
		logger:   logger,
	}, nil
}

// Run delivers change notifications until ctx is done, then closes the watcher.
func (w *DirWatcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	w.logger.Info("watching data directory", zap.String("dir", w.dir))
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !affectsRunList(event) {
				continue
			}
			w.logger.Debug("run file changed", zap.String("file", event.Name), zap.String("op", event.Op.String()))
			timer.Reset(w.debounce)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("data directory watch error", zap.Error(err))
		case <-timer.C:
			w.onChange()
		}
	}
}

func affectsRunList(event fsnotify.Event) bool {
	if filepath.Ext(event.Name) != models.RunExtension {
		return false
	}
	return event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
}
