// Package watch re-runs work when a project definition file changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ymmah/quality-report/internal/logger"
)

// DefaultDebounce is the quiet period after the last change before reacting.
const DefaultDebounce = 500 * time.Millisecond

// FileWatcher calls onChange after a file was written, created or replaced.
type FileWatcher struct {
	path     string
	debounce time.Duration
	onChange func()
	log      logger.Logger
}

// NewFileWatcher creates a watcher for one file. A zero debounce means DefaultDebounce.
func NewFileWatcher(path string, debounce time.Duration, onChange func()) *FileWatcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &FileWatcher{
		path:     filepath.Clean(path),
		debounce: debounce,
		onChange: onChange,
		log:      logger.Named("watch"),
	}
}

// Run blocks until ctx is cancelled. The parent directory is watched rather
// than the file itself, since editors often save by renaming a temp file.
func (w *FileWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	debouncer := NewDebouncer(w.debounce, w.onChange)
	defer debouncer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path || !relevant(event.Op) {
				continue
			}
			w.log.Debug(ctx, "project definition changed",
				logger.String("path", event.Name), logger.String("op", event.Op.String()))
			debouncer.Trigger()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

func relevant(op fsnotify.Op) bool {
	return op.Has(fsnotify.Write) || op.Has(fsnotify.Create) || op.Has(fsnotify.Rename)
}
