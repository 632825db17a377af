// Package watch reports changes made to the event file by other processes.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	defaultQuiet = 300 * time.Millisecond
	tick         = 100 * time.Millisecond
)

// FileWatcher calls OnChange once a watched file has stopped changing for
// the quiet period.
type FileWatcher struct {
	path     string
	quiet    time.Duration
	onChange func()
}

// New watches path. The parent directory is watched so the file may be
// created, replaced or removed while watching.
func New(path string, onChange func()) *FileWatcher {
	return &FileWatcher{path: path, quiet: defaultQuiet, onChange: onChange}
}

// WithQuietPeriod sets how long the file must stay untouched before
// OnChange runs.
func (w *FileWatcher) WithQuietPeriod(d time.Duration) *FileWatcher {
	w.quiet = d
	return w
}

// Run blocks until ctx is done or the underlying watcher fails.
func (w *FileWatcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create watched directory: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	name := filepath.Base(w.path)
	slog.InfoContext(ctx, "Watching event file", "path", w.path)

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	var pending time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != name || ev.Op == fsnotify.Chmod {
				continue
			}
			pending = time.Now()
		case <-ticker.C:
			if !pending.IsZero() && time.Since(pending) >= w.quiet {
				pending = time.Time{}
				slog.DebugContext(ctx, "Event file changed", "path", w.path)
				w.onChange()
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.WarnContext(ctx, "Watch error", "path", w.path, "error", err)
		}
	}
}
