package generator

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce collapses bursts of events from a single save.
const watchDebounce = 100 * time.Millisecond

// Watch runs generation once and again after every change to the table
// list, until ctx is cancelled. onRun is called after each run. Runs never
// overlap.
func Watch(ctx context.Context, opts Options, onRun func(*Result, error)) error {
	logger := opts.logger()

	target, err := filepath.Abs(opts.TablesFile)
	if err != nil {
		return fmt.Errorf("failed to resolve table list path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Editors often replace the file, so watch the directory holding it.
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}

	onRun(Run(ctx, opts))

	debounce := time.NewTimer(watchDebounce)
	if !debounce.Stop() {
		<-debounce.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if name, err := filepath.Abs(event.Name); err != nil || name != target {
				continue
			}
			debounce.Reset(watchDebounce)
		case <-debounce.C:
			logger.Info("table list changed", slog.String("path", opts.TablesFile))
			onRun(Run(ctx, opts))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", slog.String("error", err.Error()))
		}
	}
}
