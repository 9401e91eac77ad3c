package store

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// SyncCallback is called after a watcher-driven seed re-sync.
type SyncCallback func()

// WatchSeed watches the seed catalog file and re-applies it when it changes,
// until ctx is cancelled. Editors typically write via rename, so the parent
// directory is watched and events are debounced before the file is re-read.
// cb (if non-nil) runs after each successful sync.
func WatchSeed(ctx context.Context, s Store, seedPath string, logger *slog.Logger, cb SyncCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	abs, err := filepath.Abs(seedPath)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("seed", abs))

	var debounce *time.Timer
	var debounceCh <-chan time.Time

	schedule := func() {
		if debounce == nil {
			debounce = time.NewTimer(200 * time.Millisecond)
			debounceCh = debounce.C
		} else {
			debounce.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-debounceCh:
			books, loadErr := LoadSeed(abs)
			if loadErr != nil {
				logger.Warn("watcher: seed reload failed", slog.String("error", loadErr.Error()))
				continue
			}
			if syncErr := SyncSeed(ctx, s, books, logger); syncErr != nil {
				logger.Warn("watcher: seed sync failed", slog.String("error", syncErr.Error()))
				continue
			}
			logger.Info("watcher: seed re-synced", slog.Int("books", len(books)))
			if cb != nil {
				cb()
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				schedule()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
