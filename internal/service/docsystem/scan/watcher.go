package scan

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher rescans the document library after changes on disk settle.
// Bursts of events inside the debounce window cause a single rescan.
type Watcher struct {
	library  *Library
	watcher  *fsnotify.Watcher
	debounce time.Duration
	logger   *slog.Logger
}

// NewWatcher creates a watcher over the library's folders
func NewWatcher(library *Library, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	return &Watcher{
		library:  library,
		watcher:  w,
		debounce: debounce,
		logger:   logger,
	}, nil
}

// Run watches until ctx is done, then closes the underlying watcher
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	if err := w.syncFolders(); err != nil {
		return err
	}
	w.logger.Info("watching document library", "folders", len(w.watcher.WatchList()))

	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			w.logger.Debug("document library changed", "path", event.Name, "op", event.Op.String())
			timer.Reset(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", "error", err)

		case <-timer.C:
			if err := w.library.Rescan(ctx); err != nil {
				continue
			}
			if err := w.syncFolders(); err != nil {
				w.logger.Warn("failed to update watched folders", "error", err)
			}
		}
	}
}

// syncFolders watches new top-level folders and forgets removed ones
func (w *Watcher) syncFolders() error {
	want := w.library.Folders()
	have := w.watcher.WatchList()

	for _, dir := range have {
		if !slices.Contains(want, dir) {
			_ = w.watcher.Remove(dir)
		}
	}
	for _, dir := range want {
		if slices.Contains(have, dir) {
			continue
		}
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
	}
	return nil
}

func relevant(event fsnotify.Event) bool {
	return event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Remove) ||
		event.Has(fsnotify.Rename)
}
