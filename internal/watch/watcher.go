// Package watch reports changes to rendering files under an FS storage root.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/scrivener/internal/storage"
)

// Event kinds passed to EventCallback.
const (
	EventWritten = "written"
	EventRemoved = "removed"
)

// EventCallback is called with the target name of a changed rendering file.
type EventCallback func(kind string, name string)

// debounce is how long a name must be quiet before its change is reported.
const debounce = 100 * time.Millisecond

// Watch starts an fsnotify watcher on the storage root and reports rendering
// file changes until ctx is cancelled. Bursts of events for the same name are
// collapsed into one report carrying the last kind seen.
//
// New directories created at runtime are added to the watch list.
func Watch(ctx context.Context, store *storage.FS, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, store.Root()); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", store.Root()))

	pending := make(map[string]string)
	var flushTimer *time.Timer
	var flushCh <-chan time.Time

	schedule := func(name, kind string) {
		pending[name] = kind
		if flushTimer == nil {
			flushTimer = time.NewTimer(debounce)
			flushCh = flushTimer.C
		} else {
			flushTimer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if flushTimer != nil {
				flushTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-flushCh:
			for name, kind := range pending {
				logger.Debug("watcher: output changed", slog.String("name", name), slog.String("op", kind))
				if cb != nil {
					cb(kind, name)
				}
			}
			clear(pending)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					}
					continue
				}
			}

			name, ok := store.NameOf(ev.Name)
			if !ok {
				continue
			}

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				schedule(name, EventWritten)
			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				schedule(name, EventRemoved)
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
