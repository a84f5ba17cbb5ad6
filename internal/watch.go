package internal

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce window between a file event and the republish it triggers.
const watchDebounce = 500 * time.Millisecond

// Watch republishes the document at docPath every time it is saved, until
// the context is cancelled. Events caused by our own post-publish rewrite
// are suppressed.
func (a *App) Watch(ctx context.Context, docPath string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	abs := filepath.Join(a.Store.Root(), filepath.FromSlash(docPath))
	// Editors replace files on save, so watch the directory and filter by name.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", docPath, err)
	}

	a.logger.Info("watching document", slog.String("path", docPath))

	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	var lastPublish time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != filepath.Base(abs) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			// Skip the event burst from our own rewrite.
			if time.Since(lastPublish) < 2*time.Second {
				continue
			}
			timer.Reset(watchDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.logger.Warn("watch error", slog.String("error", err.Error()))

		case <-timer.C:
			if _, err := a.Service.Publish(ctx, docPath); err != nil {
				a.logger.Error("publish failed", slog.String("path", docPath), slog.String("error", err.Error()))
			}
			lastPublish = time.Now()
		}
	}
}
