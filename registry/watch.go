package registry

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the registry config file whenever it changes and sends
// each valid new snapshot on the returned channel. Snapshots that fail
// to load or validate are logged and skipped, so a half-written file
// never replaces a good registry. The channel is closed when the
// context is cancelled.
//
// Each *Registry received is a fresh immutable value; swap it into
// your router at whatever point is convenient. The initial load is
// performed before Watch returns, so the channel always starts with
// one snapshot.
func Watch(ctx context.Context, path string, logger *slog.Logger) (<-chan *Registry, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	initial, err := Load(path)
	if err != nil {
		return nil, err
	}

	ch := make(chan *Registry, 1)
	ch <- initial

	go func() {
		defer close(ch)

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			logger.Warn("fsnotify unavailable, falling back to polling",
				slog.Any("error", err))
			watchPolling(ctx, path, ch, logger)
			return
		}
		defer watcher.Close()

		// Watch the directory: editors often replace the file rather
		// than writing it in place.
		if err := watcher.Add(filepath.Dir(path)); err != nil {
			logger.Warn("watch dir failed, falling back to polling",
				slog.Any("error", err))
			watchPolling(ctx, path, ch, logger)
			return
		}

		baseName := filepath.Base(path)
		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != baseName {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				reloadInto(ctx, path, ch, logger)

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("registry watch error", slog.Any("error", err))
			}
		}
	}()

	return ch, nil
}

// watchPolling reloads on a fixed interval when fsnotify isn't usable.
func watchPolling(ctx context.Context, path string, ch chan<- *Registry, logger *slog.Logger) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	var lastMod time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			info, err := os.Stat(path)
			if err != nil {
				continue
			}
			if !info.ModTime().After(lastMod) {
				continue
			}
			lastMod = info.ModTime()
			reloadInto(ctx, path, ch, logger)
		}
	}
}

func reloadInto(ctx context.Context, path string, ch chan<- *Registry, logger *slog.Logger) {
	reg, err := Load(path)
	if err != nil {
		logger.Warn("registry reload failed, keeping previous snapshot",
			slog.String("path", path),
			slog.Any("error", err))
		return
	}
	logger.Info("registry reloaded",
		slog.String("path", path),
		slog.Int("models", reg.Len()))
	select {
	case ch <- reg:
	case <-ctx.Done():
	}
}
