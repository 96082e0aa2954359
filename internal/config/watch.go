package config

import (
	"context"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay coalesces the burst of fsnotify events an editor save
// produces into a single reload. The monitor only applies changes between
// probe ticks, so finer granularity buys nothing.
const debounceDelay = 250 * time.Millisecond

// Watch monitors the config file at path and calls onChange with the newly
// loaded Config after each save. It runs until ctx is cancelled.
//
// If a reload fails (e.g., invalid YAML), the error is logged and the running
// probe settings stay in effect — Watch does not call onChange.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	slog.Info("config: watching for changes", "path", path)

	// Armed by events, idle otherwise.
	debounce := time.NewTimer(debounceDelay)
	if !debounce.Stop() {
		<-debounce.C
	}
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Write covers in-place saves; Create catches editors that save
			// via rename (atomic save).
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !debounce.Stop() {
				select {
				case <-debounce.C:
				default:
				}
			}
			debounce.Reset(debounceDelay)

		case <-debounce.C:
			cfg, err := Load(path)
			if err != nil {
				slog.Error("config: reload failed — keeping previous settings",
					"path", path, "err", err)
				continue
			}

			slog.Info("config: reloaded",
				"target", cfg.Probe.Target,
				"method", cfg.Probe.Method,
				"interval", cfg.Probe.Interval,
				"history", cfg.History.Size,
			)
			onChange(cfg)

			// An atomic save replaces the inode; re-add so the next save
			// is seen too.
			_ = watcher.Add(path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("config: watcher error", "err", err)
		}
	}
}
