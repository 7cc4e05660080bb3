package contact

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 150 * time.Millisecond

// CountCallback receives the message count after the log changes on disk.
type CountCallback func(count int)

// Watch observes the data directory and calls cb with the current message count
// whenever the log file is created or replaced. Bursts of events are coalesced.
// It returns when ctx is cancelled.
func (s *Sink) Watch(ctx context.Context, logger *slog.Logger, cb CountCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	root := s.files.Root()
	if err := w.Add(root); err != nil {
		return err
	}
	logger.Info("inbox watcher: started", slog.String("root", root))

	var timer *time.Timer
	var fire <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(watchDebounce)
			fire = timer.C
			return
		}
		timer.Reset(watchDebounce)
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("inbox watcher: stopped")
			return nil

		case <-fire:
			n, err := s.Count()
			if err != nil {
				logger.Warn("inbox watcher: count failed", slog.String("error", err.Error()))
				continue
			}
			logger.Debug("inbox watcher: log changed", slog.Int("count", n))
			if cb != nil {
				cb(n)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != LogFileName {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) != 0 {
				schedule()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("inbox watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
