package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Handler processes one settled CSV file.
type Handler func(ctx context.Context, path string)

// Watcher tails an input directory and hands new or rewritten CSV
// exports to a handler once they stop changing. Chat platforms export in
// bursts and partial writes are common, so events are debounced: a file
// is only handed over after settle time passes with no further writes.
type Watcher struct {
	Dir     string
	Settle  time.Duration
	Logger  *slog.Logger
	Handler Handler

	pending map[string]time.Time
}

func New(dir string, settle time.Duration, logger *slog.Logger, handler Handler) *Watcher {
	if settle <= 0 {
		settle = 2 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		Dir:     dir,
		Settle:  settle,
		Logger:  logger,
		Handler: handler,
		pending: map[string]time.Time{},
	}
}

// Run blocks until ctx is cancelled, dispatching settled files as they
// appear. Watch errors are logged, not fatal; the watcher rides out
// transient filesystem noise.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.Dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.Dir, err)
	}
	w.Logger.Info("watching for new exports", "dir", w.Dir, "settle", w.Settle.String())

	ticker := time.NewTicker(w.Settle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.observe(ev, time.Now())

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.Logger.Warn("watch error", "error", err)

		case now := <-ticker.C:
			for _, path := range w.takeSettled(now) {
				w.Logger.Info("new export settled", "file", filepath.Base(path))
				w.Handler(ctx, path)
			}
		}
	}
}

// observe records a relevant event, restarting the settle clock for the
// file it names.
func (w *Watcher) observe(ev fsnotify.Event, now time.Time) {
	if !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Write) {
		return
	}
	if !strings.EqualFold(filepath.Ext(ev.Name), ".csv") {
		return
	}
	w.pending[ev.Name] = now
}

// takeSettled removes and returns every pending file whose last event is
// at least Settle old, sorted for deterministic dispatch order.
func (w *Watcher) takeSettled(now time.Time) []string {
	var ready []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.Settle {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	sort.Strings(ready)
	return ready
}
