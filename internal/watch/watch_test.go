package watch

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestObserveTracksOnlyCSVWrites(t *testing.T) {
	w := New(t.TempDir(), time.Second, discard(), nil)
	now := time.Now()

	w.observe(fsnotify.Event{Name: "a.csv", Op: fsnotify.Create}, now)
	w.observe(fsnotify.Event{Name: "b.CSV", Op: fsnotify.Write}, now)
	w.observe(fsnotify.Event{Name: "notes.txt", Op: fsnotify.Create}, now)
	w.observe(fsnotify.Event{Name: "c.csv", Op: fsnotify.Remove}, now)

	if len(w.pending) != 2 {
		t.Errorf("pending: %v", w.pending)
	}
}

func TestTakeSettledHonorsSettleWindow(t *testing.T) {
	w := New(t.TempDir(), 2*time.Second, discard(), nil)
	base := time.Now()

	w.observe(fsnotify.Event{Name: "old.csv", Op: fsnotify.Create}, base)
	w.observe(fsnotify.Event{Name: "fresh.csv", Op: fsnotify.Create}, base.Add(1500*time.Millisecond))

	ready := w.takeSettled(base.Add(2 * time.Second))
	if len(ready) != 1 || ready[0] != "old.csv" {
		t.Fatalf("ready: %v", ready)
	}
	// fresh.csv stays pending until its own window elapses.
	ready = w.takeSettled(base.Add(4 * time.Second))
	if len(ready) != 1 || ready[0] != "fresh.csv" {
		t.Errorf("second flush: %v", ready)
	}
	if len(w.pending) != 0 {
		t.Errorf("pending not drained: %v", w.pending)
	}
}

// A rewrite restarts the settle clock.
func TestRewriteRestartsClock(t *testing.T) {
	w := New(t.TempDir(), 2*time.Second, discard(), nil)
	base := time.Now()

	w.observe(fsnotify.Event{Name: "a.csv", Op: fsnotify.Create}, base)
	w.observe(fsnotify.Event{Name: "a.csv", Op: fsnotify.Write}, base.Add(1900*time.Millisecond))

	if ready := w.takeSettled(base.Add(2 * time.Second)); len(ready) != 0 {
		t.Errorf("dispatched before settling: %v", ready)
	}
}

func TestRunDispatchesNewExport(t *testing.T) {
	dir := t.TempDir()

	var mu sync.Mutex
	var got []string
	handler := func(ctx context.Context, path string) {
		mu.Lock()
		got = append(got, filepath.Base(path))
		mu.Unlock()
	}

	w := New(dir, 100*time.Millisecond, discard(), handler)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register before writing.
	time.Sleep(200 * time.Millisecond)
	path := filepath.Join(dir, "chat_new.csv")
	if err := os.WriteFile(path, []byte("Time,Sender Type,Message\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(5 * time.Second)
	for {
		mu.Lock()
		n := len(got)
		mu.Unlock()
		if n > 0 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("handler never called")
		case <-time.After(50 * time.Millisecond):
		}
	}

	cancel()
	if err := <-done; err != context.Canceled {
		t.Errorf("Run returned %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if got[0] != "chat_new.csv" {
		t.Errorf("dispatched: %v", got)
	}
}
