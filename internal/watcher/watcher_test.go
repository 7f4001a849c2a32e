package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func writeSnippets(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(`{"a": {"prefix": "a", "body": "a"}}`), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestPollInterval(t *testing.T) {
	tests := []struct {
		files    int
		expected time.Duration
	}{
		{0, 1 * time.Second},
		{70, 1 * time.Second},
		{499, 1 * time.Second},
		{500, 2 * time.Second},
		{2000, 5 * time.Second},
		{50000, 60 * time.Second},
	}
	for _, tt := range tests {
		got := pollInterval(time.Second, tt.files)
		if got != tt.expected {
			t.Errorf("pollInterval(%d) = %v, want %v", tt.files, got, tt.expected)
		}
	}
	if got := pollInterval(2*time.Second, 500); got != 4*time.Second {
		t.Errorf("pollInterval(2s, 500) = %v", got)
	}
}

func TestCaptureSnapshot(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "go.json")
	writeSnippets(t, file)
	// Not a snippet file.
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	snap1, err := captureSnapshot(context.Background(), root)
	if err != nil {
		t.Fatal(err)
	}
	if snap1.files != 1 {
		t.Fatalf("expected 1 file, got %d", snap1.files)
	}
	again, _ := captureSnapshot(context.Background(), root)
	if *again != *snap1 {
		t.Error("unchanged tree should hash equally")
	}

	now := time.Now().Add(time.Second)
	if err := os.Chtimes(file, now, now); err != nil {
		t.Fatal(err)
	}
	snap2, err := captureSnapshot(context.Background(), root)
	if err != nil {
		t.Fatal(err)
	}
	if *snap1 == *snap2 {
		t.Error("snapshots should differ after mtime change")
	}

	missing, err := captureSnapshot(context.Background(), filepath.Join(root, "nope"))
	if err != nil || missing.files != 0 {
		t.Errorf("missing root: %v, %v", missing, err)
	}
}

func resetPolls(w *Watcher) {
	for _, state := range w.states {
		state.nextPoll = time.Time{}
	}
}

func TestWatcherTriggersOnChange(t *testing.T) {
	root := filepath.Join(t.TempDir(), "extensions")
	file := filepath.Join(root, "golang.go-0.40.0", "snippets", "go.json")
	writeSnippets(t, file)

	var refreshCount atomic.Int32
	var lastRoot atomic.Value
	w := New(func() []string { return []string{root} }, func(_ context.Context, r string) error {
		refreshCount.Add(1)
		lastRoot.Store(r)
		return nil
	}, time.Second)

	w.pollAll()
	if refreshCount.Load() != 0 {
		t.Errorf("first poll should not refresh, got %d", refreshCount.Load())
	}

	resetPolls(w)
	w.pollAll()
	if refreshCount.Load() != 0 {
		t.Errorf("no-change poll should not refresh, got %d", refreshCount.Load())
	}

	now := time.Now().Add(time.Second)
	if err := os.Chtimes(file, now, now); err != nil {
		t.Fatal(err)
	}
	resetPolls(w)
	w.pollAll()
	if refreshCount.Load() != 1 {
		t.Errorf("changed file should refresh, got %d", refreshCount.Load())
	}
	if lastRoot.Load() != root {
		t.Errorf("refresh root = %v", lastRoot.Load())
	}

	writeSnippets(t, filepath.Join(root, "golang.go-0.41.0", "snippets", "go.json"))
	resetPolls(w)
	w.pollAll()
	if refreshCount.Load() != 2 {
		t.Errorf("new plugin should refresh, got %d", refreshCount.Load())
	}
}

func TestWatcherRootCreatedLater(t *testing.T) {
	root := filepath.Join(t.TempDir(), ".vscode")

	var refreshCount atomic.Int32
	w := New(func() []string { return []string{root} }, func(context.Context, string) error {
		refreshCount.Add(1)
		return nil
	}, 0)

	w.pollAll()
	writeSnippets(t, filepath.Join(root, "team.code-snippets"))
	resetPolls(w)
	w.pollAll()
	if refreshCount.Load() != 1 {
		t.Errorf("created root should refresh, got %d", refreshCount.Load())
	}
}

func TestWatcherRetriesFailedRefresh(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "go.json")
	writeSnippets(t, file)

	var calls atomic.Int32
	w := New(func() []string { return []string{root} }, func(context.Context, string) error {
		if calls.Add(1) == 1 {
			return os.ErrPermission
		}
		return nil
	}, time.Second)

	w.pollAll()
	now := time.Now().Add(time.Second)
	if err := os.Chtimes(file, now, now); err != nil {
		t.Fatal(err)
	}
	resetPolls(w)
	w.pollAll()
	resetPolls(w)
	w.pollAll()
	if calls.Load() != 2 {
		t.Errorf("failed refresh should be retried, got %d calls", calls.Load())
	}
	resetPolls(w)
	w.pollAll()
	if calls.Load() != 2 {
		t.Errorf("successful refresh should update the baseline, got %d calls", calls.Load())
	}
}

func TestWatcherCancellation(t *testing.T) {
	w := New(func() []string { return nil }, func(context.Context, string) error { return nil }, 0)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not stop after context cancellation")
	}
}
