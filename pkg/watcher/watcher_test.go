package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func waitForChange(t *testing.T, w *Watcher, timeout time.Duration) bool {
	t.Helper()
	select {
	case <-w.Changed():
		return true
	case <-time.After(timeout):
		return false
	}
}

func newStartedWatcher(t *testing.T, path string) *Watcher {
	t.Helper()
	w, err := New(path,
		WithDebounceDuration(10*time.Millisecond),
		WithPollInterval(20*time.Millisecond),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(w.Stop)
	return w
}

func TestWriteTriggersChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.json")
	if err := os.WriteFile(path, []byte(`{}`), 0o600); err != nil {
		t.Fatal(err)
	}

	w := newStartedWatcher(t, path)

	if err := os.WriteFile(path, []byte(`{"nome":"Ana"}`), 0o600); err != nil {
		t.Fatal(err)
	}
	if !waitForChange(t, w, 3*time.Second) {
		t.Fatal("expected change notification after write")
	}
}

func TestRemoveTriggersChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.json")
	if err := os.WriteFile(path, []byte(`{}`), 0o600); err != nil {
		t.Fatal(err)
	}

	w := newStartedWatcher(t, path)

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if !waitForChange(t, w, 3*time.Second) {
		t.Fatal("expected change notification after remove")
	}
}

func TestCreateOfMissingFileTriggersChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.json")

	w := newStartedWatcher(t, path)

	if err := os.WriteFile(path, []byte(`{}`), 0o600); err != nil {
		t.Fatal(err)
	}
	if !waitForChange(t, w, 3*time.Second) {
		t.Fatal("expected change notification after create")
	}
}

func TestPollingFallback(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.json")
	if err := os.WriteFile(path, []byte(`{}`), 0o600); err != nil {
		t.Fatal(err)
	}

	w, err := New(path,
		WithForcePoll(true),
		WithDebounceDuration(10*time.Millisecond),
		WithPollInterval(20*time.Millisecond),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(w.Stop)

	if !w.IsPolling() {
		t.Fatal("expected polling mode")
	}

	// Size change guarantees the poll notices regardless of mtime
	// granularity.
	if err := os.WriteFile(path, []byte(`{"nome":"Ana","cargo":"tecnico"}`), 0o600); err != nil {
		t.Fatal(err)
	}
	if !waitForChange(t, w, 3*time.Second) {
		t.Fatal("expected change notification in polling mode")
	}
}

func TestStartTwiceFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	w := newStartedWatcher(t, path)
	if err := w.Start(); err != ErrAlreadyStarted {
		t.Fatalf("second Start = %v, want ErrAlreadyStarted", err)
	}
}
