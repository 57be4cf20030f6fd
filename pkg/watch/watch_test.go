package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func startWatcher(t *testing.T, path string) (<-chan string, *Watcher) {
	t.Helper()
	changes := make(chan string, 16)
	w, err := New(path, func(_ context.Context, text string) { changes <- text },
		WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = w.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return changes, w
}

func waitFor(t *testing.T, changes <-chan string, want string) {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case got := <-changes:
			if got == want {
				return
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %q", want)
		}
	}
}

func TestWatcherDeliversChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	if err := os.WriteFile(path, []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}
	changes, _ := startWatcher(t, path)

	if err := os.WriteFile(path, []byte(`{"a": 1}`), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, changes, `{"a": 1}`)
}

func TestWatcherFollowsRenameSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")
	if err := os.WriteFile(path, []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}
	changes, _ := startWatcher(t, path)

	tmp := filepath.Join(dir, ".doc.json.swp")
	if err := os.WriteFile(tmp, []byte(`[1]`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}
	waitFor(t, changes, `[1]`)
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")
	if err := os.WriteFile(path, []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}
	changes, _ := startWatcher(t, path)

	if err := os.WriteFile(filepath.Join(dir, "other.json"), []byte(`1`), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case got := <-changes:
		t.Fatalf("unexpected change %q", got)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherPrimeSkipsUnchanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	if err := os.WriteFile(path, []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}
	changes, w := startWatcher(t, path)
	w.Prime(`{}`)

	// Rewriting identical content is not a change.
	if err := os.WriteFile(path, []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case got := <-changes:
		t.Fatalf("unexpected change %q", got)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestNewMissingDir(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope", "doc.json"), func(context.Context, string) {})
	if err == nil {
		t.Fatal("New() on a missing directory should fail")
	}
}
