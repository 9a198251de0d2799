// # internal/core/watcher/watcher_test.go
package watcher

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"shadow/internal/core/errors"
)

func scriptOptions(debounce time.Duration) Options {
	return Options{
		Debounce:     debounce,
		ExcludeDirs:  []string{"node_modules"},
		ExcludeFiles: []string{"*.gen.ts"},
		Extensions:   []string{"ts", "js", "tsx", "jsx"},
	}
}

func waitFor(t *testing.T, ch <-chan []string, want string, timeout time.Duration) {
	t.Helper()
	deadline := time.After(timeout)
	for {
		select {
		case paths := <-ch:
			for _, p := range paths {
				if p == want {
					return
				}
			}
		case <-deadline:
			t.Fatalf("timed out waiting for change event on %s", want)
		}
	}
}

func TestNewWatcher_RejectsNilCallback(t *testing.T) {
	w, err := NewWatcher(scriptOptions(100*time.Millisecond), nil)
	if err == nil {
		t.Fatal("expected error for nil callback")
	}
	if !stderrors.Is(err, os.ErrInvalid) {
		t.Fatalf("expected os.ErrInvalid, got %v", err)
	}
	if w != nil {
		t.Fatal("expected nil watcher when callback is invalid")
	}
}

func TestNewWatcher_RejectsInvalidPattern(t *testing.T) {
	opts := scriptOptions(time.Millisecond)
	opts.ExcludeDirs = []string{"[broken"}
	_, err := NewWatcher(opts, func([]string) {})
	if !errors.IsCode(err, errors.CodeValidationError) {
		t.Fatalf("expected VALIDATION_ERROR for invalid glob, got %v", err)
	}
}

func TestWatcher(t *testing.T) {
	tmpDir := t.TempDir()

	changedFiles := make(chan []string, 8)
	w, err := NewWatcher(scriptOptions(100*time.Millisecond), func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch([]string{tmpDir}); err != nil {
		t.Fatal(err)
	}

	testFile := filepath.Join(tmpDir, "app.ts")
	if err := os.WriteFile(testFile, []byte("export function app() {}"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, changedFiles, testFile, 2*time.Second)

	// Non-script and excluded files stay quiet.
	os.WriteFile(filepath.Join(tmpDir, "notes.md"), []byte("# notes"), 0o644)
	os.WriteFile(filepath.Join(tmpDir, "api.gen.ts"), []byte("export const x = 1"), 0o644)

	select {
	case paths := <-changedFiles:
		for _, p := range paths {
			base := filepath.Base(p)
			if base == "notes.md" || base == "api.gen.ts" {
				t.Errorf("Excluded file %s triggered event", base)
			}
		}
	case <-time.After(500 * time.Millisecond):
	}

	// New directory should be recursively watched after create.
	subdir := filepath.Join(tmpDir, "src", "lib")
	if err := os.MkdirAll(subdir, 0o755); err != nil {
		t.Fatal(err)
	}
	subFile := filepath.Join(subdir, "util.js")
	if err := os.WriteFile(subFile, []byte("module.exports = {}"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, changedFiles, subFile, 2*time.Second)
}

func TestWatcher_RenameTriggersChange(t *testing.T) {
	tmpDir := t.TempDir()

	changedFiles := make(chan []string, 8)
	w, err := NewWatcher(scriptOptions(100*time.Millisecond), func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch([]string{tmpDir}); err != nil {
		t.Fatal(err)
	}

	oldPath := filepath.Join(tmpDir, "old.ts")
	newPath := filepath.Join(tmpDir, "new.ts")
	if err := os.WriteFile(oldPath, []byte("class Old {"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(oldPath, newPath); err != nil {
		t.Fatal(err)
	}

	timeout := time.After(2 * time.Second)
	for {
		select {
		case paths := <-changedFiles:
			for _, p := range paths {
				if p == oldPath || p == newPath {
					return
				}
			}
		case <-timeout:
			t.Fatalf("timed out waiting for rename event, old=%s new=%s", oldPath, newPath)
		}
	}
}

func TestWatcher_DebounceBatchesSorted(t *testing.T) {
	changedFiles := make(chan []string, 4)
	w, err := NewWatcher(scriptOptions(50*time.Millisecond), func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	w.queue("/w/c.ts")
	w.queue("/w/a.ts")
	w.queue("/w/c.ts")
	w.queue("/w/b.ts")

	select {
	case paths := <-changedFiles:
		want := []string{"/w/a.ts", "/w/b.ts", "/w/c.ts"}
		if !sort.StringsAreSorted(paths) || len(paths) != len(want) {
			t.Fatalf("expected one sorted batch %v, got %v", want, paths)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for debounced batch")
	}
}

func TestWatcher_ExtensionFilters(t *testing.T) {
	w, err := NewWatcher(scriptOptions(10*time.Millisecond), func([]string) {})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if !w.filter.skipFile("main.py") {
		t.Fatal("expected .py to be excluded")
	}
	if w.filter.skipFile("View.TSX") {
		t.Fatal("expected extension matching to be case-insensitive")
	}
	if !w.filter.skipFile("schema.gen.ts") {
		t.Fatal("expected exclude-file glob to apply")
	}
	if !w.filter.skipDir("/repo/node_modules") {
		t.Fatal("expected node_modules to be excluded")
	}
}

func TestWatcher_CloseDropsPending(t *testing.T) {
	called := make(chan struct{}, 1)
	w, err := NewWatcher(scriptOptions(20*time.Millisecond), func([]string) {
		called <- struct{}{}
	})
	if err != nil {
		t.Fatal(err)
	}

	w.queue("/w/a.ts")
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	select {
	case <-called:
		t.Fatal("expected no callback after Close")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatcher_WatchMissingRoot(t *testing.T) {
	w, err := NewWatcher(scriptOptions(time.Millisecond), func([]string) {})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	err = w.Watch([]string{filepath.Join(t.TempDir(), "absent")})
	if !errors.IsCode(err, errors.CodeIOFailure) {
		t.Fatalf("expected IO_FAILURE for a missing root, got %v", err)
	}
}
