// # internal/core/watcher/watcher.go
package watcher

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"shadow/internal/core/errors"
	"shadow/internal/shared/observability"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
)

type Options struct {
	Debounce     time.Duration
	ExcludeDirs  []string // glob patterns matched against directory base names
	ExcludeFiles []string // glob patterns matched against file base names
	Extensions   []string // without dot; empty means every file
}

// Watcher reports batches of changed source files after a quiet period.
// Batches are sorted and never overlap: onChange is not re-entered.
type Watcher struct {
	fs       *fsnotify.Watcher
	filter   pathFilter
	debounce time.Duration
	onChange func([]string)
	deliver  sync.Mutex

	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer
	closed  bool
}

func NewWatcher(opts Options, onChange func([]string)) (*Watcher, error) {
	if onChange == nil {
		return nil, os.ErrInvalid
	}
	filter, err := newPathFilter(opts)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "create file watcher")
	}
	return &Watcher{
		fs:       fsw,
		filter:   filter,
		debounce: opts.Debounce,
		onChange: onChange,
		pending:  make(map[string]struct{}),
	}, nil
}

// Watch registers every non-excluded directory under roots and starts the
// event loop.
func (w *Watcher) Watch(roots []string) error {
	for _, root := range roots {
		if err := w.addTree(root); err != nil {
			return err
		}
	}
	go w.loop()
	return nil
}

func (w *Watcher) Close() error {
	w.mu.Lock()
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.pending = make(map[string]struct{})
	w.mu.Unlock()
	return w.fs.Close()
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.IOFailure(path, err)
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.filter.skipDir(path) {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			return errors.IOFailure(path, err)
		}
		return nil
	})
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			observability.WatcherEventsTotal.Inc()
			w.handle(event)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			slog.Error("watcher error", "error", err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			w.adoptDir(event.Name)
			return
		}
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	if w.filter.skipFile(event.Name) {
		return
	}
	w.queue(event.Name)
}

// adoptDir starts watching a directory created after Watch. Files written
// into it before the watch was registered are queued so they are not lost.
func (w *Watcher) adoptDir(dir string) {
	if w.filter.skipDir(dir) {
		return
	}
	if err := w.addTree(dir); err != nil {
		slog.Warn("failed to watch new directory", "path", dir, "error", err)
		return
	}
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		switch {
		case err != nil || d == nil:
			return nil
		case d.IsDir():
			if path != dir && w.filter.skipDir(path) {
				return filepath.SkipDir
			}
		case !w.filter.skipFile(path):
			w.queue(path)
		}
		return nil
	})
}

// queue records path and restarts the quiet-period timer.
func (w *Watcher) queue(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.pending[path] = struct{}{}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

func (w *Watcher) flush() {
	w.mu.Lock()
	if w.closed || len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	batch := make([]string, 0, len(w.pending))
	for path := range w.pending {
		batch = append(batch, path)
	}
	w.pending = make(map[string]struct{})
	w.mu.Unlock()

	sort.Strings(batch)
	w.deliver.Lock()
	defer w.deliver.Unlock()
	w.onChange(batch)
}

// pathFilter decides which directories are descended into and which file
// events are reported. Matching is on base names, case-insensitive for
// extensions.
type pathFilter struct {
	dirs  []glob.Glob
	files []glob.Glob
	exts  map[string]bool
}

func newPathFilter(opts Options) (pathFilter, error) {
	dirs, err := compileAll("exclude dir", opts.ExcludeDirs)
	if err != nil {
		return pathFilter{}, err
	}
	files, err := compileAll("exclude file", opts.ExcludeFiles)
	if err != nil {
		return pathFilter{}, err
	}

	exts := make(map[string]bool, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		if ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), ".")); ext != "" {
			exts["."+ext] = true
		}
	}
	return pathFilter{dirs: dirs, files: files, exts: exts}, nil
}

func compileAll(kind string, patterns []string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeValidationError, fmt.Sprintf("invalid %s pattern %q", kind, pattern))
		}
		out = append(out, g)
	}
	return out, nil
}

func (f pathFilter) skipDir(path string) bool {
	return matchAny(f.dirs, filepath.Base(path))
}

func (f pathFilter) skipFile(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	if len(f.exts) > 0 && !f.exts[filepath.Ext(base)] {
		return true
	}
	return matchAny(f.files, base)
}

func matchAny(globs []glob.Glob, name string) bool {
	for _, g := range globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}
