package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeEvent is a single filesystem change to a source file.
type ChangeEvent struct {
	Path string
	Op   fsnotify.Op
}

// Removed reports whether the file is gone.
func (e ChangeEvent) Removed() bool {
	return e.Op&(fsnotify.Remove|fsnotify.Rename) != 0
}

// Watcher watches a project for source file changes and emits debounced
// batches.
type Watcher struct {
	rootPath string
	debounce time.Duration
	logger   *slog.Logger
	accept   func(path string) bool
	skip     map[string]bool
	fsw      *fsnotify.Watcher
}

// NewWatcher recursively watches rootPath for files accept reports true for.
// Hidden directories and the directories named in skip are not watched.
func NewWatcher(rootPath string, debounce time.Duration, accept func(path string) bool, logger *slog.Logger, skip ...string) (*Watcher, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		rootPath: rootPath,
		debounce: debounce,
		logger:   logger,
		accept:   accept,
		skip:     make(map[string]bool, len(skip)),
		fsw:      fsw,
	}
	for _, s := range skip {
		w.skip[s] = true
	}

	if err := w.addDirs(rootPath); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	return w, nil
}

func (w *Watcher) addDirs(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.skipped(d.Name()) {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

func (w *Watcher) skipped(name string) bool {
	return strings.HasPrefix(name, ".") || w.skip[name]
}

// Run reads fsnotify events, keeps the accepted ones, debounces rapid edits
// and sends batches sorted by path to out. It blocks until ctx is canceled.
func (w *Watcher) Run(ctx context.Context, out chan<- []ChangeEvent) error {
	pending := make(map[string]fsnotify.Op)
	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if w.relevant(ev) {
				pending[ev.Name] |= ev.Op
				timer.Reset(w.debounce)
			}
			if ev.Op&fsnotify.Create != 0 {
				w.maybeAddDir(ev.Name)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("fsnotify error", "err", err)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			batch := make([]ChangeEvent, 0, len(pending))
			for p, op := range pending {
				batch = append(batch, ChangeEvent{Path: p, Op: op})
			}
			sort.Slice(batch, func(i, j int) bool { return batch[i].Path < batch[j].Path })
			pending = make(map[string]fsnotify.Op)
			w.logger.Debug("change batch", "files", len(batch))

			select {
			case out <- batch:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// Close shuts down the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !w.accept(ev.Name) {
		return false
	}
	return ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}

// maybeAddDir starts watching a newly created directory and its subtree.
func (w *Watcher) maybeAddDir(path string) {
	if w.skipped(filepath.Base(path)) {
		return
	}
	// Not a directory, or already gone.
	if err := w.addDirs(path); err != nil {
		w.logger.Debug("could not add to watch", "path", path, "err", err)
	}
}
