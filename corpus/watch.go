package corpus

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a file must be quiet before it is reported.
const DefaultDebounce = 200 * time.Millisecond

// Watcher reports documents under a corpus root that are created or modified.
type Watcher struct {
	root     string
	readers  []Reader
	debounce time.Duration
	logger   *slog.Logger
}

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WithReaders restricts reported files to those one of readers can read.
// Default is DefaultReaders().
func WithReaders(readers ...Reader) WatchOption {
	return func(w *Watcher) {
		w.readers = readers
	}
}

// WithDebounce sets the quiet period. Default is DefaultDebounce.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithWatchLogger sets a custom logger.
// Default is slog.Default().
func WithWatchLogger(logger *slog.Logger) WatchOption {
	return func(w *Watcher) {
		if logger == nil {
			logger = slog.Default()
		}
		w.logger = logger
	}
}

// NewWatcher creates a watcher for root.
func NewWatcher(root string, opts ...WatchOption) *Watcher {
	w := &Watcher{
		root:     root,
		readers:  DefaultReaders(),
		debounce: DefaultDebounce,
		logger:   slog.Default().With("component", "watcher"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Watch starts watching root and every directory below it, calling handle
// once per burst of changes to a readable, non-excluded document. It
// returns after the watch is established; events are handled on a separate
// goroutine until ctx is canceled. handle is never called concurrently.
func (w *Watcher) Watch(ctx context.Context, handle func(DocFile)) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	if err := w.addTree(fsw, w.root); err != nil {
		fsw.Close()
		return err
	}
	go w.loop(ctx, fsw, handle)
	return nil
}

func (w *Watcher) addTree(fsw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, handle func(DocFile)) {
	defer fsw.Close()

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(max(w.debounce/2, time.Millisecond))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			info, err := os.Stat(ev.Name)
			if err != nil {
				continue
			}
			if info.IsDir() {
				if err := w.addTree(fsw, ev.Name); err != nil {
					w.logger.Warn("failed to watch new directory", "dir", ev.Name, "err", err)
				}
				continue
			}
			if !w.accepts(filepath.Base(ev.Name)) {
				continue
			}
			pending[ev.Name] = time.Now()

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("watch error", "err", err)

		case now := <-ticker.C:
			var ready []string
			for path, at := range pending {
				if now.Sub(at) >= w.debounce {
					ready = append(ready, path)
					delete(pending, path)
				}
			}
			for _, path := range ready {
				w.logger.Debug("document changed", "path", path)
				handle(DocFile{Name: filepath.Base(path), Path: path})
			}
		}
	}
}

func (w *Watcher) accepts(name string) bool {
	if IsExcluded(name) {
		return false
	}
	_, err := findReader(w.readers, name)
	return err == nil
}
