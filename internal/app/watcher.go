package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/GTTribe/tribe-ratings/pkg/logger"
	"github.com/fsnotify/fsnotify"
)

// watcher turns bursts of file events under a directory tree into single
// reload calls. While the tree does not exist yet, the nearest existing
// ancestor is watched instead and the tree is attached once it appears.
type watcher struct {
	fs       *fsnotify.Watcher
	root     string
	debounce time.Duration
	logger   logger.Logger
}

func newWatcher(root string, debounce time.Duration, log logger.Logger) (*watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &watcher{fs: fw, root: filepath.Clean(root), debounce: debounce, logger: log}
	if _, err := w.attach(); err != nil {
		_ = fw.Close()
		return nil, err
	}
	return w, nil
}

// attach watches the data tree, or the nearest existing ancestor when the
// tree is missing. It reports whether the tree itself is now watched.
func (w *watcher) attach() (bool, error) {
	info, err := os.Stat(w.root)
	switch {
	case err == nil && !info.IsDir():
		return false, fmt.Errorf("%s is not a directory", w.root)
	case err == nil:
		return true, w.addTree(w.root)
	case !errors.Is(err, fs.ErrNotExist):
		return false, err
	}

	dir := w.root
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			return false, fmt.Errorf("no existing parent of %s", w.root)
		}
		dir = parent
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			w.logger.Warn(context.Background(), "data dir missing, watching parent until it appears",
				logger.String("dir", w.root), logger.String("parent", dir))
			return false, w.fs.Add(dir)
		}
	}
}

// addTree watches root and every directory below it.
func (w *watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.fs.Add(path)
		}
		return nil
	})
}

// within reports whether path is root or below it.
func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// run blocks until ctx is done, calling reload once per quiet period after
// any relevant change.
func (w *watcher) run(ctx context.Context, reload func(context.Context)) {
	defer w.fs.Close()

	// fire is nil while no change is pending.
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !relevant(ev) {
				continue
			}
			if !within(w.root, ev.Name) {
				// An ancestor of a missing data dir changed.
				if within(ev.Name, w.root) && ev.Has(fsnotify.Create) {
					if ok, err := w.attach(); err != nil {
						w.logger.Warn(ctx, "re-attaching data dir failed", logger.Error(err))
					} else if ok {
						fire = time.After(w.debounce)
					}
				}
				continue
			}
			switch {
			case ev.Name == w.root && (ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)):
				// Wait for the data dir to come back.
				if _, err := w.attach(); err != nil {
					w.logger.Warn(ctx, "re-attaching data dir failed", logger.Error(err))
				}
			case ev.Has(fsnotify.Create):
				// New subdirectories need their own watch.
				_ = w.addTree(ev.Name)
			}
			w.logger.Debug(ctx, "data change", logger.String("file", ev.Name), logger.String("op", ev.Op.String()))
			fire = time.After(w.debounce)

		case <-fire:
			fire = nil
			reload(ctx)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn(ctx, "file watcher error", logger.Error(err))
		}
	}
}

func relevant(ev fsnotify.Event) bool {
	return ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) ||
		ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
}
