package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period after the last change before a
// callback fires.
const DefaultDebounce = 500 * time.Millisecond

// TreeWatcher watches a build tree recursively and reports settled bursts
// of changes.
type TreeWatcher struct {
	debounce time.Duration
	ignore   map[string]bool
	logger   *zap.Logger
}

// New creates a watcher. Changes to files whose base name is in ignore are
// dropped, so reports written into the tree do not retrigger.
func New(logger *zap.Logger, debounce time.Duration, ignore ...string) *TreeWatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	set := make(map[string]bool, len(ignore))
	for _, name := range ignore {
		set[name] = true
	}
	return &TreeWatcher{debounce: debounce, ignore: set, logger: logger}
}

// Run blocks until ctx is done, calling onChange once per settled burst of
// changes below root. Directories created while running are watched too.
func (w *TreeWatcher) Run(ctx context.Context, root string, onChange func(context.Context)) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	if err := addTree(fsw, root); err != nil {
		return err
	}
	w.logger.Debug("watching build tree", zap.String("root", root))

	tick := time.NewTicker(w.debounce / 5)
	defer tick.Stop()

	var pending bool
	var last time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if w.ignore[filepath.Base(event.Name)] || event.Op == fsnotify.Chmod {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addTree(fsw, event.Name); err != nil {
						w.logger.Warn("watching new directory", zap.String("dir", event.Name), zap.Error(err))
					}
				}
			}
			w.logger.Debug("change detected", zap.String("path", event.Name), zap.String("op", event.Op.String()))
			pending = true
			last = time.Now()

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", zap.Error(err))

		case <-tick.C:
			if pending && time.Since(last) >= w.debounce {
				pending = false
				onChange(ctx)
			}
		}
	}
}

func addTree(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return fsw.Add(path)
		}
		return nil
	})
}
