package matcher

import (
	"context"
	"io/fs"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/tokenring-ai/codebase/internal/logging"
)

// Watcher invalidates matcher caches when the workspace changes on disk.
// Without a watcher, matchers cache their first walk for their lifetime.
type Watcher struct {
	root     string
	matchers []*Matcher
	fsw      *fsnotify.Watcher
	changes  chan struct{}
}

// NewWatcher creates a watcher over root covering the given matchers.
func NewWatcher(root string, matchers ...*Matcher) *Watcher {
	return &Watcher{root: root, matchers: matchers, changes: make(chan struct{}, 1)}
}

// Changes signals after each batch of cache invalidations. The channel has a
// one-slot buffer, so bursts of events coalesce into a single notification.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Start registers the workspace directory tree with fsnotify and begins
// invalidating caches on events. It returns once watching is established;
// the event loop runs until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.fsw = fsw

	// fsnotify is not recursive; register every non-excluded directory.
	err = filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if defaultExcludedDirs[d.Name()] {
			return filepath.SkipDir
		}
		return fsw.Add(path)
	})
	if err != nil {
		fsw.Close()
		return err
	}

	logging.Matcher("Watching %s for changes", w.root)

	go func() {
		defer fsw.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-fsw.Events:
				if !ok {
					return
				}
				logging.MatcherDebug("FS event: %s", event)
				for _, m := range w.matchers {
					m.Invalidate()
				}
				// New directories need registering to keep coverage.
				if event.Op.Has(fsnotify.Create) {
					_ = fsw.Add(event.Name)
				}
				select {
				case w.changes <- struct{}{}:
				default:
				}
			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				logging.Get(logging.CategoryMatcher).Error("Watcher error: %v", err)
			}
		}
	}()

	return nil
}
