// Package matcher implements file enumeration and content access over a
// workspace directory, driven by include/exclude patterns from config.
package matcher

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tokenring-ai/codebase/internal/logging"
	"github.com/tokenring-ai/codebase/internal/resource"
)

// defaultExcludedDirs are skipped during every walk, in addition to
// configured excludes.
var defaultExcludedDirs = map[string]bool{
	".git":         true,
	".codebase":    true,
	"node_modules": true,
	"vendor":       true,
	"__pycache__":  true,
}

// Matcher walks a workspace root and yields the relative slash-separated
// paths matching its include patterns. It implements resource.FileEnumerator.
//
// Walk results are cached; a Watcher invalidates the cache on filesystem
// changes so repeated assemblies stay cheap on unchanged trees.
type Matcher struct {
	root    string
	include []string
	exclude []string

	mu    sync.Mutex
	cache []string
}

// New creates a matcher over root. With no include patterns every
// non-excluded file matches.
func New(root string, include, exclude []string) *Matcher {
	return &Matcher{root: root, include: include, exclude: exclude}
}

// AddFilesToSet walks the workspace (or reuses the cached walk) and inserts
// every matching path into the set, in lexical walk order.
func (m *Matcher) AddFilesToSet(ctx context.Context, set *resource.FileSet) error {
	m.mu.Lock()
	cached := m.cache
	m.mu.Unlock()

	if cached != nil {
		for _, path := range cached {
			set.Add(path)
		}
		return nil
	}

	timer := logging.StartTimer(logging.CategoryMatcher, "walk "+m.root)
	defer timer.Stop()

	var matched []string
	err := filepath.WalkDir(m.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		rel, relErr := filepath.Rel(m.root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel == "." {
				return nil
			}
			if defaultExcludedDirs[d.Name()] || m.excluded(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if m.excluded(rel) {
			return nil
		}
		if m.matches(rel) {
			matched = append(matched, rel)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logging.MatcherDebug("Walked %s: %d file(s) matched", m.root, len(matched))

	m.mu.Lock()
	m.cache = matched
	m.mu.Unlock()

	for _, path := range matched {
		set.Add(path)
	}
	return nil
}

// Invalidate drops the cached walk. The next enumeration re-walks the tree.
func (m *Matcher) Invalidate() {
	m.mu.Lock()
	m.cache = nil
	m.mu.Unlock()
}

// matches reports whether a relative path matches any include pattern.
func (m *Matcher) matches(rel string) bool {
	if len(m.include) == 0 {
		return true
	}
	for _, pattern := range m.include {
		if matchPattern(pattern, rel) {
			return true
		}
	}
	return false
}

// excluded reports whether a relative path matches any exclude pattern.
func (m *Matcher) excluded(rel string) bool {
	for _, pattern := range m.exclude {
		if matchPattern(pattern, rel) {
			return true
		}
	}
	return false
}

// matchPattern matches a config glob against a slash-separated relative
// path. A "**/" prefix matches the rest of the pattern at any depth,
// including depth zero; other patterns match the whole path segmentwise via
// filepath.Match.
func matchPattern(pattern, rel string) bool {
	if after, found := strings.CutPrefix(pattern, "**/"); found {
		if ok, _ := filepath.Match(after, rel); ok {
			return true
		}
		parts := strings.Split(rel, "/")
		for i := 1; i < len(parts); i++ {
			if ok, _ := filepath.Match(after, strings.Join(parts[i:], "/")); ok {
				return true
			}
		}
		return false
	}
	ok, _ := filepath.Match(pattern, rel)
	return ok
}
