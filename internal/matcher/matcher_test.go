package matcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokenring-ai/codebase/internal/resource"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0644))
}

func enumerate(t *testing.T, m *Matcher) []string {
	t.Helper()
	set := resource.NewFileSet()
	require.NoError(t, m.AddFilesToSet(context.Background(), set))
	return set.Sorted()
}

func TestMatcher(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main")
	writeFile(t, root, "lib/util.go", "package lib")
	writeFile(t, root, "docs/readme.md", "# docs")
	writeFile(t, root, "node_modules/dep/index.js", "module.exports = {}")
	writeFile(t, root, ".git/config", "[core]")

	t.Run("No Includes Matches Everything Except Excluded Dirs", func(t *testing.T) {
		paths := enumerate(t, New(root, nil, nil))
		assert.Equal(t, []string{"docs/readme.md", "lib/util.go", "main.go"}, paths)
	})

	t.Run("Include Glob", func(t *testing.T) {
		paths := enumerate(t, New(root, []string{"**/*.go"}, nil))
		assert.Equal(t, []string{"lib/util.go", "main.go"}, paths)
	})

	t.Run("Top Level Glob Does Not Recurse", func(t *testing.T) {
		paths := enumerate(t, New(root, []string{"*.go"}, nil))
		assert.Equal(t, []string{"main.go"}, paths)
	})

	t.Run("Exclude Glob", func(t *testing.T) {
		paths := enumerate(t, New(root, []string{"**/*.go"}, []string{"lib/*"}))
		assert.Equal(t, []string{"main.go"}, paths)
	})

	t.Run("Exact File Include", func(t *testing.T) {
		paths := enumerate(t, New(root, []string{"docs/readme.md"}, nil))
		assert.Equal(t, []string{"docs/readme.md"}, paths)
	})
}

func TestMatcherCache(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.go", "package a")

	m := New(root, []string{"**/*.go"}, nil)
	assert.Equal(t, []string{"a.go"}, enumerate(t, m))

	// New file invisible until the cache is invalidated.
	writeFile(t, root, "b.go", "package b")
	assert.Equal(t, []string{"a.go"}, enumerate(t, m))

	m.Invalidate()
	assert.Equal(t, []string{"a.go", "b.go"}, enumerate(t, m))
}

func TestMatchPattern(t *testing.T) {
	assert.True(t, matchPattern("**/*.go", "deep/nested/file.go"))
	assert.True(t, matchPattern("**/*.go", "file.go"))
	assert.False(t, matchPattern("**/*.go", "file.py"))
	assert.True(t, matchPattern("docs/*.md", "docs/readme.md"))
	assert.False(t, matchPattern("docs/*.md", "docs/sub/readme.md"))
	assert.True(t, matchPattern("readme.md", "readme.md"))
}

func TestFSAccessor(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "dir/file.txt", "hello world")

	accessor := &FSAccessor{Root: root}

	content, err := accessor.GetFile(context.Background(), "dir/file.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello world", content)

	_, err = accessor.GetFile(context.Background(), "missing.txt")
	assert.Error(t, err)
}
