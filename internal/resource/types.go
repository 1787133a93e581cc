// Package resource defines the context-resource model: named, kind-tagged
// providers of file sets, the registry that stores them, and the contracts
// for file enumeration and content access.
package resource

import (
	"context"
	"sort"
)

// Kind determines which phase of context assembly a resource contributes to.
// The kind is carried explicitly on the resource record and switched on;
// it is never inferred from the runtime type of the enumerator.
type Kind int

const (
	// KindFileTree resources contribute to the directory-listing phase.
	KindFileTree Kind = iota
	// KindRepoMap resources contribute to the symbol-map phase.
	KindRepoMap
	// KindWholeFile resources contribute full file contents.
	KindWholeFile
)

// String returns the config-surface spelling of the kind.
func (k Kind) String() string {
	switch k {
	case KindFileTree:
		return "fileTree"
	case KindRepoMap:
		return "repoMap"
	case KindWholeFile:
		return "wholeFile"
	default:
		return "unknown"
	}
}

// FileEnumerator yields the set of file paths a resource currently matches.
// Implementations mutate the caller-supplied set; failures propagate to the
// caller (enumeration is assumed reliable, unlike symbol extraction).
type FileEnumerator interface {
	AddFilesToSet(ctx context.Context, set *FileSet) error
}

// ContentAccessor returns the raw text content of a file path.
type ContentAccessor interface {
	GetFile(ctx context.Context, path string) (string, error)
}

// Resource is a named, kind-tagged provider of a file set. Once registered it
// is owned by the registry and must not be mutated.
type Resource struct {
	Name       string
	Kind       Kind
	Enumerator FileEnumerator
}

// FileSet is an insertion-ordered set of file paths. Enumerators append to
// it; duplicates across resources are collapsed, keeping the first insertion
// position.
type FileSet struct {
	seen  map[string]struct{}
	order []string
}

// NewFileSet returns an empty file set.
func NewFileSet() *FileSet {
	return &FileSet{seen: make(map[string]struct{})}
}

// Add inserts a path if not already present.
func (fs *FileSet) Add(path string) {
	if _, ok := fs.seen[path]; ok {
		return
	}
	fs.seen[path] = struct{}{}
	fs.order = append(fs.order, path)
}

// Contains reports whether the path is in the set.
func (fs *FileSet) Contains(path string) bool {
	_, ok := fs.seen[path]
	return ok
}

// Len returns the number of paths in the set.
func (fs *FileSet) Len() int {
	return len(fs.order)
}

// Paths returns the paths in insertion order.
func (fs *FileSet) Paths() []string {
	out := make([]string, len(fs.order))
	copy(out, fs.order)
	return out
}

// Sorted returns the paths in lexicographic order.
func (fs *FileSet) Sorted() []string {
	out := fs.Paths()
	sort.Strings(out)
	return out
}
