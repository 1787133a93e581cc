// Package repomap synthesizes symbol-level summaries of source files: one
// header plus a bullet list of symbol labels per file.
package repomap

import (
	"context"
	"sort"
	"strings"

	"github.com/tokenring-ai/codebase/internal/logging"
	"github.com/tokenring-ai/codebase/internal/resource"
)

// Preamble introduces the repo map to the consuming agent.
const Preamble = "Here is a map of the repository, listing the symbols defined in each file:\n\n"

// Synthesizer turns a set of files into a formatted repo-map text block.
type Synthesizer struct {
	factory ChunkerFactory
}

// NewSynthesizer creates a synthesizer using the given chunker factory. Pass
// nil to use the tree-sitter chunker.
func NewSynthesizer(factory ChunkerFactory) *Synthesizer {
	if factory == nil {
		factory = func() Chunker { return NewTreeSitterChunker() }
	}
	return &Synthesizer{factory: factory}
}

// Generate produces the repo-map text for the given files, or ok=false when
// no file yields any symbols. Callers must distinguish the absence sentinel
// from an empty report.
//
// Files are processed in lexicographic order so output is deterministic
// regardless of how resources populated the set. Per-file failures (read
// errors, empty content, unmapped extensions, parse failures) skip the file
// and never fail the whole call.
func (s *Synthesizer) Generate(ctx context.Context, files *resource.FileSet, accessor resource.ContentAccessor) (string, bool) {
	timer := logging.StartTimer(logging.CategoryRepomap, "Generate")
	defer timer.Stop()

	chunker := s.factory()
	defer chunker.Close()

	paths := files.Paths()
	sort.Strings(paths)

	var sections []string
	for _, path := range paths {
		section, ok := s.fileSection(ctx, chunker, path, accessor)
		if ok {
			sections = append(sections, section)
		}
	}

	if len(sections) == 0 {
		logging.Repomap("No symbols found in %d file(s), repo map absent", files.Len())
		return "", false
	}

	logging.Repomap("Generated repo map: %d section(s) from %d file(s)", len(sections), files.Len())
	return Preamble + strings.Join(sections, "\n"), true
}

// fileSection builds the "<path>:" section for one file, or ok=false when
// the file contributes nothing.
func (s *Synthesizer) fileSection(ctx context.Context, chunker Chunker, path string, accessor resource.ContentAccessor) (string, bool) {
	content, err := accessor.GetFile(ctx, path)
	if err != nil {
		logging.RepomapDebug("Skipping %s: read failed: %v", path, err)
		return "", false
	}
	if content == "" {
		logging.RepomapDebug("Skipping %s: empty content", path)
		return "", false
	}

	language, ok := LanguageForPath(path)
	if !ok {
		logging.RepomapDebug("Skipping %s: unmapped extension", path)
		return "", false
	}

	chunks, err := chunker.Chunk([]byte(content), language)
	if err != nil {
		// Parse failures are never fatal; the file contributes zero chunks.
		logging.RepomapWarn("Chunking failed for %s (%s): %v", path, language, err)
		return "", false
	}
	if len(chunks) == 0 {
		return "", false
	}

	var b strings.Builder
	b.WriteString(path)
	b.WriteString(":\n")
	for _, chunk := range chunks {
		label := chunk.Label()
		if label == "" {
			continue
		}
		b.WriteString("- ")
		b.WriteString(label)
		b.WriteString("\n")
	}
	return b.String(), true
}
