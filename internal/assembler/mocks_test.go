package assembler

import (
	"context"
	"errors"
	"strings"

	"github.com/tokenring-ai/codebase/internal/repomap"
	"github.com/tokenring-ai/codebase/internal/resource"
)

// staticEnumerator yields a fixed path list, counting calls.
type staticEnumerator struct {
	paths []string
	calls int
	err   error
}

func (s *staticEnumerator) AddFilesToSet(_ context.Context, set *resource.FileSet) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	for _, p := range s.paths {
		set.Add(p)
	}
	return nil
}

// mapAccessor serves content from a map and records which paths were read.
type mapAccessor struct {
	files map[string]string
	reads []string
}

func (m *mapAccessor) GetFile(_ context.Context, path string) (string, error) {
	m.reads = append(m.reads, path)
	content, ok := m.files[path]
	if !ok {
		return "", errors.New("unreadable: " + path)
	}
	return content, nil
}

// lineChunker emits one chunk per non-blank line. Keeps repo-map tests
// independent of tree-sitter.
type lineChunker struct{}

func (lineChunker) Chunk(content []byte, _ string) ([]repomap.Chunk, error) {
	var chunks []repomap.Chunk
	for _, line := range strings.Split(string(content), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		chunks = append(chunks, repomap.Chunk{Text: line})
	}
	return chunks, nil
}

func (lineChunker) Close() {}

func lineSynthesizer() *repomap.Synthesizer {
	return repomap.NewSynthesizer(func() repomap.Chunker { return lineChunker{} })
}
