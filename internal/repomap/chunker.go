package repomap

import "strings"

// Chunk is one parsed symbol-level unit of a source file. Its first non-blank
// line, trimmed, is used as the display label in the repo map.
type Chunk struct {
	Text string
}

// Label returns the chunk's display label: the first non-blank line of its
// text with surrounding whitespace stripped. Returns "" for all-blank chunks,
// which are omitted from the map.
func (c Chunk) Label() string {
	for _, line := range strings.Split(c.Text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// Chunker splits source text into an ordered sequence of symbol chunks.
// Implementations hold parser state and must be released via Close.
type Chunker interface {
	Chunk(content []byte, language string) ([]Chunk, error)
	Close()
}

// ChunkerFactory produces a chunker scoped to one synthesis call. The
// synthesizer guarantees Close is called on every exit path.
type ChunkerFactory func() Chunker
