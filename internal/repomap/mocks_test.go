package repomap

import (
	"context"
	"errors"
	"strings"
)

// fakeAccessor serves file content from a map; absent paths fail.
type fakeAccessor struct {
	files map[string]string
}

func (f *fakeAccessor) GetFile(_ context.Context, path string) (string, error) {
	content, ok := f.files[path]
	if !ok {
		return "", errors.New("no such file: " + path)
	}
	return content, nil
}

// fakeChunker splits content into paragraph chunks (blank-line separated)
// and records lifecycle calls so tests can assert factory release.
type fakeChunker struct {
	closed  bool
	failFor map[string]bool // language tags that fail
}

func (f *fakeChunker) Chunk(content []byte, language string) ([]Chunk, error) {
	if f.failFor[language] {
		return nil, errors.New("parse failed")
	}
	var chunks []Chunk
	for _, part := range strings.Split(string(content), "\n\n") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		chunks = append(chunks, Chunk{Text: part})
	}
	return chunks, nil
}

func (f *fakeChunker) Close() {
	f.closed = true
}
