package repomap

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokenring-ai/codebase/internal/resource"
)

func fileSet(paths ...string) *resource.FileSet {
	fs := resource.NewFileSet()
	for _, p := range paths {
		fs.Add(p)
	}
	return fs
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()

	t.Run("Formats Sections And Skips Unmapped Extensions", func(t *testing.T) {
		accessor := &fakeAccessor{files: map[string]string{
			"a.py":      "def foo():\n    pass\n\nclass Bar:\n    pass\n",
			"b.unknown": "whatever\n",
		}}
		synth := NewSynthesizer(func() Chunker { return &fakeChunker{} })

		text, ok := synth.Generate(ctx, fileSet("a.py", "b.unknown"), accessor)
		require.True(t, ok)
		assert.Contains(t, text, "a.py:\n- def foo():\n- class Bar:\n")
		assert.NotContains(t, text, "b.unknown")
		assert.True(t, strings.HasPrefix(text, Preamble))
	})

	t.Run("Read Failure Returns Absence Sentinel", func(t *testing.T) {
		accessor := &fakeAccessor{files: map[string]string{}} // c.py unreadable
		synth := NewSynthesizer(func() Chunker { return &fakeChunker{} })

		text, ok := synth.Generate(ctx, fileSet("c.py"), accessor)
		assert.False(t, ok)
		assert.Equal(t, "", text)
	})

	t.Run("Chunk Failure Returns Absence Sentinel", func(t *testing.T) {
		accessor := &fakeAccessor{files: map[string]string{"c.py": "def x():\n    pass\n"}}
		synth := NewSynthesizer(func() Chunker {
			return &fakeChunker{failFor: map[string]bool{"python": true}}
		})

		text, ok := synth.Generate(ctx, fileSet("c.py"), accessor)
		assert.False(t, ok)
		assert.Equal(t, "", text)
	})

	t.Run("Per File Failure Does Not Poison Others", func(t *testing.T) {
		accessor := &fakeAccessor{files: map[string]string{
			"bad.rs":  "fn broken() {}\n",
			"good.py": "def ok():\n    pass\n",
		}}
		synth := NewSynthesizer(func() Chunker {
			return &fakeChunker{failFor: map[string]bool{"rust": true}}
		})

		text, ok := synth.Generate(ctx, fileSet("bad.rs", "good.py"), accessor)
		require.True(t, ok)
		assert.Contains(t, text, "good.py:\n- def ok():\n")
		assert.NotContains(t, text, "bad.rs")
	})

	t.Run("Empty Content Skipped", func(t *testing.T) {
		accessor := &fakeAccessor{files: map[string]string{"empty.go": ""}}
		synth := NewSynthesizer(func() Chunker { return &fakeChunker{} })

		_, ok := synth.Generate(ctx, fileSet("empty.go"), accessor)
		assert.False(t, ok)
	})

	t.Run("Sections In Lexicographic Order", func(t *testing.T) {
		accessor := &fakeAccessor{files: map[string]string{
			"z.py": "def last():\n    pass\n",
			"a.py": "def first():\n    pass\n",
		}}
		synth := NewSynthesizer(func() Chunker { return &fakeChunker{} })

		text, ok := synth.Generate(ctx, fileSet("z.py", "a.py"), accessor)
		require.True(t, ok)
		assert.Less(t, strings.Index(text, "a.py:"), strings.Index(text, "z.py:"))
	})

	t.Run("Chunker Released On Every Path", func(t *testing.T) {
		var created []*fakeChunker
		factory := func() Chunker {
			c := &fakeChunker{}
			created = append(created, c)
			return c
		}
		synth := NewSynthesizer(factory)

		// Success path
		accessor := &fakeAccessor{files: map[string]string{"a.py": "def foo():\n    pass\n"}}
		_, _ = synth.Generate(ctx, fileSet("a.py"), accessor)
		// Absent path
		_, _ = synth.Generate(ctx, fileSet("missing.py"), accessor)

		require.Len(t, created, 2)
		for i, c := range created {
			assert.True(t, c.closed, "chunker %d not closed", i)
		}
	})
}

func TestChunkLabel(t *testing.T) {
	assert.Equal(t, "def foo():", Chunk{Text: "def foo():\n    pass"}.Label())
	assert.Equal(t, "class Bar:", Chunk{Text: "\n   \nclass Bar:\n    pass"}.Label())
	assert.Equal(t, "", Chunk{Text: "  \n\t\n"}.Label())
}

func TestLanguageForPath(t *testing.T) {
	cases := map[string]string{
		"main.go": "go", "app.py": "python", "index.jsx": "javascript",
		"types.tsx": "typescript", "lib.rs": "rust", "util.hpp": "cpp",
		"io.c": "c", "Main.java": "java", "job.rb": "ruby", "run.bash": "bash",
	}
	for path, want := range cases {
		lang, ok := LanguageForPath(path)
		assert.True(t, ok, path)
		assert.Equal(t, want, lang, path)
	}

	_, ok := LanguageForPath("notes.txt")
	assert.False(t, ok)
	_, ok = LanguageForPath("Makefile")
	assert.False(t, ok)
}
