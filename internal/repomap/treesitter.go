package repomap

import (
	"context"
	"fmt"
	"time"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/ruby"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/tokenring-ai/codebase/internal/logging"
)

// grammars maps language tags to tree-sitter grammars.
var grammars = map[string]*sitter.Language{
	"go":         golang.GetLanguage(),
	"python":     python.GetLanguage(),
	"javascript": javascript.GetLanguage(),
	"typescript": typescript.GetLanguage(),
	"c":          c.GetLanguage(),
	"cpp":        cpp.GetLanguage(),
	"rust":       rust.GetLanguage(),
	"java":       java.GetLanguage(),
	"ruby":       ruby.GetLanguage(),
	"bash":       bash.GetLanguage(),
}

// declarationNodes lists, per language, the top-level AST node types that
// count as symbol chunks.
var declarationNodes = map[string]map[string]bool{
	"go": {
		"function_declaration": true,
		"method_declaration":   true,
		"type_declaration":     true,
		"const_declaration":    true,
		"var_declaration":      true,
	},
	"python": {
		"function_definition":  true,
		"class_definition":     true,
		"decorated_definition": true,
	},
	"javascript": {
		"function_declaration":           true,
		"generator_function_declaration": true,
		"class_declaration":              true,
		"lexical_declaration":            true,
		"variable_declaration":           true,
		"export_statement":               true,
	},
	"typescript": {
		"function_declaration":           true,
		"generator_function_declaration": true,
		"class_declaration":              true,
		"abstract_class_declaration":     true,
		"lexical_declaration":            true,
		"variable_declaration":           true,
		"export_statement":               true,
		"interface_declaration":          true,
		"enum_declaration":               true,
		"type_alias_declaration":         true,
	},
	"c": {
		"function_definition": true,
		"declaration":         true,
		"type_definition":     true,
	},
	"cpp": {
		"function_definition":  true,
		"declaration":          true,
		"type_definition":      true,
		"class_specifier":      true,
		"namespace_definition": true,
		"template_declaration": true,
	},
	"rust": {
		"function_item":    true,
		"struct_item":      true,
		"enum_item":        true,
		"trait_item":       true,
		"impl_item":        true,
		"mod_item":         true,
		"const_item":       true,
		"static_item":      true,
		"type_item":        true,
		"macro_definition": true,
	},
	"java": {
		"class_declaration":           true,
		"interface_declaration":       true,
		"enum_declaration":            true,
		"record_declaration":          true,
		"annotation_type_declaration": true,
	},
	"ruby": {
		"method": true,
		"class":  true,
		"module": true,
	},
	"bash": {
		"function_definition": true,
	},
}

// TreeSitterChunker extracts symbol chunks using tree-sitter. One parser per
// language, created lazily and reused within the chunker's lifetime.
type TreeSitterChunker struct {
	parsers map[string]*sitter.Parser
}

// NewTreeSitterChunker creates a fresh chunker. Callers must Close it.
func NewTreeSitterChunker() *TreeSitterChunker {
	logging.RepomapDebug("Creating new TreeSitterChunker")
	return &TreeSitterChunker{parsers: make(map[string]*sitter.Parser)}
}

// Close releases all parsers held by the chunker.
func (t *TreeSitterChunker) Close() {
	logging.RepomapDebug("Closing TreeSitterChunker (%d parsers)", len(t.parsers))
	for _, p := range t.parsers {
		p.Close()
	}
	t.parsers = nil
}

// Chunk parses content for the given language tag and returns one chunk per
// top-level declaration, in source order.
func (t *TreeSitterChunker) Chunk(content []byte, language string) ([]Chunk, error) {
	start := time.Now()

	grammar, ok := grammars[language]
	if !ok {
		return nil, fmt.Errorf("unsupported language %q", language)
	}

	parser, ok := t.parsers[language]
	if !ok {
		parser = sitter.NewParser()
		parser.SetLanguage(grammar)
		t.parsers[language] = parser
	}

	tree, err := parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse failed (%s): %w", language, err)
	}
	defer tree.Close()

	declarations := declarationNodes[language]
	root := tree.RootNode()

	var chunks []Chunk
	for i := 0; i < int(root.NamedChildCount()); i++ {
		node := root.NamedChild(i)
		if !declarations[node.Type()] {
			continue
		}
		chunks = append(chunks, Chunk{Text: node.Content(content)})
	}

	logging.RepomapDebug("Chunked %s content: %d bytes -> %d chunks in %v",
		language, len(content), len(chunks), time.Since(start))
	return chunks, nil
}
