package repomap

import (
	"path/filepath"
	"strings"
)

// extensionLanguages maps file extensions to chunker language tags. Files
// with unmapped extensions are skipped silently during synthesis.
var extensionLanguages = map[string]string{
	".js":   "javascript",
	".jsx":  "javascript",
	".ts":   "typescript",
	".tsx":  "typescript",
	".py":   "python",
	".h":    "c",
	".c":    "c",
	".hxx":  "cpp",
	".cxx":  "cpp",
	".hpp":  "cpp",
	".cpp":  "cpp",
	".rs":   "rust",
	".go":   "go",
	".java": "java",
	".rb":   "ruby",
	".sh":   "bash",
	".bash": "bash",
}

// LanguageForPath returns the chunker language tag for a file path, or
// ok=false when the extension is unmapped.
func LanguageForPath(path string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	lang, ok := extensionLanguages[ext]
	return lang, ok
}
