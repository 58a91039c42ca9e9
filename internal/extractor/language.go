package extractor

import (
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// SourceExtensions lists the file extensions the extractor understands,
// most specific language variant first. The order doubles as the probe
// priority when a module specifier omits its extension.
var SourceExtensions = []string{".ts", ".tsx", ".js", ".jsx"}

// LanguageForFile picks the tree-sitter grammar for a file path based on
// its extension. Returns nil for files the extractor does not handle.
func LanguageForFile(path string) *sitter.Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".mts", ".cts":
		return typescript.GetLanguage()
	case ".tsx":
		return tsx.GetLanguage()
	case ".js", ".jsx", ".mjs", ".cjs":
		return javascript.GetLanguage()
	default:
		return nil
	}
}

// EligibleFile reports whether the crawler should feed the file to the
// extractor at all.
func EligibleFile(path string) bool {
	return LanguageForFile(path) != nil
}
