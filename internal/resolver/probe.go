package resolver

import (
	"os"
	"path/filepath"
	"strings"

	"unbarrel/internal/extractor"
)

// indexFileNames is the discovery priority for a directory's index
// file, most specific language variant first. The first name that
// exists is used exclusively: a directory holding both index.ts and
// index.js answers only through index.ts, and exports exclusive to the
// lower-priority sibling are invisible to barrel traversal. Surprising,
// but changing it would change resolution outcomes for real layouts.
var indexFileNames = []string{"index.ts", "index.tsx", "index.js", "index.jsx"}

// FindIndexFile returns the index file a barrel directory answers
// through, if it has one.
func FindIndexFile(dir string) (string, bool) {
	for _, name := range indexFileNames {
		candidate := filepath.Join(dir, name)
		if fileExists(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// IsIndexFile reports whether path names a barrel index file.
func IsIndexFile(path string) bool {
	base := filepath.Base(path)
	for _, name := range indexFileNames {
		if base == name {
			return true
		}
	}
	return false
}

// ResolveSpecifier turns a relative module specifier into a concrete
// file: the literal path first, then each supported extension appended,
// then each index file inside the specifier taken as a directory.
func ResolveSpecifier(fromDir, spec string) (string, bool) {
	base := filepath.Join(fromDir, spec)

	if fileExists(base) {
		return base, true
	}
	for _, ext := range extractor.SourceExtensions {
		if candidate := base + ext; fileExists(candidate) {
			return candidate, true
		}
	}
	for _, name := range indexFileNames {
		if candidate := filepath.Join(base, name); fileExists(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// IsRelative reports whether a module specifier is filesystem-relative.
// Anything else is resolved by the package ecosystem and treated as
// external.
func IsRelative(spec string) bool {
	return spec == "." || spec == ".." ||
		strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../")
}

func fileExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}
