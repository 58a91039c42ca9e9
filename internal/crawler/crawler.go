package crawler

import (
	"io/fs"
	"path/filepath"

	gitignore "github.com/sabhiram/go-gitignore"

	"unbarrel/internal/extractor"
)

// Crawler scans a directory subtree for source files.
type Crawler struct {
	extractor *extractor.Extractor
	ignored   []string
}

// New creates a crawler around the given extractor.
func New(ext *extractor.Extractor) *Crawler {
	return &Crawler{
		extractor: ext,
		ignored:   []string{".git", "node_modules", "dist", "build", "out", "coverage", ".next"},
	}
}

// Files walks root and calls onFile for every source-eligible file,
// honoring the built-in skip list and a .gitignore at root if present.
func (c *Crawler) Files(root string, onFile func(path string)) error {
	var ignorer gitignore.IgnoreParser
	if gi, err := gitignore.CompileIgnoreFile(filepath.Join(root, ".gitignore")); err == nil {
		ignorer = gi
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			for _, ign := range c.ignored {
				if d.Name() == ign {
					return filepath.SkipDir
				}
			}
			if ignorer != nil && path != root && ignorer.MatchesPath(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if !extractor.EligibleFile(path) {
			return nil
		}
		if ignorer != nil && ignorer.MatchesPath(path) {
			return nil
		}
		onFile(path)
		return nil
	})
}

// Scan walks root and streams each file's export facts. Files whose
// extraction comes back empty are skipped; a parse failure and an
// export-free module look the same here.
func (c *Crawler) Scan(root string, onFile func(path string, facts []extractor.ExportFact)) error {
	return c.Files(root, func(path string) {
		facts := c.extractor.ExtractFile(path)
		if len(facts) > 0 {
			onFile(path, facts)
		}
	})
}
