package index

import (
	"os"
	"path/filepath"

	"unbarrel/internal/crawler"
	"unbarrel/internal/extractor"
)

// ExportIndex is a flat map from export name to the absolute path of the
// file that directly declares it, scoped to one directory subtree.
//
// Only locally declared facts are indexed; re-exports and wildcards are
// not, so the index knows where a name lives but nothing about how
// barrels forward it. It is built once per run and read-only afterward,
// which makes it safe to share across concurrent resolutions.
type ExportIndex struct {
	Root    string            `json:"root"`
	Entries map[string]string `json:"entries"`
}

// Build scans the subtree at root/subdir and indexes every directly
// declared export. A missing directory yields an empty index, not an
// error. When the same name is declared in several files, the first one
// visited wins; walk order is filesystem-dependent, so projects with
// duplicate top-level names get a stable-per-run but otherwise
// unspecified winner.
func Build(cr *crawler.Crawler, root, subdir string) (*ExportIndex, error) {
	scanRoot, err := filepath.Abs(filepath.Join(root, subdir))
	if err != nil {
		return nil, err
	}

	idx := &ExportIndex{
		Root:    scanRoot,
		Entries: make(map[string]string),
	}

	if _, err := os.Stat(scanRoot); err != nil {
		return idx, nil
	}

	err = cr.Scan(scanRoot, func(path string, facts []extractor.ExportFact) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return
		}
		for _, f := range facts {
			if f.Kind != extractor.KindLocal {
				continue
			}
			if _, taken := idx.Entries[f.Name]; taken {
				continue
			}
			idx.Entries[f.Name] = abs
		}
	})
	if err != nil {
		return nil, err
	}
	return idx, nil
}

// Lookup returns the file that directly declares name, if indexed.
func (idx *ExportIndex) Lookup(name string) (string, bool) {
	if idx == nil {
		return "", false
	}
	file, ok := idx.Entries[name]
	return file, ok
}

// Len returns the number of indexed names.
func (idx *ExportIndex) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.Entries)
}
