package resolver

import (
	"path/filepath"

	"unbarrel/internal/extractor"
	"unbarrel/internal/index"
)

// Resolver follows re-export chains from a barrel directory down to the
// module that actually defines a requested name.
//
// Resolution is a depth-first search over index files, guarded against
// cyclic re-export graphs by a per-call visited set. For a fixed
// filesystem snapshot it is a pure function of its inputs; "not found"
// is an ordinary result, never an error. A Resolver is stateless apart
// from its read-only fallback index, so concurrent calls are safe.
type Resolver struct {
	extractor *extractor.Extractor
	fallback  *index.ExportIndex
}

// New creates a resolver. fallback may be nil, which disables the
// quick-path lookup and leaves only graph traversal.
func New(ext *extractor.Extractor, fallback *index.ExportIndex) *Resolver {
	return &Resolver{extractor: ext, fallback: fallback}
}

// Resolve finds the defining location of name as exported by the barrel
// at dir. It returns ok=false when nothing reachable declares the name.
func (r *Resolver) Resolve(dir, name string) (Resolution, bool) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return Resolution{}, false
	}

	visited := make(map[string]bool)
	if res, ok := r.resolveInDir(absDir, name, visited); ok {
		return res, true
	}
	return r.quickPath(absDir, name)
}

// resolveInDir runs the per-index-file procedure for one barrel
// directory: discover the index file, check each match class in
// priority order, then ascend into child barrels this index re-exports
// from. The visited set is keyed by absolute index-file path and turns
// cyclic chains into dead branches.
func (r *Resolver) resolveInDir(dir, name string, visited map[string]bool) (Resolution, bool) {
	indexFile, ok := FindIndexFile(dir)
	if !ok {
		return Resolution{}, false
	}
	if visited[indexFile] {
		return Resolution{}, false
	}
	visited[indexFile] = true

	facts := r.extractor.ExtractFile(indexFile)

	// Named re-export from a package: the chain ends outside the
	// project. Report the name as the external module knows it.
	for _, f := range facts {
		if f.Kind == extractor.KindReexport && f.Name == name && !IsRelative(f.Source) {
			return Resolution{
				Location: f.Source,
				Name:     f.LocalName,
				Chain:    []string{indexFile},
				External: true,
			}, true
		}
	}

	// Declared in the index file itself: the barrel directory is the
	// canonical location for its own declarations.
	for _, f := range facts {
		if f.Kind == extractor.KindLocal && f.Name == name {
			return Resolution{
				Location: dir,
				Name:     name,
				Chain:    []string{indexFile},
			}, true
		}
	}

	// Named re-export from a sibling module that declares the name
	// itself. Aliases unwind here: the target is asked for LocalName.
	for _, f := range facts {
		if f.Kind == extractor.KindReexport && f.Name == name && IsRelative(f.Source) {
			target, ok := ResolveSpecifier(dir, f.Source)
			if !ok {
				continue
			}
			if declaresDirectly(r.extractor.ExtractFile(target), f.LocalName) {
				return Resolution{
					Location: target,
					Name:     f.LocalName,
					Chain:    []string{indexFile},
				}, true
			}
		}
	}

	// Wildcard re-export whose target declares the name directly.
	for _, f := range facts {
		if f.Kind == extractor.KindWildcard && IsRelative(f.Source) {
			target, ok := ResolveSpecifier(dir, f.Source)
			if !ok {
				continue
			}
			if declaresDirectly(r.extractor.ExtractFile(target), name) {
				return Resolution{
					Location: target,
					Name:     name,
					Chain:    []string{indexFile},
				}, true
			}
		}
	}

	// Ascension: nothing in this index matched, but any relative
	// re-export may lead into a nested barrel whose own index can
	// answer. First recursive success wins.
	for _, f := range facts {
		if f.Kind == extractor.KindLocal || !IsRelative(f.Source) {
			continue
		}
		target, ok := ResolveSpecifier(dir, f.Source)
		if !ok {
			continue
		}
		targetDir := filepath.Dir(target)
		if targetDir == dir {
			continue
		}
		if res, ok := r.resolveInDir(targetDir, name, visited); ok {
			res.Chain = append([]string{indexFile}, res.Chain...)
			return res, true
		}
	}

	return Resolution{}, false
}

// quickPath is the last resort: a flat lookup in the prebuilt directory
// index. The hit is accepted only when the declaring file lies inside
// the queried barrel directory, so a same-named export belonging to an
// unrelated barrel sharing the index can never leak out.
func (r *Resolver) quickPath(dir, name string) (Resolution, bool) {
	file, ok := r.fallback.Lookup(name)
	if !ok {
		return Resolution{}, false
	}
	if !withinDir(dir, file) {
		return Resolution{}, false
	}
	return Resolution{Location: file, Name: name}, true
}

// declaresDirectly reports whether the fact list declares name locally,
// not via a further re-export.
func declaresDirectly(facts []extractor.ExportFact, name string) bool {
	for _, f := range facts {
		if f.Kind == extractor.KindLocal && f.Name == name {
			return true
		}
	}
	return false
}

func withinDir(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !filepath.IsAbs(rel) &&
		(rel == "." || !hasDotDotPrefix(rel))
}

func hasDotDotPrefix(rel string) bool {
	return len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator)
}
