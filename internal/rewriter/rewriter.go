package rewriter

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"unbarrel/internal/resolver"
)

// Rewriter turns barrel imports into direct imports using resolver
// results. Names that cannot be resolved stay on their original import
// line, so a partially understood file is still rewritten safely.
type Rewriter struct {
	resolver *resolver.Resolver
	quote    string
}

// New creates a rewriter. Emitted specifiers use single quotes.
func New(res *resolver.Resolver) *Rewriter {
	return &Rewriter{resolver: res, quote: "'"}
}

// SetQuote switches the quote character used in emitted imports.
func (rw *Rewriter) SetQuote(q string) {
	if q == "'" || q == `"` {
		rw.quote = q
	}
}

// Edit replaces one import statement with one or more direct imports.
type Edit struct {
	Decl  ImportDecl
	Lines []string
}

// Plan is the full set of edits for one file. An empty plan means the
// file has no rewritable barrel imports.
type Plan struct {
	File  string
	Edits []Edit
}

// PlanFile computes the rewrite plan for a single source file without
// touching it.
func (rw *Rewriter) PlanFile(path string) (Plan, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Plan{}, err
	}
	plan := Plan{File: abs}
	fromDir := filepath.Dir(abs)

	for _, decl := range ScanImports(abs) {
		if len(decl.Named) == 0 || decl.Default != "" || decl.Namespace != "" {
			// Default and namespace imports are out of reach; mixed
			// clauses are left whole rather than split.
			continue
		}
		if !resolver.IsRelative(decl.Source) {
			continue
		}
		target, ok := resolver.ResolveSpecifier(fromDir, decl.Source)
		if !ok || !resolver.IsIndexFile(target) {
			// Direct module import already; nothing to unwind.
			continue
		}
		barrelDir := filepath.Dir(target)

		if lines, changed := rw.rewriteDecl(fromDir, barrelDir, decl); changed {
			plan.Edits = append(plan.Edits, Edit{Decl: decl, Lines: lines})
		}
	}
	return plan, nil
}

// rewriteDecl resolves every named binding of one import statement and
// regroups them by defining location. Returns changed=false when no
// binding moved off the original barrel specifier.
func (rw *Rewriter) rewriteDecl(fromDir, barrelDir string, decl ImportDecl) ([]string, bool) {
	type group struct {
		specifier string
		external  bool
		bindings  []string
	}
	var groups []group
	byKey := make(map[string]int)

	add := func(specifier string, external bool, binding string) {
		if i, ok := byKey[specifier]; ok {
			groups[i].bindings = append(groups[i].bindings, binding)
			return
		}
		byKey[specifier] = len(groups)
		groups = append(groups, group{specifier: specifier, external: external, bindings: []string{binding}})
	}

	changed := false
	for _, n := range decl.Named {
		res, ok := rw.resolver.Resolve(barrelDir, n.Imported)
		if !ok {
			add(decl.Source, false, bindingText(n.Imported, n.Local))
			continue
		}
		specifier, movable := rw.specifierFor(fromDir, barrelDir, decl.Source, res)
		if !movable {
			add(decl.Source, false, bindingText(n.Imported, n.Local))
			continue
		}
		add(specifier, res.External, bindingText(res.Name, n.Local))
		changed = true
	}
	if !changed {
		return nil, false
	}

	lines := make([]string, 0, len(groups))
	for _, g := range groups {
		sort.Strings(g.bindings)
		keyword := "import"
		if decl.TypeOnly {
			keyword = "import type"
		}
		lines = append(lines, fmt.Sprintf("%s { %s } from %s%s%s;",
			keyword, strings.Join(g.bindings, ", "), rw.quote, g.specifier, rw.quote))
	}
	return lines, true
}

// specifierFor converts a resolution into an import specifier usable
// from the importing file's directory. Resolutions that land back on
// the barrel itself keep the original specifier.
func (rw *Rewriter) specifierFor(fromDir, barrelDir, original string, res resolver.Resolution) (string, bool) {
	if res.External {
		return res.Location, true
	}
	if res.Location == barrelDir {
		// Declared in the barrel's own index file; the original import
		// is already the direct one.
		return original, false
	}
	rel, err := filepath.Rel(fromDir, stripSourceExt(res.Location))
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if !strings.HasPrefix(rel, ".") {
		rel = "./" + rel
	}
	return rel, true
}

// stripSourceExt drops a recognized source extension so emitted
// specifiers stay extensionless, matching the inputs they replace.
func stripSourceExt(path string) string {
	for _, ext := range []string{".ts", ".tsx", ".js", ".jsx"} {
		if strings.HasSuffix(path, ext) {
			return strings.TrimSuffix(path, ext)
		}
	}
	return path
}

func bindingText(imported, local string) string {
	if imported == local {
		return imported
	}
	return imported + " as " + local
}

// Apply writes a plan's edits back to its file. Edits are applied from
// the bottom up so earlier byte offsets stay valid.
func Apply(plan Plan) error {
	if len(plan.Edits) == 0 {
		return nil
	}
	src, err := os.ReadFile(plan.File)
	if err != nil {
		return fmt.Errorf("read %s: %w", plan.File, err)
	}

	edits := make([]Edit, len(plan.Edits))
	copy(edits, plan.Edits)
	sort.Slice(edits, func(i, j int) bool {
		return edits[i].Decl.StartByte > edits[j].Decl.StartByte
	})

	out := src
	for _, e := range edits {
		if e.Decl.StartByte < 0 || e.Decl.EndByte > len(out) || e.Decl.StartByte > e.Decl.EndByte {
			return fmt.Errorf("stale edit span %d:%d in %s", e.Decl.StartByte, e.Decl.EndByte, plan.File)
		}
		replacement := []byte(strings.Join(e.Lines, "\n"))
		out = append(out[:e.Decl.StartByte], append(replacement, out[e.Decl.EndByte:]...)...)
	}

	info, err := os.Stat(plan.File)
	if err != nil {
		return err
	}
	return os.WriteFile(plan.File, out, info.Mode().Perm())
}
