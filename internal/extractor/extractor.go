package extractor

import (
	"context"
	"os"

	sitter "github.com/smacker/go-tree-sitter"
)

// Extractor turns one module's source text into its ordered list of
// export facts.
//
// It never fails: unreadable files, unknown extensions and unparsable
// source all yield an empty fact list. Callers cannot tell an empty
// module apart from a broken one, which keeps resolution total at the
// cost of silently skipping malformed input.
type Extractor struct{}

// New creates an extractor.
func New() *Extractor {
	return &Extractor{}
}

// ExtractFile parses the file at path and returns its export facts in
// declaration order.
func (e *Extractor) ExtractFile(path string) []ExportFact {
	lang := LanguageForFile(path)
	if lang == nil {
		return nil
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	return e.Extract(src, lang)
}

// Extract parses source text with the given grammar and returns its
// export facts in declaration order.
func (e *Extractor) Extract(src []byte, lang *sitter.Language) []ExportFact {
	parser := sitter.NewParser()
	parser.SetLanguage(lang)
	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil || tree == nil {
		return nil
	}
	defer tree.Close()

	root := tree.RootNode()
	var facts []ExportFact
	for i := 0; i < int(root.NamedChildCount()); i++ {
		n := root.NamedChild(i)
		if n.Type() != "export_statement" {
			continue
		}
		facts = append(facts, factsFromExport(n, src)...)
	}
	return facts
}

// factsFromExport expands a single export_statement node into zero or
// more facts. Default exports, export assignments and namespace
// re-exports produce nothing.
func factsFromExport(n *sitter.Node, src []byte) []ExportFact {
	if hasTokenChild(n, "default") {
		return nil
	}

	source := specifierText(n.ChildByFieldName("source"), src)
	if source != "" {
		return reexportFacts(n, src, source)
	}
	if decl := n.ChildByFieldName("declaration"); decl != nil {
		return declarationFacts(decl, src)
	}
	// export { a, b } without a source forwards local bindings; those
	// are declared elsewhere in the file and already covered there.
	return nil
}

// reexportFacts handles the forms that carry a `from '<source>'` clause.
func reexportFacts(n *sitter.Node, src []byte, source string) []ExportFact {
	clause := namedChildOfType(n, "export_clause")
	if clause == nil {
		if namedChildOfType(n, "namespace_export") != nil {
			// export * as ns from '…' creates a namespace object, not
			// individual names.
			return nil
		}
		return []ExportFact{{Kind: KindWildcard, Source: source}}
	}

	var facts []ExportFact
	for i := 0; i < int(clause.NamedChildCount()); i++ {
		spec := clause.NamedChild(i)
		if spec.Type() != "export_specifier" {
			continue
		}
		nameNode := spec.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		local := nameNode.Content(src)
		if local == "default" {
			// Re-exported defaults carry no stable name to chase.
			continue
		}
		exported := local
		if alias := spec.ChildByFieldName("alias"); alias != nil {
			exported = alias.Content(src)
		}
		facts = append(facts, ExportFact{
			Name:      exported,
			LocalName: local,
			Kind:      KindReexport,
			Source:    source,
		})
	}
	return facts
}

// declarationFacts handles `export <declaration>` forms.
func declarationFacts(decl *sitter.Node, src []byte) []ExportFact {
	switch decl.Type() {
	case "lexical_declaration", "variable_declaration":
		var facts []ExportFact
		for i := 0; i < int(decl.NamedChildCount()); i++ {
			d := decl.NamedChild(i)
			if d.Type() != "variable_declarator" {
				continue
			}
			for _, name := range boundNames(d.ChildByFieldName("name"), src) {
				facts = append(facts, ExportFact{Name: name, LocalName: name, Kind: KindLocal})
			}
		}
		return facts
	case "function_declaration", "generator_function_declaration",
		"class_declaration", "abstract_class_declaration",
		"interface_declaration", "enum_declaration",
		"type_alias_declaration":
		nameNode := decl.ChildByFieldName("name")
		if nameNode == nil {
			return nil
		}
		name := nameNode.Content(src)
		return []ExportFact{{Name: name, LocalName: name, Kind: KindLocal}}
	default:
		return nil
	}
}

// boundNames collects every identifier bound by a declarator target:
// a bare identifier, an array pattern, or an object pattern with
// optional renaming and nesting. Renamed bindings yield the bound
// (renamed) name, which is what the module actually exports.
func boundNames(pattern *sitter.Node, src []byte) []string {
	if pattern == nil {
		return nil
	}
	switch pattern.Type() {
	case "identifier", "shorthand_property_identifier_pattern":
		return []string{pattern.Content(src)}
	case "array_pattern", "object_pattern":
		var names []string
		for i := 0; i < int(pattern.NamedChildCount()); i++ {
			names = append(names, boundNames(pattern.NamedChild(i), src)...)
		}
		return names
	case "pair_pattern":
		// { exported: localBinding } — the binding is on the value side.
		return boundNames(pattern.ChildByFieldName("value"), src)
	case "object_assignment_pattern", "assignment_pattern":
		return boundNames(pattern.ChildByFieldName("left"), src)
	case "rest_pattern":
		if pattern.NamedChildCount() > 0 {
			return boundNames(pattern.NamedChild(0), src)
		}
		return nil
	default:
		return nil
	}
}

// specifierText unwraps a string node to its raw specifier text.
func specifierText(str *sitter.Node, src []byte) string {
	if str == nil {
		return ""
	}
	for i := 0; i < int(str.NamedChildCount()); i++ {
		if c := str.NamedChild(i); c.Type() == "string_fragment" {
			return c.Content(src)
		}
	}
	return ""
}

func namedChildOfType(n *sitter.Node, typ string) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := n.NamedChild(i); c.Type() == typ {
			return c
		}
	}
	return nil
}

func hasTokenChild(n *sitter.Node, typ string) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == typ {
			return true
		}
	}
	return false
}
