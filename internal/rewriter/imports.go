package rewriter

import (
	"context"
	"os"

	sitter "github.com/smacker/go-tree-sitter"

	"unbarrel/internal/extractor"
)

// NamedImport is one binding of a named-import clause.
type NamedImport struct {
	// Imported is the name as the source module exports it.
	Imported string
	// Local is the binding inside the importing file, after any alias.
	Local string
}

// ImportDecl is one import statement found in a source file, with the
// byte span needed to replace it in place.
type ImportDecl struct {
	Source    string
	Named     []NamedImport
	Default   string // local name bound to the default export, if any
	Namespace string // local name of a namespace import, if any
	TypeOnly  bool   // import type { … }

	StartByte int
	EndByte   int
	StartLine int
}

// ScanImports extracts the import statements of a file in declaration
// order. Like export extraction it never fails; unreadable or
// unparsable input yields nil.
func ScanImports(path string) []ImportDecl {
	lang := extractor.LanguageForFile(path)
	if lang == nil {
		return nil
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	return scanImports(src, lang)
}

func scanImports(src []byte, lang *sitter.Language) []ImportDecl {
	parser := sitter.NewParser()
	parser.SetLanguage(lang)
	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil || tree == nil {
		return nil
	}
	defer tree.Close()

	root := tree.RootNode()
	var decls []ImportDecl
	for i := 0; i < int(root.NamedChildCount()); i++ {
		n := root.NamedChild(i)
		if n.Type() != "import_statement" {
			continue
		}
		if decl, ok := importFromNode(n, src); ok {
			decls = append(decls, decl)
		}
	}
	return decls
}

func importFromNode(n *sitter.Node, src []byte) (ImportDecl, bool) {
	decl := ImportDecl{
		StartByte: int(n.StartByte()),
		EndByte:   int(n.EndByte()),
		StartLine: int(n.StartPoint().Row) + 1,
	}

	sourceNode := n.ChildByFieldName("source")
	if sourceNode == nil {
		return decl, false
	}
	decl.Source = stringContent(sourceNode, src)
	if decl.Source == "" {
		return decl, false
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == "type" {
			decl.TypeOnly = true
			break
		}
	}

	clause := childOfType(n, "import_clause")
	if clause == nil {
		// Bare side-effect import: import './polyfill';
		return decl, true
	}

	for i := 0; i < int(clause.NamedChildCount()); i++ {
		c := clause.NamedChild(i)
		switch c.Type() {
		case "identifier":
			decl.Default = c.Content(src)
		case "namespace_import":
			for j := 0; j < int(c.NamedChildCount()); j++ {
				if id := c.NamedChild(j); id.Type() == "identifier" {
					decl.Namespace = id.Content(src)
				}
			}
		case "named_imports":
			for j := 0; j < int(c.NamedChildCount()); j++ {
				spec := c.NamedChild(j)
				if spec.Type() != "import_specifier" {
					continue
				}
				nameNode := spec.ChildByFieldName("name")
				if nameNode == nil {
					continue
				}
				imported := nameNode.Content(src)
				local := imported
				if alias := spec.ChildByFieldName("alias"); alias != nil {
					local = alias.Content(src)
				}
				decl.Named = append(decl.Named, NamedImport{Imported: imported, Local: local})
			}
		}
	}
	return decl, true
}

func stringContent(str *sitter.Node, src []byte) string {
	for i := 0; i < int(str.NamedChildCount()); i++ {
		if c := str.NamedChild(i); c.Type() == "string_fragment" {
			return c.Content(src)
		}
	}
	return ""
}

func childOfType(n *sitter.Node, typ string) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := n.NamedChild(i); c.Type() == typ {
			return c
		}
	}
	return nil
}
