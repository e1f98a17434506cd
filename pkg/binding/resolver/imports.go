package resolver

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"databinding-hunter/pkg/binding/naming"
	"databinding-hunter/pkg/binding/syntax"
)

// Import is one import declaration of a unit.
type Import struct {
	Qualified string
	Static    bool
	Wildcard  bool
	Node      *sitter.Node
}

func (i Import) SimpleName() string {
	return naming.SimpleName(i.Qualified)
}

// ParseImport 解析 import 声明，Qualified 不含通配符
func ParseImport(unit *syntax.Unit, n *sitter.Node) Import {
	imp := Import{Node: n}
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		switch child.Kind() {
		case "static":
			imp.Static = true
		case string(syntax.KindAsterisk):
			imp.Wildcard = true
		case string(syntax.KindScopedIdentifier), string(syntax.KindIdentifier):
			imp.Qualified = unit.CompactText(child)
		}
	}
	imp.Qualified = strings.TrimSuffix(imp.Qualified, ".")
	return imp
}

// Imports returns the import declarations of unit in source order.
func Imports(unit *syntax.Unit) []Import {
	var out []Import
	for _, child := range syntax.NamedChildren(unit.Root()) {
		if syntax.Is(child, syntax.KindImportDeclaration) {
			out = append(out, ParseImport(unit, child))
		}
	}
	return out
}
