package rewrite

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"databinding-hunter/pkg/binding/syntax"
)

// nodeClass is the closed set of node shapes the usage scan dispatches on.
type nodeClass int

const (
	classGeneric nodeClass = iota
	classCall
	classAssignment
	classDeclaration
	classBlock
)

func classOf(n *sitter.Node) nodeClass {
	switch syntax.NodeKind(n.Kind()) {
	case syntax.KindMethodInvocation:
		return classCall
	case syntax.KindAssignmentExpression:
		return classAssignment
	case syntax.KindMethodDeclaration, syntax.KindConstructorDeclaration,
		syntax.KindFieldDeclaration, syntax.KindLocalVariableDecl:
		return classDeclaration
	case syntax.KindBlock, syntax.KindConstructorBody, syntax.KindClassBody, syntax.KindStaticInitializer:
		return classBlock
	}
	return classGeneric
}

// factoryCall is a bind/inflate style call whose receiver is a classified
// import.
type factoryCall struct {
	node *sitter.Node
	imp  BindingImport
}

type usageScanner struct {
	unit    *syntax.Unit
	imports ImportSet
	calls   []factoryCall
}

// scanUsages returns the factory calls inside method and constructor bodies
// in source order. Bodies that never mention a classified name are skipped.
func scanUsages(unit *syntax.Unit, imports ImportSet) []factoryCall {
	s := &usageScanner{unit: unit, imports: imports}
	s.visit(unit.Root(), false)
	return s.calls
}

func (s *usageScanner) visit(n *sitter.Node, inBody bool) {
	switch classOf(n) {
	case classDeclaration:
		if syntax.Is(n, syntax.KindMethodDeclaration) || syntax.Is(n, syntax.KindConstructorDeclaration) {
			if n.ChildByFieldName("body") == nil || !s.imports.MentionedIn(s.unit.Text(n)) {
				return
			}
			inBody = true
		}
	case classCall:
		if inBody {
			if imp, ok := s.imports.Match(s.unit.CompactText(n.ChildByFieldName("object"))); ok {
				s.calls = append(s.calls, factoryCall{node: n, imp: imp})
			}
		}
	case classBlock:
		// 方法体内的匿名类：字段初始化不是绑定点，只扫描其方法
		if syntax.Is(n, syntax.KindClassBody) {
			inBody = false
		}
	}
	// 一条语句里可能有多个绑定调用，继续向下查找
	for _, child := range syntax.NamedChildren(n) {
		s.visit(child, inBody)
	}
}
