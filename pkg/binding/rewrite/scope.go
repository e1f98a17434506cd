package rewrite

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"databinding-hunter/pkg/binding/syntax"
)

// variable is a field or local that holds a binding instance.
type variable struct {
	name string
	// scope is the class body declaring the field, or the block declaring
	// the local.
	scope *sitter.Node
	field bool
	// declared is the start of the local's declaration; references before it
	// belong to another variable.
	declared uint
}

// reference is an expression naming a variable: a bare identifier or, for
// fields, this.<name>.
type reference struct {
	node          *sitter.Node
	thisQualified bool
}

// references finds the expressions in within that resolve to v.
func references(unit *syntax.Unit, v variable, within *sitter.Node) []reference {
	var refs []reference
	syntax.Walk(within, func(n *sitter.Node) bool {
		if !syntax.Is(n, syntax.KindIdentifier) || unit.Text(n) != v.name {
			return true
		}
		if ref, ok := referenceAt(unit, n, v); ok {
			refs = append(refs, ref)
		}
		return true
	})
	return refs
}

// referenceAt checks whether identifier id, in expression position, resolves
// to v.
func referenceAt(unit *syntax.Unit, id *sitter.Node, v variable) (reference, bool) {
	ref := reference{node: id}
	parent := id.Parent()
	if parent == nil {
		return ref, false
	}
	if syntax.Is(parent, syntax.KindFieldAccess) && syntax.SameNode(parent.ChildByFieldName("field"), id) {
		// x.name 只有 this.name 指向字段
		if !v.field || !syntax.Is(parent.ChildByFieldName("object"), syntax.KindThis) {
			return ref, false
		}
		ref = reference{node: parent, thisQualified: true}
	} else if !isExpressionName(parent, id) {
		return ref, false
	}
	if !v.field && id.StartByte() < v.declared {
		return ref, false
	}
	return ref, resolvesTo(unit, id, v, ref.thisQualified)
}

// isExpressionName excludes declarations, member names and labels.
func isExpressionName(parent, id *sitter.Node) bool {
	if syntax.SameNode(parent.ChildByFieldName("name"), id) {
		return false
	}
	switch syntax.NodeKind(parent.Kind()) {
	case syntax.KindScopedIdentifier, syntax.KindImportDeclaration, syntax.KindPackageDeclaration,
		syntax.KindInferredParameters, syntax.KindMarkerAnnotation, syntax.KindAnnotation:
		return false
	case syntax.KindLambdaExpression:
		return !syntax.SameNode(parent.ChildByFieldName("parameters"), id)
	case "labeled_statement", "break_statement", "continue_statement", "method_reference":
		return false
	}
	return true
}

// resolvesTo walks outward from id and fails on the first declaration of the
// same name that shadows v.
func resolvesTo(unit *syntax.Unit, id *sitter.Node, v variable, thisQualified bool) bool {
	crossedType := false
	for p := id.Parent(); p != nil; p = p.Parent() {
		if syntax.SameNode(p, v.scope) {
			if v.field {
				return !thisQualified || !crossedType
			}
			return true
		}
		if isTypeBody(p) {
			// 内部类或匿名类声明了同名字段时遮蔽外层变量
			if declaresField(unit, p, v.name) {
				return false
			}
			crossedType = true
			continue
		}
		if !thisQualified && declaresLocal(unit, p, v.name, id.StartByte()) {
			return false
		}
	}
	return false
}

func isTypeBody(n *sitter.Node) bool {
	switch syntax.NodeKind(n.Kind()) {
	case syntax.KindClassBody, syntax.KindEnumBodyDeclarations, "interface_body", "enum_body", "record_body":
		return true
	}
	return false
}

func declaresField(unit *syntax.Unit, body *sitter.Node, name string) bool {
	for _, child := range syntax.NamedChildren(body) {
		if syntax.Is(child, syntax.KindFieldDeclaration) && declaratorNamed(unit, child, name) != nil {
			return true
		}
	}
	return false
}

// declaresLocal reports whether scope introduces a local or parameter called
// name that is visible at offset.
func declaresLocal(unit *syntax.Unit, scope *sitter.Node, name string, offset uint) bool {
	switch syntax.NodeKind(scope.Kind()) {
	case syntax.KindBlock, syntax.KindConstructorBody, syntax.KindSwitchBlockGroup:
		for _, child := range syntax.NamedChildren(scope) {
			if child.StartByte() >= offset {
				break
			}
			if syntax.Is(child, syntax.KindLocalVariableDecl) && declaratorNamed(unit, child, name) != nil {
				return true
			}
		}
	case syntax.KindMethodDeclaration, syntax.KindConstructorDeclaration:
		return parameterNamed(unit, scope.ChildByFieldName("parameters"), name)
	case syntax.KindLambdaExpression:
		params := scope.ChildByFieldName("parameters")
		if syntax.Is(params, syntax.KindIdentifier) {
			return unit.Text(params) == name
		}
		return parameterNamed(unit, params, name)
	case syntax.KindForStatement:
		init := scope.ChildByFieldName("init")
		return syntax.Is(init, syntax.KindLocalVariableDecl) && declaratorNamed(unit, init, name) != nil
	case syntax.KindEnhancedForStatement:
		return unit.Text(scope.ChildByFieldName("name")) == name
	case "catch_clause":
		for _, child := range syntax.NamedChildren(scope) {
			if syntax.Is(child, syntax.KindCatchFormalParameter) && unit.Text(child.ChildByFieldName("name")) == name {
				return true
			}
		}
	case "try_with_resources_statement":
		for _, child := range syntax.NamedChildren(scope.ChildByFieldName("resources")) {
			if syntax.Is(child, syntax.KindResource) && unit.Text(child.ChildByFieldName("name")) == name {
				return true
			}
		}
	}
	return false
}

func parameterNamed(unit *syntax.Unit, params *sitter.Node, name string) bool {
	for _, p := range syntax.NamedChildren(params) {
		switch syntax.NodeKind(p.Kind()) {
		case syntax.KindFormalParameter:
			if unit.Text(p.ChildByFieldName("name")) == name {
				return true
			}
		case syntax.KindSpreadParameter:
			for _, c := range syntax.NamedChildren(p) {
				if syntax.Is(c, syntax.KindVariableDeclarator) && unit.Text(c.ChildByFieldName("name")) == name {
					return true
				}
			}
		case syntax.KindIdentifier:
			if unit.Text(p) == name {
				return true
			}
		}
	}
	return false
}

// declaratorNamed returns the variable_declarator of decl called name.
func declaratorNamed(unit *syntax.Unit, decl *sitter.Node, name string) *sitter.Node {
	for _, c := range syntax.NamedChildren(decl) {
		if syntax.Is(c, syntax.KindVariableDeclarator) && unit.Text(c.ChildByFieldName("name")) == name {
			return c
		}
	}
	return nil
}

// declaredNames collects every field, local and parameter name under n.
func declaredNames(unit *syntax.Unit, n *sitter.Node) []string {
	var names []string
	syntax.Walk(n, func(c *sitter.Node) bool {
		switch syntax.NodeKind(c.Kind()) {
		case syntax.KindVariableDeclarator, syntax.KindFormalParameter, syntax.KindCatchFormalParameter,
			syntax.KindResource, syntax.KindEnhancedForStatement:
			if name := c.ChildByFieldName("name"); name != nil {
				names = append(names, unit.Text(name))
			}
		case syntax.KindInferredParameters:
			for _, p := range syntax.NamedChildren(c) {
				names = append(names, unit.Text(p))
			}
		case syntax.KindLambdaExpression:
			if params := c.ChildByFieldName("parameters"); syntax.Is(params, syntax.KindIdentifier) {
				names = append(names, unit.Text(params))
			}
		}
		return true
	})
	return names
}

// fieldNames 类体中直接声明的字段名
func fieldNames(unit *syntax.Unit, body *sitter.Node) []string {
	var names []string
	for _, child := range syntax.NamedChildren(body) {
		if !syntax.Is(child, syntax.KindFieldDeclaration) {
			continue
		}
		for _, c := range syntax.NamedChildren(child) {
			if syntax.Is(c, syntax.KindVariableDeclarator) {
				names = append(names, unit.Text(c.ChildByFieldName("name")))
			}
		}
	}
	return names
}
