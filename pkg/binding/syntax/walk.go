package syntax

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Walk visits n and its named descendants in source order. Returning false from
// fn skips the children of the visited node.
func Walk(n *sitter.Node, fn func(n *sitter.Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for i := uint(0); i < n.NamedChildCount(); i++ {
		Walk(n.NamedChild(i), fn)
	}
}

func NamedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	children := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child == nil || child.IsMissing() {
			continue
		}
		children = append(children, child)
	}
	return children
}

// Arguments 方法调用的实参节点，跳过注释
func Arguments(invocation *sitter.Node) []*sitter.Node {
	args := invocation.ChildByFieldName("arguments")
	if args == nil {
		return nil
	}
	var out []*sitter.Node
	for _, child := range NamedChildren(args) {
		if IsComment(child.Kind()) {
			continue
		}
		out = append(out, child)
	}
	return out
}

// Ancestor returns the closest proper ancestor of n whose kind is in kinds.
func Ancestor(n *sitter.Node, kinds ...NodeKind) *sitter.Node {
	if n == nil {
		return nil
	}
	for p := n.Parent(); p != nil; p = p.Parent() {
		for _, k := range kinds {
			if p.Kind() == string(k) {
				return p
			}
		}
	}
	return nil
}

// EnclosingType 最近的类型声明（类、接口、枚举、record）
func EnclosingType(n *sitter.Node) *sitter.Node {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if IsTypeDeclaration(p.Kind()) {
			return p
		}
		// 匿名类没有声明节点，以 class_body 的 object_creation 父节点代表
		if p.Kind() == string(KindClassBody) && p.Parent() != nil && p.Parent().Kind() == string(KindObjectCreation) {
			return p.Parent()
		}
	}
	return nil
}

// EnclosingStatement returns the closest ancestor-or-self of n that is a
// statement whose text ends with the statement terminator.
func EnclosingStatement(n *sitter.Node, content []byte) *sitter.Node {
	for p := n; p != nil; p = p.Parent() {
		if p.Kind() == string(KindBlock) {
			return nil
		}
		if IsStatement(p.Kind()) && p.EndByte() > 0 && content[p.EndByte()-1] == ';' {
			return p
		}
	}
	return nil
}

// SameNode compares nodes by range and kind; node pointers are per-call copies.
func SameNode(a, b *sitter.Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Kind() == b.Kind()
}

// Contains reports whether inner lies within outer.
func Contains(outer, inner *sitter.Node) bool {
	return outer.StartByte() <= inner.StartByte() && inner.EndByte() <= outer.EndByte()
}

func Is(n *sitter.Node, kind NodeKind) bool {
	return n != nil && n.Kind() == string(kind)
}
