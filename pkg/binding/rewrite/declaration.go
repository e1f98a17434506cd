package rewrite

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"databinding-hunter/pkg/binding/naming"
	"databinding-hunter/pkg/binding/syntax"
)

type siteKind int

const (
	siteNone siteKind = iota
	// siteField: mBinding = X.bind(view);
	siteField
	// siteLocal: FooBinding binding = X.inflate(inflater);
	siteLocal
	// siteChain: X.inflate(inflater).getRoot(), no binding instance survives
	siteChain
)

// bindingSite is where the result of a factory call ends up.
type bindingSite struct {
	kind siteKind
	call factoryCall
	// expr is the node the rewritten call replaces.
	expr      *sitter.Node
	decl      *sitter.Node
	typeNode  *sitter.Node
	variable  variable
	statement *sitter.Node
	// receiver is the text lookups are called on for field sites.
	receiver    string
	bindingType string
}

// locate classifies the parent of a factory call.
func (c *unitContext) locate(fc factoryCall) bindingSite {
	bs := bindingSite{kind: siteNone, call: fc, expr: fc.node}
	if p := fc.node.Parent(); syntax.Is(p, syntax.KindMethodInvocation) &&
		syntax.SameNode(p.ChildByFieldName("object"), fc.node) &&
		c.unit.Text(p.ChildByFieldName("name")) == c.opts.RootGetter && len(syntax.Arguments(p)) == 0 {
		bs.kind = siteChain
		bs.expr = p
		return bs
	}

	cur := fc.node
	parent := cur.Parent()
	for parent != nil && (syntax.Is(parent, syntax.KindParenthesizedExpression) ||
		(parent.Kind() == "cast_expression" && syntax.SameNode(parent.ChildByFieldName("value"), cur))) {
		cur, parent = parent, parent.Parent()
	}
	if parent == nil {
		return bs
	}

	switch classOf(parent) {
	case classAssignment:
		if syntax.SameNode(parent.ChildByFieldName("right"), cur) && c.unit.Text(parent.ChildByFieldName("operator")) == "=" {
			c.locateField(&bs, parent)
		}
	case classGeneric:
		if syntax.Is(parent, syntax.KindVariableDeclarator) && syntax.SameNode(parent.ChildByFieldName("value"), cur) &&
			classOf(parent.Parent()) == classDeclaration && syntax.Is(parent.Parent(), syntax.KindLocalVariableDecl) {
			c.locateLocal(&bs, parent)
		}
	}
	if bs.kind != siteNone {
		typeText := c.unit.CompactText(bs.typeNode)
		bs.bindingType = naming.SimpleName(typeText)
		if typeText == "var" && !fc.imp.Utility {
			bs.bindingType = fc.imp.SimpleName()
		}
	}
	return bs
}

func (c *unitContext) locateField(bs *bindingSite, assign *sitter.Node) {
	left := assign.ChildByFieldName("left")
	ident := left
	if syntax.Is(left, syntax.KindFieldAccess) && syntax.Is(left.ChildByFieldName("object"), syntax.KindThis) {
		ident = left.ChildByFieldName("field")
	}
	if !syntax.Is(ident, syntax.KindIdentifier) {
		return
	}
	name := c.unit.Text(ident)
	body, decl := c.fieldDeclaration(assign, name)
	if decl == nil {
		return
	}
	v := variable{name: name, scope: body, field: true}
	if _, ok := referenceAt(c.unit, ident, v); !ok {
		return
	}
	stmt := syntax.EnclosingStatement(assign, c.unit.Content)
	if stmt == nil {
		return
	}
	bs.kind = siteField
	bs.decl = decl
	bs.typeNode = decl.ChildByFieldName("type")
	bs.variable = v
	bs.statement = stmt
	bs.receiver = c.unit.CompactText(left)
}

// fieldDeclaration finds the innermost enclosing class declaring name.
func (c *unitContext) fieldDeclaration(n *sitter.Node, name string) (*sitter.Node, *sitter.Node) {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if !isTypeBody(p) {
			continue
		}
		for _, child := range syntax.NamedChildren(p) {
			if syntax.Is(child, syntax.KindFieldDeclaration) && declaratorNamed(c.unit, child, name) != nil {
				return p, child
			}
		}
	}
	return nil, nil
}

func (c *unitContext) locateLocal(bs *bindingSite, declarator *sitter.Node) {
	decl := declarator.Parent()
	block := decl.Parent()
	if block == nil || !(syntax.Is(block, syntax.KindBlock) || syntax.Is(block, syntax.KindConstructorBody) ||
		syntax.Is(block, syntax.KindSwitchBlockGroup)) {
		return
	}
	bs.kind = siteLocal
	bs.decl = decl
	bs.typeNode = decl.ChildByFieldName("type")
	bs.statement = decl
	bs.variable = variable{
		name:     c.unit.Text(declarator.ChildByFieldName("name")),
		scope:    block,
		declared: decl.StartByte(),
	}
}

// rewriteDeclaration replaces the declared binding type with the generic view
// type.
func (c *unitContext) rewriteDeclaration(bs bindingSite, s *site) {
	if bs.typeNode == nil || !strings.Contains(c.unit.Text(bs.typeNode), bs.bindingType) {
		return
	}
	s.replace(bs.typeNode, c.opts.ViewType)
	s.importType(c.opts.ViewImport)
}
