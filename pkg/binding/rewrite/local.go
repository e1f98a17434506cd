package rewrite

import (
	"fmt"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"databinding-hunter/pkg/binding/layout"
	"databinding-hunter/pkg/binding/naming"
	"databinding-hunter/pkg/binding/syntax"
)

// rewriteLocalRefs rewrites the statements of the declaring block that use the
// binding local: binding.getRoot() -> binding, binding.text -> textView. The
// lookups are declared right after the binding declaration, in first-use order.
func (c *unitContext) rewriteLocalRefs(bs bindingSite, info *layout.Info, s *site) {
	name := bs.variable.name
	gen := naming.NewGenerator(c.localScopeNames(bs.decl)...)
	locals := make(map[string]string)
	var lookups []string

	for _, stmt := range syntax.NamedChildren(bs.variable.scope) {
		if syntax.SameNode(stmt, bs.decl) || syntax.IsComment(stmt.Kind()) {
			continue
		}
		text := c.unit.Text(stmt)
		if !strings.Contains(text, name) || c.mentionsBindingType(text, bs.bindingType) {
			continue
		}
		for _, ref := range references(c.unit, bs.variable, stmt) {
			access := ref.node.Parent()
			switch {
			case syntax.Is(access, syntax.KindMethodInvocation) &&
				syntax.SameNode(access.ChildByFieldName("object"), ref.node):
				if c.unit.Text(access.ChildByFieldName("name")) == c.opts.RootGetter && len(syntax.Arguments(access)) == 0 {
					s.replace(access, name)
				}
			case syntax.Is(access, syntax.KindFieldAccess) &&
				syntax.SameNode(access.ChildByFieldName("object"), ref.node):
				member := c.unit.Text(access.ChildByFieldName("field"))
				view, ok := info.Lookup(member)
				if !ok {
					continue
				}
				local, ok := locals[member]
				if !ok {
					local = gen.Local(member)
					locals[member] = local
					lookups = append(lookups, fmt.Sprintf("%s %s = %s.%s(%s);",
						c.viewType(c.opts.ViewClassPath(view.Type), s), local, name, c.opts.FindView, c.idRef(view)))
				}
				s.replace(access, local)
			}
		}
	}

	anchor := syntax.EnclosingStatement(bs.decl, c.unit.Content)
	if anchor == nil || len(lookups) == 0 {
		return
	}
	indent := c.unit.LineIndent(anchor.StartByte())
	for _, stmt := range lookups {
		s.insert(anchor.EndByte(), "\n"+indent+stmt)
	}
}

// mentionsBindingType 语句中出现绑定类型或工具类名时不处理，避免改写重新绑定的语句
func (c *unitContext) mentionsBindingType(text, bindingType string) bool {
	if bindingType != "" && strings.Contains(text, bindingType) {
		return true
	}
	for _, name := range c.opts.utilitySimpleNames() {
		if strings.Contains(text, name) {
			return true
		}
	}
	return false
}

// localScopeNames reserves every name a new local could collide with: the
// locals and parameters of the enclosing method and the enclosing class's
// fields.
func (c *unitContext) localScopeNames(decl *sitter.Node) []string {
	scope := syntax.Ancestor(decl, syntax.KindMethodDeclaration, syntax.KindConstructorDeclaration,
		syntax.KindLambdaExpression, syntax.KindStaticInitializer)
	if scope == nil {
		scope = decl.Parent()
	}
	names := declaredNames(c.unit, scope)
	for p := decl.Parent(); p != nil; p = p.Parent() {
		if isTypeBody(p) {
			names = append(names, fieldNames(c.unit, p)...)
			break
		}
	}
	return names
}
