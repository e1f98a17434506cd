package rewrite

import (
	"fmt"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"databinding-hunter/pkg/binding/layout"
	"databinding-hunter/pkg/binding/naming"
	"databinding-hunter/pkg/binding/syntax"
)

// rewriteFieldRefs rewrites every access through the binding field:
// mBinding.getRoot() -> mBinding, mBinding.text -> mTextView. Each new view
// field is declared once per unit and looked up after the site's assignment.
func (c *unitContext) rewriteFieldRefs(bs bindingSite, info *layout.Info, s *site) {
	key := fmt.Sprintf("%d:%s", bs.decl.StartByte(), bs.variable.name)
	gen := c.fieldGenerator(bs.variable.scope)
	looked := make(map[string]struct{})
	indent := c.unit.LineIndent(bs.statement.StartByte())

	for _, ref := range references(c.unit, bs.variable, c.unit.Root()) {
		access := ref.node.Parent()
		switch {
		case syntax.Is(access, syntax.KindMethodInvocation) &&
			syntax.SameNode(access.ChildByFieldName("object"), ref.node):
			if c.unit.Text(access.ChildByFieldName("name")) == c.opts.RootGetter && len(syntax.Arguments(access)) == 0 {
				s.replace(access, bs.variable.name)
			}
			// 绑定类上的其他方法调用保持不变
		case syntax.Is(access, syntax.KindFieldAccess) &&
			syntax.SameNode(access.ChildByFieldName("object"), ref.node):
			if strings.Contains(c.unit.Text(access), "\n") {
				continue
			}
			member := c.unit.Text(access.ChildByFieldName("field"))
			view, ok := info.Lookup(member)
			if !ok {
				// 布局中没有对应 id，保持原样
				continue
			}
			name, created := c.viewField(key, member, gen, s)
			if created {
				c.declareViewField(bs.decl, name, view, s)
			}
			if _, ok := looked[member]; !ok {
				looked[member] = struct{}{}
				stmt := fmt.Sprintf("%s = %s.%s(%s);", name, bs.receiver, c.opts.FindView, c.idRef(view))
				s.insert(bs.statement.EndByte(), "\n"+indent+stmt)
			}
			s.replace(access, name)
		}
	}
}

// viewField returns the synthesized field for ref, claiming a new name when
// the binding field has none yet.
func (c *unitContext) viewField(key, ref string, gen *naming.Generator, s *site) (string, bool) {
	if name, ok := c.viewFields.lookup(key, ref); ok {
		return name, false
	}
	if name, ok := s.pendingField(key, ref); ok {
		return name, false
	}
	name := gen.Field(ref)
	s.fields = append(s.fields, stagedField{key: key, ref: ref, name: name})
	return name, true
}

// declareViewField declares the view field right after the binding field, with
// the binding field's modifiers.
func (c *unitContext) declareViewField(decl *sitter.Node, name string, view layout.View, s *site) {
	var b strings.Builder
	if mods := c.modifiers(decl); mods != "" {
		b.WriteString(mods)
		b.WriteByte(' ')
	}
	b.WriteString(c.viewType(c.opts.ViewClassPath(view.Type), s))
	b.WriteByte(' ')
	b.WriteString(name)
	b.WriteByte(';')
	s.insert(decl.EndByte(), "\n"+c.unit.LineIndent(decl.StartByte())+b.String())
}

// modifiers 字段的关键字修饰符，不含注解
func (c *unitContext) modifiers(decl *sitter.Node) string {
	var mods *sitter.Node
	for _, child := range syntax.NamedChildren(decl) {
		if syntax.Is(child, syntax.KindModifiers) {
			mods = child
			break
		}
	}
	if mods == nil {
		return ""
	}
	var words []string
	for i := uint(0); i < mods.ChildCount(); i++ {
		child := mods.Child(i)
		if child.IsNamed() {
			continue
		}
		words = append(words, c.unit.Text(child))
	}
	return strings.Join(words, " ")
}
