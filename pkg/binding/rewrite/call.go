package rewrite

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"databinding-hunter/internal/errs"
	"databinding-hunter/pkg/binding/naming"
	"databinding-hunter/pkg/binding/syntax"
)

const (
	methodBind    = "bind"
	methodInflate = "inflate"

	bindUsage        = "bind(View view)"
	utilInflateUsage = "inflate(LayoutInflater inflater, int layoutId, ViewGroup parent, boolean attachToParent)"
	inflateUsage     = "inflate(LayoutInflater inflater, ViewGroup root, boolean attachToRoot) and inflate(LayoutInflater inflater)"
)

// 可以直接作为方法调用接收者的表达式
var primaryKinds = map[string]struct{}{
	string(syntax.KindIdentifier):              {},
	string(syntax.KindFieldAccess):             {},
	string(syntax.KindMethodInvocation):        {},
	string(syntax.KindThis):                    {},
	string(syntax.KindParenthesizedExpression): {},
	"array_access":                             {},
}

// rewriteCall returns the edits that turn expr, the factory call or the
// getRoot() chain around it, into the plain view expression:
//
//	X.bind(view)                         -> view
//	DataBindingUtil.inflate(i, l, p, a)  -> i.inflate(l, p, a)
//	FooBinding.inflate(i)                -> i.inflate(R.layout.foo, null, false)
//	FooBinding.inflate(i, p, a)          -> i.inflate(R.layout.foo, p, a)
//
// Only the text between the kept arguments is replaced, so edits queued inside
// an argument by another site still apply.
func (c *unitContext) rewriteCall(fc factoryCall, expr *sitter.Node) ([]syntax.Edit, error) {
	call := fc.node
	text := c.unit.CompactText(call)
	args := syntax.Arguments(call)

	switch c.unit.Text(call.ChildByFieldName("name")) {
	case methodBind:
		if len(args) != 1 {
			return nil, errs.NewArityMismatchErr(text, bindUsage)
		}
		return splice(expr, []span{spanOf(args[0])}, "", ""), nil
	case methodInflate:
		if fc.imp.Utility {
			if len(args) < 2 {
				return nil, errs.NewArityMismatchErr(text, utilInflateUsage)
			}
			rest := span{args[1].StartByte(), args[len(args)-1].EndByte()}
			return c.inflateCall(expr, args[0], &rest, "", ")"), nil
		}
		resource := c.opts.LayoutPrefix + c.layoutResource(fc.imp.SimpleName())
		switch len(args) {
		case 1:
			return c.inflateCall(expr, args[0], nil, resource+", null, false)"), nil
		case 3:
			rest := span{args[1].StartByte(), args[2].EndByte()}
			return c.inflateCall(expr, args[0], &rest, resource+", ", ")"), nil
		default:
			return nil, errs.NewArityMismatchErr(text, inflateUsage)
		}
	}
	return nil, errs.NewUnsupportedCallErr(text)
}

// inflateCall keeps the inflater and, when rest is set, the argument span rest
// of expr, and renders inflater.inflate(head<rest>tail) around them.
func (c *unitContext) inflateCall(expr, inflater *sitter.Node, rest *span, head, tail string) []syntax.Edit {
	lparen, rparen := "", ""
	if _, ok := primaryKinds[inflater.Kind()]; !ok {
		lparen, rparen = "(", ")"
	}
	call := rparen + "." + methodInflate + "(" + head
	if rest == nil {
		return splice(expr, []span{spanOf(inflater)}, lparen, call+tail)
	}
	return splice(expr, []span{spanOf(inflater), *rest}, lparen, call, tail)
}

type span struct {
	start, end uint
}

func spanOf(n *sitter.Node) span {
	return span{n.StartByte(), n.EndByte()}
}

// splice 保留 kept 区间原文，把其前后及之间的文本依次替换为 gaps，
// len(gaps) == len(kept)+1
func splice(expr *sitter.Node, kept []span, gaps ...string) []syntax.Edit {
	var edits []syntax.Edit
	from := expr.StartByte()
	for i, g := range gaps {
		to := expr.EndByte()
		if i < len(kept) {
			to = kept[i].start
		}
		if from != to || g != "" {
			edits = append(edits, syntax.ReplaceRange(from, to, g))
		}
		if i < len(kept) {
			from = kept[i].end
		}
	}
	return edits
}

// layoutResource 已索引的布局用其真实资源名，否则按类名推导
func (c *unitContext) layoutResource(bindingType string) string {
	if c.registry != nil {
		if info, err := c.registry.Lookup(bindingType); err == nil {
			return info.ResourceName()
		}
	}
	name, ok := naming.LayoutNameOf(bindingType)
	if !ok {
		return naming.ToSnakeCase(bindingType)
	}
	return name
}
