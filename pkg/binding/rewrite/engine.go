// Package rewrite removes data binding from one Java compilation unit: binding
// imports are dropped, binding fields and locals become plain views, and
// member accesses become findViewById lookups.
package rewrite

import (
	"bytes"
	"errors"

	"databinding-hunter/pkg/binding/layout"
	"databinding-hunter/pkg/binding/resolver"
	"databinding-hunter/pkg/binding/syntax"
	"databinding-hunter/pkg/logger"
)

var ErrNilUnit = errors.New("nil compilation unit")

// Result is the outcome of rewriting one unit.
type Result struct {
	Path    string
	Source  []byte
	Changed bool
	Imports []string
	// Sites counts the factory calls found, Rewritten the ones committed.
	Sites     int
	Rewritten int
	Failures  []*Failure
}

// Engine rewrites units against a layout registry. It holds no per-unit state
// and may be shared by sequential runs.
type Engine struct {
	opts     Options
	resolver resolver.SymbolResolver
	logger   logger.Logger
}

func NewEngine(opts Options, res resolver.SymbolResolver, log logger.Logger) *Engine {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Engine{opts: opts.withDefaults(), resolver: res, logger: log}
}

func (e *Engine) Options() Options {
	return e.opts
}

// ClassifyImports returns the imports of the binding-utility type and of types
// whose superclass is the binding base type. Imports the resolver does not
// know are skipped. RewriteUnit deletes the returned imports.
func (e *Engine) ClassifyImports(unit *syntax.Unit) ImportSet {
	var set ImportSet
	for _, imp := range resolver.Imports(unit) {
		if imp.Static || imp.Wildcard || imp.Qualified == "" {
			continue
		}
		if e.opts.isUtility(imp.Qualified) {
			set.add(BindingImport{Qualified: imp.Qualified, Utility: true, node: imp.Node})
			continue
		}
		if e.resolver == nil {
			continue
		}
		super, ok := e.resolver.Superclass(imp.Qualified)
		if ok && e.opts.isBase(super) {
			set.add(BindingImport{Qualified: imp.Qualified, node: imp.Node})
		}
	}
	return set
}

// RewriteUnit rewrites every binding usage of unit. All edits of the unit are
// applied at once; the unit itself is not modified. A call that cannot be
// rewritten is reported in Result.Failures and the rest of the unit proceeds.
func (e *Engine) RewriteUnit(unit *syntax.Unit, registry *layout.Registry) (*Result, error) {
	if unit == nil {
		return nil, ErrNilUnit
	}
	imports := e.ClassifyImports(unit)
	res := &Result{Path: unit.Path, Source: unit.Content, Imports: imports.Qualified()}
	if imports.Len() == 0 {
		return res, nil
	}
	if registry == nil {
		registry = layout.NewRegistry()
	}

	ctx := newUnitContext(e.opts, unit, registry, imports)
	for _, imp := range imports.All() {
		if err := ctx.buf.Apply(deletion(unit, imp.node)); err != nil {
			return nil, err
		}
	}
	for _, fc := range scanUsages(unit, imports) {
		ctx.rewriteSite(fc)
	}
	if err := ctx.buf.Apply(ctx.table.edits()...); err != nil {
		return nil, err
	}

	res.Source = ctx.buf.Bytes()
	res.Changed = !bytes.Equal(res.Source, unit.Content)
	res.Sites = ctx.sites
	res.Rewritten = ctx.committed
	res.Failures = ctx.failures
	for _, f := range ctx.failures {
		e.logger.Warn("%s:%d %s: %v", unit.Path, f.Line, f.Call, f.Err)
	}
	e.logger.Debug("%s: %d binding calls, %d rewritten", unit.Path, res.Sites, res.Rewritten)
	return res, nil
}

func (c *unitContext) rewriteSite(fc factoryCall) {
	c.sites++
	bs := c.locate(fc)
	s := &site{}

	if bs.kind == siteField || bs.kind == siteLocal {
		info, err := c.registry.Lookup(bs.bindingType)
		if err != nil {
			// 布局无法确定时整个绑定点都不改写
			c.fail(fc.node, err)
			return
		}
		c.rewriteDeclaration(bs, s)
		if bs.kind == siteField {
			c.rewriteFieldRefs(bs, info, s)
		} else {
			c.rewriteLocalRefs(bs, info, s)
		}
	}

	edits, err := c.rewriteCall(fc, bs.expr)
	if err != nil {
		c.fail(fc.node, err)
	} else {
		s.edits = append(s.edits, edits...)
	}
	if len(s.edits) > 0 {
		c.commit(fc.node, s)
	}
}
