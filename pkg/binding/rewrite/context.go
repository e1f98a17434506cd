package rewrite

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"databinding-hunter/internal/errs"
	"databinding-hunter/pkg/binding/layout"
	"databinding-hunter/pkg/binding/naming"
	"databinding-hunter/pkg/binding/syntax"
)

// Failure is a binding call that could not be rewritten, with its position.
type Failure struct {
	Line uint
	Call string
	Err  error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("line %d: %v", f.Line, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// ViewFieldMapping records, per binding field, the field synthesized for each
// view reference name.
type ViewFieldMapping map[string]map[string]string

func (m ViewFieldMapping) lookup(field, ref string) (string, bool) {
	name, ok := m[field][ref]
	return name, ok
}

func (m ViewFieldMapping) set(field, ref, name string) {
	if m[field] == nil {
		m[field] = make(map[string]string)
	}
	m[field][ref] = name
}

// unitContext is the mutable state of rewriting one compilation unit. Nothing
// in it outlives the unit.
type unitContext struct {
	opts     Options
	unit     *syntax.Unit
	registry *layout.Registry
	imports  ImportSet
	buf      *syntax.Buffer
	table    *importTable

	viewFields ViewFieldMapping
	// 每个类体一个字段名生成器，key 为类体起始偏移
	fieldNames map[uint]*naming.Generator

	failures  []*Failure
	sites     int
	committed int
}

func newUnitContext(opts Options, unit *syntax.Unit, registry *layout.Registry, imports ImportSet) *unitContext {
	return &unitContext{
		opts:       opts,
		unit:       unit,
		registry:   registry,
		imports:    imports,
		buf:        unit.NewBuffer(),
		table:      newImportTable(unit, imports),
		viewFields: make(ViewFieldMapping),
		fieldNames: make(map[uint]*naming.Generator),
	}
}

func (c *unitContext) fieldGenerator(body *sitter.Node) *naming.Generator {
	g, ok := c.fieldNames[body.StartByte()]
	if !ok {
		g = naming.NewGenerator(fieldNames(c.unit, body)...)
		c.fieldNames[body.StartByte()] = g
	}
	return g
}

func (c *unitContext) fail(call *sitter.Node, err error) {
	c.failures = append(c.failures, &Failure{
		Line: call.StartPosition().Row + 1,
		Call: c.unit.CompactText(call),
		Err:  err,
	})
}

// site stages the edits of one binding call. Nothing reaches the unit's
// buffer until commit, so a failing site leaves no partial rewrite.
type site struct {
	edits   []syntax.Edit
	imports []string
	fields  []stagedField
}

type stagedField struct {
	key, ref, name string
}

func (s *site) replace(n *sitter.Node, text string) {
	s.edits = append(s.edits, syntax.ReplaceRange(n.StartByte(), n.EndByte(), text))
}

func (s *site) insert(pos uint, text string) {
	s.edits = append(s.edits, syntax.InsertAt(pos, text))
}

func (s *site) importType(qualified string) {
	s.imports = append(s.imports, qualified)
}

// pendingField 本次提交前已经生成的字段名
func (s *site) pendingField(key, ref string) (string, bool) {
	for _, f := range s.fields {
		if f.key == key && f.ref == ref {
			return f.name, true
		}
	}
	return "", false
}

// viewType returns how a synthesized declaration names the view class
// qualified, staging its import. When another type already holds the simple
// name the qualified name is used and nothing is imported.
func (c *unitContext) viewType(qualified string, s *site) string {
	simple := naming.SimpleName(qualified)
	if c.table.holds(simple, qualified) {
		return qualified
	}
	for _, q := range s.imports {
		if q != qualified && naming.SimpleName(q) == simple {
			return qualified
		}
	}
	s.importType(qualified)
	return simple
}

// idRef R.id.text, 或系统资源 android.R.id.list
func (c *unitContext) idRef(view layout.View) string {
	if view.Package != "" {
		return view.Package + "." + c.opts.IDPrefix + view.ID
	}
	return c.opts.IDPrefix + view.ID
}

func (c *unitContext) commit(call *sitter.Node, s *site) bool {
	if err := c.buf.Apply(s.edits...); err != nil {
		c.fail(call, errs.WithStack(err))
		return false
	}
	for _, q := range s.imports {
		c.table.add(q)
	}
	for _, f := range s.fields {
		c.viewFields.set(f.key, f.ref, f.name)
	}
	c.committed++
	return true
}
