package rewrite

import (
	"sort"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"databinding-hunter/pkg/binding/naming"
	"databinding-hunter/pkg/binding/resolver"
	"databinding-hunter/pkg/binding/syntax"
)

// BindingImport is an import of the binding-utility type or of a generated
// binding type.
type BindingImport struct {
	Qualified string
	Utility   bool
	node      *sitter.Node
}

func (b BindingImport) SimpleName() string {
	return naming.SimpleName(b.Qualified)
}

// ImportSet 一个编译单元中识别出的绑定类导入
type ImportSet struct {
	entries []BindingImport
}

func (s *ImportSet) add(b BindingImport) {
	for _, e := range s.entries {
		if e.Qualified == b.Qualified {
			return
		}
	}
	s.entries = append(s.entries, b)
}

func (s ImportSet) Len() int {
	return len(s.entries)
}

func (s ImportSet) All() []BindingImport {
	return append([]BindingImport(nil), s.entries...)
}

// Qualified 按导入顺序返回限定名
func (s ImportSet) Qualified() []string {
	out := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e.Qualified)
	}
	return out
}

// Match returns the import whose simple or qualified name is exactly the
// receiver of a call.
func (s ImportSet) Match(receiver string) (BindingImport, bool) {
	for _, e := range s.entries {
		if receiver == e.Qualified || receiver == e.SimpleName() {
			return e, true
		}
	}
	return BindingImport{}, false
}

// MentionedIn reports whether text contains the simple name of any import.
func (s ImportSet) MentionedIn(text string) bool {
	for _, e := range s.entries {
		if strings.Contains(text, e.SimpleName()) {
			return true
		}
	}
	return false
}

// importTable tracks the imports a unit has and the ones the rewrite adds.
type importTable struct {
	pkg       string
	byName    map[string]string
	wildcards map[string]struct{}
	removed   map[string]struct{}
	added     map[string]struct{}
	// kept 保留下来的单类型导入，按源码顺序
	kept    []resolver.Import
	anchor  *sitter.Node
	pkgDecl *sitter.Node
}

func newImportTable(unit *syntax.Unit, removed ImportSet) *importTable {
	t := &importTable{
		byName:    make(map[string]string),
		wildcards: make(map[string]struct{}),
		removed:   make(map[string]struct{}),
		added:     make(map[string]struct{}),
	}
	for _, q := range removed.Qualified() {
		t.removed[q] = struct{}{}
	}
	for _, child := range syntax.NamedChildren(unit.Root()) {
		if syntax.Is(child, syntax.KindPackageDeclaration) {
			t.pkgDecl = child
			for _, n := range syntax.NamedChildren(child) {
				if syntax.Is(n, syntax.KindScopedIdentifier) || syntax.Is(n, syntax.KindIdentifier) {
					t.pkg = unit.CompactText(n)
				}
			}
		}
	}
	for _, imp := range resolver.Imports(unit) {
		if t.anchor == nil {
			t.anchor = imp.Node
		}
		if imp.Static {
			continue
		}
		if imp.Wildcard {
			t.wildcards[imp.Qualified] = struct{}{}
			continue
		}
		if _, gone := t.removed[imp.Qualified]; gone {
			continue
		}
		t.byName[imp.SimpleName()] = imp.Qualified
		t.kept = append(t.kept, imp)
	}
	return t
}

// needs reports whether qualified must be imported to be referenced by its
// simple name.
func (t *importTable) needs(qualified string) bool {
	pkg := naming.PackageOf(qualified)
	if pkg == "" || pkg == "java.lang" || pkg == t.pkg {
		return false
	}
	if _, ok := t.wildcards[pkg]; ok {
		return false
	}
	if _, ok := t.byName[naming.SimpleName(qualified)]; ok {
		// 已导入，或同名的其他类已占用该简单名
		return false
	}
	return true
}

// holds reports whether simple already names a type other than qualified.
func (t *importTable) holds(simple, qualified string) bool {
	held, ok := t.byName[simple]
	return ok && held != qualified
}

func (t *importTable) add(qualified string) {
	if !t.needs(qualified) {
		return
	}
	t.added[qualified] = struct{}{}
	t.byName[naming.SimpleName(qualified)] = qualified
}

// edits places each added import before the first kept import that sorts
// after it, or after the last kept one.
func (t *importTable) edits() []syntax.Edit {
	if len(t.added) == 0 {
		return nil
	}
	names := make([]string, 0, len(t.added))
	for q := range t.added {
		names = append(names, q)
	}
	sort.Strings(names)

	var out []syntax.Edit
	if len(t.kept) == 0 {
		lines := make([]string, 0, len(names))
		for _, q := range names {
			lines = append(lines, "import "+q+";")
		}
		block := strings.Join(lines, "\n")
		switch {
		case t.anchor != nil:
			out = append(out, syntax.InsertAt(t.anchor.StartByte(), block+"\n"))
		case t.pkgDecl != nil:
			out = append(out, syntax.InsertAt(t.pkgDecl.EndByte(), "\n\n"+block))
		default:
			out = append(out, syntax.InsertAt(0, block+"\n\n"))
		}
		return out
	}
	last := t.kept[len(t.kept)-1].Node
	for _, q := range names {
		placed := false
		for _, imp := range t.kept {
			if imp.Qualified > q {
				out = append(out, syntax.InsertAt(imp.Node.StartByte(), "import "+q+";\n"))
				placed = true
				break
			}
		}
		if !placed {
			out = append(out, syntax.InsertAt(last.EndByte(), "\nimport "+q+";"))
		}
	}
	return out
}

// deletion removes an import declaration together with the rest of its line
// when nothing else follows it there.
func deletion(unit *syntax.Unit, n *sitter.Node) syntax.Edit {
	start, end := n.StartByte(), n.EndByte()
	lineEnd := unit.LineEnd(end)
	if strings.TrimSpace(string(unit.Content[end:lineEnd])) == "" {
		end = lineEnd
	}
	return syntax.ReplaceRange(start, end, "")
}
