package resolver

import (
	"os"
	"strings"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"databinding-hunter/pkg/binding/syntax"
)

// ClassIndex records the declared superclass of every class found in the
// project sources.
type ClassIndex struct {
	mu      sync.RWMutex
	classes map[string]string
}

func NewClassIndex() *ClassIndex {
	return &ClassIndex{classes: make(map[string]string)}
}

// AddFile 解析并索引一个 java 文件
func (c *ClassIndex) AddFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return c.AddSource(path, content)
}

func (c *ClassIndex) AddSource(path string, content []byte) error {
	unit, err := syntax.Parse(path, content)
	if err != nil {
		return err
	}
	defer unit.Close()
	c.AddUnit(unit)
	return nil
}

// AddUnit indexes the classes of an already parsed unit, nested ones included.
func (c *ClassIndex) AddUnit(unit *syntax.Unit) {
	scope := newFileScope(unit)
	found := make(map[string]string)
	var visit func(n *sitter.Node, outer string)
	visit = func(n *sitter.Node, outer string) {
		for _, child := range syntax.NamedChildren(n) {
			if !syntax.IsTypeDeclaration(child.Kind()) {
				if syntax.Is(child, syntax.KindClassBody) || syntax.Is(child, syntax.KindEnumBodyDeclarations) {
					visit(child, outer)
				}
				continue
			}
			name := unit.Text(child.ChildByFieldName("name"))
			if name == "" {
				continue
			}
			qualified := outer + "." + name
			if outer == "" {
				qualified = scope.qualify(name)
			}
			if syntax.Is(child, syntax.KindClassDeclaration) {
				if super := child.ChildByFieldName("superclass"); super != nil {
					found[qualified] = scope.resolve(superTypeName(unit, super))
				} else {
					found[qualified] = ""
				}
			}
			if body := child.ChildByFieldName("body"); body != nil {
				visit(body, qualified)
			}
		}
	}
	visit(unit.Root(), "")

	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range found {
		c.classes[k] = v
	}
}

// Superclass 返回索引中的父类限定名，没有 extends 的类返回 false
func (c *ClassIndex) Superclass(qualified string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	super, ok := c.classes[qualified]
	if !ok || super == "" {
		return "", false
	}
	return super, true
}

// Has reports whether the class is declared in the indexed sources.
func (c *ClassIndex) Has(qualified string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.classes[qualified]
	return ok
}

func (c *ClassIndex) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.classes)
}

// superTypeName extends 子句中的类型名，去掉泛型参数
func superTypeName(unit *syntax.Unit, super *sitter.Node) string {
	for _, child := range syntax.NamedChildren(super) {
		if syntax.Is(child, syntax.KindGenericType) {
			children := syntax.NamedChildren(child)
			if len(children) == 0 {
				return ""
			}
			return unit.CompactText(children[0])
		}
		return unit.CompactText(child)
	}
	return ""
}

// fileScope resolves simple type names the way the compiler would for one
// file: single-type imports first, then the file's own package.
type fileScope struct {
	pkg     string
	imports map[string]string
}

func newFileScope(unit *syntax.Unit) *fileScope {
	s := &fileScope{imports: make(map[string]string)}
	for _, child := range syntax.NamedChildren(unit.Root()) {
		switch {
		case syntax.Is(child, syntax.KindPackageDeclaration):
			for _, n := range syntax.NamedChildren(child) {
				if syntax.Is(n, syntax.KindScopedIdentifier) || syntax.Is(n, syntax.KindIdentifier) {
					s.pkg = unit.CompactText(n)
				}
			}
		case syntax.Is(child, syntax.KindImportDeclaration):
			imp := ParseImport(unit, child)
			if imp.Static || imp.Wildcard {
				continue
			}
			s.imports[imp.SimpleName()] = imp.Qualified
		}
	}
	return s
}

func (s *fileScope) qualify(name string) string {
	if s.pkg == "" {
		return name
	}
	return s.pkg + "." + name
}

func (s *fileScope) resolve(name string) string {
	if name == "" {
		return ""
	}
	head, rest, nested := strings.Cut(name, ".")
	if q, ok := s.imports[head]; ok {
		if nested {
			return q + "." + rest
		}
		return q
	}
	if nested {
		return name
	}
	return s.qualify(name)
}
