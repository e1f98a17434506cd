// Package resolver answers the type questions the rewrite needs: which class
// a qualified name extends.
package resolver

import (
	"strings"

	"databinding-hunter/pkg/binding/naming"
)

// SymbolResolver resolves a qualified type name to the qualified name of its
// superclass. ok is false when the type is unknown.
type SymbolResolver interface {
	Superclass(qualified string) (superclass string, ok bool)
}

// Chain asks each resolver in turn; the first answer wins.
type Chain []SymbolResolver

func (c Chain) Superclass(qualified string) (string, bool) {
	for _, r := range c {
		if r == nil {
			continue
		}
		if super, ok := r.Superclass(qualified); ok {
			return super, true
		}
	}
	return "", false
}

const generatedPackageSegment = "databinding"

// GeneratedBindings resolves the binding classes the build generates under
// <package>.databinding; they never appear in the source tree.
type GeneratedBindings struct {
	base  string
	known func(bindingType string) bool
}

// NewGeneratedBindings returns a resolver reporting base as the superclass of
// every generated binding type that known accepts.
func NewGeneratedBindings(base string, known func(bindingType string) bool) *GeneratedBindings {
	return &GeneratedBindings{base: base, known: known}
}

func (g *GeneratedBindings) Superclass(qualified string) (string, bool) {
	pkg := naming.PackageOf(qualified)
	if pkg == "" {
		return "", false
	}
	segments := strings.Split(pkg, ".")
	if segments[len(segments)-1] != generatedPackageSegment {
		return "", false
	}
	simple := naming.SimpleName(qualified)
	if !strings.HasSuffix(simple, naming.BindingSuffix) || g.known == nil || !g.known(simple) {
		return "", false
	}
	return g.base, true
}
