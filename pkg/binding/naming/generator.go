package naming

import "strconv"

// Generator hands out member and local names derived from view reference names.
// Names already declared in the enclosing scope are reserved up front; on a
// collision a counter suffix starting at 2 is appended.
type Generator struct {
	taken map[string]struct{}
}

func NewGenerator(existing ...string) *Generator {
	g := &Generator{taken: make(map[string]struct{}, len(existing))}
	for _, name := range existing {
		g.Reserve(name)
	}
	return g
}

func (g *Generator) Reserve(name string) {
	if name != "" {
		g.taken[name] = struct{}{}
	}
}

func (g *Generator) Taken(name string) bool {
	_, ok := g.taken[name]
	return ok
}

// Field returns a unique field name for ref: text -> mTextView.
func (g *Generator) Field(ref string) string {
	return g.claim(FieldName(ref))
}

// Local returns a unique local variable name for ref: text -> textView.
func (g *Generator) Local(ref string) string {
	return g.claim(LocalName(ref))
}

func (g *Generator) claim(name string) string {
	candidate := name
	for n := 2; g.Taken(candidate); n++ {
		candidate = name + strconv.Itoa(n)
	}
	g.Reserve(candidate)
	return candidate
}

// FieldName is the collision-free form of the synthesized field name.
func FieldName(ref string) string {
	return ensureViewSuffix("m" + Capitalize(Decapitalize(ref)))
}

// LocalName is the collision-free form of the synthesized local name.
func LocalName(ref string) string {
	return ensureViewSuffix(Decapitalize(ref))
}

func ensureViewSuffix(name string) string {
	if len(name) >= len(ViewSuffix) && name[len(name)-len(ViewSuffix):] == ViewSuffix {
		return name
	}
	return name + ViewSuffix
}
