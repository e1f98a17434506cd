// Package naming converts between layout ids (snake_case) and the camelCase names
// data binding generates for them, and derives the names of synthesized views.
package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	underscore    = '_'
	BindingSuffix = "Binding"
	ViewSuffix    = "View"
)

// ToSnakeCase converts an upper or lower camel identifier to lower snake case.
// Every digit becomes a segment of its own: demo01 -> demo_0_1.
func ToSnakeCase(camel string) string {
	var b strings.Builder
	b.Grow(len(camel) + 4)
	var last rune
	for i, r := range camel {
		switch {
		case r == underscore:
			if last != underscore {
				b.WriteRune(r)
			}
		case unicode.IsUpper(r):
			if i > 0 && last != underscore {
				b.WriteRune(underscore)
			}
			r = unicode.ToLower(r)
			b.WriteRune(r)
		case unicode.IsDigit(r):
			if i > 0 && last != underscore {
				b.WriteRune(underscore)
			}
			b.WriteRune(r)
		default:
			if unicode.IsDigit(last) {
				b.WriteRune(underscore)
			}
			b.WriteRune(r)
		}
		if r == underscore {
			last = underscore
		} else {
			last = r
		}
	}
	return b.String()
}

// ToCamelCase converts a snake_case layout id to the lower camel reference name
// used by generated bindings: text_view -> textView, demo_0_1 -> demo01.
func ToCamelCase(snake string) string {
	return joinSegments(snake, false)
}

// ToUpperCamelCase converts a layout resource name to the prefix of its binding
// type: activity_main -> ActivityMain.
func ToUpperCamelCase(snake string) string {
	return joinSegments(snake, true)
}

func joinSegments(snake string, upperFirst bool) string {
	var b strings.Builder
	first := true
	for _, seg := range strings.Split(snake, string(underscore)) {
		if seg == "" {
			continue
		}
		if first && !upperFirst {
			b.WriteString(Decapitalize(seg))
		} else {
			b.WriteString(Capitalize(seg))
		}
		first = false
	}
	return b.String()
}

// Capitalize 首字母大写
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Decapitalize 首字母小写
func Decapitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

// SimpleName returns the part after the last dot of a qualified name.
func SimpleName(qualified string) string {
	if i := strings.LastIndexByte(qualified, '.'); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}

// PackageOf returns the part before the last dot, or "" for unqualified names.
func PackageOf(qualified string) string {
	if i := strings.LastIndexByte(qualified, '.'); i >= 0 {
		return qualified[:i]
	}
	return ""
}

// LayoutNameOf strips the Binding suffix from a binding type's simple name and
// converts the rest to the layout resource name. ok is false when the suffix is
// missing.
func LayoutNameOf(bindingType string) (string, bool) {
	simple := SimpleName(bindingType)
	idx := strings.LastIndex(simple, BindingSuffix)
	if idx <= 0 {
		return "", false
	}
	return ToSnakeCase(simple[:idx]), true
}

// BindingTypeOf is the generated binding type name for a layout resource name.
func BindingTypeOf(resourceName string) string {
	return ToUpperCamelCase(resourceName) + BindingSuffix
}
