package layout

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

var ErrEmptyLayout = errors.New("layout has no root tag")

// Attr is an attribute as written in the document, prefix included
// (android:id, xmlns:app).
type Attr struct {
	Name  string
	Value string
}

// Tag is the raw attribute tree of a layout description.
type Tag struct {
	Name     string
	Attrs    []Attr
	Children []*Tag
}

func (t *Tag) Attr(name string) (string, bool) {
	for _, a := range t.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// ParseTag reads the element tree of an XML document. Namespace prefixes are
// kept verbatim instead of being resolved to URIs.
func ParseTag(r io.Reader) (*Tag, error) {
	dec := xml.NewDecoder(r)
	var root *Tag
	var stack []*Tag
	for {
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse layout xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			tag := &Tag{Name: rawName(t.Name)}
			for _, a := range t.Attr {
				tag.Attrs = append(tag.Attrs, Attr{Name: rawName(a.Name), Value: a.Value})
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("failed to parse layout xml: multiple root tags")
				}
				root = tag
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, tag)
			}
			stack = append(stack, tag)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("failed to parse layout xml: unexpected </%s>", rawName(t.Name))
			}
			if top := stack[len(stack)-1]; top.Name != rawName(t.Name) {
				return nil, fmt.Errorf("failed to parse layout xml: <%s> closed by </%s>", top.Name, rawName(t.Name))
			}
			stack = stack[:len(stack)-1]
		}
	}
	if root == nil {
		return nil, ErrEmptyLayout
	}
	if len(stack) != 0 {
		return nil, fmt.Errorf("failed to parse layout xml: unclosed <%s>", stack[len(stack)-1].Name)
	}
	return root, nil
}

func rawName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}
