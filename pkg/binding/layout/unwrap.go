package layout

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
)

const (
	layoutTag = "layout"
	dataTag   = "data"
)

var ErrNoViewRoot = errors.New("data binding layout has no view root")

// 绑定表达式属性：android:text="@{user.name}"、app:x='@={vm.y}'
var bindingAttrPattern = regexp.MustCompile(`\s+[\w.:-]+\s*=\s*(?:"@=?\{[^"]*\}"|'@=?\{[^']*\}')`)

type unwrapScan struct {
	rootStart  int64
	rootEnd    int64
	rootAttrs  []xml.Attr
	childStart int64
	childOpen  int64
	childEnd   int64
	found      bool
}

// Unwrap turns a data binding layout (a <layout> root wrapping <data> and one
// view root) into a plain layout: the view root is promoted, the wrapper's
// attributes (namespace declarations) move onto it and binding expression
// attributes are dropped. Documents without a <layout> root are returned
// unchanged with ok false.
func Unwrap(content []byte) ([]byte, bool, error) {
	scan, isBinding, err := scanLayout(content)
	if err != nil || !isBinding {
		return content, false, err
	}

	open := content[scan.childStart:scan.childOpen]
	var out bytes.Buffer
	out.Write(content[:scan.rootStart])
	out.WriteString(stripBindingAttrs(withAttrs(open, scan.rootAttrs)))
	out.WriteString(stripBindingAttrs(string(content[scan.childOpen:scan.childEnd])))
	out.Write(content[scan.rootEnd:])
	return out.Bytes(), true, nil
}

func scanLayout(content []byte) (*unwrapScan, bool, error) {
	dec := xml.NewDecoder(bytes.NewReader(content))
	scan := &unwrapScan{}
	var childName string
	var open []string
	for {
		before := dec.InputOffset()
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, false, fmt.Errorf("failed to parse layout xml: %w", err)
		}
		after := dec.InputOffset()
		switch t := tok.(type) {
		case xml.StartElement:
			switch len(open) {
			case 0:
				if rawName(t.Name) != layoutTag {
					return nil, false, nil
				}
				scan.rootStart = before
				scan.rootAttrs = t.Attr
			case 1:
				if !scan.found && rawName(t.Name) != dataTag {
					scan.found = true
					childName = rawName(t.Name)
					scan.childStart, scan.childOpen = before, after
				}
			}
			open = append(open, rawName(t.Name))
		case xml.EndElement:
			if len(open) == 0 || open[len(open)-1] != rawName(t.Name) {
				return nil, false, fmt.Errorf("failed to parse layout xml: unexpected </%s>", rawName(t.Name))
			}
			open = open[:len(open)-1]
			switch len(open) {
			case 0:
				scan.rootEnd = after
			case 1:
				if scan.found && scan.childEnd == 0 && rawName(t.Name) == childName {
					scan.childEnd = after
				}
			}
		}
	}
	if len(open) != 0 {
		return nil, false, fmt.Errorf("failed to parse layout xml: unclosed <%s>", open[len(open)-1])
	}
	if scan.rootEnd == 0 {
		// 没有根标签的空文档
		return nil, false, nil
	}
	if !scan.found {
		return nil, false, ErrNoViewRoot
	}
	return scan, true, nil
}

// withAttrs appends the attributes the start tag does not declare yet.
func withAttrs(open []byte, attrs []xml.Attr) string {
	tag := string(open)
	var extra bytes.Buffer
	for _, a := range attrs {
		name := rawName(a.Name)
		if hasAttr(tag, name) {
			continue
		}
		extra.WriteString(" ")
		extra.WriteString(name)
		extra.WriteString(`="`)
		_ = xml.EscapeText(&extra, []byte(a.Value))
		extra.WriteString(`"`)
	}
	if extra.Len() == 0 {
		return tag
	}
	// 自闭合标签插到 "/>" 之前，保留原有的尾部空白
	cut := len(open) - 1
	if bytes.HasSuffix(open, []byte("/>")) {
		cut = len(open) - 2
	}
	head := bytes.TrimRight(open[:cut], " \t\r\n")
	return string(head) + extra.String() + tag[len(head):]
}

func hasAttr(tag, name string) bool {
	return regexp.MustCompile(`\s` + regexp.QuoteMeta(name) + `\s*=`).MatchString(tag)
}

func stripBindingAttrs(s string) string {
	return bindingAttrPattern.ReplaceAllString(s, "")
}
