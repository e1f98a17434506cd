package layout

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"databinding-hunter/pkg/binding/naming"
)

const (
	idAttr     = "android:id"
	idMarker   = "id/"
	genericTag = "View"
	classAttr  = "class"
)

// 这些标签本身不是 View 类，按通用 View 处理
var genericTags = map[string]struct{}{
	"include":      {},
	"fragment":     {},
	"merge":        {},
	"requestFocus": {},
	"tag":          {},
}

// View is what a binding member resolves to: the raw layout id and the view
// type declared by the tag. Package is the resource package of the id, e.g.
// "android" for @android:id/list, and empty for the app's own ids.
type View struct {
	ID      string
	Type    string
	Package string
}

// Info maps view reference names (camelCase) of one layout to their raw id and
// view type. It is immutable once built.
type Info struct {
	resourceName string
	views        map[string]View
}

// Build indexes every tag carrying an android:id, depth first. Duplicate ids
// overwrite earlier ones.
func Build(resourceName string, root *Tag) *Info {
	info := &Info{
		resourceName: resourceName,
		views:        make(map[string]View),
	}
	info.collect(root)
	return info
}

// LoadFile parses a layout file; the resource name is the file name without
// extension.
func LoadFile(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	root, err := ParseTag(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return Build(ResourceNameOf(path), root), nil
}

// ResourceNameOf activity_main.xml -> activity_main
func ResourceNameOf(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (i *Info) collect(tag *Tag) {
	if tag == nil {
		return
	}
	if value, ok := tag.Attr(idAttr); ok {
		if idx := strings.Index(value, idMarker); idx >= 0 {
			rawID := value[idx+len(idMarker):]
			if rawID != "" {
				i.views[naming.ToCamelCase(rawID)] = View{ID: rawID, Type: viewTypeOf(tag), Package: idPackageOf(value[:idx])}
			}
		}
	}
	for _, child := range tag.Children {
		i.collect(child)
	}
}

// idPackageOf "@+android:" -> android, "@+" / "@" -> ""
func idPackageOf(prefix string) string {
	prefix = strings.TrimLeft(prefix, "@+")
	pkg, ok := strings.CutSuffix(prefix, ":")
	if !ok {
		return ""
	}
	return pkg
}

func viewTypeOf(tag *Tag) string {
	if tag.Name == "view" {
		if class, ok := tag.Attr(classAttr); ok && class != "" {
			return class
		}
		return genericTag
	}
	if _, ok := genericTags[tag.Name]; ok {
		return genericTag
	}
	return tag.Name
}

func (i *Info) ResourceName() string {
	return i.resourceName
}

// BindingType 生成的绑定类名，例如 activity_main -> ActivityMainBinding
func (i *Info) BindingType() string {
	return naming.BindingTypeOf(i.resourceName)
}

func (i *Info) Lookup(ref string) (View, bool) {
	v, ok := i.views[ref]
	return v, ok
}

// ID returns the raw id for ref, or "" when the layout declares none.
func (i *Info) ID(ref string) string {
	return i.views[ref].ID
}

// ViewType returns the view type for ref, or "" when the layout declares none.
func (i *Info) ViewType(ref string) string {
	return i.views[ref].Type
}

func (i *Info) Len() int {
	return len(i.views)
}

// Refs 按字典序返回所有引用名
func (i *Info) Refs() []string {
	refs := make([]string, 0, len(i.views))
	for ref := range i.views {
		refs = append(refs, ref)
	}
	sort.Strings(refs)
	return refs
}

// merged returns a copy of i extended with the views of other that i lacks.
// Configuration variants (layout-land/foo.xml) share one binding class whose
// members are the union of their ids.
func (i *Info) merged(other *Info) *Info {
	out := &Info{
		resourceName: i.resourceName,
		views:        make(map[string]View, len(i.views)+len(other.views)),
	}
	for ref, v := range other.views {
		out.views[ref] = v
	}
	for ref, v := range i.views {
		out.views[ref] = v
	}
	return out
}
