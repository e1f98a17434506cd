package rewrite

import (
	"strings"

	"databinding-hunter/pkg/binding/naming"
)

// Options names the types, members and resource prefixes the rewrite
// recognizes and emits.
type Options struct {
	// UtilityTypes 绑定工具类，例如 androidx.databinding.DataBindingUtil
	UtilityTypes []string
	// BaseTypes 生成的绑定类的直接父类
	BaseTypes []string
	// ViewType replaces the declared binding type; ViewImport is its import.
	ViewType   string
	ViewImport string
	RootGetter string
	FindView   string
	// LayoutPrefix and IDPrefix prefix resource names in emitted code.
	LayoutPrefix string
	IDPrefix     string
	// ViewPackages maps simple view types outside WidgetPackage to their package.
	ViewPackages  map[string]string
	WidgetPackage string
}

func DefaultOptions() Options {
	return Options{
		UtilityTypes: []string{
			"android.databinding.DataBindingUtil",
			"androidx.databinding.DataBindingUtil",
		},
		BaseTypes: []string{
			"android.databinding.ViewDataBinding",
			"androidx.databinding.ViewDataBinding",
		},
		ViewType:     "View",
		ViewImport:   "android.view.View",
		RootGetter:   "getRoot",
		FindView:     "findViewById",
		LayoutPrefix: "R.layout.",
		IDPrefix:     "R.id.",
		ViewPackages: map[string]string{
			"View":        "android.view",
			"ViewStub":    "android.view",
			"SurfaceView": "android.view",
			"TextureView": "android.view",
			"WebView":     "android.webkit",
		},
		WidgetPackage: "android.widget",
	}
}

// withDefaults fills the zero fields of o from DefaultOptions.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if len(o.UtilityTypes) == 0 {
		o.UtilityTypes = d.UtilityTypes
	}
	if len(o.BaseTypes) == 0 {
		o.BaseTypes = d.BaseTypes
	}
	if o.ViewType == "" {
		o.ViewType = d.ViewType
	}
	if o.ViewImport == "" {
		o.ViewImport = d.ViewImport
	}
	if o.RootGetter == "" {
		o.RootGetter = d.RootGetter
	}
	if o.FindView == "" {
		o.FindView = d.FindView
	}
	if o.LayoutPrefix == "" {
		o.LayoutPrefix = d.LayoutPrefix
	}
	if o.IDPrefix == "" {
		o.IDPrefix = d.IDPrefix
	}
	if o.ViewPackages == nil {
		o.ViewPackages = d.ViewPackages
	}
	if o.WidgetPackage == "" {
		o.WidgetPackage = d.WidgetPackage
	}
	return o
}

// ViewClassPath 布局中的标签名对应的限定类名，已限定的原样返回
func (o Options) ViewClassPath(viewType string) string {
	if strings.Contains(viewType, ".") {
		return viewType
	}
	if pkg, ok := o.ViewPackages[viewType]; ok {
		return pkg + "." + viewType
	}
	return o.WidgetPackage + "." + viewType
}

func (o Options) isUtility(qualified string) bool {
	return contains(o.UtilityTypes, qualified)
}

func (o Options) isBase(qualified string) bool {
	return contains(o.BaseTypes, qualified)
}

func (o Options) utilitySimpleNames() []string {
	out := make([]string, 0, len(o.UtilityTypes))
	for _, u := range o.UtilityTypes {
		out = append(out, naming.SimpleName(u))
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
