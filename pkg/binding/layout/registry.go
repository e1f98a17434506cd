package layout

import (
	"sync"

	"databinding-hunter/internal/errs"
	"databinding-hunter/pkg/binding/cache"
	"databinding-hunter/pkg/binding/naming"
)

type lookupResult struct {
	info *Info
	err  error
}

// Registry owns the LayoutXmlInfo of one run, keyed by binding type. It is
// filled before any unit is rewritten and only read afterwards; each binding
// type is resolved at most once.
type Registry struct {
	mu         sync.RWMutex
	byBinding  map[string]*Info
	byResource map[string]*Info
	lookups    *cache.LRUCache[string, lookupResult]
}

func NewRegistry(infos ...*Info) *Registry {
	r := &Registry{
		byBinding:  make(map[string]*Info),
		byResource: make(map[string]*Info),
		lookups:    cache.NewLRUCache[string, lookupResult](0),
	}
	for _, info := range infos {
		r.Register(info)
	}
	return r
}

// Register adds a layout. A second layout with the same resource name (another
// resource qualifier) is merged into the first.
func (r *Registry) Register(info *Info) {
	if info == nil {
		return
	}
	r.mu.Lock()
	if existing, ok := r.byResource[info.ResourceName()]; ok {
		info = existing.merged(info)
	}
	r.byResource[info.ResourceName()] = info
	r.byBinding[info.BindingType()] = info
	r.mu.Unlock()
	r.lookups.Purge()
}

// Lookup resolves a binding type (simple or qualified name) to its layout.
func (r *Registry) Lookup(bindingType string) (*Info, error) {
	simple := naming.SimpleName(bindingType)
	res := r.lookups.GetOrLoad(simple, func() lookupResult {
		info, err := r.resolve(simple)
		return lookupResult{info: info, err: err}
	})
	return res.info, res.err
}

func (r *Registry) resolve(simple string) (*Info, error) {
	layoutName, ok := naming.LayoutNameOf(simple)
	if !ok {
		return nil, errs.NewAmbiguousRebindErr(simple)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if info, ok := r.byBinding[simple]; ok {
		return info, nil
	}
	// 文件名到类名的映射不可逆（demo_01/demo_0_1 都对应 Demo01Binding），再按资源名兜底
	if info, ok := r.byResource[layoutName]; ok {
		return info, nil
	}
	return nil, errs.NewUnresolvedLayoutErr(simple, layoutName)
}

// Has reports whether a layout generates the given binding type.
func (r *Registry) Has(bindingType string) bool {
	_, err := r.Lookup(bindingType)
	return err == nil
}

// LookupStats 绑定类型解析的缓存命中情况
func (r *Registry) LookupStats() cache.Stats {
	return r.lookups.Stats()
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byResource)
}
