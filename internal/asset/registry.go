package asset

import (
	"sync"

	"github.com/nao1215/framecap/internal/model"
)

// Registry is a viewport-scoped asset table deduplicated by asset ID.
// The download step mutates registered assets from multiple goroutines,
// so all access goes through the mutex.
type Registry struct {
	mu    sync.Mutex
	byID  map[string]*model.Asset
	order []string
}

// NewRegistry creates an empty asset registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*model.Asset)}
}

// Add registers the asset and returns the canonical entry. When an asset
// with the same ID already exists the existing entry wins and the argument
// is discarded; that is what makes URL deduplication a single map hit.
func (r *Registry) Add(a *model.Asset) *model.Asset {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byID[a.ID]; ok {
		return existing
	}
	r.byID[a.ID] = a
	r.order = append(r.order, a.ID)
	return a
}

// Get returns the asset with the given ID.
func (r *Registry) Get(id string) (*model.Asset, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	return a, ok
}

// Pending returns the raster assets that still need their bytes fetched.
// The returned pointers are live registry entries; the download step fills
// them in place.
func (r *Registry) Pending() []*model.Asset {
	r.mu.Lock()
	defer r.mu.Unlock()

	var pending []*model.Asset
	for _, id := range r.order {
		a := r.byID[id]
		if a.Kind == model.AssetKindRaster && len(a.Data) == 0 {
			pending = append(pending, a)
		}
	}
	return pending
}

// Assets returns value copies of all registered assets in insertion order.
func (r *Registry) Assets() []model.Asset {
	r.mu.Lock()
	defer r.mu.Unlock()

	assets := make([]model.Asset, 0, len(r.order))
	for _, id := range r.order {
		assets = append(assets, *r.byID[id])
	}
	return assets
}

// Len returns the number of registered assets.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.order)
}
