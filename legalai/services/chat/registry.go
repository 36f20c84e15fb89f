package chat

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// Registry keeps mounted views until they are closed or sit idle for the
// TTL. Any removal tears the view down.
type Registry struct {
	cache *cache.Cache
}

func NewRegistry(ttl time.Duration) *Registry {
	cleanup := ttl / 2
	if cleanup < time.Second {
		cleanup = time.Second
	}
	c := cache.New(ttl, cleanup)
	c.OnEvicted(func(_ string, x interface{}) {
		if v, ok := x.(*View); ok {
			v.Close()
		}
	})
	return &Registry{cache: c}
}

func (r *Registry) Put(v *View) {
	r.cache.Set(v.ID, v, cache.DefaultExpiration)
}

// Get returns the view only to its owner and extends its idle deadline.
func (r *Registry) Get(id, ownerID string) (*View, bool) {
	x, found := r.cache.Get(id)
	if !found {
		return nil, false
	}
	v := x.(*View)
	if v.OwnerID != ownerID {
		return nil, false
	}
	select {
	case <-v.Done():
		return nil, false
	default:
	}
	r.cache.Set(id, v, cache.DefaultExpiration)
	return v, true
}

// Remove closes the owner's view. It reports whether a view was removed.
func (r *Registry) Remove(id, ownerID string) bool {
	if _, ok := r.Get(id, ownerID); !ok {
		return false
	}
	r.cache.Delete(id)
	return true
}

func (r *Registry) Len() int {
	return r.cache.ItemCount()
}

// Shutdown closes every view. Items skips views that expired but were not
// collected yet, so those are evicted first.
func (r *Registry) Shutdown() {
	r.cache.DeleteExpired()
	for id := range r.cache.Items() {
		r.cache.Delete(id)
	}
}
