package core

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"catalogcore/pkg/domain"
)

// objectCache maps member ids to live handles. The cache is an accelerator,
// not a source of truth: it may legitimately be stale or empty, and a miss
// simply triggers re-resolution against the table.
type objectCache interface {
	get(id string) (domain.Handle, bool)
	put(id string, h domain.Handle)
	remove(id string)
	purge()
}

// mapCache is the default unbounded cache.
type mapCache map[string]domain.Handle

func newMapCache() mapCache { return make(mapCache) }

func (c mapCache) get(id string) (domain.Handle, bool) {
	h, ok := c[id]
	return h, ok && h != nil
}

func (c mapCache) put(id string, h domain.Handle) { c[id] = h }

func (c mapCache) remove(id string) { delete(c, id) }

func (c mapCache) purge() {
	for id := range c {
		delete(c, id)
	}
}

// lruCache bounds resident handles for very large catalogs. Eviction is
// harmless: the table stays authoritative and evicted members are
// re-resolved on next access.
type lruCache struct {
	inner *lru.Cache[string, domain.Handle]
}

func newLRUCache(size int) (*lruCache, error) {
	inner, err := lru.New[string, domain.Handle](size)
	if err != nil {
		return nil, err
	}
	return &lruCache{inner: inner}, nil
}

func (c *lruCache) get(id string) (domain.Handle, bool) {
	h, ok := c.inner.Get(id)
	return h, ok && h != nil
}

func (c *lruCache) put(id string, h domain.Handle) { c.inner.Add(id, h) }

func (c *lruCache) remove(id string) { c.inner.Remove(id) }

func (c *lruCache) purge() { c.inner.Purge() }
