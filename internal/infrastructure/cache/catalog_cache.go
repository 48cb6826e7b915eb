// Package cache internal/infrastructure/cache/catalog_cache.go
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/damon-houk/currency-converter/internal/domain/entity"
)

// LoadFunc produces a catalog; an empty catalog marks a failed load
type LoadFunc func(ctx context.Context) entity.Catalog

// CatalogCache memoizes the currency catalog for the lifetime of the process.
// The first load is stored whether it succeeded or not. Callers must treat the
// returned catalog as read-only.
type CatalogCache struct {
	mutex    sync.Mutex
	catalog  entity.Catalog
	loaded   bool
	loadedAt time.Time
}

// NewCatalogCache creates an empty catalog cache
func NewCatalogCache() *CatalogCache {
	return &CatalogCache{}
}

// GetOrLoad returns the cached catalog, invoking load at most once.
// Concurrent callers wait for the in-flight load instead of issuing their own.
// The load keeps the caller's context values but not its cancellation, since
// the result outlives the request that triggered it.
func (c *CatalogCache) GetOrLoad(ctx context.Context, load LoadFunc) entity.Catalog {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.loaded {
		return c.catalog
	}

	catalog := load(context.WithoutCancel(ctx))
	if catalog == nil {
		catalog = entity.Catalog{}
	}

	c.catalog = catalog
	c.loaded = true
	c.loadedAt = time.Now()

	return c.catalog
}

// Get returns the cached catalog without loading it
func (c *CatalogCache) Get() (entity.Catalog, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.catalog, c.loaded
}

// LoadedAt returns when the catalog was stored, or the zero time
func (c *CatalogCache) LoadedAt() time.Time {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.loadedAt
}

// Size returns the number of currencies in the cached catalog
func (c *CatalogCache) Size() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return len(c.catalog)
}

// Clear drops the cached catalog so the next GetOrLoad fetches again
func (c *CatalogCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.catalog = nil
	c.loaded = false
	c.loadedAt = time.Time{}
}
