package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/damon-houk/currency-converter/internal/domain/entity"
	"github.com/stretchr/testify/assert"
)

func TestCatalogCache(t *testing.T) {
	cache := NewCatalogCache()
	ctx := context.Background()

	// Initial state
	_, loaded := cache.Get()
	assert.False(t, loaded)
	assert.Equal(t, 0, cache.Size())
	assert.True(t, cache.LoadedAt().IsZero())

	var calls int32
	load := func(ctx context.Context) entity.Catalog {
		atomic.AddInt32(&calls, 1)
		return entity.Catalog{"EUR": "Euro", "USD": "US Dollar"}
	}

	// First call loads, second is served from memory
	first := cache.GetOrLoad(ctx, load)
	second := cache.GetOrLoad(ctx, load)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, first, second)
	assert.Equal(t, 2, cache.Size())
	assert.False(t, cache.LoadedAt().IsZero())

	catalog, loaded := cache.Get()
	assert.True(t, loaded)
	assert.Equal(t, "Euro", catalog["EUR"])

	// Clearing forces a reload
	cache.Clear()
	assert.Equal(t, 0, cache.Size())
	cache.GetOrLoad(ctx, load)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestCatalogCacheMemoizesFailedLoad(t *testing.T) {
	cache := NewCatalogCache()
	ctx := context.Background()

	var calls int32
	failing := func(ctx context.Context) entity.Catalog {
		atomic.AddInt32(&calls, 1)
		return nil
	}

	first := cache.GetOrLoad(ctx, failing)
	second := cache.GetOrLoad(ctx, failing)

	assert.NotNil(t, first)
	assert.True(t, first.IsEmpty())
	assert.True(t, second.IsEmpty())
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCatalogCacheConcurrentLoads(t *testing.T) {
	cache := NewCatalogCache()
	ctx := context.Background()

	var calls int32
	load := func(ctx context.Context) entity.Catalog {
		atomic.AddInt32(&calls, 1)
		return entity.Catalog{"INR": "Indian Rupee"}
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			catalog := cache.GetOrLoad(ctx, load)
			assert.True(t, catalog.Contains("INR"))
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCatalogCacheIgnoresCallerCancellation(t *testing.T) {
	cache := NewCatalogCache()

	type ctxKey string
	ctx, cancel := context.WithTimeout(context.WithValue(context.Background(), ctxKey("id"), "req-1"), 10*time.Millisecond)
	defer cancel()

	var calls int32
	slow := func(ctx context.Context) entity.Catalog {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "req-1", ctx.Value(ctxKey("id")))

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(50 * time.Millisecond):
			return entity.Catalog{"USD": "US Dollar"}
		}
	}

	first := cache.GetOrLoad(ctx, slow)
	second := cache.GetOrLoad(context.Background(), slow)

	assert.True(t, first.Contains("USD"))
	assert.True(t, second.Contains("USD"))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
