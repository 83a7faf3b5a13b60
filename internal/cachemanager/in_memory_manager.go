package cachemanager

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"selectext/internal/log"
)

const DefaultExpiration = 10 * time.Minute
const DefaultCleanupInterval = 30 * time.Minute

// UseDefaultTTL tells Set to apply the manager's default expiration.
const UseDefaultTTL = gocache.DefaultExpiration

// NewInMemoryCacheManager initializes the in-memory cache. maxEntries <= 0
// leaves the entry count unbounded (expiration still applies).
func NewInMemoryCacheManager[V any](useCase string, defaultExpiration, cleanupInterval time.Duration, maxEntries int) *InMemoryCacheManager[V] {
	return &InMemoryCacheManager[V]{
		useCase:    useCase,
		maxEntries: maxEntries,
		cache:      gocache.New(defaultExpiration, cleanupInterval),
	}
}

// InMemoryCacheManager is the concrete implementation of the CacheManager interface
type InMemoryCacheManager[V any] struct {
	useCase    string
	maxEntries int
	cache      *gocache.Cache
}

// Get retrieves an item from the cache by its key
func (c *InMemoryCacheManager[V]) Get(ctx context.Context, key string) (V, bool) {
	var zeroValue V

	value, found := c.cache.Get(key)
	if !found {
		return zeroValue, false
	}

	v, ok := value.(V)
	if !ok {
		log.Error(log.CatCache, "wrong type assertion when getting value", "cache", c.useCase, "key", key)

		return zeroValue, false
	}

	log.Debug(log.CatCache, "cache hit", "cache", c.useCase, "key", key)

	return v, true
}

// Set stores a value under key. When the cache is at capacity, expired
// entries are purged first and, if that frees nothing, the cache is flushed.
func (c *InMemoryCacheManager[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) {
	if c.maxEntries > 0 && c.cache.ItemCount() >= c.maxEntries {
		if _, exists := c.cache.Get(key); !exists {
			c.cache.DeleteExpired()
			if c.cache.ItemCount() >= c.maxEntries {
				log.Info(log.CatCache, "cache full, flushing", "cache", c.useCase, "entries", c.cache.ItemCount())
				c.cache.Flush()
			}
		}
	}
	c.cache.Set(key, value, ttl)
}

// Delete removes values from the cache by key
func (c *InMemoryCacheManager[V]) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		c.cache.Delete(key)
	}

	return nil
}

// Flush removes every value from the cache
func (c *InMemoryCacheManager[V]) Flush(ctx context.Context) error {
	c.cache.Flush()

	return nil
}

// Len reports the number of stored items, including ones that have expired
// but not been cleaned up yet.
func (c *InMemoryCacheManager[V]) Len() int {
	return c.cache.ItemCount()
}
