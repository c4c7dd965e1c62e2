package utils

import (
	"sync"
	"sync/atomic"
)

// Cache is a generic concurrency-safe map with hit and miss counters
type Cache[K comparable, V any] struct {
	items  map[K]V
	mutex  sync.RWMutex
	hits   atomic.Int64
	misses atomic.Int64
}

// NewCache creates a new generic cache
func NewCache[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{
		items: make(map[K]V),
	}
}

// Get retrieves an item from the cache
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mutex.RLock()
	value, exists := c.items[key]
	c.mutex.RUnlock()

	if exists {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return value, exists
}

// GetOrCompute returns the cached value for key, computing and storing it on a miss.
// Errors are returned without caching. compute may run more than once for the same
// key when called concurrently; the first stored value wins.
func (c *Cache[K, V]) GetOrCompute(key K, compute func() (V, error)) (V, error) {
	if value, ok := c.Get(key); ok {
		return value, nil
	}

	value, err := compute()
	if err != nil {
		return value, err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	if existing, ok := c.items[key]; ok {
		return existing, nil
	}
	c.items[key] = value
	return value, nil
}

// Size returns the number of items in the cache
func (c *Cache[K, V]) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.items)
}

// GetStats returns cache statistics
func (c *Cache[K, V]) GetStats() CacheStats {
	return CacheStats{
		Size:   c.Size(),
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
	}
}

// CacheStats provides cache statistics
type CacheStats struct {
	Size   int
	Hits   int64
	Misses int64
}
