// Package cache provides a small generic TTL cache used for memoizing
// broker lookups such as symbol-to-market resolution.
package cache

import (
	"sync"
	"time"
)

// Cache is a TTL key/value store.
type Cache[K comparable, V any] interface {
	Get(key K) (V, bool)
	Set(key K, value V, ttl time.Duration)
	Delete(key K)
	Clear()
	Size() int
}

type item[V any] struct {
	value     V
	expiresAt time.Time // zero: never expires
}

// InMemory is the in-process Cache implementation. Expired entries are
// dropped lazily on read and swept periodically.
type InMemory[K comparable, V any] struct {
	items      map[K]item[V]
	mu         sync.RWMutex
	defaultTTL time.Duration
}

// New returns a cache whose Set calls with ttl <= 0 fall back to defaultTTL.
// A defaultTTL of zero keeps entries until overwritten or deleted.
func New[K comparable, V any](defaultTTL time.Duration) *InMemory[K, V] {
	c := &InMemory[K, V]{
		items:      make(map[K]item[V]),
		defaultTTL: defaultTTL,
	}
	go c.sweep()
	return c
}

func (c *InMemory[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()
	if !ok || (!it.expiresAt.IsZero() && time.Now().After(it.expiresAt)) {
		var zero V
		return zero, false
	}
	return it.value, true
}

func (c *InMemory[K, V]) Set(key K, value V, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	var expires time.Time
	if ttl > 0 {
		expires = time.Now().Add(ttl)
	}
	c.mu.Lock()
	c.items[key] = item[V]{value: value, expiresAt: expires}
	c.mu.Unlock()
}

func (c *InMemory[K, V]) Delete(key K) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

func (c *InMemory[K, V]) Clear() {
	c.mu.Lock()
	c.items = make(map[K]item[V])
	c.mu.Unlock()
}

func (c *InMemory[K, V]) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *InMemory[K, V]) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		now := time.Now()
		c.mu.Lock()
		for k, it := range c.items {
			if !it.expiresAt.IsZero() && now.After(it.expiresAt) {
				delete(c.items, k)
			}
		}
		c.mu.Unlock()
	}
}
