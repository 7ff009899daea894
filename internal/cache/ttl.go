package cache

import (
	"sync"
	"time"
)

type item[V any] struct {
	val     V
	expires time.Time
}

// TTLCache is a small in-process cache with a fixed per-entry lifetime.
// Expired entries are dropped lazily on read.
type TTLCache[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]item[V]
	ttl   time.Duration
}

func NewTTL[K comparable, V any](ttl time.Duration) *TTLCache[K, V] {
	return &TTLCache[K, V]{items: make(map[K]item[V]), ttl: ttl}
}

func (c *TTLCache[K, V]) Get(k K) (V, bool) {
	c.mu.RLock()
	it, ok := c.items[k]
	c.mu.RUnlock()
	if ok && time.Now().Before(it.expires) {
		return it.val, true
	}
	if ok {
		c.mu.Lock()
		delete(c.items, k)
		c.mu.Unlock()
	}
	var zero V
	return zero, false
}

func (c *TTLCache[K, V]) Set(k K, v V) {
	c.mu.Lock()
	c.items[k] = item[V]{val: v, expires: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

func (c *TTLCache[K, V]) Delete(k K) {
	c.mu.Lock()
	delete(c.items, k)
	c.mu.Unlock()
}

func (c *TTLCache[K, V]) Clear() {
	c.mu.Lock()
	c.items = make(map[K]item[V])
	c.mu.Unlock()
}
