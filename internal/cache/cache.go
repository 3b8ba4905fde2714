// Package cache provides a small in-memory TTL cache for upstream lookups.
package cache

import (
	"sync"
	"time"
)

// Cache is the lookup-cache contract. Implementations must be safe for
// concurrent use.
type Cache[K comparable, V any] interface {
	Get(key K) (V, bool)
	Set(key K, value V, ttl time.Duration)
	Delete(key K)
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTL keeps values in memory with a per-entry expiry. Expired entries are
// dropped lazily on read.
type TTL[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]entry[V]
}

func NewTTL[K comparable, V any]() *TTL[K, V] {
	return &TTL[K, V]{items: make(map[K]entry[V])}
}

// Get returns a live cached value. Reading an expired entry removes it.
func (c *TTL[K, V]) Get(key K) (V, bool) {
	var zero V
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return zero, false
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		c.Delete(key)
		return zero, false
	}
	return e.value, true
}

// Set stores value under key. A non-positive ttl stores it without expiry.
func (c *TTL[K, V]) Set(key K, value V, ttl time.Duration) {
	e := entry[V]{value: value}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	c.mu.Lock()
	c.items[key] = e
	c.mu.Unlock()
}

// Delete removes key if present.
func (c *TTL[K, V]) Delete(key K) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// Len reports how many entries are stored, expired or not.
func (c *TTL[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Noop satisfies Cache while never storing anything. It backs configurations
// where caching is disabled.
type Noop[K comparable, V any] struct{}

func (Noop[K, V]) Get(key K) (V, bool) {
	var zero V
	return zero, false
}

func (Noop[K, V]) Set(key K, value V, ttl time.Duration) {}

func (Noop[K, V]) Delete(key K) {}
