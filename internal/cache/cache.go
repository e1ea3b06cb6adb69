// file: internal/cache/cache.go
// version: 2.1.0
// guid: a1b2c3d4-e5f6-7a8b-9c0d-1e2f3a4b5c6d

// Package cache remembers recently seen values per key for a limited time.
package cache

import (
	"sync"
	"time"
)

type entry[T comparable] struct {
	value     T
	expiresAt time.Time
}

// Cache maps keys to values that expire after a TTL. It is safe for
// concurrent use.
type Cache[T comparable] struct {
	mu    sync.Mutex
	items map[string]entry[T]
	ttl   time.Duration
	now   func() time.Time
}

// New creates a cache whose entries live for ttl.
func New[T comparable](ttl time.Duration) *Cache[T] {
	return &Cache[T]{
		items: make(map[string]entry[T]),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Remember stores value under key and reports whether it is new: the key
// was absent, expired, or held a different value.
func (c *Cache[T]) Remember(key string, value T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	e, ok := c.items[key]
	fresh := !ok || now.After(e.expiresAt) || e.value != value
	c.items[key] = entry[T]{value: value, expiresAt: now.Add(c.ttl)}
	return fresh
}

// Invalidate removes a single key.
func (c *Cache[T]) Invalidate(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// Prune drops expired entries and returns how many remain.
func (c *Cache[T]) Prune() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for key, e := range c.items {
		if now.After(e.expiresAt) {
			delete(c.items, key)
		}
	}
	return len(c.items)
}
