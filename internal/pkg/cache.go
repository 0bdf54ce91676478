package pkg

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Cache is a size-bounded LRU whose entries expire after a fixed TTL.
// A nil *Cache is valid and never stores anything, so callers need no
// special case when caching is disabled.
type Cache[K comparable, V any] struct {
	lru *expirable.LRU[K, V]
}

// NewCache returns a cache holding at most size entries for ttl each, or nil
// when size or ttl is not positive.
func NewCache[K comparable, V any](size int, ttl time.Duration) *Cache[K, V] {
	if size <= 0 || ttl <= 0 {
		return nil
	}
	return &Cache[K, V]{lru: expirable.NewLRU[K, V](size, nil, ttl)}
}

// Get returns the cached value for key.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	if c == nil {
		var zero V
		return zero, false
	}
	return c.lru.Get(key)
}

// Add stores value under key.
func (c *Cache[K, V]) Add(key K, value V) {
	if c != nil {
		c.lru.Add(key, value)
	}
}

// Remove drops key.
func (c *Cache[K, V]) Remove(key K) {
	if c != nil {
		c.lru.Remove(key)
	}
}

// Len returns the number of live entries.
func (c *Cache[K, V]) Len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}
