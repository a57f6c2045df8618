// file: internal/cache/cache.go
// version: 1.1.0
// guid: 22b83d9b-1f20-4f8c-8fed-1b1cb7f7427c

// Package cache provides the bounded LRU cache backing every upstream
// client. A hit short-circuits both the client's rate limiter and the
// network.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// DefaultCapacity bounds a client cache unless configured otherwise.
const DefaultCapacity = 10000

type entry[T any] struct {
	key       string
	value     T
	expiresAt time.Time
}

// Cache is a generic bounded LRU cache with per-entry TTL, safe for
// concurrent use. When full, the least recently used entry is evicted.
type Cache[T any] struct {
	mu         sync.Mutex
	capacity   int
	defaultTTL time.Duration
	order      *list.List // front = most recently used
	items      map[string]*list.Element
}

// New creates a cache with the given capacity and default TTL.
// Capacity values below 1 fall back to DefaultCapacity. A zero TTL
// means entries never expire.
func New[T any](capacity int, defaultTTL time.Duration) *Cache[T] {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Cache[T]{
		capacity:   capacity,
		defaultTTL: defaultTTL,
		order:      list.New(),
		items:      make(map[string]*list.Element),
	}
}

// Get retrieves a value if it exists and hasn't expired. A hit marks
// the entry most recently used.
func (c *Cache[T]) Get(key string) (T, bool) {
	var zero T
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return zero, false
	}
	e := el.Value.(*entry[T])
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		c.order.Remove(el)
		delete(c.items, key)
		return zero, false
	}
	c.order.MoveToFront(el)
	return e.value, true
}

// Set stores a value with the default TTL.
func (c *Cache[T]) Set(key string, value T) {
	c.SetWithTTL(key, value, c.defaultTTL)
}

// SetWithTTL stores a value with a specific TTL. A zero TTL means the
// entry never expires.
func (c *Cache[T]) SetWithTTL(key string, value T, ttl time.Duration) {
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		e := el.Value.(*entry[T])
		e.value = value
		e.expiresAt = expiresAt
		c.order.MoveToFront(el)
		return
	}
	if c.order.Len() >= c.capacity {
		c.evictOldest()
	}
	c.items[key] = c.order.PushFront(&entry[T]{key: key, value: value, expiresAt: expiresAt})
}

// caller holds c.mu
func (c *Cache[T]) evictOldest() {
	el := c.order.Back()
	if el == nil {
		return
	}
	c.order.Remove(el)
	delete(c.items, el.Value.(*entry[T]).key)
}

// Invalidate removes a single key.
func (c *Cache[T]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		c.order.Remove(el)
		delete(c.items, key)
	}
}

// InvalidateAll removes all entries.
func (c *Cache[T]) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.items = make(map[string]*list.Element)
}

// Len reports the number of stored entries, expired or not.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
