package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	v       V
	storeAt time.Time
	exp     time.Time
}

// TTL is an in-process cache whose entries expire after a fixed lifetime.
// Expired entries stay readable through GetStale until overwritten.
type TTL[V any] struct {
	mu  sync.RWMutex
	m   map[string]entry[V]
	ttl time.Duration
	now func() time.Time
}

// NewTTL creates a cache with the given entry lifetime
func NewTTL[V any](ttl time.Duration) *TTL[V] {
	return &TTL[V]{
		m:   make(map[string]entry[V]),
		ttl: ttl,
		now: time.Now,
	}
}

// Get returns a live entry
func (c *TTL[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()

	if !ok || c.now().After(e.exp) {
		var zero V
		return zero, false
	}
	return e.v, true
}

// GetStale returns an entry regardless of expiry, with the time it was stored
func (c *TTL[V]) GetStale(key string) (V, time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.m[key]
	return e.v, e.storeAt, ok
}

// Set stores v under key
func (c *TTL[V]) Set(key string, v V) {
	now := c.now()
	c.mu.Lock()
	c.m[key] = entry[V]{v: v, storeAt: now, exp: now.Add(c.ttl)}
	c.mu.Unlock()
}

// Delete removes key
func (c *TTL[V]) Delete(key string) {
	c.mu.Lock()
	delete(c.m, key)
	c.mu.Unlock()
}

// TTL returns the configured entry lifetime
func (c *TTL[V]) TTL() time.Duration {
	return c.ttl
}
