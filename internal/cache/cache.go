package cache

import (
	"sync"
	"time"
)

type Observer interface {
	CacheHit(kind string)
	CacheMiss(kind string)
}

type entry[T any] struct {
	val T
	exp time.Time
}

// Cache отчётов с TTL. При ttl <= 0 ничего не хранит.
type Cache[T any] struct {
	mu  sync.RWMutex
	m   map[string]entry[T]
	ttl time.Duration
	obs Observer
	now func() time.Time
}

func New[T any](ttl time.Duration, obs Observer) *Cache[T] {
	return &Cache[T]{m: make(map[string]entry[T]), ttl: ttl, obs: obs, now: time.Now}
}

func (c *Cache[T]) Enabled() bool {
	return c != nil && c.ttl > 0
}

func (c *Cache[T]) Get(kind, key string) (T, bool) {
	var zero T
	if !c.Enabled() {
		return zero, false
	}

	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()

	if !ok || c.now().After(e.exp) {
		if c.obs != nil {
			c.obs.CacheMiss(kind)
		}
		return zero, false
	}
	if c.obs != nil {
		c.obs.CacheHit(kind)
	}
	return e.val, true
}

func (c *Cache[T]) Set(key string, v T) {
	if !c.Enabled() {
		return
	}

	c.mu.Lock()
	c.m[key] = entry[T]{val: v, exp: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// Purge удаляет просроченные записи
func (c *Cache[T]) Purge() int {
	if !c.Enabled() {
		return 0
	}

	now := c.now()
	removed := 0

	c.mu.Lock()
	for k, e := range c.m {
		if now.After(e.exp) {
			delete(c.m, k)
			removed++
		}
	}
	c.mu.Unlock()

	return removed
}
