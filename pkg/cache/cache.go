package cache

import (
	"context"
	"sync"
	"time"
)

// Cache stores small serialized snapshots (analytics, dashboard counters)
// with a TTL. Backed by memory or redis depending on deployment.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// item represents a cached item with expiration
type item struct {
	value      []byte
	expiration int64
}

func (i item) expired() bool {
	if i.expiration == 0 {
		return false
	}
	return time.Now().UnixNano() > i.expiration
}

// Memory is a thread-safe in-memory cache with expiration
type Memory struct {
	items    map[string]item
	mu       sync.RWMutex
	maxItems int
}

// NewMemory creates an in-memory cache. cleanupInterval > 0 starts a
// janitor goroutine that purges expired entries.
func NewMemory(maxItems int, cleanupInterval time.Duration) *Memory {
	c := &Memory{
		items:    make(map[string]item),
		maxItems: maxItems,
	}
	if cleanupInterval > 0 {
		go c.janitor(cleanupInterval)
	}
	return c
}

func (c *Memory) Get(ctx context.Context, key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	it, found := c.items[key]
	if !found || it.expired() {
		return nil, false
	}
	return it.value, true
}

func (c *Memory) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var exp int64
	if ttl > 0 {
		exp = time.Now().Add(ttl).UnixNano()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxItems > 0 && len(c.items) >= c.maxItems {
		if _, exists := c.items[key]; !exists {
			c.evictOldest()
		}
	}
	c.items[key] = item{value: value, expiration: exp}
	return nil
}

func (c *Memory) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
	return nil
}

// evictOldest removes the entry closest to expiry. Caller holds the lock.
func (c *Memory) evictOldest() {
	var oldestKey string
	var oldestExp int64 = 1<<63 - 1
	for key, it := range c.items {
		if it.expiration != 0 && it.expiration < oldestExp {
			oldestKey = key
			oldestExp = it.expiration
		}
	}
	if oldestKey != "" {
		delete(c.items, oldestKey)
	}
}

func (c *Memory) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		for key, it := range c.items {
			if it.expired() {
				delete(c.items, key)
			}
		}
		c.mu.Unlock()
	}
}
