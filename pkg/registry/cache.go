package registry

import (
	"context"
	"time"

	"github.com/dmitrymomot/tenantcore/pkg/cache"
)

// Cache is an optional bounded cache between the registry and the durable
// store. A nil tenant with ok=true is a cached negative: the identifier is
// known not to exist.
type Cache interface {
	Get(ctx context.Context, id string) (*Tenant, bool)
	Set(ctx context.Context, id string, tenant *Tenant, ttl time.Duration)
	Delete(ctx context.Context, id string)
}

// DefaultCacheCapacity bounds the in-memory cache entry count.
const DefaultCacheCapacity = 1024

type cacheEntry struct {
	tenant    *Tenant // nil for negative entries
	expiresAt time.Time
}

// memoryCache is the default in-process cache, an LRU bounded by capacity
// with per-entry TTL expiration.
type memoryCache struct {
	lru *cache.LRUCache[string, cacheEntry]
}

// NewMemoryCache returns a bounded in-process cache. Capacity must be
// positive; zero or negative falls back to DefaultCacheCapacity.
func NewMemoryCache(capacity int) Cache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &memoryCache{lru: cache.NewLRUCache[string, cacheEntry](capacity)}
}

func (c *memoryCache) Get(ctx context.Context, id string) (*Tenant, bool) {
	entry, ok := c.lru.Get(id)
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		c.lru.Remove(id)
		return nil, false
	}
	return entry.tenant.clone(), true
}

func (c *memoryCache) Set(ctx context.Context, id string, tenant *Tenant, ttl time.Duration) {
	c.lru.Put(id, cacheEntry{
		tenant:    tenant.clone(),
		expiresAt: time.Now().Add(ttl),
	})
}

func (c *memoryCache) Delete(ctx context.Context, id string) {
	c.lru.Remove(id)
}
