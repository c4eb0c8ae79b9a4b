package redis

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/tenantcore/pkg/registry"
)

// DefaultKeyPrefix namespaces tenant cache entries in a shared Redis.
const DefaultKeyPrefix = "tenant:"

// TenantCache is a registry.Cache backed by Redis, for deployments where
// multiple application instances must share one tenant cache so that a
// status transition on one instance is observed by all of them.
//
// Negative entries are stored as JSON null. Redis failures degrade to cache
// misses so the registry falls through to the durable store.
type TenantCache struct {
	client redis.UniversalClient
	prefix string
	log    *slog.Logger
}

// TenantCacheOption configures a TenantCache.
type TenantCacheOption func(*TenantCache)

// WithKeyPrefix overrides the key namespace.
func WithKeyPrefix(prefix string) TenantCacheOption {
	return func(c *TenantCache) {
		if prefix != "" {
			c.prefix = prefix
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(log *slog.Logger) TenantCacheOption {
	return func(c *TenantCache) {
		if log != nil {
			c.log = log
		}
	}
}

// NewTenantCache returns a shared tenant cache on the given client.
// Panics if client is nil.
func NewTenantCache(client redis.UniversalClient, opts ...TenantCacheOption) *TenantCache {
	if client == nil {
		panic("redis: tenant cache client cannot be nil")
	}
	c := &TenantCache{
		client: client,
		prefix: DefaultKeyPrefix,
		log:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ registry.Cache = (*TenantCache)(nil)

func (c *TenantCache) Get(ctx context.Context, id string) (*registry.Tenant, bool) {
	raw, err := c.client.Get(ctx, c.prefix+id).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.WarnContext(ctx, "tenant cache read failed",
				slog.String("tenant_id", id),
				slog.Any("error", err),
			)
		}
		return nil, false
	}

	var tenant *registry.Tenant
	if err := json.Unmarshal(raw, &tenant); err != nil {
		c.log.WarnContext(ctx, "tenant cache entry corrupted, dropping",
			slog.String("tenant_id", id),
			slog.Any("error", err),
		)
		_ = c.client.Del(ctx, c.prefix+id).Err()
		return nil, false
	}
	return tenant, true
}

func (c *TenantCache) Set(ctx context.Context, id string, tenant *registry.Tenant, ttl time.Duration) {
	raw, err := json.Marshal(tenant)
	if err != nil {
		c.log.WarnContext(ctx, "tenant cache encode failed",
			slog.String("tenant_id", id),
			slog.Any("error", err),
		)
		return
	}
	if err := c.client.Set(ctx, c.prefix+id, raw, ttl).Err(); err != nil {
		c.log.WarnContext(ctx, "tenant cache write failed",
			slog.String("tenant_id", id),
			slog.Any("error", err),
		)
	}
}

func (c *TenantCache) Delete(ctx context.Context, id string) {
	if err := c.client.Del(ctx, c.prefix+id).Err(); err != nil {
		c.log.WarnContext(ctx, "tenant cache invalidation failed",
			slog.String("tenant_id", id),
			slog.Any("error", err),
		)
	}
}
