package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/tenantcore/pkg/audit"
)

// DefaultCacheTTL keeps cached validity short so that a suspension takes
// effect within seconds even on the cached read path.
const DefaultCacheTTL = 5 * time.Second

// AuditLogger receives tenant lifecycle events.
type AuditLogger interface {
	Log(ctx context.Context, action string, opts ...audit.EventOption) error
}

// Registry answers tenant validity queries backed by a durable store.
type Registry struct {
	store    Store
	cache    Cache
	cacheTTL time.Duration
	auditor  AuditLogger
	log      *slog.Logger
}

// Option configures the registry.
type Option func(*Registry)

// WithCache sets a custom cache implementation (e.g. Redis-backed for
// multi-instance deployments).
func WithCache(c Cache) Option {
	return func(r *Registry) {
		r.cache = c
	}
}

// WithCacheTTL sets how long lookups may be served from cache. Zero or
// negative disables caching entirely, making every read strongly consistent
// with the store.
func WithCacheTTL(ttl time.Duration) Option {
	return func(r *Registry) {
		r.cacheTTL = ttl
	}
}

// WithAuditLogger attaches an audit logger for lifecycle events.
func WithAuditLogger(l AuditLogger) Option {
	return func(r *Registry) {
		r.auditor = l
	}
}

// WithLogger sets a custom logger.
func WithLogger(log *slog.Logger) Option {
	return func(r *Registry) {
		if log != nil {
			r.log = log
		}
	}
}

// New creates a registry over the given durable store.
// Panics if store is nil: a registry without a backing store cannot answer
// anything, and misconfiguration should fail at startup.
func New(store Store, opts ...Option) *Registry {
	if store == nil {
		panic("registry: store cannot be nil")
	}

	r := &Registry{
		store:    store,
		cacheTTL: DefaultCacheTTL,
		log:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.cache == nil {
		r.cache = NewMemoryCache(DefaultCacheCapacity)
	}
	return r
}

func (r *Registry) cacheEnabled() bool {
	return r.cacheTTL > 0
}

// Lookup retrieves a tenant by id, consulting the cache first when enabled.
// Both hits and misses are cached so that repeated probes for unknown
// identifiers cannot hammer the durable store.
func (r *Registry) Lookup(ctx context.Context, id string) (*Tenant, error) {
	if r.cacheEnabled() {
		if tenant, ok := r.cache.Get(ctx, id); ok {
			if tenant == nil {
				return nil, ErrTenantNotFound
			}
			return tenant, nil
		}
	}

	tenant, err := r.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrTenantNotFound) && r.cacheEnabled() {
			r.cache.Set(ctx, id, nil, r.cacheTTL)
		}
		return nil, err
	}

	if r.cacheEnabled() {
		r.cache.Set(ctx, id, tenant, r.cacheTTL)
	}
	return tenant, nil
}

// IsActive reports whether the tenant may serve requests.
// Returns ErrTenantNotFound when the identifier is unknown.
func (r *Registry) IsActive(ctx context.Context, id string) (bool, error) {
	tenant, err := r.Lookup(ctx, id)
	if err != nil {
		return false, err
	}
	return tenant.IsActive(), nil
}

// Transition applies a lifecycle status change. It reads the current record
// directly from the store, bypassing the cache, so concurrent transitions
// observe the latest persisted status. The cache entry is invalidated on
// success and a lifecycle audit event is emitted.
//
// Only the out-of-scope provisioning/billing workflow should call this;
// the request path never writes tenant state.
func (r *Registry) Transition(ctx context.Context, id string, to Status) (*Tenant, error) {
	if !to.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, to)
	}

	tenant, err := r.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	from := tenant.Status
	if !CanTransition(from, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}

	tenant.Status = to
	if to == StatusDeleted {
		// Soft delete: the row stays until the retention purge.
		now := time.Now()
		tenant.DeletedAt = &now
	}

	if err := r.store.Put(ctx, tenant); err != nil {
		return nil, err
	}

	if r.cacheEnabled() {
		r.cache.Delete(ctx, id)
	}

	r.log.InfoContext(ctx, "tenant status transition",
		slog.String("tenant_id", id),
		slog.String("from", string(from)),
		slog.String("to", string(to)),
	)

	if r.auditor != nil {
		// Lifecycle transitions run outside any request scope, so the
		// tenant id is stamped explicitly.
		if err := r.auditor.Log(ctx, "tenant.status_transition",
			audit.WithTenantID(id),
			audit.WithResource("tenant", id),
			audit.WithMetadata("from", string(from)),
			audit.WithMetadata("to", string(to)),
		); err != nil {
			r.log.ErrorContext(ctx, "failed to audit tenant transition",
				slog.String("tenant_id", id), slog.Any("error", err))
		}
	}

	return tenant.clone(), nil
}

// Touch records request activity on a tenant. The write is field-scoped in
// the store, so a concurrent status transition can never be overwritten by
// the activity marker. Best effort: failures are returned but callers
// typically ignore them.
func (r *Registry) Touch(ctx context.Context, id string) error {
	return r.store.Touch(ctx, id, time.Now())
}
