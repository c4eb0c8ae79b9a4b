package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dmitrymomot/tenantcore/pkg/cache"
	"github.com/dmitrymomot/tenantcore/pkg/registry"
)

const (
	// MaxTenantIDLength keeps derived resource names DNS- and
	// database-identifier-safe.
	MaxTenantIDLength = 63

	DefaultCapacity      = 100
	DefaultMaxRetries    = 3
	DefaultRetryInterval = 100 * time.Millisecond
)

// idPattern permits alphanumeric identifiers with interior hyphens and
// underscores. Anything else never reaches name derivation.
var idPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]*$`)

// ActiveChecker answers whether a tenant may serve requests.
// *registry.Registry satisfies it.
type ActiveChecker interface {
	IsActive(ctx context.Context, id string) (bool, error)
}

// Router maps tenant ids to cached storage handles.
type Router struct {
	registry ActiveChecker
	opener   Opener
	handles  *cache.LRUCache[string, *Handle]
	group    singleflight.Group
	log      *slog.Logger

	maxRetries    int
	retryInterval time.Duration

	mu     sync.Mutex
	closed bool
}

// New creates a router over the given registry and opener.
// Panics when either is nil: a router without both cannot resolve anything.
func New(reg ActiveChecker, opener Opener, opts ...Option) *Router {
	if reg == nil {
		panic("router: registry cannot be nil")
	}
	if opener == nil {
		panic("router: opener cannot be nil")
	}

	r := &Router{
		registry:      reg,
		opener:        opener,
		log:           slog.New(slog.DiscardHandler),
		maxRetries:    DefaultMaxRetries,
		retryInterval: DefaultRetryInterval,
	}

	capacity := DefaultCapacity
	for _, opt := range opts {
		opt(r, &capacity)
	}

	r.handles = cache.NewLRUCache[string, *Handle](capacity)
	r.handles.SetEvictCallback(func(tenantID string, h *Handle) {
		// Drop the cache's reference. The resource closes now if no request
		// holds the handle, or when the last holder releases it.
		if err := h.unref(context.Background()); err != nil {
			r.log.Error("failed to release evicted tenant handle",
				slog.String("tenant_id", tenantID), slog.Any("error", err))
		}
	})

	return r
}

// Resolve returns the storage handle for an active tenant. The caller must
// Release the handle when the request finishes.
//
// Concurrent calls for the same uncached tenant coalesce into one
// acquisition. Returns registry.ErrTenantNotFound or
// registry.ErrTenantNotActive for invalid tenants, ErrResourceAcquisition
// when the opener keeps failing.
func (r *Router) Resolve(ctx context.Context, tenantID string) (*Handle, error) {
	if err := ValidateTenantID(tenantID); err != nil {
		return nil, err
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, ErrRouterClosed
	}
	r.mu.Unlock()

	active, err := r.registry.IsActive(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, registry.ErrTenantNotActive
	}

	for {
		if h, ok := r.handles.Get(tenantID); ok && h.acquire() {
			return h, nil
		}

		v, err, _ := r.group.Do(tenantID, func() (any, error) {
			// Double-check under the flight: a racing caller may have
			// populated the cache between our miss and this execution.
			if h, ok := r.handles.Get(tenantID); ok {
				return h, nil
			}

			resource, err := r.open(ctx, tenantID)
			if err != nil {
				return nil, err
			}

			// The router may have closed while the open was in flight.
			// Inserting now would leave a cache reference Close never
			// releases, so reject and tear the resource down instead.
			r.mu.Lock()
			if r.closed {
				r.mu.Unlock()
				if cerr := resource.Close(ctx); cerr != nil {
					r.log.ErrorContext(ctx, "failed to close orphaned tenant resource",
						slog.String("tenant_id", tenantID), slog.Any("error", cerr))
				}
				return nil, ErrRouterClosed
			}
			h := newHandle(tenantID, resource)
			r.handles.Put(tenantID, h)
			r.mu.Unlock()

			r.log.DebugContext(ctx, "acquired tenant resource handle",
				slog.String("tenant_id", tenantID))
			return h, nil
		})
		if err != nil {
			return nil, err
		}

		if h := v.(*Handle); h.acquire() {
			return h, nil
		}
		// The handle was evicted and fully released before we could grab a
		// reference. Rare; resolve again.
	}
}

// open acquires a resource with bounded retries and exponential backoff,
// doubling the delay after each failed attempt and respecting context
// cancellation between attempts.
func (r *Router) open(ctx context.Context, tenantID string) (Resource, error) {
	var lastErr error
	for attempt := range r.maxRetries {
		resource, err := r.opener.Open(ctx, tenantID)
		if err == nil {
			return resource, nil
		}
		lastErr = err

		if attempt == r.maxRetries-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrResourceAcquisition, ctx.Err())
		case <-time.After(r.retryInterval << attempt):
		}
	}
	return nil, errors.Join(ErrResourceAcquisition, lastErr)
}

// Evict removes a tenant's handle from the cache, releasing the cache's
// reference. Used when a tenant is suspended or deleted mid-flight.
func (r *Router) Evict(tenantID string) {
	r.handles.Remove(tenantID)
}

// Len returns the number of cached handles.
func (r *Router) Len() int {
	return r.handles.Len()
}

// Close evicts every cached handle and rejects further resolutions.
// Safe to call repeatedly.
func (r *Router) Close(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.mu.Unlock()

	r.handles.Clear()
	return nil
}

// ValidateTenantID checks the identifier against the safe-identifier
// pattern shared by all resource-name derivations.
func ValidateTenantID(tenantID string) error {
	if tenantID == "" || len(tenantID) > MaxTenantIDLength {
		return fmt.Errorf("%w: %q", ErrInvalidTenantID, tenantID)
	}
	if !idPattern.MatchString(tenantID) {
		return fmt.Errorf("%w: %q", ErrInvalidTenantID, tenantID)
	}
	return nil
}
