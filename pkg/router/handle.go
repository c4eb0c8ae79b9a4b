package router

import (
	"context"
	"sync"
)

// Resource is the opaque per-tenant storage resource produced by an Opener.
// Close must release the underlying connection or namespace binding.
type Resource interface {
	Close(ctx context.Context) error
}

// Opener acquires the concrete resource for a tenant. Implementations derive
// the storage namespace from the already-validated tenant id.
type Opener interface {
	Open(ctx context.Context, tenantID string) (Resource, error)
}

// OpenerFunc is an adapter to allow the use of ordinary functions as Openers.
type OpenerFunc func(ctx context.Context, tenantID string) (Resource, error)

func (f OpenerFunc) Open(ctx context.Context, tenantID string) (Resource, error) {
	return f(ctx, tenantID)
}

// Handle is a shared, reference-counted association between a tenant and its
// storage resource. The router's cache holds one reference; each Resolve adds
// one. The resource is closed exactly once, when the last reference is
// released.
type Handle struct {
	tenantID string
	resource Resource

	mu     sync.Mutex
	refs   int
	closed bool
}

// newHandle starts with a single reference owned by the router's cache.
func newHandle(tenantID string, resource Resource) *Handle {
	return &Handle{tenantID: tenantID, resource: resource, refs: 1}
}

// TenantID returns the tenant this handle serves.
func (h *Handle) TenantID() string {
	return h.tenantID
}

// Resource returns the underlying storage resource. Shared by all requests
// naming this tenant; callers must treat it as read-only configuration.
func (h *Handle) Resource() Resource {
	return h.resource
}

// Release gives back one reference. The last release closes the underlying
// resource. Releasing an already-closed handle is a no-op.
func (h *Handle) Release(ctx context.Context) error {
	return h.unref(ctx)
}

// acquire adds a reference, failing when the handle has already been closed
// by eviction. Callers must re-resolve on failure.
func (h *Handle) acquire() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed || h.refs == 0 {
		return false
	}
	h.refs++
	return true
}

func (h *Handle) unref(ctx context.Context) error {
	h.mu.Lock()
	if h.closed || h.refs == 0 {
		h.mu.Unlock()
		return nil
	}
	h.refs--
	last := h.refs == 0
	if last {
		h.closed = true
	}
	h.mu.Unlock()

	if last {
		return h.resource.Close(ctx)
	}
	return nil
}
