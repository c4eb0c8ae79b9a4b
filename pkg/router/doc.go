// Package router resolves a tenant id to the concrete storage handle serving
// that tenant's data partition.
//
// The router sits between the request path and the per-tenant storage
// backends. Every resolution first confirms the tenant is active against the
// registry, then returns a shared handle from a bounded LRU cache. On a cache
// miss the handle is acquired through an Opener with bounded retries and
// backoff; concurrent misses for the same tenant coalesce into a single
// acquisition, so a burst of requests for an uncached tenant can never exceed
// the backing store's connection quota.
//
//	rt := router.New(reg, opener,
//		router.WithCapacity(100),
//	)
//	defer rt.Close(context.Background())
//
//	handle, err := rt.Resolve(ctx, tenantID)
//	if err != nil {
//		// registry.ErrTenantNotFound, registry.ErrTenantNotActive,
//		// router.ErrResourceAcquisition, ...
//	}
//	defer handle.Release(ctx)
//
//	db := handle.Resource().(*mongo.Database)
//
// # Handle lifetime
//
// Handles are reference counted. The cache holds one reference; every Resolve
// adds one that the caller gives back with Release. When the LRU evicts an
// entry the cache reference is dropped and the underlying resource is closed
// exactly once, after the last in-flight user releases; eviction never yanks
// a connection out from under an active request.
//
// Tenant ids are validated against a safe-identifier pattern before any
// resource name is derived from them, so an unvalidated identifier can never
// be spliced into a database or namespace name.
package router
