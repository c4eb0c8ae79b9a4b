// Package registry answers tenant validity queries for the request path.
//
// The registry fronts a durable tenant store that lives in a system namespace,
// logically separate from any tenant's own data. It exposes a pure read path
// (Lookup, IsActive) plus the status-transition entry point used by the
// out-of-scope provisioning workflow (Transition). The request path only ever
// reads tenant state.
//
// # Lifecycle
//
// Tenant status moves monotonically along
//
//	provisioning → active → {suspended ⇄ active} → deactivated → deleted
//
// Invalid transitions are rejected with ErrInvalidTransition. Deletion is
// soft: the record keeps its row with a deleted_at timestamp until an
// out-of-scope retention purge removes it.
//
// # Caching
//
// Reads are strongly consistent with the most recent transition by default.
// An optional bounded cache with a short TTL (seconds, not minutes) can be
// attached to bound load on the durable store; both positive and negative
// results are cached, and transitions invalidate the entry so a suspension
// takes effect within one TTL at worst.
//
//	store := registry.NewMemoryStore()
//	reg := registry.New(store,
//		registry.WithCacheTTL(5*time.Second),
//	)
//
//	tenant, err := reg.Lookup(ctx, "acme-1")
//	ok, err := reg.IsActive(ctx, "acme-1")
package registry
