// Package tenantctx carries the per-request tenant context through the logical
// continuation of a request.
//
// The package binds an immutable Context (tenant id, optional user id,
// correlation id) to the request's context.Context at the moment the request
// enters the system, and makes it retrievable from any point downstream,
// including goroutines spawned to serve the same request. Because the carrier
// rides on context.Context values rather than any process-wide or
// thread-affine state, two requests executing concurrently can never observe
// each other's tenant, no matter how their goroutines interleave or which
// OS threads the scheduler reuses.
//
// # Usage
//
//	ctx, scope, err := tenantctx.Begin(r.Context(), tenantID,
//		tenantctx.WithCorrelationID(correlationID),
//		tenantctx.WithUserID(userID),
//	)
//	if err != nil {
//		// tenant id was blank, reject the request
//		return
//	}
//	defer scope.End()
//
//	// anywhere downstream, on any goroutine serving this request:
//	rc, ok := tenantctx.Current(ctx)
//
// # Scope lifecycle
//
// Begin returns a Scope that must be ended exactly once per request, on every
// exit path. End is idempotent, so a defer combined with explicit early calls
// is safe. After End, Current reports absent for the scope's context and all
// contexts derived from it; an ended scope never yields a stale tenant.
//
// For short units of work, Run wraps Begin/End into a single call with a
// guaranteed release:
//
//	err := tenantctx.Run(ctx, tenantID, func(ctx context.Context) error {
//		return doWork(ctx)
//	})
package tenantctx
