// Package isolation enforces the tenant boundary at the data-access layer.
//
// The guard is the defense-in-depth check behind namespace routing: even when
// the router has already picked the right data partition, every read and
// write re-verifies that the tenant id embedded in the record or query
// matches the active request scope. A mismatch, or a missing scope which is
// treated identically, aborts the operation with ErrIsolationViolation and
// emits an audit event. Violations are never corrected or retried; they
// indicate either a routing bug or a business-logic bug crossing tenant
// boundaries, and both must surface loudly.
//
//	guard := isolation.NewGuard(
//		isolation.WithAuditLogger(auditLog),
//	)
//
//	err := guard.Enforce(ctx, record.TenantID, func(ctx context.Context) error {
//		return store.Save(ctx, record)
//	})
//
// The check is sequenced strictly before the guarded access: the callback is
// never invoked unless the check passed.
package isolation
