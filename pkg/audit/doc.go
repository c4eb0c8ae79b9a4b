// Package audit records append-only events for tenant lifecycle changes and
// isolation violations.
//
// Events are written through a Sink. The package ships an in-memory sink for
// tests, a Postgres sink for durable storage, and an async wrapper that
// buffers and batches writes so the request path never blocks on the audit
// store (fire-and-forget with an at-least-once delivery expectation).
//
// # Usage
//
//	sink := audit.NewPostgresSink(pool)
//	async, closeFn := audit.NewAsyncSink(sink)
//	defer closeFn(context.Background())
//
//	log := audit.NewLogger(async)
//
//	// tenant id, actor id and correlation id are extracted from the
//	// active request context automatically:
//	_ = log.Log(ctx, "record.read", audit.WithResource("candidate", recordID))
//
//	// failures carry the error verbatim:
//	_ = log.LogError(ctx, "record.write", err)
//
// Events emitted outside a request scope (lifecycle transitions run by the
// provisioning workflow) stamp their tenant explicitly via WithTenantID.
package audit
