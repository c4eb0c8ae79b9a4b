package isolation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/tenantcore/pkg/audit"
	"github.com/dmitrymomot/tenantcore/pkg/tenantctx"
)

// AuditLogger receives isolation-violation events.
type AuditLogger interface {
	LogError(ctx context.Context, action string, err error, opts ...audit.EventOption) error
}

// Record is implemented by persisted records that carry their owning tenant.
type Record interface {
	TenantID() string
}

// Guard performs the synchronous tenant check at every data-access call site.
type Guard struct {
	auditor AuditLogger
	log     *slog.Logger
}

// Option configures the guard.
type Option func(*Guard)

// WithAuditLogger attaches an audit logger. Every violation is reported to it.
func WithAuditLogger(l AuditLogger) Option {
	return func(g *Guard) {
		g.auditor = l
	}
}

// WithLogger sets a custom logger.
func WithLogger(log *slog.Logger) Option {
	return func(g *Guard) {
		if log != nil {
			g.log = log
		}
	}
}

// NewGuard creates an isolation guard.
func NewGuard(opts ...Option) *Guard {
	g := &Guard{
		log: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Check verifies that recordTenantID matches the active request scope.
// Returns ErrIsolationViolation on mismatch or when no scope is active.
func (g *Guard) Check(ctx context.Context, recordTenantID string) error {
	rc, ok := tenantctx.Current(ctx)
	if !ok {
		return g.violation(ctx, "", recordTenantID, "no active request scope")
	}
	if rc.TenantID != recordTenantID {
		return g.violation(ctx, rc.TenantID, recordTenantID, "tenant id mismatch")
	}
	return nil
}

// CheckRecord verifies a record against the active request scope.
func (g *Guard) CheckRecord(ctx context.Context, record Record) error {
	return g.Check(ctx, record.TenantID())
}

// Enforce runs fn only after the check passed. The check happens-before the
// guarded access; on violation fn is never invoked.
func (g *Guard) Enforce(ctx context.Context, recordTenantID string, fn func(context.Context) error) error {
	if err := g.Check(ctx, recordTenantID); err != nil {
		return err
	}
	return fn(ctx)
}

func (g *Guard) violation(ctx context.Context, contextTenantID, recordTenantID, reason string) error {
	err := fmt.Errorf("%w: %s (context %q, record %q)",
		ErrIsolationViolation, reason, contextTenantID, recordTenantID)

	g.log.ErrorContext(ctx, "tenant isolation violation",
		slog.String("reason", reason),
		slog.String("context_tenant_id", contextTenantID),
		slog.String("record_tenant_id", recordTenantID),
	)

	if g.auditor != nil {
		if auditErr := g.auditor.LogError(ctx, "isolation.violation", err,
			audit.WithResult(audit.ResultFailure),
			audit.WithMetadata("context_tenant_id", contextTenantID),
			audit.WithMetadata("record_tenant_id", recordTenantID),
			audit.WithMetadata("reason", reason),
		); auditErr != nil {
			g.log.ErrorContext(ctx, "failed to audit isolation violation",
				slog.Any("error", auditErr))
		}
	}

	return err
}
