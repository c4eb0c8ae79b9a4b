package tenantctx

import (
	"context"
	"log/slog"
)

// LoggerExtractor returns a ContextExtractor for the logger that extracts
// the tenant id from the active request context.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if rc, ok := Current(ctx); ok {
			return slog.String("tenant_id", rc.TenantID), true
		}
		return slog.Attr{}, false
	}
}

// CorrelationLoggerExtractor returns a ContextExtractor for the logger that
// extracts the correlation id from the active request context.
func CorrelationLoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if rc, ok := Current(ctx); ok && rc.CorrelationID != "" {
			return slog.String("correlation_id", rc.CorrelationID), true
		}
		return slog.Attr{}, false
	}
}
