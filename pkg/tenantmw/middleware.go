package tenantmw

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmitrymomot/tenantcore/pkg/registry"
	"github.com/dmitrymomot/tenantcore/pkg/requestid"
	"github.com/dmitrymomot/tenantcore/pkg/router"
	"github.com/dmitrymomot/tenantcore/pkg/tenantctx"
)

// TenantLookup answers tenant validity queries. *registry.Registry satisfies it.
type TenantLookup interface {
	Lookup(ctx context.Context, id string) (*registry.Tenant, error)
}

// ErrorHandler maps tenant resolution failures to HTTP responses.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

type config struct {
	resolver     Resolver
	errorHandler ErrorHandler
	skipPaths    []string
	log          *slog.Logger
}

// Option configures the middleware.
type Option func(*config)

// WithResolver sets a custom tenant identifier resolver.
func WithResolver(resolver Resolver) Option {
	return func(c *config) {
		if resolver != nil {
			c.resolver = resolver
		}
	}
}

// WithErrorHandler sets a custom error handler.
func WithErrorHandler(handler ErrorHandler) Option {
	return func(c *config) {
		if handler != nil {
			c.errorHandler = handler
		}
	}
}

// WithSkipPaths sets path prefixes that bypass tenant resolution
// (health checks, metrics).
func WithSkipPaths(paths []string) Option {
	return func(c *config) {
		c.skipPaths = paths
	}
}

// WithLogger sets a custom logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *config) {
		if log != nil {
			c.log = log
		}
	}
}

// Middleware validates the inbound tenant and scopes the request context.
//
// Rejections happen at the earliest possible point: a missing identifier
// never triggers a registry lookup, and a non-active tenant never reaches
// business logic. The tenantctx scope opened here is ended on every exit
// path, panics included.
func Middleware(tenants TenantLookup, opts ...Option) func(http.Handler) http.Handler {
	if tenants == nil {
		panic("tenantmw: tenant lookup cannot be nil")
	}

	cfg := &config{
		resolver:     NewHeaderResolver(""),
		errorHandler: DefaultErrorHandler,
		log:          slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, skip := range cfg.skipPaths {
				if strings.HasPrefix(r.URL.Path, skip) {
					next.ServeHTTP(w, r)
					return
				}
			}

			tenantID, err := cfg.resolver(r)
			if err != nil {
				cfg.errorHandler(w, r, err)
				return
			}
			if tenantID == "" {
				cfg.errorHandler(w, r, tenantctx.ErrMissingTenant)
				return
			}

			tenant, err := tenants.Lookup(r.Context(), tenantID)
			if err != nil {
				cfg.errorHandler(w, r, err)
				return
			}
			if !tenant.IsActive() {
				cfg.log.WarnContext(r.Context(), "rejected request for non-active tenant",
					slog.String("tenant_id", tenantID),
					slog.String("status", string(tenant.Status)),
				)
				cfg.errorHandler(w, r, registry.ErrTenantNotActive)
				return
			}

			ctxOpts := []tenantctx.Option{
				tenantctx.WithCorrelationID(requestid.FromContext(r.Context())),
			}
			if claims, ok := ClaimsFromContext(r.Context()); ok {
				ctxOpts = append(ctxOpts, tenantctx.WithUserID(claims.UserID))
			}

			ctx, scope, err := tenantctx.Begin(r.Context(), tenantID, ctxOpts...)
			if err != nil {
				cfg.errorHandler(w, r, err)
				return
			}
			// Guaranteed release: runs on success, error and panic alike.
			defer scope.End()

			ctx = withTenant(ctx, tenant)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// tenantKey is a private type to prevent collisions with other context keys.
type tenantKey struct{}

func withTenant(ctx context.Context, tenant *registry.Tenant) context.Context {
	return context.WithValue(ctx, tenantKey{}, tenant)
}

// TenantFromContext returns the validated tenant record loaded by the
// middleware. Handlers must treat it as read-only.
func TenantFromContext(ctx context.Context) (*registry.Tenant, bool) {
	tenant, ok := ctx.Value(tenantKey{}).(*registry.Tenant)
	return tenant, ok
}

// DefaultErrorHandler maps the error taxonomy onto HTTP status codes:
// client mistakes are 4xx, transient acquisition failures are 503 so the
// caller knows a retry is safe.
func DefaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, tenantctx.ErrMissingTenant):
		http.Error(w, "Missing tenant identifier", http.StatusBadRequest)
	case errors.Is(err, router.ErrInvalidTenantID):
		http.Error(w, "Invalid tenant identifier", http.StatusBadRequest)
	case errors.Is(err, registry.ErrTenantNotFound):
		http.Error(w, "Unknown tenant", http.StatusForbidden)
	case errors.Is(err, registry.ErrTenantNotActive):
		http.Error(w, "Tenant is not active", http.StatusForbidden)
	case errors.Is(err, router.ErrResourceAcquisition):
		http.Error(w, "Tenant storage unavailable", http.StatusServiceUnavailable)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
