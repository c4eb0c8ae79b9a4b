package tenantctx

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Context is the immutable per-request bundle of tenant identity.
// It is built once at request entry and never mutated afterwards.
type Context struct {
	TenantID      string    `json:"tenant_id"`
	UserID        string    `json:"user_id,omitempty"`
	CorrelationID string    `json:"correlation_id"`
	StartedAt     time.Time `json:"started_at"`
}

// Scope represents one active request context. It must be ended exactly once
// per Begin, on every exit path. End is idempotent.
type Scope struct {
	once  sync.Once
	ended atomic.Bool
}

// End detaches the context. After End, Current reports absent for the
// scope's context and everything derived from it. Safe to call repeatedly.
func (s *Scope) End() {
	s.once.Do(func() {
		s.ended.Store(true)
	})
}

// Ended reports whether the scope has been ended.
func (s *Scope) Ended() bool {
	return s.ended.Load()
}

// contextKey is a private type to prevent collisions with other context keys.
type contextKey struct{}

// carrier pairs the immutable context with its scope so that descendants of
// an ended scope observe absent instead of a stale tenant.
type carrier struct {
	rc    Context
	scope *Scope
}

// Option configures Begin.
type Option func(*Context)

// WithUserID attaches the authenticated user's id to the context.
func WithUserID(userID string) Option {
	return func(c *Context) {
		c.UserID = userID
	}
}

// WithCorrelationID sets the correlation id threaded through the request's
// processing. When absent, Begin generates one.
func WithCorrelationID(correlationID string) Option {
	return func(c *Context) {
		c.CorrelationID = correlationID
	}
}

// Begin validates the tenant id and attaches a new request context to ctx.
// The returned context must flow through everything done on behalf of the
// request; the returned scope must be ended on every exit path.
// Returns ErrMissingTenant if tenantID is blank.
func Begin(ctx context.Context, tenantID string, opts ...Option) (context.Context, *Scope, error) {
	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return ctx, nil, ErrMissingTenant
	}

	rc := Context{
		TenantID:  tenantID,
		StartedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(&rc)
	}
	if rc.CorrelationID == "" {
		rc.CorrelationID = uuid.New().String()
	}

	scope := &Scope{}
	return context.WithValue(ctx, contextKey{}, carrier{rc: rc, scope: scope}), scope, nil
}

// Current returns the active request context.
// Returns zero value and false outside any scope or after the scope ended;
// never a value left over from another request.
func Current(ctx context.Context) (Context, bool) {
	c, ok := ctx.Value(contextKey{}).(carrier)
	if !ok || c.scope.Ended() {
		return Context{}, false
	}
	return c.rc, true
}

// TenantID returns the active tenant id, or "" when no scope is active.
func TenantID(ctx context.Context) string {
	rc, ok := Current(ctx)
	if !ok {
		return ""
	}
	return rc.TenantID
}

// CorrelationID returns the active correlation id, or "" when no scope is active.
func CorrelationID(ctx context.Context) string {
	rc, ok := Current(ctx)
	if !ok {
		return ""
	}
	return rc.CorrelationID
}

// Run executes fn inside a fresh request scope with a guaranteed release.
// The scope ends when fn returns, whether it succeeds, fails, or panics.
func Run(ctx context.Context, tenantID string, fn func(context.Context) error, opts ...Option) error {
	ctx, scope, err := Begin(ctx, tenantID, opts...)
	if err != nil {
		return err
	}
	defer scope.End()
	return fn(ctx)
}
