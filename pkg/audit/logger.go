package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/tenantcore/pkg/tenantctx"
)

// contextExtractor pulls a string value out of context.
// Returns (value, found) where found indicates the extraction succeeded.
type contextExtractor func(context.Context) (string, bool)

// Logger builds audit events from the active request context and hands them
// to a sink.
type Logger struct {
	sink                   Sink
	tenantIDExtractor      contextExtractor
	actorIDExtractor       contextExtractor
	correlationIDExtractor contextExtractor
}

// Option configures Logger behavior during initialization.
type Option func(*Logger)

// WithTenantIDExtractor overrides how the tenant id is read from context.
func WithTenantIDExtractor(fn contextExtractor) Option {
	return func(l *Logger) {
		l.tenantIDExtractor = fn
	}
}

// WithActorIDExtractor overrides how the acting user id is read from context.
func WithActorIDExtractor(fn contextExtractor) Option {
	return func(l *Logger) {
		l.actorIDExtractor = fn
	}
}

// WithCorrelationIDExtractor overrides how the correlation id is read from context.
func WithCorrelationIDExtractor(fn contextExtractor) Option {
	return func(l *Logger) {
		l.correlationIDExtractor = fn
	}
}

// NewLogger creates an audit logger over the given sink.
// By default the tenant id, actor id and correlation id are read from the
// active tenantctx scope. Panics if sink is nil.
func NewLogger(sink Sink, opts ...Option) *Logger {
	if sink == nil {
		panic("audit: sink cannot be nil")
	}

	l := &Logger{
		sink: sink,
		tenantIDExtractor: func(ctx context.Context) (string, bool) {
			rc, ok := tenantctx.Current(ctx)
			return rc.TenantID, ok
		},
		actorIDExtractor: func(ctx context.Context) (string, bool) {
			rc, ok := tenantctx.Current(ctx)
			return rc.UserID, ok && rc.UserID != ""
		},
		correlationIDExtractor: func(ctx context.Context) (string, bool) {
			rc, ok := tenantctx.Current(ctx)
			return rc.CorrelationID, ok && rc.CorrelationID != ""
		},
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Log records a successful action.
func (l *Logger) Log(ctx context.Context, action string, opts ...EventOption) error {
	event := l.eventFromContext(ctx)
	event.ID = uuid.New().String()
	event.CreatedAt = time.Now()
	event.Action = action
	event.Result = ResultSuccess

	for _, opt := range opts {
		opt(&event)
	}

	if err := event.Validate(); err != nil {
		return err
	}

	return l.sink.Write(ctx, event)
}

// LogError records a failed action with the error verbatim.
func (l *Logger) LogError(ctx context.Context, action string, actionErr error, opts ...EventOption) error {
	event := l.eventFromContext(ctx)
	event.ID = uuid.New().String()
	event.CreatedAt = time.Now()
	event.Action = action
	event.Result = ResultError
	if actionErr != nil {
		event.Error = actionErr.Error()
	}

	for _, opt := range opts {
		opt(&event)
	}

	if err := event.Validate(); err != nil {
		return err
	}

	return l.sink.Write(ctx, event)
}

func (l *Logger) eventFromContext(ctx context.Context) Event {
	event := Event{}

	if tenantID, ok := l.tenantIDExtractor(ctx); ok {
		event.TenantID = tenantID
	}
	if actorID, ok := l.actorIDExtractor(ctx); ok {
		event.ActorID = actorID
	}
	if correlationID, ok := l.correlationIDExtractor(ctx); ok {
		event.CorrelationID = correlationID
	}

	return event
}
