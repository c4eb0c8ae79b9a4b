package audit

import (
	"context"
	"fmt"
	"time"
)

// Result represents the outcome of an audited action.
type Result string

const (
	ResultSuccess Result = "success"
	ResultFailure Result = "failure"
	ResultError   Result = "error"
)

// Event is a single append-only audit record.
type Event struct {
	ID            string         `json:"id"`
	TenantID      string         `json:"tenant_id"`
	ActorID       string         `json:"actor_id,omitempty"`
	Action        string         `json:"action"`
	Resource      string         `json:"resource,omitempty"`
	ResourceID    string         `json:"resource_id,omitempty"`
	Result        Result         `json:"result"`
	Error         string         `json:"error,omitempty"`
	CorrelationID string         `json:"correlation_id,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// Validate checks that the event has all required fields.
func (e *Event) Validate() error {
	if e.Action == "" {
		return fmt.Errorf("%w: action is required", ErrEventValidation)
	}
	return nil
}

// Sink receives audit events. Implementations must treat events as
// append-only records.
type Sink interface {
	Write(ctx context.Context, event Event) error
}

// BatchSink is an optional extension for sinks that support bulk writes.
// The async wrapper prefers it when available.
type BatchSink interface {
	WriteBatch(ctx context.Context, events []Event) error
}

// EventOption applies configuration to an Event during creation.
type EventOption func(*Event)

// WithTenantID stamps the owning tenant explicitly, overriding whatever the
// context extractors found. Required for events emitted outside a request
// scope.
func WithTenantID(tenantID string) EventOption {
	return func(e *Event) {
		e.TenantID = tenantID
	}
}

// WithActorID sets the acting user.
func WithActorID(actorID string) EventOption {
	return func(e *Event) {
		e.ActorID = actorID
	}
}

// WithResource sets the resource type and id the action touched.
func WithResource(resource, id string) EventOption {
	return func(e *Event) {
		e.Resource = resource
		e.ResourceID = id
	}
}

// WithMetadata adds a metadata entry to the event.
func WithMetadata(key string, value any) EventOption {
	return func(e *Event) {
		if e.Metadata == nil {
			e.Metadata = make(map[string]any)
		}
		e.Metadata[key] = value
	}
}

// WithResult overrides the event result.
func WithResult(result Result) EventOption {
	return func(e *Event) {
		e.Result = result
	}
}
