package audit

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultTable is the audit table name in the system namespace.
const DefaultTable = "audit_events"

// PostgresSink writes events to a Postgres table. Single writes use a plain
// INSERT; batches go through COPY for throughput.
type PostgresSink struct {
	pool  *pgxpool.Pool
	table string
}

// PostgresSinkOption configures the sink.
type PostgresSinkOption func(*PostgresSink)

// WithTable overrides the audit table name.
func WithTable(table string) PostgresSinkOption {
	return func(s *PostgresSink) {
		if table != "" {
			s.table = table
		}
	}
}

// NewPostgresSink creates a sink over the given connection pool.
// Panics if pool is nil.
func NewPostgresSink(pool *pgxpool.Pool, opts ...PostgresSinkOption) *PostgresSink {
	if pool == nil {
		panic("audit: pool cannot be nil")
	}
	s := &PostgresSink{pool: pool, table: DefaultTable}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *PostgresSink) Write(ctx context.Context, event Event) error {
	metadata, err := marshalMetadata(event.Metadata)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO `+s.table+` (id, tenant_id, actor_id, action, resource, resource_id, result, error, correlation_id, metadata, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		event.ID, event.TenantID, event.ActorID, event.Action,
		event.Resource, event.ResourceID, string(event.Result), event.Error,
		event.CorrelationID, metadata, event.CreatedAt,
	)
	if err != nil {
		return errors.Join(ErrSinkUnavailable, err)
	}
	return nil
}

func (s *PostgresSink) WriteBatch(ctx context.Context, events []Event) error {
	rows := make([][]any, 0, len(events))
	for _, event := range events {
		metadata, err := marshalMetadata(event.Metadata)
		if err != nil {
			return err
		}
		rows = append(rows, []any{
			event.ID, event.TenantID, event.ActorID, event.Action,
			event.Resource, event.ResourceID, string(event.Result), event.Error,
			event.CorrelationID, metadata, event.CreatedAt,
		})
	}

	_, err := s.pool.CopyFrom(ctx,
		pgx.Identifier{s.table},
		[]string{"id", "tenant_id", "actor_id", "action", "resource", "resource_id", "result", "error", "correlation_id", "metadata", "created_at"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return errors.Join(ErrSinkUnavailable, err)
	}
	return nil
}

func marshalMetadata(metadata map[string]any) ([]byte, error) {
	if len(metadata) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(metadata)
	if err != nil {
		return nil, errors.Join(ErrEventValidation, err)
	}
	return b, nil
}
