package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultTenantsTable is the tenant table name in the system namespace.
const DefaultTenantsTable = "tenants"

// PostgresStore is a Store backed by Postgres. Reads go straight to the
// database, so they are strongly consistent with the most recent transition.
type PostgresStore struct {
	pool  *pgxpool.Pool
	table string
}

// PostgresStoreOption configures the store.
type PostgresStoreOption func(*PostgresStore)

// WithTenantsTable overrides the tenant table name.
func WithTenantsTable(table string) PostgresStoreOption {
	return func(s *PostgresStore) {
		if table != "" {
			s.table = table
		}
	}
}

// NewPostgresStore creates a tenant store over the given connection pool.
// Panics if pool is nil.
func NewPostgresStore(pool *pgxpool.Pool, opts ...PostgresStoreOption) *PostgresStore {
	if pool == nil {
		panic("registry: pool cannot be nil")
	}
	s := &PostgresStore{pool: pool, table: DefaultTenantsTable}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*Tenant, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, name, status, plan_tier, settings, created_at, last_active_at, deleted_at
		 FROM `+s.table+` WHERE id = $1`, id)

	var (
		tenant       Tenant
		status       string
		settings     []byte
		lastActiveAt *time.Time
		deletedAt    *time.Time
	)
	if err := row.Scan(&tenant.ID, &tenant.Name, &status, &tenant.PlanTier,
		&settings, &tenant.CreatedAt, &lastActiveAt, &deletedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTenantNotFound
		}
		return nil, fmt.Errorf("registry: get tenant %q: %w", id, err)
	}

	tenant.Status = Status(status)
	if lastActiveAt != nil {
		tenant.LastActiveAt = *lastActiveAt
	}
	tenant.DeletedAt = deletedAt
	if len(settings) > 0 {
		if err := json.Unmarshal(settings, &tenant.Settings); err != nil {
			return nil, fmt.Errorf("registry: decode settings for tenant %q: %w", id, err)
		}
	}

	return &tenant, nil
}

func (s *PostgresStore) Put(ctx context.Context, tenant *Tenant) error {
	var settings []byte
	if len(tenant.Settings) > 0 {
		var err error
		settings, err = json.Marshal(tenant.Settings)
		if err != nil {
			return fmt.Errorf("registry: encode settings for tenant %q: %w", tenant.ID, err)
		}
	}

	var lastActiveAt *time.Time
	if !tenant.LastActiveAt.IsZero() {
		lastActiveAt = &tenant.LastActiveAt
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO `+s.table+` (id, name, status, plan_tier, settings, created_at, last_active_at, deleted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			status = EXCLUDED.status,
			plan_tier = EXCLUDED.plan_tier,
			settings = EXCLUDED.settings,
			last_active_at = EXCLUDED.last_active_at,
			deleted_at = EXCLUDED.deleted_at`,
		tenant.ID, tenant.Name, string(tenant.Status), tenant.PlanTier,
		settings, tenant.CreatedAt, lastActiveAt, tenant.DeletedAt,
	)
	if err != nil {
		return fmt.Errorf("registry: put tenant %q: %w", tenant.ID, err)
	}
	return nil
}

func (s *PostgresStore) Touch(ctx context.Context, id string, at time.Time) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE `+s.table+` SET last_active_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("registry: touch tenant %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTenantNotFound
	}
	return nil
}
