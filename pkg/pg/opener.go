package pg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/tenantcore/pkg/router"
)

// DefaultSchemaPrefix namespaces tenant schemas inside the shared database.
const DefaultSchemaPrefix = "tenant_"

var ErrFailedToOpenTenantPool = errors.New("failed to open tenant connection pool")

// TenantPool is a router.Resource wrapping a pgx pool whose search_path is
// pinned to the tenant's schema. Every query issued through it resolves
// unqualified table names inside that schema only.
type TenantPool struct {
	tenantID string
	schema   string
	pool     *pgxpool.Pool
}

// TenantID returns the owning tenant's identifier.
func (p *TenantPool) TenantID() string { return p.tenantID }

// Schema returns the schema this pool is pinned to.
func (p *TenantPool) Schema() string { return p.schema }

// Pool returns the underlying connection pool.
func (p *TenantPool) Pool() *pgxpool.Pool { return p.pool }

func (p *TenantPool) Close(ctx context.Context) error {
	p.pool.Close()
	return nil
}

// SchemaOpener opens per-tenant connection pools on a shared PostgreSQL
// database using schema-per-tenant isolation. It satisfies router.Opener.
type SchemaOpener struct {
	cfg          Config
	prefix       string
	createSchema bool
	log          *slog.Logger
}

// SchemaOpenerOption configures a SchemaOpener.
type SchemaOpenerOption func(*SchemaOpener)

// WithSchemaPrefix overrides the tenant schema name prefix.
func WithSchemaPrefix(prefix string) SchemaOpenerOption {
	return func(o *SchemaOpener) {
		if prefix != "" {
			o.prefix = prefix
		}
	}
}

// WithSchemaCreation makes Open create the tenant schema when it does not
// exist yet. Intended for provisioning flows; steady-state services should
// leave it off so a typo cannot silently manufacture an empty schema.
func WithSchemaCreation() SchemaOpenerOption {
	return func(o *SchemaOpener) {
		o.createSchema = true
	}
}

// WithOpenerLogger sets a custom logger.
func WithOpenerLogger(log *slog.Logger) SchemaOpenerOption {
	return func(o *SchemaOpener) {
		if log != nil {
			o.log = log
		}
	}
}

// NewSchemaOpener returns an opener that derives one schema-pinned pool per
// tenant from the shared connection configuration.
func NewSchemaOpener(cfg Config, opts ...SchemaOpenerOption) *SchemaOpener {
	o := &SchemaOpener{
		cfg:    cfg,
		prefix: DefaultSchemaPrefix,
		log:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

var _ router.Opener = (*SchemaOpener)(nil)

// Open builds the tenant's pool. The identifier has already passed the
// router's validation, so the derived schema name is safe to interpolate.
func (o *SchemaOpener) Open(ctx context.Context, tenantID string) (router.Resource, error) {
	schema := o.SchemaName(tenantID)

	connConfig, err := pgxpool.ParseConfig(o.cfg.ConnectionString)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseDBConfig, err)
	}
	connConfig.MaxConns = o.cfg.MaxOpenConns
	connConfig.MinConns = o.cfg.MaxIdleConns
	connConfig.HealthCheckPeriod = o.cfg.HealthCheckPeriod
	connConfig.MaxConnIdleTime = o.cfg.MaxConnIdleTime
	connConfig.MaxConnLifetime = o.cfg.MaxConnLifetime
	connConfig.ConnConfig.RuntimeParams["search_path"] = schema

	pool, err := pgxpool.NewWithConfig(ctx, connConfig)
	if err != nil {
		return nil, errors.Join(ErrFailedToOpenTenantPool, err)
	}

	if o.createSchema {
		if _, err := pool.Exec(ctx, fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %q", schema)); err != nil {
			pool.Close()
			return nil, errors.Join(ErrFailedToOpenTenantPool, err)
		}
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Join(ErrFailedToOpenTenantPool, err)
	}

	o.log.InfoContext(ctx, "opened tenant connection pool",
		slog.String("tenant_id", tenantID),
		slog.String("schema", schema),
	)
	return &TenantPool{tenantID: tenantID, schema: schema, pool: pool}, nil
}

// SchemaName derives the schema for a tenant identifier. Hyphens are folded
// to underscores so the result stays a plain PostgreSQL identifier.
func (o *SchemaOpener) SchemaName(tenantID string) string {
	return o.prefix + strings.ReplaceAll(tenantID, "-", "_")
}
