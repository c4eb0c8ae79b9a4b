package mongo

import (
	"context"
	"log/slog"
	"strings"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/dmitrymomot/tenantcore/pkg/router"
)

// DefaultDatabasePrefix namespaces tenant databases on the shared cluster.
const DefaultDatabasePrefix = "tenant_"

// TenantDatabase is a router.Resource wrapping a per-tenant MongoDB database.
// Database-per-tenant keeps every collection of a tenant physically separate
// from every other tenant's data.
type TenantDatabase struct {
	tenantID string
	db       *mongo.Database
}

// TenantID returns the owning tenant's identifier.
func (d *TenantDatabase) TenantID() string { return d.tenantID }

// Database returns the underlying database handle.
func (d *TenantDatabase) Database() *mongo.Database { return d.db }

// Close is a no-op: the database handle borrows the shared client's
// connections, so there is nothing tenant-specific to tear down.
func (d *TenantDatabase) Close(ctx context.Context) error { return nil }

// DatabaseOpener opens per-tenant databases on a shared MongoDB client.
// It satisfies router.Opener.
type DatabaseOpener struct {
	client *mongo.Client
	prefix string
	log    *slog.Logger
}

// DatabaseOpenerOption configures a DatabaseOpener.
type DatabaseOpenerOption func(*DatabaseOpener)

// WithDatabasePrefix overrides the tenant database name prefix.
func WithDatabasePrefix(prefix string) DatabaseOpenerOption {
	return func(o *DatabaseOpener) {
		if prefix != "" {
			o.prefix = prefix
		}
	}
}

// WithOpenerLogger sets a custom logger.
func WithOpenerLogger(log *slog.Logger) DatabaseOpenerOption {
	return func(o *DatabaseOpener) {
		if log != nil {
			o.log = log
		}
	}
}

// NewDatabaseOpener returns an opener that maps each tenant to its own
// database on the shared cluster. Panics if client is nil.
func NewDatabaseOpener(client *mongo.Client, opts ...DatabaseOpenerOption) *DatabaseOpener {
	if client == nil {
		panic("mongo: database opener client cannot be nil")
	}
	o := &DatabaseOpener{
		client: client,
		prefix: DefaultDatabasePrefix,
		log:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

var _ router.Opener = (*DatabaseOpener)(nil)

// Open returns the tenant's database handle after verifying the cluster is
// reachable, so acquisition failures surface at resolve time rather than on
// the first query.
func (o *DatabaseOpener) Open(ctx context.Context, tenantID string) (router.Resource, error) {
	if err := o.client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	name := o.DatabaseName(tenantID)
	o.log.InfoContext(ctx, "opened tenant database",
		slog.String("tenant_id", tenantID),
		slog.String("database", name),
	)
	return &TenantDatabase{tenantID: tenantID, db: o.client.Database(name)}, nil
}

// DatabaseName derives the database for a tenant identifier. Hyphens are
// folded to underscores to keep the name portable across MongoDB tooling.
func (o *DatabaseOpener) DatabaseName(tenantID string) string {
	return o.prefix + strings.ReplaceAll(tenantID, "-", "_")
}
