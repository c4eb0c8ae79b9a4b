package isolation_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantcore/pkg/audit"
	"github.com/dmitrymomot/tenantcore/pkg/isolation"
	"github.com/dmitrymomot/tenantcore/pkg/tenantctx"
)

func scopedContext(t *testing.T, tenantID string) context.Context {
	t.Helper()
	ctx, scope, err := tenantctx.Begin(context.Background(), tenantID)
	require.NoError(t, err)
	t.Cleanup(scope.End)
	return ctx
}

func TestGuardCheck(t *testing.T) {
	t.Parallel()

	t.Run("matching tenant passes", func(t *testing.T) {
		t.Parallel()

		guard := isolation.NewGuard()
		ctx := scopedContext(t, "acme-1")

		assert.NoError(t, guard.Check(ctx, "acme-1"))
	})

	t.Run("mismatch fails fatally", func(t *testing.T) {
		t.Parallel()

		guard := isolation.NewGuard()
		ctx := scopedContext(t, "acme-1")

		err := guard.Check(ctx, "beta-9")
		assert.ErrorIs(t, err, isolation.ErrIsolationViolation)
	})

	t.Run("absent scope is treated as mismatch", func(t *testing.T) {
		t.Parallel()

		guard := isolation.NewGuard()

		err := guard.Check(context.Background(), "acme-1")
		assert.ErrorIs(t, err, isolation.ErrIsolationViolation)
	})

	t.Run("ended scope is treated as mismatch", func(t *testing.T) {
		t.Parallel()

		guard := isolation.NewGuard()
		ctx, scope, err := tenantctx.Begin(context.Background(), "acme-1")
		require.NoError(t, err)
		scope.End()

		assert.ErrorIs(t, guard.Check(ctx, "acme-1"), isolation.ErrIsolationViolation)
	})

	t.Run("violations are audited", func(t *testing.T) {
		t.Parallel()

		sink := audit.NewMemorySink()
		guard := isolation.NewGuard(
			isolation.WithAuditLogger(audit.NewLogger(sink)),
		)
		ctx := scopedContext(t, "acme-1")

		err := guard.Check(ctx, "beta-9")
		require.ErrorIs(t, err, isolation.ErrIsolationViolation)

		events := sink.Events()
		require.Len(t, events, 1)
		assert.Equal(t, "isolation.violation", events[0].Action)
		assert.Equal(t, "acme-1", events[0].TenantID)
		assert.Equal(t, "acme-1", events[0].Metadata["context_tenant_id"])
		assert.Equal(t, "beta-9", events[0].Metadata["record_tenant_id"])
	})

	t.Run("passing checks are not audited", func(t *testing.T) {
		t.Parallel()

		sink := audit.NewMemorySink()
		guard := isolation.NewGuard(
			isolation.WithAuditLogger(audit.NewLogger(sink)),
		)
		ctx := scopedContext(t, "acme-1")

		require.NoError(t, guard.Check(ctx, "acme-1"))
		assert.Zero(t, sink.Len())
	})
}

func TestGuardEnforce(t *testing.T) {
	t.Parallel()

	t.Run("runs the callback after a passing check", func(t *testing.T) {
		t.Parallel()

		guard := isolation.NewGuard()
		ctx := scopedContext(t, "acme-1")

		called := false
		err := guard.Enforce(ctx, "acme-1", func(ctx context.Context) error {
			called = true
			return nil
		})
		require.NoError(t, err)
		assert.True(t, called)
	})

	t.Run("never invokes the callback on violation", func(t *testing.T) {
		t.Parallel()

		guard := isolation.NewGuard()
		ctx := scopedContext(t, "acme-1")

		called := false
		err := guard.Enforce(ctx, "beta-9", func(ctx context.Context) error {
			called = true
			return nil
		})
		assert.ErrorIs(t, err, isolation.ErrIsolationViolation)
		assert.False(t, called)
	})
}

// candidate is a minimal tenant-owned record for the guarded store tests.
type candidate struct {
	Tenant string
	ID     string
	Name   string
}

func (c candidate) TenantID() string { return c.Tenant }

// memoryStore records operations so tests can assert nothing crossed the guard.
type memoryStore struct {
	records map[string]candidate
}

func newMemoryStore() *memoryStore {
	return &memoryStore{records: make(map[string]candidate)}
}

func (s *memoryStore) Get(ctx context.Context, tenantID, id string) (candidate, error) {
	return s.records[tenantID+"/"+id], nil
}

func (s *memoryStore) Put(ctx context.Context, record candidate) error {
	s.records[record.Tenant+"/"+record.ID] = record
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, tenantID, id string) error {
	delete(s.records, tenantID+"/"+id)
	return nil
}

func TestGuardedStore(t *testing.T) {
	t.Parallel()

	t.Run("operations within the scope succeed", func(t *testing.T) {
		t.Parallel()

		backing := newMemoryStore()
		store := isolation.NewGuardedStore(isolation.NewGuard(), isolation.Store[candidate](backing))
		ctx := scopedContext(t, "acme-1")

		require.NoError(t, store.Put(ctx, candidate{Tenant: "acme-1", ID: "c-1", Name: "Ada"}))

		got, err := store.Get(ctx, "acme-1", "c-1")
		require.NoError(t, err)
		assert.Equal(t, "Ada", got.Name)

		require.NoError(t, store.Delete(ctx, "acme-1", "c-1"))
	})

	t.Run("cross-tenant writes never reach the backing store", func(t *testing.T) {
		t.Parallel()

		backing := newMemoryStore()
		store := isolation.NewGuardedStore(isolation.NewGuard(), isolation.Store[candidate](backing))
		ctx := scopedContext(t, "acme-1")

		err := store.Put(ctx, candidate{Tenant: "beta-9", ID: "c-1"})
		assert.ErrorIs(t, err, isolation.ErrIsolationViolation)
		assert.Empty(t, backing.records)

		_, err = store.Get(ctx, "beta-9", "c-1")
		assert.ErrorIs(t, err, isolation.ErrIsolationViolation)

		err = store.Delete(ctx, "beta-9", "c-1")
		assert.ErrorIs(t, err, isolation.ErrIsolationViolation)
	})
}
