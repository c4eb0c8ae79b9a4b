package registry

import (
	"context"
	"sync"
	"time"
)

// Store is the durable backing for tenant metadata. It lives in a system
// namespace, never inside any tenant's own data partition.
type Store interface {
	// Get retrieves a tenant by id. Returns ErrTenantNotFound when no
	// tenant matches.
	Get(ctx context.Context, id string) (*Tenant, error)

	// Put creates or replaces a tenant record.
	Put(ctx context.Context, tenant *Tenant) error

	// Touch updates only the tenant's last-activity timestamp. It must not
	// read-modify-write the whole record: a full-record write would race
	// with concurrent status transitions and resurrect their old status.
	// Returns ErrTenantNotFound when no tenant matches.
	Touch(ctx context.Context, id string, at time.Time) error
}

// MemoryStore is an in-process Store for tests and single-node setups.
type MemoryStore struct {
	mu      sync.RWMutex
	tenants map[string]*Tenant
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tenants: make(map[string]*Tenant)}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tenant, ok := s.tenants[id]
	if !ok {
		return nil, ErrTenantNotFound
	}
	return tenant.clone(), nil
}

func (s *MemoryStore) Put(ctx context.Context, tenant *Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tenants[tenant.ID] = tenant.clone()
	return nil
}

func (s *MemoryStore) Touch(ctx context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tenant, ok := s.tenants[id]
	if !ok {
		return ErrTenantNotFound
	}
	tenant.LastActiveAt = at
	return nil
}
