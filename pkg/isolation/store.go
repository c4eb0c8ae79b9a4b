package isolation

import "context"

// Store is a minimal tenant-scoped record store, the boundary behind which
// every persisted record carries its owning tenant id.
type Store[T Record] interface {
	Get(ctx context.Context, tenantID, id string) (T, error)
	Put(ctx context.Context, record T) error
	Delete(ctx context.Context, tenantID, id string) error
}

// GuardedStore wraps a Store so that no operation reaches it without a valid,
// matching request scope.
type GuardedStore[T Record] struct {
	guard *Guard
	next  Store[T]
}

// NewGuardedStore wraps next with the guard. Panics if either is nil.
func NewGuardedStore[T Record](guard *Guard, next Store[T]) *GuardedStore[T] {
	if guard == nil {
		panic("isolation: guard cannot be nil")
	}
	if next == nil {
		panic("isolation: store cannot be nil")
	}
	return &GuardedStore[T]{guard: guard, next: next}
}

func (s *GuardedStore[T]) Get(ctx context.Context, tenantID, id string) (T, error) {
	if err := s.guard.Check(ctx, tenantID); err != nil {
		var zero T
		return zero, err
	}
	return s.next.Get(ctx, tenantID, id)
}

func (s *GuardedStore[T]) Put(ctx context.Context, record T) error {
	if err := s.guard.CheckRecord(ctx, record); err != nil {
		return err
	}
	return s.next.Put(ctx, record)
}

func (s *GuardedStore[T]) Delete(ctx context.Context, tenantID, id string) error {
	if err := s.guard.Check(ctx, tenantID); err != nil {
		return err
	}
	return s.next.Delete(ctx, tenantID, id)
}
