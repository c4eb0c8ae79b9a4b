package isolation

import "errors"

var (
	// ErrIsolationViolation is returned when an operation's tenant id does
	// not match the active request scope, or when no scope is active at all.
	// Fatal and non-retriable: the operation is aborted, never fixed up.
	ErrIsolationViolation = errors.New("tenant isolation violation")
)
