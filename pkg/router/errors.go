package router

import "errors"

var (
	// ErrInvalidTenantID is returned when the identifier does not match the
	// safe-identifier pattern. Resource names are never derived from
	// unvalidated input.
	ErrInvalidTenantID = errors.New("invalid tenant identifier")

	// ErrResourceAcquisition is returned when a handle could not be acquired
	// after the configured retries. Transient; the caller may retry.
	ErrResourceAcquisition = errors.New("failed to acquire tenant resource")

	// ErrRouterClosed is returned when resolving against a closed router.
	ErrRouterClosed = errors.New("router is closed")
)
