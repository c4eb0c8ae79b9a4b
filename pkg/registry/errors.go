package registry

import "errors"

var (
	// ErrTenantNotFound is returned when no tenant matches the identifier.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrTenantNotActive is returned when the tenant exists but its lifecycle
	// status does not permit serving requests.
	ErrTenantNotActive = errors.New("tenant is not active")

	// ErrInvalidTransition is returned when a status change violates the
	// tenant lifecycle.
	ErrInvalidTransition = errors.New("invalid tenant status transition")

	// ErrInvalidStatus is returned when an unknown status value is supplied.
	ErrInvalidStatus = errors.New("invalid tenant status")
)
