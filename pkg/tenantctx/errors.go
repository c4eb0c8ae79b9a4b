package tenantctx

import "errors"

var (
	// ErrMissingTenant is returned when a request carries no tenant identifier.
	ErrMissingTenant = errors.New("missing tenant identifier")
)
