package tenantmw

import (
	"net/http"
	"strings"

	"github.com/dmitrymomot/tenantcore/pkg/router"
)

// TenantHeader is the dedicated field carrying the tenant identifier.
const TenantHeader = "X-Tenant-ID"

// Resolver extracts the tenant identifier from an HTTP request.
// Returns empty string when the request carries no identifier; returns an
// error when an identifier is present but malformed.
type Resolver func(r *http.Request) (string, error)

// NewHeaderResolver reads the tenant id from the given header.
// Defaults to TenantHeader when headerName is empty. The value is validated
// against the router's safe-identifier pattern before anything downstream
// sees it.
func NewHeaderResolver(headerName string) Resolver {
	if headerName == "" {
		headerName = TenantHeader
	}
	return func(r *http.Request) (string, error) {
		value := strings.TrimSpace(r.Header.Get(headerName))
		if value == "" {
			return "", nil
		}
		if err := router.ValidateTenantID(value); err != nil {
			return "", err
		}
		return value, nil
	}
}

// NewClaimsResolver reads the tenant id from verified token claims placed on
// the request context by the external identity verifier.
func NewClaimsResolver() Resolver {
	return func(r *http.Request) (string, error) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok || claims.TenantID == "" {
			return "", nil
		}
		if err := router.ValidateTenantID(claims.TenantID); err != nil {
			return "", err
		}
		return claims.TenantID, nil
	}
}

// NewCompositeResolver tries each resolver in order, returning the first
// non-empty identifier.
func NewCompositeResolver(resolvers ...Resolver) Resolver {
	return func(r *http.Request) (string, error) {
		for _, resolve := range resolvers {
			id, err := resolve(r)
			if err != nil {
				return "", err
			}
			if id != "" {
				return id, nil
			}
		}
		return "", nil
	}
}
