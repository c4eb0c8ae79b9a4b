package tenantmw

import "context"

// Claims is the validated identity produced by an external token verifier.
// The middleware trusts its contents verbatim; verification is out of scope.
type Claims struct {
	TenantID string   `json:"tenant_id"`
	UserID   string   `json:"user_id"`
	Roles    []string `json:"roles,omitempty"`
}

type claimsKey struct{}

// WithClaims attaches verified claims to the context. Called by the token
// verification middleware, upstream of the tenant middleware.
func WithClaims(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext retrieves verified claims, if any.
func ClaimsFromContext(ctx context.Context) (Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(Claims)
	return claims, ok
}
