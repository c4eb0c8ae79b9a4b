// Package tenantmw wires tenant resolution into the HTTP request boundary.
//
// The middleware extracts the tenant identifier from the inbound request,
// validates it against the registry, and opens a tenantctx scope for the
// rest of the handler chain. The scope is ended on every exit path
// (success, error response, handler panic, client disconnect) so a pooled
// goroutine can never carry one request's tenant into the next.
//
//	r := chi.NewRouter()
//	r.Use(requestid.Middleware)
//	r.Use(tenantmw.Middleware(reg))
//
//	r.Get("/candidates", func(w http.ResponseWriter, r *http.Request) {
//		rc, _ := tenantctx.Current(r.Context())
//		// rc.TenantID is validated and active
//	})
//
// Requests without a tenant identifier are rejected with a client error
// before any registry lookup or business logic runs. Unknown, suspended, or
// otherwise non-active tenants are rejected with 403 before any data access.
//
// For authenticated flows an external token verifier places validated Claims
// on the request context; ClaimsResolver trusts them verbatim.
package tenantmw
