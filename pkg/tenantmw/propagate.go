package tenantmw

import (
	"net/http"

	"github.com/dmitrymomot/tenantcore/pkg/requestid"
	"github.com/dmitrymomot/tenantcore/pkg/tenantctx"
)

// PropagateHeaders stamps the active tenant id and correlation id onto an
// outbound request, unchanged, so downstream collaborators observe the same
// identifiers. A no-op outside any request scope.
func PropagateHeaders(req *http.Request) {
	rc, ok := tenantctx.Current(req.Context())
	if !ok {
		return
	}
	req.Header.Set(TenantHeader, rc.TenantID)
	if rc.CorrelationID != "" {
		req.Header.Set(requestid.Header, rc.CorrelationID)
	}
}
