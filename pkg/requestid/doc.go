// Package requestid provides HTTP middleware and helpers for the correlation
// identifier threaded through a request's processing.
//
// The correlation id is a short opaque string that identifies one inbound
// request across services, log records and audit events. The Middleware
// attaches one to every request: a client-supplied "X-Request-ID" header is
// validated and reused, otherwise a fresh UUIDv4 is generated. The chosen id
// is stored on the request context, echoed back in the response header, and
// propagated unchanged to downstream collaborators.
//
// # Usage
//
//	mux := http.NewServeMux()
//	mux.Handle("/hello", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
//		id := requestid.FromContext(r.Context())
//		w.Write([]byte("correlation id: " + id))
//	}))
//
//	http.ListenAndServe(":8080", requestid.Middleware(mux))
//
// LoggerExtractor integrates with the logger package so the correlation id
// is injected into every log record emitted within the request.
//
// The package does not return errors: invalid or empty ids supplied by a
// client are silently replaced by a freshly generated UUID.
package requestid
