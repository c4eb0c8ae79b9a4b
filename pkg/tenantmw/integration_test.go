package tenantmw_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantcore/pkg/isolation"
	"github.com/dmitrymomot/tenantcore/pkg/registry"
	"github.com/dmitrymomot/tenantcore/pkg/requestid"
	"github.com/dmitrymomot/tenantcore/pkg/router"
	"github.com/dmitrymomot/tenantcore/pkg/tenantctx"
	"github.com/dmitrymomot/tenantcore/pkg/tenantmw"
)

// candidateStore is a per-tenant resource as the router hands it out: each
// tenant gets its own isolated map of candidate records.
type candidateStore struct {
	tenantID string
	mu       sync.Mutex
	records  map[string]string
	closed   bool
}

func (s *candidateStore) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *candidateStore) put(id, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[id] = name
}

func (s *candidateStore) get(id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name, ok := s.records[id]
	return name, ok
}

func newTestApp(t *testing.T) (http.Handler, *registry.Registry) {
	t.Helper()

	reg := newRegistry(t, map[string]registry.Status{
		"acme":  registry.StatusActive,
		"globo": registry.StatusActive,
		"frost": registry.StatusSuspended,
	})

	opener := router.OpenerFunc(func(ctx context.Context, tenantID string) (router.Resource, error) {
		return &candidateStore{tenantID: tenantID, records: make(map[string]string)}, nil
	})
	rt := router.New(reg, opener)
	t.Cleanup(func() { _ = rt.Close(context.Background()) })

	guard := isolation.NewGuard()

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(tenantmw.Middleware(reg, tenantmw.WithSkipPaths([]string{"/health"})))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Put("/candidates/{id}", func(w http.ResponseWriter, req *http.Request) {
		handle, err := rt.Resolve(req.Context(), tenantctx.TenantID(req.Context()))
		if err != nil {
			tenantmw.DefaultErrorHandler(w, req, err)
			return
		}
		defer handle.Release(req.Context())

		body, err := io.ReadAll(req.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		store := handle.Resource().(*candidateStore)
		err = guard.Enforce(req.Context(), store.tenantID, func(context.Context) error {
			store.put(chi.URLParam(req, "id"), string(body))
			return nil
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusCreated)
	})

	r.Get("/candidates/{id}", func(w http.ResponseWriter, req *http.Request) {
		handle, err := rt.Resolve(req.Context(), tenantctx.TenantID(req.Context()))
		if err != nil {
			tenantmw.DefaultErrorHandler(w, req, err)
			return
		}
		defer handle.Release(req.Context())

		store := handle.Resource().(*candidateStore)
		var name string
		err = guard.Enforce(req.Context(), store.tenantID, func(context.Context) error {
			var ok bool
			name, ok = store.get(chi.URLParam(req, "id"))
			if !ok {
				return fmt.Errorf("candidate not found")
			}
			return nil
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		fmt.Fprint(w, name)
	})

	return r, reg
}

func TestEndToEnd(t *testing.T) {
	t.Parallel()

	t.Run("active tenant reads its own write", func(t *testing.T) {
		t.Parallel()
		app, _ := newTestApp(t)

		rec := doRequest(app, http.MethodPut, "/candidates/c1", "acme", "Ada Lovelace")
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = doRequest(app, http.MethodGet, "/candidates/c1", "acme", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Ada Lovelace", rec.Body.String())
	})

	t.Run("suspended tenant never reaches the data layer", func(t *testing.T) {
		t.Parallel()
		app, _ := newTestApp(t)

		rec := doRequest(app, http.MethodGet, "/candidates/c1", "frost", "")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("missing tenant header rejected at the boundary", func(t *testing.T) {
		t.Parallel()
		app, _ := newTestApp(t)

		rec := doRequest(app, http.MethodGet, "/candidates/c1", "", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("suspension takes effect on the next request", func(t *testing.T) {
		t.Parallel()
		app, reg := newTestApp(t)

		rec := doRequest(app, http.MethodPut, "/candidates/c1", "globo", "Grace Hopper")
		require.Equal(t, http.StatusCreated, rec.Code)

		_, err := reg.Transition(context.Background(), "globo", registry.StatusSuspended)
		require.NoError(t, err)

		rec = doRequest(app, http.MethodGet, "/candidates/c1", "globo", "")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("tenants never observe each other's records", func(t *testing.T) {
		t.Parallel()
		app, _ := newTestApp(t)

		rec := doRequest(app, http.MethodPut, "/candidates/c1", "acme", "Ada Lovelace")
		require.Equal(t, http.StatusCreated, rec.Code)

		// Same candidate id, different tenant, entirely separate store.
		rec = doRequest(app, http.MethodGet, "/candidates/c1", "globo", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("concurrent tenants stay isolated", func(t *testing.T) {
		t.Parallel()
		app, _ := newTestApp(t)

		require.Equal(t, http.StatusCreated,
			doRequest(app, http.MethodPut, "/candidates/c1", "acme", "Ada Lovelace").Code)
		require.Equal(t, http.StatusCreated,
			doRequest(app, http.MethodPut, "/candidates/c1", "globo", "Grace Hopper").Code)

		const iterations = 50
		var wg sync.WaitGroup
		errCh := make(chan error, iterations*2)

		for _, want := range []struct{ tenant, name string }{
			{"acme", "Ada Lovelace"},
			{"globo", "Grace Hopper"},
		} {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range iterations {
					rec := doRequest(app, http.MethodGet, "/candidates/c1", want.tenant, "")
					if rec.Code != http.StatusOK {
						errCh <- fmt.Errorf("tenant %s: status %d", want.tenant, rec.Code)
						return
					}
					if got := rec.Body.String(); got != want.name {
						errCh <- fmt.Errorf("tenant %s: got %q, want %q", want.tenant, got, want.name)
						return
					}
				}
			}()
		}

		wg.Wait()
		close(errCh)
		for err := range errCh {
			require.NoError(t, err)
		}
	})

	t.Run("health endpoint needs no tenant", func(t *testing.T) {
		t.Parallel()
		app, _ := newTestApp(t)

		rec := doRequest(app, http.MethodGet, "/health", "", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func doRequest(app http.Handler, method, path, tenantID, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if tenantID != "" {
		req.Header.Set(tenantmw.TenantHeader, tenantID)
	}
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}
