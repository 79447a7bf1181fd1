package httptransport

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"fraudgate/pkg/platform/middleware/auth"
	"fraudgate/pkg/requestcontext"
)

type echoAPI struct{}

func (echoAPI) Register(r chi.Router) {
	r.Get("/whoami", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, requestcontext.Caller(r.Context()))
	})
}

type tokenValidator struct{}

func (tokenValidator) ValidateToken(token string) (*auth.JWTClaims, error) {
	if token == "ok" {
		return &auth.JWTClaims{Caller: "checkout"}, nil
	}
	return nil, errors.New("invalid")
}

func newRouter(ready *atomic.Bool, health map[string]HealthCheck) http.Handler {
	return NewRouter(Deps{
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		API:       echoAPI{},
		Validator: tokenValidator{},
		Ready:     ready.Load,
		Health:    health,
	})
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRouter_Readiness(t *testing.T) {
	var ready atomic.Bool
	h := newRouter(&ready, nil)

	assert.Equal(t, http.StatusServiceUnavailable, serve(h, httptest.NewRequest(http.MethodGet, "/readyz", nil)).Code)
	ready.Store(true)
	assert.Equal(t, http.StatusOK, serve(h, httptest.NewRequest(http.MethodGet, "/readyz", nil)).Code)
}

func TestRouter_Health(t *testing.T) {
	var ready atomic.Bool
	h := newRouter(&ready, map[string]HealthCheck{
		"redis":    func(context.Context) error { return nil },
		"postgres": func(context.Context) error { return errors.New("connection refused") },
	})

	w := serve(h, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
}

func TestRouter_APIRequiresToken(t *testing.T) {
	var ready atomic.Bool
	h := newRouter(&ready, nil)

	w := serve(h, httptest.NewRequest(http.MethodGet, "/v1/whoami", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/v1/whoami", nil)
	req.Header.Set("Authorization", "Bearer ok")
	w = serve(h, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "checkout", w.Body.String())
}

func TestRouter_Metrics(t *testing.T) {
	var ready atomic.Bool
	w := serve(newRouter(&ready, nil), httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
