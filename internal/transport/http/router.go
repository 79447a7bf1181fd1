// Package httptransport assembles the HTTP surface: middleware chain,
// probes, metrics, and the versioned API.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"fraudgate/internal/platform/metrics"
	"fraudgate/pkg/platform/httputil"
	"fraudgate/pkg/platform/middleware/auth"
	"fraudgate/pkg/platform/middleware/metadata"
	"fraudgate/pkg/platform/middleware/request"
	"fraudgate/pkg/platform/middleware/requesttime"
)

const probeTimeout = time.Second

// API mounts versioned endpoints.
type API interface {
	Register(r chi.Router)
}

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Deps are the pieces the router mounts. A nil Validator disables
// authentication on /v1.
type Deps struct {
	Logger    *slog.Logger
	API       API
	Validator auth.JWTValidator
	Ready     func() bool
	Health    map[string]HealthCheck
	Metrics   *metrics.Metrics
}

// NewRouter wires all public endpoints.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)
	r.Use(request.Logger(d.Logger))
	r.Use(d.Metrics.Middleware)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", healthz(d.Health))
	r.Get("/readyz", readyz(d.Ready))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(v1 chi.Router) {
		if d.Validator != nil {
			v1.Use(auth.RequireAuth(d.Validator, d.Logger))
		}
		d.API.Register(v1)
	})

	return otelhttp.NewHandler(r, "http.server",
		otelhttp.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/metrics" && r.URL.Path != "/healthz" && r.URL.Path != "/readyz"
		}),
	)
}

func healthz(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
		defer cancel()

		status := http.StatusOK
		body := map[string]string{}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				body[name] = err.Error()
				continue
			}
			body[name] = "ok"
		}
		httputil.WriteJSON(w, status, body)
	}
}

// readyz turns green once the registry has replayed every command stream.
func readyz(ready func() bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ready != nil && !ready() {
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "catching_up"})
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
