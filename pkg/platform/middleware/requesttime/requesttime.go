// Package requesttime pins one "now" per request. Aggregate windows and
// escalation history are measured from it.
package requesttime

import (
	"net/http"
	"time"

	"fraudgate/pkg/requestcontext"
)

// Middleware pins time.Now on the request context.
func Middleware(next http.Handler) http.Handler {
	return WithClock(time.Now)(next)
}

// WithClock pins now() instead of the wall clock.
func WithClock(now func() time.Time) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(requestcontext.WithTime(r.Context(), now().UTC())))
		})
	}
}
