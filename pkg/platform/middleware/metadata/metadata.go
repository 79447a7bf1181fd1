// Package metadata records client network metadata on the request context.
package metadata

import (
	"net"
	"net/http"
	"strings"

	"fraudgate/pkg/requestcontext"
)

// ClientMetadata stores the client IP for the access log.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(requestcontext.WithClientIP(r.Context(), ClientIPFromRequest(r))))
	})
}

// ClientIPFromRequest prefers proxy headers (left-most X-Forwarded-For hop,
// then X-Real-IP) over the socket address.
func ClientIPFromRequest(r *http.Request) string {
	if hops := r.Header.Get("X-Forwarded-For"); hops != "" {
		client, _, _ := strings.Cut(hops, ",")
		if ip := strings.TrimSpace(client); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if r.RemoteAddr == "" {
		return "unknown"
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
