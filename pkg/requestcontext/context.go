// Package requestcontext carries request-scoped values (request ID, caller,
// client IP, pinned clock) from middleware to services without importing
// net/http.
package requestcontext

import (
	"context"
	"time"
)

type key int

const (
	keyCaller key = iota
	keyClientIP
	keyRequestID
	keyRequestTime
)

func lookup[T any](ctx context.Context, k key) (T, bool) {
	v, ok := ctx.Value(k).(T)
	return v, ok
}

// Caller is the authenticated calling service, or "" for unauthenticated
// requests.
func Caller(ctx context.Context) string {
	v, _ := lookup[string](ctx, keyCaller)
	return v
}

func WithCaller(ctx context.Context, caller string) context.Context {
	return context.WithValue(ctx, keyCaller, caller)
}

func ClientIP(ctx context.Context) string {
	v, _ := lookup[string](ctx, keyClientIP)
	return v
}

func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, keyClientIP, ip)
}

func RequestID(ctx context.Context) string {
	v, _ := lookup[string](ctx, keyRequestID)
	return v
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyRequestID, id)
}

// Now is the instant pinned for this request. Aggregate windows and the
// escalation window are measured from it so one inspection sees one clock.
// Contexts without a pinned time (consumers, tests) get time.Now.
func Now(ctx context.Context) time.Time {
	if t, ok := lookup[time.Time](ctx, keyRequestTime); ok {
		return t
	}
	return time.Now()
}

// WithTime pins the request clock.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, keyRequestTime, t)
}
