// Package httpserver builds the inbound HTTP server.
package httpserver

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"fraudgate/internal/platform/config"
)

// writeHeadroom is added on top of the inspector deadline so a timed-out
// inspection can still write its error envelope.
const writeHeadroom = 5 * time.Second

// New returns a server whose request contexts carry base's values but not its
// cancellation; Shutdown drains in-flight inspections. Server-internal errors
// go through logger.
func New(base context.Context, cfg config.Server, handler http.Handler, inspectDeadline time.Duration, logger *slog.Logger) *http.Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      inspectDeadline + writeHeadroom,
		IdleTimeout:       90 * time.Second,
		MaxHeaderBytes:    64 << 10,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(base) },
	}
}
