// Package httpserver builds the process HTTP server. Per-request deadlines
// are enforced by the timeout middleware; the server-level timeouts here only
// bound slow or idle connections.
package httpserver

import (
	"net/http"
	"time"
)

// New builds an HTTP server around the given handler.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
