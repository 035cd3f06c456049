package api

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Server wraps the HTTP server for graceful shutdown.
type Server struct {
	httpServer *http.Server
}

// NewServer creates a server listening on the given port.
func NewServer(port int, router http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Start blocks serving requests until shutdown or failure.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Stop gracefully stops the server.
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
