package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"bloglist/internal/config"
)

// Server wraps an *http.Server to provide start/shutdown lifecycle.
type Server struct {
	mu         sync.Mutex
	httpServer *http.Server
	timeouts   config.ServerConfig
}

const (
	maxHeaderBytes = 1 << 20 // 1 MB
	defaultPort    = "8080"

	fallbackReadHeaderTimeout = 10 * time.Second
	fallbackWriteTimeout      = 10 * time.Second
	fallbackIdleTimeout       = 60 * time.Second
)

// New returns a Server using the given timeouts. Zero values fall back to defaults.
func New(timeouts config.ServerConfig) *Server {
	if timeouts.ReadHeaderTimeout <= 0 {
		timeouts.ReadHeaderTimeout = fallbackReadHeaderTimeout
	}
	if timeouts.WriteTimeout <= 0 {
		timeouts.WriteTimeout = fallbackWriteTimeout
	}
	if timeouts.IdleTimeout <= 0 {
		timeouts.IdleTimeout = fallbackIdleTimeout
	}
	return &Server{timeouts: timeouts}
}

func (s *Server) newHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		MaxHeaderBytes:    maxHeaderBytes,
		ReadHeaderTimeout: s.timeouts.ReadHeaderTimeout,
		WriteTimeout:      s.timeouts.WriteTimeout,
		IdleTimeout:       s.timeouts.IdleTimeout,
	}
}

// normalizeAddr accepts "8080", ":8080" or "host:8080".
func normalizeAddr(port string) string {
	port = strings.TrimSpace(port)
	if port == "" {
		return ":" + defaultPort
	}
	if strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}

// Run starts the HTTP server on the given port. It returns nil after Shutdown.
func (s *Server) Run(port string, handler http.Handler) error {
	ln, err := net.Listen("tcp", normalizeAddr(port))
	if err != nil {
		return err
	}
	return s.Serve(ln, handler)
}

// Serve accepts connections on ln until Shutdown.
func (s *Server) Serve(ln net.Listener, handler http.Handler) error {
	srv := s.newHTTPServer(ln.Addr().String(), handler)
	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server, allowing in-flight requests to complete.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
