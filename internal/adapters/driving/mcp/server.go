package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/iptrace/internal/core/domain"
	"github.com/custodia-labs/iptrace/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

// maxRecentRuns bounds the results kept for the runs resource.
const maxRecentRuns = 64

// Server is the MCP server for iptrace.
type Server struct {
	ports  *Ports
	server *mcp.Server

	mu     sync.RWMutex
	recent map[string]*domain.ResultSet
	order  []string
}

// NewServer creates a new MCP server with the given ports.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	impl := &mcp.Implementation{
		Name:    "iptrace",
		Version: Version,
	}

	s := &Server{
		ports:  ports,
		server: mcp.NewServer(impl, nil),
		recent: make(map[string]*domain.ResultSet),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Run starts the MCP server over stdio.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Handler returns the HTTP router: the MCP endpoint at /mcp and,
// when configured, Prometheus metrics at /metrics.
func (s *Server) Handler() http.Handler {
	streamable := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if s.ports.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.ports.Metrics)
	}
	r.Handle("/mcp", streamable)
	r.Handle("/mcp/*", streamable)

	return r
}

// RunHTTP starts the MCP server over HTTP on the specified address.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown when context is cancelled
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("mcp: shutdown: %v", err)
		}
	}()

	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// remember keeps result for the runs resource, evicting the oldest.
func (s *Server) remember(result *domain.ResultSet) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recent[result.RunID]; !ok {
		s.order = append(s.order, result.RunID)
	}
	s.recent[result.RunID] = result

	for len(s.order) > maxRecentRuns {
		delete(s.recent, s.order[0])
		s.order = s.order[1:]
	}
}

// lookup returns a remembered result.
func (s *Server) lookup(runID string) (*domain.ResultSet, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.recent[runID]
	return r, ok
}
