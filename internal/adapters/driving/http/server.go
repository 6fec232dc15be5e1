package http

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/weavelabs/ragcore/internal/core/ports/driven"
	"github.com/weavelabs/ragcore/internal/core/ports/driving"
)

// Pinger is a simple health check interface
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	version    string

	// Services
	ingestionService driving.IngestionService
	answerService    driving.AnswerService

	// Infrastructure
	taskQueue driven.TaskQueue
	db        Pinger // PostgreSQL health check
	queue     Pinger // queue backend health check (optional)
}

// Config holds server configuration
type Config struct {
	Host    string
	Port    int
	Version string

	// AllowedOrigins for CORS; empty disables CORS headers
	AllowedOrigins []string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:    "0.0.0.0",
		Port:    8080,
		Version: "dev",
	}
}

// NewServer creates a new HTTP server
func NewServer(
	cfg Config,
	ingestionService driving.IngestionService,
	answerService driving.AnswerService,
	taskQueue driven.TaskQueue,
	db Pinger,
	queue Pinger, // can be nil
) *Server {
	s := &Server{
		router:           http.NewServeMux(),
		version:          cfg.Version,
		ingestionService: ingestionService,
		answerService:    answerService,
		taskQueue:        taskQueue,
		db:               db,
		queue:            queue,
	}

	s.setupRoutes()

	var handler http.Handler = s.router
	if len(cfg.AllowedOrigins) > 0 {
		handler = NewCORSMiddleware(cfg.AllowedOrigins).Handler(handler)
	}
	handler = NewLoggingMiddleware().Handler(handler)
	handler = NewRecoveryMiddleware().Handler(handler)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	// Health endpoints
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /version", s.handleVersion)

	// Ingestion endpoints
	s.router.HandleFunc("POST /api/v1/ingest-url", s.handleIngestURL)
	s.router.HandleFunc("GET /api/v1/ingest-url/status/{id}", s.handleIngestStatus)

	// Query endpoint
	s.router.HandleFunc("POST /api/v1/query", s.handleQuery)

	// Queue introspection
	s.router.HandleFunc("GET /api/v1/queue/stats", s.handleQueueStats)
}

// Handler exposes the configured handler chain (used in tests)
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start starts the HTTP server. It blocks until ctx is cancelled and
// then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// Stop stops the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
