// Package httpapi exposes the document chat over a small JSON HTTP API.
// Routing is chi-based; shutdown is graceful on context cancellation.
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/asfc-labs/docchat/internal/core/ports/driving"
	"github.com/asfc-labs/docchat/internal/logger"
)

// Default server timeouts.
const (
	defaultReadTimeout     = 30 * time.Second
	defaultWriteTimeout    = 5 * time.Minute // model calls can be slow
	defaultShutdownTimeout = 10 * time.Second

	// maxUploadBytes bounds the multipart upload size (50 MiB).
	maxUploadBytes = 50 << 20
)

// Ports aggregates the driving services the API exposes.
type Ports struct {
	Ingest   driving.IngestService
	Chat     driving.ChatService
	Document driving.DocumentService
}

// Server is the docchat HTTP API server.
type Server struct {
	ports      *Ports
	httpServer *http.Server
	listCache  *documentListCache
}

// NewServer creates an HTTP API server listening on addr.
func NewServer(addr string, ports *Ports) (*Server, error) {
	if ports == nil || ports.Ingest == nil || ports.Chat == nil || ports.Document == nil {
		return nil, fmt.Errorf("httpapi: ingest, chat and document services are required")
	}

	s := &Server{
		ports:     ports,
		listCache: newDocumentListCache(defaultCacheSize, defaultCacheTTL),
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/upload", s.handleUpload)
		r.Post("/chat", s.handleChat)
		r.Get("/files", s.handleListFiles)
		r.Get("/files/{documentID}", s.handleGetFile)
		r.Delete("/files/{documentID}", s.handleDeleteFile)
		r.Get("/history", s.handleHistory)
	})

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
	}

	return s, nil
}

// Run starts the server and blocks until the context is cancelled or the
// listener fails. Cancellation triggers a graceful shutdown.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		logger.Info("HTTP API listening on %s", s.httpServer.Addr)
		err := s.httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

// Handler returns the configured HTTP handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
