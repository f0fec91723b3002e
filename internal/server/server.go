// Package server serves the feed over HTTP, building it on every request.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/lepinkainen/blog-feed/pkg/feed"
)

// Renderer builds a serialized feed
type Renderer interface {
	Render(ctx context.Context, format feed.Format) ([]byte, error)
}

// Config holds the HTTP settings
type Config struct {
	Listen  string
	Timeout time.Duration
	Version string
	Debug   bool
}

// Server represents HTTP server instance
type Server struct {
	config   Config
	renderer Renderer

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// slogBackend routes go-pkgz log lines into slog
var slogBackend = lgr.Func(func(format string, args ...any) {
	slog.Info(fmt.Sprintf(format, args...), "component", "http")
})

// New initializes a new server instance
func New(cfg Config, renderer Renderer) *Server {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	s := &Server{
		config:   cfg,
		renderer: renderer,
		router:   routegroup.New(http.NewServeMux()),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler returns the routed handler with middleware applied
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts the HTTP server and shuts it down when ctx is canceled
func (s *Server) Run(ctx context.Context) error {
	slog.Info("Starting server", "listen", s.config.Listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:              s.config.Listen,
		Handler:           s.router,
		ReadHeaderTimeout: s.config.Timeout,
		WriteTimeout:      s.config.Timeout,
	}
	httpServer := s.httpServer
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		slog.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Warn("Server shutdown error", "error", err)
		}
	}()

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}
	return nil
}

func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("blog-feed", "lepinkainen", s.config.Version))
	s.router.Use(rest.Ping)
	if s.config.Debug {
		s.router.Use(logger.New(logger.Log(slogBackend), logger.Prefix("[DEBUG]")).Handler)
	}
	s.router.Use(rest.Recoverer(slogBackend))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(64 * 1024))
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("GET /rss.xml", s.feedHandler(feed.RSS))
	s.router.HandleFunc("GET /atom.xml", s.feedHandler(feed.Atom))
	s.router.HandleFunc("GET /feed.json", s.feedHandler(feed.JSON))
}

// feedHandler builds the feed for every request. The body is only written once the whole document is rendered.
func (s *Server) feedHandler(format feed.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := s.renderer.Render(r.Context(), format)
		if err != nil {
			slog.Error("Failed to build feed", "type", format, "error", err)
			rest.SendErrorJSON(w, r, slogBackend, http.StatusInternalServerError, err, "failed to build feed")
			return
		}

		w.Header().Set("Content-Type", format.ContentType())
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(data); err != nil {
			slog.Warn("Failed to write feed response", "type", format, "error", err)
		}
	}
}
