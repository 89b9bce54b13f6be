package main

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/miretskiy/schedsim/internal/config"
	"github.com/miretskiy/schedsim/internal/store"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// server wires the HTTP routes, websocket sessions and optional run history.
type server struct {
	cfg      config.ServerConfig
	logger   *slog.Logger
	store    store.Store // nil when history is disabled
	index    *template.Template
	router   chi.Router
	shutdown func()
}

func newServer(cfg config.ServerConfig, st store.Store, logger *slog.Logger) (*server, error) {
	index, err := template.ParseFiles(cfg.TemplatePath)
	if err != nil {
		return nil, fmt.Errorf("load template: %w", err)
	}
	s := &server{
		cfg:    cfg,
		logger: logger.With("component", "server"),
		store:  st,
		index:  index,
		router: chi.NewRouter(),
	}
	s.routes()
	return s, nil
}

// Handler returns the http.Handler for this server.
func (s *server) Handler() http.Handler {
	return s.router
}

func (s *server) routes() {
	r := s.router

	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(loggingMiddleware(s.logger))

	r.Get("/", s.serveHome)
	r.Get("/ws", s.handleWebSocket)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/quitquitquit", s.quitHandler)

	r.Route("/api", func(r chi.Router) {
		r.Post("/compare", s.handleCompare)
		r.Post("/export", s.handleExport)
		r.Route("/runs", func(r chi.Router) {
			r.Get("/", s.handleListRuns)
			r.Get("/{id}", s.handleGetRun)
		})
	})
}

// loggingMiddleware logs HTTP requests (method, path, status, duration).
func loggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start).String(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

func (s *server) serveHome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.index.Execute(w, nil); err != nil {
		s.logger.Error("executing template", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (s *server) quitHandler(w http.ResponseWriter, r *http.Request) {
	s.logger.Info("shutdown requested via /quitquitquit")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "Server shutting down...")

	if s.shutdown != nil {
		go s.shutdown()
	}
}
