// Package server provides the HTTP API around the simulation engine:
// circuit in, probability distribution or sampled histogram out.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Config holds server configuration.
type Config struct {
	Log  zerolog.Logger
	Port int
}

// Server is the HTTP server for the simulation API.
type Server struct {
	router   *chi.Mux
	server   *http.Server
	log      zerolog.Logger
	validate *validator.Validate

	simulations prometheus.Counter
	sampleShots prometheus.Counter
}

// New creates the server and mounts all routes. Metrics live on a
// per-server registry so tests can construct servers independently.
func New(cfg Config) *Server {
	registry := prometheus.NewRegistry()
	metrics := promauto.With(registry)
	s := &Server{
		router:   chi.NewRouter(),
		log:      cfg.Log.With().Str("component", "server").Logger(),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		simulations: metrics.NewCounter(prometheus.CounterOpts{
			Name: "qcompose_simulations_total",
			Help: "Number of circuit simulations served.",
		}),
		sampleShots: metrics.NewCounter(prometheus.CounterOpts{
			Name: "qcompose_sample_shots_total",
			Help: "Total measurement shots drawn across sampling requests.",
		}),
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	s.router.Get("/healthz", s.handleHealth)
	s.router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/simulate", s.handleSimulate)
		r.Post("/sample", s.handleSample)
	})

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler { return s.router }

// Start begins serving and blocks until the listener closes.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("HTTP server listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// requestLogger logs each request with its chi request id.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}
