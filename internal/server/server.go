// Package server provides the HTTP server and routing for espresso.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/aristath/espresso/internal/services"
)

// Config holds server configuration
type Config struct {
	Log              zerolog.Logger
	Analytics        *services.Analytics
	Gatherer         prometheus.Gatherer // nil disables /metrics
	Port             int
	DevMode          bool
	OpportunityLimit int
}

// Server represents the HTTP server
type Server struct {
	router    *chi.Mux
	server    *http.Server
	log       zerolog.Logger
	analytics *services.Analytics
	gatherer  prometheus.Gatherer
	port      int
	limit     int
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		log:       cfg.Log.With().Str("component", "server").Logger(),
		analytics: cfg.Analytics,
		gatherer:  cfg.Gatherer,
		port:      cfg.Port,
		limit:     cfg.OpportunityLimit,
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second, // above the 60s handler timeout
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Compress responses
	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)
	if s.gatherer != nil {
		s.router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Get("/quote/{symbol}", s.handleQuote)
		r.Get("/indicators/{symbol}", s.handleIndicators)
		r.Get("/risk/{symbol}", s.handleRisk)
		r.Get("/fundamentals/{symbol}", s.handleFundamentals)
		r.Get("/ohlc/{symbol}", s.handleOHLC)
		r.Get("/comparison/{symbol}", s.handleComparison)
		r.Get("/news/{symbol}", s.handleNews)

		// Static segment first so "morning" is never read as a symbol.
		r.Get("/narrative/morning", s.handleMorningNarrative)
		r.Get("/narrative/{symbol}", s.handleNarrative)

		r.Get("/indices", s.handleIndices)
		r.Get("/movers", s.handleMovers)
		r.Get("/talking-points", s.handleTalkingPoints)

		r.Get("/opportunities", s.handleOpportunities)
		r.Get("/regime", s.handleRegime)
		r.Get("/sectors/rotation", s.handleSectorRotation)
		r.Get("/earnings", s.handleEarnings)
		r.Get("/correlation", s.handleCorrelation)

		r.Get("/settings", s.handleGetSettings)
		r.Put("/settings", s.handleUpdateSettings)

		r.Get("/history", s.handleListHistory)
		r.Post("/history", s.handleArchive)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
