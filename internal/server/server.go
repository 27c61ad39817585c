// Package server wires the analytics modules into the HTTP API.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/aristath/foresight/internal/database"
	"github.com/aristath/foresight/internal/modules/aggregation"
	"github.com/aristath/foresight/internal/modules/economic"
	"github.com/aristath/foresight/internal/modules/indicators"
	"github.com/aristath/foresight/internal/modules/rebalancing"
	"github.com/aristath/foresight/internal/modules/risk"
	"github.com/aristath/foresight/internal/modules/snapshots"
	"github.com/aristath/foresight/internal/scheduler"
)

// Config holds server configuration
type Config struct {
	Log         zerolog.Logger
	Port        int
	DevMode     bool
	SnapshotsDB *database.DB

	RiskCalculator      *risk.Calculator
	IndicatorCalculator *indicators.Calculator
	EconomicAnalyzer    *economic.Analyzer
	RebalancingEngine   *rebalancing.Engine
	Aggregator          *aggregation.Aggregator
	SnapshotRepo        *snapshots.Repository

	Scheduler   *scheduler.Scheduler
	SnapshotJob scheduler.Job
}

// Server is the HTTP server
type Server struct {
	router         *chi.Mux
	server         *http.Server
	log            zerolog.Logger
	cfg            Config
	systemHandlers *SystemHandlers
}

// New creates the HTTP server and mounts all module routes
func New(cfg Config) *Server {
	s := &Server{
		router: chi.NewRouter(),
		log:    cfg.Log.With().Str("component", "server").Logger(),
		cfg:    cfg,
		systemHandlers: NewSystemHandlers(
			cfg.Log,
			cfg.SnapshotsDB,
			cfg.Scheduler,
			cfg.SnapshotJob,
		),
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
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
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.systemHandlers.HandleHealth)

	s.router.Route("/api", func(r chi.Router) {
		s.setupSystemRoutes(r)
		s.setupRiskRoutes(r)
		s.setupIndicatorRoutes(r)
		s.setupEconomicRoutes(r)
		s.setupRebalancingRoutes(r)
		s.setupPredictionRoutes(r)
		s.setupSnapshotRoutes(r)
	})
}

// setupSystemRoutes configures system monitoring and job trigger routes
func (s *Server) setupSystemRoutes(r chi.Router) {
	r.Route("/system", func(r chi.Router) {
		r.Get("/status", s.systemHandlers.HandleSystemStatus)
		r.Get("/database/stats", s.systemHandlers.HandleDatabaseStats)
		r.Post("/jobs/snapshot", s.systemHandlers.HandleTriggerSnapshot)
	})
}

// setupRiskRoutes configures risk metric routes
func (s *Server) setupRiskRoutes(r chi.Router) {
	handler := risk.NewHandler(s.cfg.RiskCalculator, s.cfg.Log)

	r.Route("/risk", func(r chi.Router) {
		r.Post("/metrics", handler.HandleMetrics)
		r.Post("/correlation", handler.HandleCorrelation)
	})
}

// setupIndicatorRoutes configures technical indicator routes
func (s *Server) setupIndicatorRoutes(r chi.Router) {
	handler := indicators.NewHandler(s.cfg.IndicatorCalculator, s.cfg.Log)

	r.Route("/indicators", func(r chi.Router) {
		r.Post("/snapshot", handler.HandleSnapshot)
	})
}

// setupEconomicRoutes configures economic analysis routes
func (s *Server) setupEconomicRoutes(r chi.Router) {
	handler := economic.NewHandler(s.cfg.EconomicAnalyzer, s.cfg.Log)

	r.Route("/economic", func(r chi.Router) {
		r.Post("/sentiment", handler.HandleSentiment)
		r.Post("/correlation", handler.HandleCorrelation)
		r.Post("/event-impact", handler.HandleEventImpact)
	})
}

// setupRebalancingRoutes configures rebalancing routes
func (s *Server) setupRebalancingRoutes(r chi.Router) {
	handler := rebalancing.NewHandler(s.cfg.RebalancingEngine, s.cfg.Log)

	r.Route("/rebalancing", func(r chi.Router) {
		r.Post("/plan", handler.HandlePlan)
		r.Post("/deviations", handler.HandleDeviations)
	})
}

// setupPredictionRoutes configures prediction aggregation routes
func (s *Server) setupPredictionRoutes(r chi.Router) {
	handler := aggregation.NewHandler(s.cfg.Aggregator, s.cfg.Log)

	r.Route("/predictions", func(r chi.Router) {
		r.Post("/market", handler.HandleMarket)
		r.Post("/security", handler.HandleSecurity)
		r.Post("/portfolio", handler.HandlePortfolio)
		r.Post("/update", handler.HandleUpdate)
	})
}

// setupSnapshotRoutes configures snapshot history routes
func (s *Server) setupSnapshotRoutes(r chi.Router) {
	handler := snapshots.NewHandler(s.cfg.SnapshotRepo, s.cfg.Log)

	r.Route("/snapshots", func(r chi.Router) {
		r.Get("/{symbol}/latest", handler.HandleLatest)
		r.Get("/{symbol}/history", handler.HandleHistory)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.cfg.Port).Msg("Starting HTTP server")
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
