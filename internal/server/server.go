// Package server exposes recommendations, value analysis and the refresh
// loop over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/GianisonBoekhoudt/bettingbuddy/internal/logger"
	"github.com/GianisonBoekhoudt/bettingbuddy/internal/metrics"
	"github.com/GianisonBoekhoudt/bettingbuddy/internal/models"
	"github.com/GianisonBoekhoudt/bettingbuddy/internal/recommend"
	"github.com/GianisonBoekhoudt/bettingbuddy/internal/refresh"
	"github.com/GianisonBoekhoudt/bettingbuddy/internal/value"
)

const (
	requestTimeout  = 30 * time.Second
	shutdownTimeout = 5 * time.Second
)

// BetSource supplies the active bets recommendations are built from
type BetSource interface {
	GetActiveBets(ctx context.Context) ([]models.BetRecord, error)
	Ping(ctx context.Context) error
}

// Refresher is the refresh loop as seen by the API
type Refresher interface {
	UpdateNow(ctx context.Context) (refresh.TickEvent, error)
	State() models.RefreshState
}

// Config holds listener and routing settings
type Config struct {
	ServiceName    string
	Version        string
	Address        string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string
	MetricsPath    string // empty disables /metrics
}

// Dependencies are the services the handlers call. Refresher and Websocket may be nil.
type Dependencies struct {
	Store     BetSource
	Engine    *recommend.Engine
	Strategy  *value.Strategy
	Refresher Refresher
	Websocket http.Handler
}

// Server is the HTTP API
type Server struct {
	cfg      Config
	deps     Dependencies
	log      *logrus.Entry
	recLog   *logger.RecommendationLogger
	validate *validator.Validate
	router   chi.Router
	http     *http.Server
	ready    atomic.Bool
}

// New builds the router. The server reports not ready until SetReady(true).
func New(cfg Config, deps Dependencies, log *logrus.Logger) *Server {
	if log == nil {
		log = logger.NewNopLogger()
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "bettingbuddy"
	}
	if deps.Engine == nil {
		deps.Engine = recommend.NewEngine()
	}
	if deps.Strategy == nil {
		deps.Strategy = value.NewStrategy(nil)
	}

	s := &Server{
		cfg:      cfg,
		deps:     deps,
		log:      log.WithField("component", "http"),
		recLog:   logger.NewRecommendationLogger(log),
		validate: validator.New(),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/live", s.handleHealth)
	r.Get("/ready", s.handleReady)

	if s.cfg.MetricsPath != "" {
		r.Handle(s.cfg.MetricsPath, metrics.Handler())
	}
	if s.deps.Websocket != nil {
		r.Handle("/ws", s.deps.Websocket)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chimiddleware.Timeout(requestTimeout))

		r.Get("/recommendations", s.handleAllRecommendations)
		r.Get("/recommendations/{profile}", s.handleProfileRecommendations)

		r.Post("/value/analyze", s.handleAnalyzeValue)
		r.Post("/value/plan", s.handleBettingPlan)

		r.Post("/refresh", s.handleRefreshNow)
		r.Get("/refresh/state", s.handleRefreshState)
	})

	return r
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// SetReady marks the server as ready to accept traffic
func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.http = &http.Server{
		Addr:         s.cfg.Address,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithFields(logrus.Fields{
			"address": s.cfg.Address,
			"service": s.cfg.ServiceName,
		}).Info("HTTP server starting")
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.SetReady(false)
	s.log.Info("HTTP server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
