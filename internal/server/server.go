// Package server exposes the habit operations over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/julianstephens/dailyhabits/internal/constants"
	"github.com/julianstephens/dailyhabits/internal/dispatch"
	"github.com/julianstephens/dailyhabits/internal/habits"
	"github.com/julianstephens/dailyhabits/internal/logger"
)

type Config struct {
	Addr           string
	RateLimit      float64
	RateBurst      int
	AllowedOrigins []string
}

func (c Config) withDefaults() Config {
	if c.Addr == "" {
		c.Addr = constants.DefaultAddr
	}
	if c.RateLimit <= 0 {
		c.RateLimit = constants.DefaultRateLimit
	}
	if c.RateBurst <= 0 {
		c.RateBurst = constants.DefaultRateBurst
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	return c
}

type Server struct {
	cfg        Config
	svc        *habits.Service
	dispatcher *dispatch.Dispatcher
	registry   *prometheus.Registry
	metrics    *metrics
	limiter    *rateLimiter
	handler    http.Handler
}

// New builds the router. The dispatcher reports every operation to the
// server's metrics.
func New(svc *habits.Service, dispatcher *dispatch.Dispatcher, cfg Config) *Server {
	cfg = cfg.withDefaults()
	registry := prometheus.NewRegistry()

	s := &Server{
		cfg:        cfg,
		svc:        svc,
		dispatcher: dispatcher,
		registry:   registry,
		metrics:    newMetrics(registry),
		limiter:    newRateLimiter(cfg.RateLimit, cfg.RateBurst),
	}
	s.limiter.rejected = s.metrics.rateLimited
	dispatcher.SetObserver(s.metrics.observeOperation)
	s.handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	r := mux.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware)
	r.Use(s.metrics.middleware)
	r.Use(s.limiter.middleware)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/operations", s.handleListOperations).Methods(http.MethodGet)
	api.HandleFunc("/operations/{name}", s.handleCallOperation).Methods(http.MethodPost)

	api.HandleFunc("/habits", s.handleListHabits).Methods(http.MethodGet)
	api.HandleFunc("/habits", s.handleAddHabit).Methods(http.MethodPost)
	api.HandleFunc("/habits/{id:[0-9]+}", s.handleDeleteHabit).Methods(http.MethodDelete)
	api.HandleFunc("/habits/{id:[0-9]+}/completions", s.handleCompleteHabit).Methods(http.MethodPost)
	api.HandleFunc("/habits/{id:[0-9]+}/streak", s.handleStreak).Methods(http.MethodGet)
	api.HandleFunc("/completions", s.handleListCompletions).Methods(http.MethodGet)
	api.HandleFunc("/board", s.handleBoard).Methods(http.MethodGet)

	cors := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins(s.cfg.AllowedOrigins),
		gorillaHandlers.AllowedMethods([]string{"GET", "POST", "DELETE", "OPTIONS"}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", constants.RequestIDHeader}),
		gorillaHandlers.ExposedHeaders([]string{constants.RequestIDHeader}),
	)
	recovery := gorillaHandlers.RecoveryHandler(
		gorillaHandlers.RecoveryLogger(recoveryLogger{}),
	)
	return recovery(cors(r))
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully, waiting up to ShutdownTimeout for in-flight requests.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.handler,
		ReadTimeout:  constants.ReadTimeout,
		WriteTimeout: constants.WriteTimeout,
		IdleTimeout:  constants.IdleTimeout,
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go s.limiter.sweepEvery(sweepCtx, constants.VisitorSweepEvery, constants.VisitorIdleExpiry)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type recoveryLogger struct{}

func (recoveryLogger) Println(v ...interface{}) {
	logger.Error("Recovered from panic in HTTP handler", "panic", fmt.Sprint(v...))
}

func withTimeout(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), constants.RequestTimeout)
}

