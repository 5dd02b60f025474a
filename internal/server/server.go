package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"loara/internal/config"
	"loara/internal/database"
	"loara/internal/handlers"
	"loara/internal/logger"
	"loara/internal/metrics"
	"loara/internal/middleware"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

type Server struct {
	config  *config.Config
	db      *sql.DB
	router  *mux.Router
	metrics *metrics.Metrics
	handler http.Handler
}

// New wires routes and middleware. db may be nil when no database is
// configured.
func New(cfg *config.Config, db *sql.DB) (*Server, error) {
	s := &Server{
		config:  cfg,
		db:      db,
		router:  mux.NewRouter(),
		metrics: metrics.New(),
	}

	if err := s.setupRoutes(); err != nil {
		return nil, err
	}

	// Applied outside the router so unmatched requests and preflights
	// are logged and answered too
	var h http.Handler = s.router
	h = middleware.CORS(cfg.CORSAllowedOrigins)(h)
	h = middleware.Recovery(h)
	h = middleware.Logger(h)
	h = middleware.RequestID(h)
	s.handler = h

	return s, nil
}

func (s *Server) setupRoutes() error {
	s.router.NotFoundHandler = http.HandlerFunc(handlers.NotFound)
	s.router.MethodNotAllowedHandler = http.HandlerFunc(handlers.MethodNotAllowed)
	s.router.Use(middleware.Metrics(s.metrics))

	homeHandler, err := handlers.NewHomeHandler()
	if err != nil {
		return err
	}
	s.router.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet, http.MethodHead)

	// Health check endpoints
	s.router.HandleFunc("/health", handlers.HealthCheck).Methods(http.MethodGet, http.MethodHead)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", handlers.HealthCheck).Methods(http.MethodGet, http.MethodHead)

	var checkers []handlers.Checker
	if s.db != nil {
		checkers = append(checkers, database.Pinger{DB: s.db})
	}
	api.HandleFunc("/ready", handlers.NewReadyHandler(checkers...).Ready).Methods(http.MethodGet)

	if s.config.MetricsEnabled {
		s.router.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	}

	return nil
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) Metrics() *metrics.Metrics {
	return s.metrics
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%s", s.config.Port))
	if err != nil {
		return fmt.Errorf("error listening on port %s: %w", s.config.Port, err)
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	handler := s.handler
	if s.config.H2CEnabled {
		handler = h2c.NewHandler(handler, &http2.Server{})
	}

	srv := &http.Server{
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{
			"addr": ln.Addr().String(),
			"env":  s.config.Environment,
			"h2c":  s.config.H2CEnabled,
		}).Info("server listening")
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

	logger.Log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error during shutdown: %w", err)
	}
	return nil
}
