// Package server wires routes, middleware and shared state into a runnable
// HTTP server. Binding and running are separate: New returns a server bound
// to an existing listener without serving, so callers decide when and where
// it runs.
package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mailcrate/mailcrate/internal/config"
	"github.com/mailcrate/mailcrate/internal/handlers"
	"github.com/mailcrate/mailcrate/internal/logging"
	"github.com/mailcrate/mailcrate/internal/middleware"
)

// Per-IP rate limiting defaults. Generous: the limiter exists to stop abuse,
// not to shape legitimate traffic.
const (
	rateLimitPerSecond = 100
	rateLimitBurst     = 200
)

// Server is the bound-but-not-running HTTP service.
type Server struct {
	httpServer *http.Server
	listener   net.Listener
}

// New builds the route table and middleware chain on top of the given
// listener. The pool is shared, read-only application state; the chain is
// request id → access log → panic recovery → rate limit.
func New(listener net.Listener, pool *pgxpool.Pool, logger *logging.Logger, settings config.ServerSettings) *Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logging(logger))
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.RateLimit(rateLimitPerSecond, rateLimitBurst))

	subscriptions := handlers.NewSubscriptionHandler(logger, pool)

	router.Get("/health_check", handlers.HealthCheck)
	router.Get("/greet", handlers.Greet)
	router.Get("/greet/{name}", handlers.Greet)
	router.Post("/subscription", subscriptions.Subscribe)

	httpServer := &http.Server{
		Handler:      router,
		ReadTimeout:  secondsOrZero(settings.ReadTimeout),
		WriteTimeout: secondsOrZero(settings.WriteTimeout),
		IdleTimeout:  secondsOrZero(settings.IdleTimeout),
	}

	return &Server{httpServer: httpServer, listener: listener}
}

// Start serves requests on the bound listener until Shutdown or a fatal
// error. Like http.Server.Serve it reports ErrServerClosed after a clean
// shutdown.
func (s *Server) Start() error {
	return s.httpServer.Serve(s.listener)
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Addr is the listener's resolved address, useful when bound to port 0.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

func secondsOrZero(seconds int) time.Duration {
	if seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
