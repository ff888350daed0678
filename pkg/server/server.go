// Package server provides the HTTP server for the relay endpoints.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"mercator-hq/callisto/pkg/config"
	"mercator-hq/callisto/pkg/modelpath"
	"mercator-hq/callisto/pkg/relay/handlers"
	"mercator-hq/callisto/pkg/relay/middleware"
	"mercator-hq/callisto/pkg/telemetry/metrics"
	"mercator-hq/callisto/pkg/upstream"
)

// Server is the relay HTTP server.
type Server struct {
	config       *config.Config
	resolver     handlers.PathResolver
	factory      upstream.Factory
	logger       *slog.Logger
	collector    *metrics.Collector
	httpServer   *http.Server
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// NewServer creates a relay server. collector may be nil when metrics are
// disabled.
func NewServer(cfg *config.Config, resolver handlers.PathResolver, factory upstream.Factory, logger *slog.Logger, collector *metrics.Collector) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		config:    cfg,
		resolver:  resolver,
		factory:   factory,
		logger:    logger,
		collector: collector,
	}
}

// Start starts the HTTP server and blocks until shutdown is triggered by a
// signal, context cancellation, or a listener error.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	handler := s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:           s.config.Server.ListenAddress,
		Handler:        handler,
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		IdleTimeout:    s.config.Server.IdleTimeout,
		MaxHeaderBytes: s.config.Server.MaxHeaderBytes,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting relay server", "address", s.config.Server.ListenAddress)

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		s.logger.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}

// Shutdown gracefully shuts down the server, waiting up to the configured
// shutdown timeout for in-flight requests (including open streams) to
// finish.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		s.logger.Info("initiating graceful shutdown", "timeout", s.config.Server.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				s.logger.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("relay server stopped")
	})

	return shutdownErr
}

// IsRunning reports whether the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler returns the configured HTTP handler. Exposed for tests.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}

// setupRoutes configures HTTP routes and the middleware chain.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	var relayMetrics *metrics.RelayMetrics
	if s.collector != nil {
		relayMetrics = s.collector.Relay
	}

	chatHandler := handlers.NewChatHandler(s.resolver, s.factory, s.logger, relayMetrics)
	summarizeHandler := handlers.NewSummarizeHandler(s.resolver, s.factory, s.logger, relayMetrics)
	healthHandler := handlers.NewHealthHandler()
	configHandler := handlers.NewConfigInfoHandler(config.ModelPathFromEnv, s.config.Upstream.DefaultModel)

	mux.Handle("/chat", chatHandler)
	mux.Handle("/summarize", summarizeHandler)
	mux.Handle("/health", healthHandler)
	mux.Handle("/config", configHandler)

	if s.collector != nil && s.config.Telemetry.Metrics.Enabled {
		mux.Handle(s.config.Telemetry.Metrics.Path, s.collector.Handler())
	}

	// Middleware chain, recovery outermost.
	var handler http.Handler = mux
	handler = middleware.CORS(s.corsConfig())(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Logging(s.logger)(handler)
	handler = middleware.Recovery(s.logger)(handler)

	return handler
}

// corsConfig converts the configuration CORS section to the middleware's.
func (s *Server) corsConfig() *middleware.CORSConfig {
	return &middleware.CORSConfig{
		Enabled:        s.config.CORS.Enabled,
		AllowedOrigins: s.config.CORS.AllowedOrigins,
		AllowedMethods: s.config.CORS.AllowedMethods,
		AllowedHeaders: s.config.CORS.AllowedHeaders,
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         s.config.CORS.MaxAge,
	}
}

// Ensure the resolver interface stays satisfied by the production resolver.
var _ handlers.PathResolver = (*modelpath.Resolver)(nil)
