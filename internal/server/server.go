package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/folio-dev/folio/internal/cache"
	"github.com/folio-dev/folio/internal/canned"
	"github.com/folio-dev/folio/internal/feed"
	"github.com/folio-dev/folio/internal/observability"
	"github.com/folio-dev/folio/internal/providers"
	"github.com/folio-dev/folio/internal/router"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Server represents the HTTP server behind the portfolio site.
type Server struct {
	config      *Config
	router      *chi.Mux
	resolver    *router.Resolver
	inference   *providers.InferenceClient
	feed        *feed.Fetcher
	cache       cache.CacheClient
	logger      *zap.Logger
	metrics     *observability.Metrics
	tracing     *observability.Tracing
	server      *http.Server
	startedAt   time.Time
	stopMetrics context.CancelFunc
}

// Config holds the server configuration.
type Config struct {
	Server struct {
		Port            int           `mapstructure:"port"`
		ReadTimeout     time.Duration `mapstructure:"read_timeout"`
		WriteTimeout    time.Duration `mapstructure:"write_timeout"`
		IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
		AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	} `mapstructure:"server"`

	Inference providers.ProviderConfig `mapstructure:"inference"`

	Assistant struct {
		Persona string `mapstructure:"persona"`
	} `mapstructure:"assistant"`

	Feed feed.Config `mapstructure:"feed"`

	Cache cache.CacheConfig `mapstructure:"cache"`

	Observability struct {
		Logging observability.LoggerConfig  `mapstructure:"logging"`
		Metrics observability.MetricsConfig `mapstructure:"metrics"`
		Tracing observability.TracingConfig `mapstructure:"tracing"`
	} `mapstructure:"observability"`

	// Version is reported by /health. It is set from build info, not config.
	Version string `mapstructure:"-"`
}

// NewServer creates a new server instance.
func NewServer(config *Config) (*Server, error) {
	// Initialize logger
	logger, err := observability.NewLogger(config.Observability.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	// Initialize metrics
	metrics, err := observability.NewMetrics(config.Observability.Metrics, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	// Initialize tracing
	tracing := observability.NewTracing(config.Observability.Tracing, logger)

	// Initialize cache
	cacheClient, err := cache.NewCache(config.Cache)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}

	// Initialize providers
	bank := canned.Default()
	inference := providers.NewInferenceClient(config.Inference)
	live := providers.NewHuggingFaceProvider(providers.HuggingFaceOptions{
		Generator:   inference,
		Models:      config.Inference.Models,
		Persona:     config.Assistant.Persona,
		Credentials: providers.StaticCredential(config.Inference.APIKey),
		Bank:        bank,
		Logger:      logger,
		Metrics:     metrics,
		Tracing:     tracing,
	})
	picker := canned.RandomPicker{}

	resolver, err := router.NewResolver(router.Options{
		Live:      live,
		OpenAI:    providers.NewOpenAIProvider(bank, picker),
		Anthropic: providers.NewAnthropicProvider(bank, picker),
		Bank:      bank,
		Picker:    picker,
		Logger:    logger,
		Metrics:   metrics,
		Tracing:   tracing,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize resolver: %w", err)
	}

	if !config.Inference.HasAPIKey() {
		logger.Warn("No inference API key configured, requests will be unauthenticated")
	}

	// Create server instance
	server := &Server{
		config:    config,
		router:    chi.NewRouter(),
		resolver:  resolver,
		inference: inference,
		feed:      feed.NewFetcher(config.Feed, cacheClient, logger, metrics, tracing),
		cache:     cacheClient,
		logger:    logger,
		metrics:   metrics,
		tracing:   tracing,
		startedAt: time.Now(),
	}

	// Setup routes and middleware
	server.setupRoutes()

	// Create HTTP server
	server.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", config.Server.Port),
		Handler:      server.router,
		ReadTimeout:  config.Server.ReadTimeout,
		WriteTimeout: config.Server.WriteTimeout,
		IdleTimeout:  config.Server.IdleTimeout,
	}

	return server, nil
}

// setupRoutes configures the HTTP routes and middleware.
func (s *Server) setupRoutes() {
	origins := s.config.Server.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	// Add middleware
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.observabilityMiddleware)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	// Health check endpoint
	s.router.Get("/health", s.handleHealthCheck)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/ai", s.handleAI)
		r.Get("/ai/providers", s.handleGetProviders)
		r.Get("/medium", s.handleGetArticles)
	})
}

// requestLogger logs one line per request through zap.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Info("Request handled",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)))
	})
}

// observabilityMiddleware adds a span and request metrics to every request.
func (s *Server) observabilityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ctx, span := s.tracing.StartSpan(r.Context(), "http_request")
		defer span.End()

		s.tracing.SetAttributes(ctx, map[string]string{
			"http.method":     r.Method,
			"http.url":        r.URL.String(),
			"http.user_agent": r.UserAgent(),
		})

		wrappedWriter := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrappedWriter, r.WithContext(ctx))

		// Labelled by route pattern, not raw path.
		endpoint := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				endpoint = pattern
			}
		}

		duration := time.Since(start)
		s.metrics.RecordRequest(r.Method, endpoint, wrappedWriter.statusCode, duration)

		s.tracing.SetAttributes(ctx, map[string]string{
			"http.route":       endpoint,
			"http.status_code": fmt.Sprintf("%d", wrappedWriter.statusCode),
			"http.duration_ms": fmt.Sprintf("%d", duration.Milliseconds()),
		})
	})
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Start starts the server and begins accepting requests.
func (s *Server) Start() error {
	if s.config.Observability.Metrics.Enabled {
		metricsCtx, cancel := context.WithCancel(context.Background())
		s.stopMetrics = cancel
		go func() {
			if err := s.metrics.StartMetricsServer(metricsCtx); err != nil {
				s.logger.Error("Metrics server stopped with error", zap.Error(err))
			}
		}()
	}

	s.logger.Info("Starting folio server",
		zap.Int("port", s.config.Server.Port),
		zap.Strings("models", s.config.Inference.Models),
		zap.Bool("feed_configured", s.config.Feed.RSSURL != ""))

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("Server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	s.logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.Error("Error during server shutdown", zap.Error(err))
		return err
	}

	if s.stopMetrics != nil {
		s.stopMetrics()
	}

	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			s.logger.Error("Error closing cache", zap.Error(err))
		}
	}

	if err := s.inference.Close(); err != nil {
		s.logger.Error("Error closing inference client", zap.Error(err))
	}

	s.logger.Info("Server stopped")
	observability.SyncLogger(s.logger)
	return nil
}

// WaitForShutdown waits for shutdown signals and gracefully stops the server.
func (s *Server) WaitForShutdown() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	s.logger.Info("Received shutdown signal")
	s.Stop()
}

// GetRouter returns the underlying chi router for testing purposes.
func (s *Server) GetRouter() *chi.Mux {
	return s.router
}

// GetMetrics returns the metrics instance for testing purposes.
func (s *Server) GetMetrics() *observability.Metrics {
	return s.metrics
}
