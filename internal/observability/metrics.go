package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	otelprometheus "go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

// MetricsConfig holds configuration for metrics collection.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port"`
	Path    string `mapstructure:"path"`
}

// Metrics provides Prometheus metrics for the service.
type Metrics struct {
	config   MetricsConfig
	logger   *zap.Logger
	registry *prometheus.Registry
	exporter *otelprometheus.Exporter
	provider *metric.MeterProvider

	// Request metrics
	requestsTotal    *prometheus.CounterVec
	requestsDuration *prometheus.HistogramVec

	// Chat metrics
	candidateAttempts *prometheus.CounterVec
	candidateLatency  *prometheus.HistogramVec
	resolutions       *prometheus.CounterVec

	// Feed metrics
	feedFetches    *prometheus.CounterVec
	articlesServed otelmetric.Int64Counter

	// Cache metrics
	cacheHits   *prometheus.CounterVec
	cacheMisses *prometheus.CounterVec
}

// NewMetrics creates a new metrics instance on a private registry.
func NewMetrics(config MetricsConfig, logger *zap.Logger) (*Metrics, error) {
	registry := prometheus.NewRegistry()

	exporter, err := otelprometheus.New(otelprometheus.WithRegisterer(registry))
	if err != nil {
		return nil, err
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))

	m := &Metrics{
		config:   config,
		logger:   logger,
		registry: registry,
		exporter: exporter,
		provider: provider,
	}

	if err := m.initMetrics(); err != nil {
		return nil, err
	}

	return m, nil
}

// initMetrics initializes all Prometheus metrics.
func (m *Metrics) initMetrics() error {
	m.requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_requests_total",
			Help: "Total number of requests processed",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	m.requestsDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "folio_request_duration_seconds",
			Help:    "Request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	m.candidateAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_candidate_attempts_total",
			Help: "Inference candidate attempts by outcome",
		},
		[]string{"model", "outcome"},
	)

	m.candidateLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "folio_candidate_latency_seconds",
			Help:    "Inference candidate response latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"model"},
	)

	m.resolutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_chat_resolutions_total",
			Help: "Chat replies by provider and the strategy that produced them",
		},
		[]string{"provider", "strategy"},
	)

	m.feedFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_feed_fetches_total",
			Help: "RSS feed fetches by result",
		},
		[]string{"result"},
	)

	m.cacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"},
	)

	m.cacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	collectors := []prometheus.Collector{
		m.requestsTotal,
		m.requestsDuration,
		m.candidateAttempts,
		m.candidateLatency,
		m.resolutions,
		m.feedFetches,
		m.cacheHits,
		m.cacheMisses,
	}

	for _, c := range collectors {
		if err := m.registry.Register(c); err != nil {
			return err
		}
	}

	articles, err := m.provider.Meter("folio").Int64Counter(
		"folio.feed.articles_served",
		otelmetric.WithDescription("Articles returned by the feed endpoint"),
	)
	if err != nil {
		return err
	}
	m.articlesServed = articles

	return nil
}

// RecordRequest records metrics for an HTTP request.
func (m *Metrics) RecordRequest(method, endpoint string, statusCode int, duration time.Duration) {
	m.requestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	m.requestsDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordCandidateAttempt records one inference call and how it ended.
func (m *Metrics) RecordCandidateAttempt(model, outcome string, duration time.Duration) {
	m.candidateAttempts.WithLabelValues(model, outcome).Inc()
	m.candidateLatency.WithLabelValues(model).Observe(duration.Seconds())
}

// RecordResolution records which strategy produced a chat reply.
func (m *Metrics) RecordResolution(provider, strategy string) {
	m.resolutions.WithLabelValues(provider, strategy).Inc()
}

// RecordFeedFetch records an RSS fetch result.
func (m *Metrics) RecordFeedFetch(result string) {
	m.feedFetches.WithLabelValues(result).Inc()
}

// RecordArticlesServed adds to the articles-served counter.
func (m *Metrics) RecordArticlesServed(ctx context.Context, category string, n int) {
	m.articlesServed.Add(ctx, int64(n), otelmetric.WithAttributes(attribute.String("category", category)))
}

// RecordCacheHit records a cache hit.
func (m *Metrics) RecordCacheHit(cacheType string) {
	m.cacheHits.WithLabelValues(cacheType).Inc()
}

// RecordCacheMiss records a cache miss.
func (m *Metrics) RecordCacheMiss(cacheType string) {
	m.cacheMisses.WithLabelValues(cacheType).Inc()
}

// ResolutionCounter returns one provider/strategy series.
func (m *Metrics) ResolutionCounter(provider, strategy string) prometheus.Counter {
	return m.resolutions.WithLabelValues(provider, strategy)
}

// CandidateCounter returns one model/outcome series.
func (m *Metrics) CandidateCounter(model, outcome string) prometheus.Counter {
	return m.candidateAttempts.WithLabelValues(model, outcome)
}

// FeedFetchCounter returns one feed fetch result series.
func (m *Metrics) FeedFetchCounter(result string) prometheus.Counter {
	return m.feedFetches.WithLabelValues(result)
}

// GetRegistry returns the Prometheus registry.
func (m *Metrics) GetRegistry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// StartMetricsServer serves metrics until ctx is cancelled.
func (m *Metrics) StartMetricsServer(ctx context.Context) error {
	if !m.config.Enabled {
		m.logger.Info("Metrics server disabled")
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle(m.config.Path, m.Handler())

	server := &http.Server{
		Addr:    ":" + strconv.Itoa(m.config.Port),
		Handler: mux,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			m.logger.Error("Metrics server error", zap.Error(err))
		}
	}()

	m.logger.Info("Metrics server started",
		zap.Int("port", m.config.Port),
		zap.String("path", m.config.Path))

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		m.logger.Error("Error shutting down metrics server", zap.Error(err))
	}

	return m.provider.Shutdown(shutdownCtx)
}
