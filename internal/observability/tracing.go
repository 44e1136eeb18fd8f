package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// TracingConfig holds configuration for tracing.
type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
	Environment string `mapstructure:"environment"`
}

// Tracing wraps an OpenTelemetry tracer. With no SDK provider installed the
// global tracer is a no-op.
type Tracing struct {
	config TracingConfig
	logger *zap.Logger
	tracer trace.Tracer
}

// NewTracing creates a new tracing instance.
func NewTracing(config TracingConfig, logger *zap.Logger) *Tracing {
	if config.Enabled {
		logger.Info("Tracing enabled", zap.String("service", config.ServiceName))
	}

	return &Tracing{
		config: config,
		logger: logger,
		tracer: otel.Tracer(config.ServiceName),
	}
}

// StartSpan starts a new span for the given operation.
func (t *Tracing) StartSpan(ctx context.Context, operationName string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, operationName, opts...)
}

// SetAttributes sets attributes on the current span.
func (t *Tracing) SetAttributes(ctx context.Context, attributes map[string]string) {
	span := trace.SpanFromContext(ctx)

	otelAttrs := make([]attribute.KeyValue, 0, len(attributes))
	for k, v := range attributes {
		otelAttrs = append(otelAttrs, attribute.String(k, v))
	}

	span.SetAttributes(otelAttrs...)
}

// RecordError records an error on the current span and marks it failed.
func (t *Tracing) RecordError(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// IsEnabled returns true if tracing is enabled.
func (t *Tracing) IsEnabled() bool {
	return t.config.Enabled
}
