package monitoring

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

// TracingConfig holds tracing configuration
type TracingConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	OTLPEndpoint   string
	SamplingRate   float64
	Enabled        bool
}

// TracingProvider installs the global OpenTelemetry tracer provider.
// When disabled the global no-op provider stays in place.
type TracingProvider struct {
	provider *sdktrace.TracerProvider
	logger   *zap.Logger
}

// NewTracingProvider creates a new tracing provider exporting over OTLP/HTTP
func NewTracingProvider(config TracingConfig, logger *zap.Logger) (*TracingProvider, error) {
	logger = logger.Named("tracing")
	if !config.Enabled {
		logger.Info("Tracing is disabled")
		return &TracingProvider{logger: logger}, nil
	}

	opts := []otlptracehttp.Option{otlptracehttp.WithInsecure()}
	if config.OTLPEndpoint != "" {
		opts = append(opts, otlptracehttp.WithEndpoint(config.OTLPEndpoint))
	}
	exporter, err := otlptracehttp.New(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(
		attribute.String("service.name", config.ServiceName),
		attribute.String("service.version", config.ServiceVersion),
		attribute.String("deployment.environment", config.Environment),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(config.SamplingRate))),
	)

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Info("Tracing initialized",
		zap.String("endpoint", config.OTLPEndpoint),
		zap.Float64("sampling_rate", config.SamplingRate))

	return &TracingProvider{provider: provider, logger: logger}, nil
}

// Shutdown flushes pending spans
func (t *TracingProvider) Shutdown(ctx context.Context) error {
	if t.provider == nil {
		return nil
	}
	return t.provider.Shutdown(ctx)
}
