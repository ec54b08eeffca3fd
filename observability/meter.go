package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/reducekit/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (development, staging, production).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "dev",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the instruments recorded by pipeline runs.
type Metrics struct {
	runTotal       metric.Int64Counter
	runDuration    metric.Float64Histogram
	stepTotal      metric.Int64Counter
	stepChanged    metric.Int64Counter
	unmatchedTotal metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	runTotal, err := meter.Int64Counter("pipeline.run.total",
		metric.WithDescription("Total number of pipeline runs"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.run.total counter: %w", err)
	}

	runDuration, err := meter.Float64Histogram("pipeline.run.duration",
		metric.WithDescription("Duration of pipeline runs in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.run.duration histogram: %w", err)
	}

	stepTotal, err := meter.Int64Counter("reducer.step.total",
		metric.WithDescription("Per-entity reducer steps by action type and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating reducer.step.total counter: %w", err)
	}

	stepChanged, err := meter.Int64Counter("reducer.step.changed",
		metric.WithDescription("Reducer steps that produced a different entity"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating reducer.step.changed counter: %w", err)
	}

	unmatchedTotal, err := meter.Int64Counter("reducer.action.unmatched",
		metric.WithDescription("Actions that matched no entity"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating reducer.action.unmatched counter: %w", err)
	}

	return &Metrics{
		runTotal:       runTotal,
		runDuration:    runDuration,
		stepTotal:      stepTotal,
		stepChanged:    stepChanged,
		unmatchedTotal: unmatchedTotal,
	}, nil
}

// RecordRun records a completed pipeline run.
func (m *Metrics) RecordRun(ctx context.Context, registry, status string, duration time.Duration) {
	m.runTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("registry", registry),
		attribute.String("status", status),
	))
	m.runDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("registry", registry),
	))
}

// RecordStep records one reducer step against one entity.
func (m *Metrics) RecordStep(ctx context.Context, actionType string, changed bool) {
	attrs := metric.WithAttributes(attribute.String("action_type", actionType))
	m.stepTotal.Add(ctx, 1, attrs)
	if changed {
		m.stepChanged.Add(ctx, 1, attrs)
	}
}

// RecordUnmatched records an action that targeted no entity in the collection.
func (m *Metrics) RecordUnmatched(ctx context.Context, actionType string) {
	m.unmatchedTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("action_type", actionType),
	))
}
