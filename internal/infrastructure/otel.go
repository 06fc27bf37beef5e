package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"olistcli/internal/config"
)

const (
	ServiceName    = "olist-features"
	ServiceVersion = "1.0.0"
	MeterName      = "olistcli"
)

// Telemetry holds the tracing and metrics providers of one batch run.
// Disabled parts are backed by no-op implementations, so callers never nil-check.
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Registry       *promclient.Registry
	Tracer         trace.Tracer
	Meter          metric.Meter
	Metrics        *PipelineMetrics
	Runtime        *RuntimeMetrics

	metricsFile string
	logger      *slog.Logger
}

// InitializeTelemetry sets up tracing and metrics from configuration
func InitializeTelemetry(ctx context.Context, cfg config.TelemetryConfig, logger *slog.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = slog.Default()
	}

	t := &Telemetry{
		Tracer:      tracenoop.NewTracerProvider().Tracer(MeterName),
		Meter:       metricnoop.NewMeterProvider().Meter(MeterName),
		metricsFile: cfg.MetricsFile,
		logger:      logger,
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(ServiceVersion),
	)

	if cfg.EnableTracing && cfg.TraceExporter != "none" {
		if err := t.initializeTracing(cfg, res); err != nil {
			return nil, fmt.Errorf("failed to initialize tracing: %w", err)
		}
	}

	if cfg.EnableMetrics {
		if err := t.initializeMetrics(res); err != nil {
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}
	}

	metrics, err := NewPipelineMetrics(t.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}
	t.Metrics = metrics

	runtimeMetrics, err := NewRuntimeMetrics(t.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create runtime metrics: %w", err)
	}
	t.Runtime = runtimeMetrics

	logger.InfoContext(ctx, "telemetry initialized",
		slog.Bool("tracing_enabled", t.TracerProvider != nil),
		slog.Bool("metrics_enabled", t.MeterProvider != nil),
		slog.String("metrics_file", cfg.MetricsFile))

	return t, nil
}

// initializeTracing sets up the stdout span exporter
func (t *Telemetry) initializeTracing(cfg config.TelemetryConfig, res *resource.Resource) error {
	switch cfg.TraceExporter {
	case "stdout":
		// stdout may carry exported data
		exporter, err := stdouttrace.New(
			stdouttrace.WithWriter(os.Stderr),
			stdouttrace.WithPrettyPrint(),
		)
		if err != nil {
			return fmt.Errorf("failed to create trace exporter: %w", err)
		}
		t.TracerProvider = sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(res),
		)
		t.Tracer = t.TracerProvider.Tracer(MeterName, trace.WithInstrumentationVersion(ServiceVersion))
		return nil
	default:
		return fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}
}

// initializeMetrics wires the otel prometheus exporter to a private registry
func (t *Telemetry) initializeMetrics(res *resource.Resource) error {
	t.Registry = promclient.NewRegistry()

	exporter, err := prometheus.New(prometheus.WithRegisterer(t.Registry))
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	t.MeterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	t.Meter = t.MeterProvider.Meter(MeterName, metric.WithInstrumentationVersion(ServiceVersion))
	return nil
}

// WriteMetrics dumps the registry in the text exposition format, the way
// node_exporter's textfile collector expects batch jobs to publish.
func (t *Telemetry) WriteMetrics(path string) error {
	if t.Registry == nil {
		return nil
	}
	if err := promclient.WriteToTextfile(path, t.Registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile %s: %w", path, err)
	}
	return nil
}

// Shutdown flushes metrics to the configured textfile and stops the providers
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error

	if t.metricsFile != "" {
		if err := t.WriteMetrics(t.metricsFile); err != nil {
			errs = append(errs, err)
		}
	}

	if t.TracerProvider != nil {
		if err := t.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}

	if t.MeterProvider != nil {
		if err := t.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("telemetry shutdown errors: %v", errs)
	}
	return nil
}

// PipelineMetrics are the instruments recorded by the loader and feature builder
type PipelineMetrics struct {
	TablesLoaded       metric.Int64Counter
	RowsLoaded         metric.Int64Counter
	DerivationDuration metric.Float64Histogram
	DerivationRows     metric.Int64Gauge
	TrainingRows       metric.Int64Gauge
}

// NewPipelineMetrics creates the pipeline instruments on meter
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	tablesLoaded, err := meter.Int64Counter(
		"olist_tables_loaded",
		metric.WithDescription("Number of CSV tables loaded"),
	)
	if err != nil {
		return nil, err
	}

	rowsLoaded, err := meter.Int64Counter(
		"olist_rows_loaded",
		metric.WithDescription("Number of data rows loaded per table"),
	)
	if err != nil {
		return nil, err
	}

	derivationDuration, err := meter.Float64Histogram(
		"olist_derivation_duration",
		metric.WithDescription("Feature derivation duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	derivationRows, err := meter.Int64Gauge(
		"olist_derivation_rows",
		metric.WithDescription("Rows produced by the last run of each derivation"),
	)
	if err != nil {
		return nil, err
	}

	trainingRows, err := meter.Int64Gauge(
		"olist_training_rows",
		metric.WithDescription("Rows in the final training table"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		TablesLoaded:       tablesLoaded,
		RowsLoaded:         rowsLoaded,
		DerivationDuration: derivationDuration,
		DerivationRows:     derivationRows,
		TrainingRows:       trainingRows,
	}, nil
}

// RecordTable records one loaded table
func (m *PipelineMetrics) RecordTable(ctx context.Context, table string, rows int) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("table", table))
	m.TablesLoaded.Add(ctx, 1)
	m.RowsLoaded.Add(ctx, int64(rows), attrs)
}

// RecordDerivation records the outcome of one feature derivation
func (m *PipelineMetrics) RecordDerivation(ctx context.Context, derivation string, rows int, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("derivation", derivation))
	m.DerivationDuration.Record(ctx, elapsed.Seconds(), attrs)
	m.DerivationRows.Record(ctx, int64(rows), attrs)
}

// RecordTraining records the size of the final training table
func (m *PipelineMetrics) RecordTraining(ctx context.Context, rows int) {
	if m == nil {
		return
	}
	m.TrainingRows.Record(ctx, int64(rows))
}

// StartSpan starts a span on tracer, falling back to a no-op tracer
func StartSpan(ctx context.Context, tracer trace.Tracer, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if tracer == nil {
		tracer = tracenoop.NewTracerProvider().Tracer(MeterName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// EndSpan records err on span, if any, and ends it
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
