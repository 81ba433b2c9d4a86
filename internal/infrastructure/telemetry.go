package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"planviz/internal/config"
)

const (
	ServiceVersion = "1.0.0"
	MeterName      = "planviz"
)

// Telemetry holds the tracing and metric providers for one run.
// Spans go to TraceFile and metrics to MetricsFile when those are configured;
// otherwise both are collected in memory and discarded.
type Telemetry struct {
	Tracer  trace.Tracer
	Meter   metric.Meter
	Metrics *RunMetrics

	registry       *prometheus.Registry
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	traceFile      *os.File
	metricsFile    string
	logger         *slog.Logger
}

// InitializeTelemetry builds the providers described by cfg.
func InitializeTelemetry(cfg config.TelemetryConfig, logger *slog.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = GetLogger()
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(ServiceVersion),
	)

	t := &Telemetry{
		registry:    prometheus.NewRegistry(),
		metricsFile: cfg.MetricsFile,
		logger:      logger,
	}

	if err := t.initializeTracing(cfg, res); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if err := t.initializeMetrics(res); err != nil {
		t.closeTraceFile()
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	logger.Debug("Telemetry initialized",
		slog.String("service", cfg.ServiceName),
		slog.String("trace_file", cfg.TraceFile),
		slog.String("metrics_file", cfg.MetricsFile))

	return t, nil
}

// initializeTracing sets up span export to the trace file, or a no-op tracer
func (t *Telemetry) initializeTracing(cfg config.TelemetryConfig, res *resource.Resource) error {
	if cfg.TraceFile == "" {
		t.Tracer = noop.NewTracerProvider().Tracer(MeterName)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.TraceFile), 0755); err != nil {
		return fmt.Errorf("failed to create trace directory: %w", err)
	}
	f, err := os.OpenFile(cfg.TraceFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(f))
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	// Synchronous export: the run is short and must not lose spans on exit.
	t.tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithResource(res),
	)
	t.traceFile = f
	t.Tracer = t.tracerProvider.Tracer(MeterName, trace.WithInstrumentationVersion(ServiceVersion))
	return nil
}

// initializeMetrics routes otel instruments into a private prometheus registry
func (t *Telemetry) initializeMetrics(res *resource.Resource) error {
	exporter, err := otelprom.New(
		otelprom.WithRegisterer(t.registry),
		otelprom.WithoutTargetInfo(),
		otelprom.WithoutScopeInfo(),
	)
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	t.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	t.Meter = t.meterProvider.Meter(MeterName, metric.WithInstrumentationVersion(ServiceVersion))

	t.Metrics, err = NewRunMetrics(t.Meter)
	return err
}

// Registry exposes the prometheus registry backing the run metrics.
func (t *Telemetry) Registry() *prometheus.Registry {
	return t.registry
}

// Shutdown writes the metrics textfile, flushes spans and releases files.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error

	if t.metricsFile != "" {
		if err := os.MkdirAll(filepath.Dir(t.metricsFile), 0755); err != nil {
			errs = append(errs, fmt.Errorf("failed to create metrics directory: %w", err))
		} else if err := prometheus.WriteToTextfile(t.metricsFile, t.registry); err != nil {
			errs = append(errs, fmt.Errorf("failed to write metrics file: %w", err))
		} else {
			t.logger.Info("Run metrics written", slog.String("path", t.metricsFile))
		}
	}

	if t.meterProvider != nil {
		if err := t.meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}
	if t.tracerProvider != nil {
		if err := t.tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}
	if err := t.closeTraceFile(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func (t *Telemetry) closeTraceFile() error {
	if t.traceFile == nil {
		return nil
	}
	err := t.traceFile.Close()
	t.traceFile = nil
	return err
}

// RunMetrics are the instruments recorded by one run.
type RunMetrics struct {
	chartsTotal   metric.Int64Counter
	chartDuration metric.Float64Histogram
	matrixRows    metric.Int64Gauge
	matrixColumns metric.Int64Gauge
}

// NewRunMetrics creates the run instruments on meter.
func NewRunMetrics(meter metric.Meter) (*RunMetrics, error) {
	chartsTotal, err := meter.Int64Counter(
		"planviz_charts",
		metric.WithDescription("Charts attempted, by chart and outcome"),
	)
	if err != nil {
		return nil, err
	}

	chartDuration, err := meter.Float64Histogram(
		"planviz_chart_duration",
		metric.WithDescription("Time spent producing one chart"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	matrixRows, err := meter.Int64Gauge(
		"planviz_heatmap_rows",
		metric.WithDescription("Product types left in the heatmap after compaction"),
	)
	if err != nil {
		return nil, err
	}

	matrixColumns, err := meter.Int64Gauge(
		"planviz_heatmap_columns",
		metric.WithDescription("Dates left in the heatmap after compaction"),
	)
	if err != nil {
		return nil, err
	}

	return &RunMetrics{
		chartsTotal:   chartsTotal,
		chartDuration: chartDuration,
		matrixRows:    matrixRows,
		matrixColumns: matrixColumns,
	}, nil
}

// RecordChart counts one chart attempt with its outcome.
func (m *RunMetrics) RecordChart(ctx context.Context, chart, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("chart", chart),
		attribute.String("status", status),
	)
	m.chartsTotal.Add(ctx, 1, attrs)
	m.chartDuration.Record(ctx, elapsed.Seconds(), attrs)
}

// RecordMatrix records the compacted heatmap dimensions.
func (m *RunMetrics) RecordMatrix(ctx context.Context, rows, columns int) {
	if m == nil {
		return
	}
	m.matrixRows.Record(ctx, int64(rows))
	m.matrixColumns.Record(ctx, int64(columns))
}
