package infrastructure

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planviz/internal/config"
)

func TestTelemetryWritesMetricsAndSpans(t *testing.T) {
	dir := t.TempDir()
	cfg := config.TelemetryConfig{
		ServiceName: "planviz-test",
		MetricsFile: filepath.Join(dir, "metrics", "planviz.prom"),
		TraceFile:   filepath.Join(dir, "spans.json"),
	}

	tel, err := InitializeTelemetry(cfg, nil)
	require.NoError(t, err)

	ctx := context.Background()
	_, span := tel.Tracer.Start(ctx, "chart.heatmap")
	span.End()

	tel.Metrics.RecordChart(ctx, "heatmap", "rendered", 250*time.Millisecond)
	tel.Metrics.RecordMatrix(ctx, 3, 42)

	families, err := tel.Registry().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)

	require.NoError(t, tel.Shutdown(ctx))

	metrics, err := os.ReadFile(cfg.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "planviz_charts")
	assert.Contains(t, string(metrics), "planviz_heatmap_columns")

	spans, err := os.ReadFile(cfg.TraceFile)
	require.NoError(t, err)
	assert.Contains(t, string(spans), "chart.heatmap")
}

func TestTelemetryDisabledOutputs(t *testing.T) {
	tel, err := InitializeTelemetry(config.TelemetryConfig{ServiceName: "planviz"}, nil)
	require.NoError(t, err)

	ctx := context.Background()
	_, span := tel.Tracer.Start(ctx, "noop")
	span.End()
	tel.Metrics.RecordChart(ctx, "fitness", "failed", time.Millisecond)

	assert.NoError(t, tel.Shutdown(ctx))
}

func TestNilRunMetricsIsSafe(t *testing.T) {
	var m *RunMetrics
	m.RecordChart(context.Background(), "days", "skipped", 0)
	m.RecordMatrix(context.Background(), 0, 0)
}
