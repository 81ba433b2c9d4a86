package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"planviz/internal/config"
	apperrors "planviz/internal/errors"
	"planviz/internal/exporter"
	"planviz/internal/heatmap"
	"planviz/internal/infrastructure"
	"planviz/internal/planload"
	"planviz/internal/progress"
	"planviz/internal/render"
	"planviz/internal/ticks"
	"planviz/internal/validation"
)

// Runner produces every chart for one results directory.
type Runner struct {
	cfg       *config.Config
	paths     *config.Paths
	validator *validation.FileValidator
	loader    *planload.Loader
	renderer  *render.Renderer
	exporter  *exporter.MatrixExporter
	tracer    trace.Tracer
	metrics   *infrastructure.RunMetrics
	logger    *slog.Logger
}

// NewRunner wires a runner from cfg. tel may be nil, in which case nothing
// is traced or measured.
func NewRunner(cfg *config.Config, tel *infrastructure.Telemetry, logger *slog.Logger) (*Runner, error) {
	logger = infrastructure.WithComponent(logger, "pipeline")

	paths, err := config.GetPaths(cfg.Paths)
	if err != nil {
		return nil, apperrors.NewConfigError("invalid paths", err)
	}
	loader, err := planload.NewLoaderFromConfig(cfg.Plan, logger)
	if err != nil {
		return nil, err
	}

	r := &Runner{
		cfg:       cfg,
		paths:     paths,
		validator: validation.NewFileValidator(logger),
		loader:    loader,
		renderer:  render.NewRenderer(render.OptionsFromConfig(cfg.Chart), logger),
		exporter:  exporter.NewMatrixExporter(cfg.Plan.IndexColumn, logger),
		tracer:    noop.NewTracerProvider().Tracer("planviz"),
		logger:    logger,
	}
	if tel != nil {
		r.tracer = tel.Tracer
		r.metrics = tel.Metrics
	}
	return r, nil
}

// Paths returns the resolved file locations of the run.
func (r *Runner) Paths() *config.Paths { return r.paths }

// Run validates the inputs and then attempts every chart in order.
//
// A missing results directory or input file stops the run before any chart
// and is returned as the error. Everything after that is contained per chart
// and reported in the Summary instead.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	ctx = infrastructure.EnsureTraceID(ctx)
	ctx, span := r.tracer.Start(ctx, "planviz.run",
		trace.WithAttributes(attribute.String("results_dir", r.paths.ResultsDir)))
	defer span.End()

	r.paths.LogPathResolution(r.logger)
	if err := r.validator.ValidateInputs(r.paths); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "missing input")
		return nil, err
	}

	summary := &Summary{RunID: infrastructure.GetTraceID(ctx)}

	records, logErr := r.loadProgress(ctx)
	summary.Charts = append(summary.Charts,
		r.chart(ctx, ChartFitness, r.paths.FitnessChart, func(context.Context) error {
			if logErr != nil {
				return logErr
			}
			return r.renderer.FitnessConvergence(records, r.paths.FitnessChart)
		}),
		r.chart(ctx, ChartDays, r.paths.DaysChart, func(context.Context) error {
			if logErr != nil {
				return logErr
			}
			return r.renderer.DaysConvergence(records, r.paths.DaysChart)
		}),
		r.chart(ctx, ChartHeatmap, r.paths.HeatmapChart, func(ctx context.Context) error {
			m, err := r.productionHeatmap(ctx)
			if err != nil {
				return err
			}
			if r.cfg.Export.Matrix {
				summary.Exports = r.exportMatrix(ctx, m)
			}
			return nil
		}),
	)

	if summary.Failed() {
		span.SetStatus(codes.Error, "chart failed")
	}
	r.logger.InfoContext(ctx, "Run finished", slog.Any("charts", summary))
	return summary, nil
}

func (r *Runner) loadProgress(ctx context.Context) ([]progress.Record, error) {
	_, span := r.tracer.Start(ctx, "load.progress")
	defer span.End()

	records, err := progress.Load(r.paths.ProgressCSV)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("generations", len(records)))
	r.logger.InfoContext(ctx, "Loaded iteration log",
		slog.String("path", r.paths.ProgressCSV),
		slog.Int("generations", len(records)))
	return records, nil
}

// productionHeatmap runs load, build, tick planning and render for chart 3.
func (r *Runner) productionHeatmap(ctx context.Context) (*heatmap.Matrix, error) {
	table, err := r.loader.Load(r.paths.PlanCSV)
	if err != nil {
		return nil, err
	}

	m, err := heatmap.Build(table)
	if err != nil {
		return nil, err
	}
	rows, cols := m.Dims()
	r.metrics.RecordMatrix(ctx, rows, cols)

	plan := ticks.PlanWithTarget(cols, r.cfg.Chart.MaxTickLabels)
	r.logger.DebugContext(ctx, "Production matrix built",
		slog.Int("rows", rows),
		slog.Int("columns", cols),
		slog.Int("dropped_rows", len(table.Rows)-rows),
		slog.Int("dropped_columns", len(table.DateColumns())-cols),
		slog.Int("tick_stride", plan.Stride))

	if err := r.renderer.ProductionHeatmap(m, plan, r.paths.HeatmapChart); err != nil {
		return nil, err
	}
	return m, nil
}

func (r *Runner) exportMatrix(ctx context.Context, m *heatmap.Matrix) []ExportResult {
	results := []ExportResult{
		{Path: r.paths.MatrixCSV, Err: r.exporter.WriteCSV(m, r.paths.MatrixCSV)},
		{Path: r.paths.MatrixXLSX, Err: r.exporter.WriteXLSX(m, r.paths.MatrixXLSX)},
	}
	for _, res := range results {
		if res.Err != nil {
			infrastructure.WithError(r.logger, res.Err).ErrorContext(ctx, "Matrix export failed",
				slog.String("path", res.Path))
		}
	}
	return results
}

// chart runs one chart pipeline and turns its outcome into a ChartResult.
// Panics are contained like errors.
func (r *Runner) chart(ctx context.Context, chart Chart, path string, fn func(context.Context) error) (res ChartResult) {
	ctx, span := r.tracer.Start(ctx, "chart."+string(chart),
		trace.WithAttributes(
			attribute.String("chart", string(chart)),
			attribute.String("path", path),
		))
	start := time.Now()

	res = ChartResult{Chart: chart, Path: path}
	defer func() {
		if rec := recover(); rec != nil {
			res.Err = apperrors.NewRenderError(fmt.Sprintf("%s panicked", chart), fmt.Errorf("%v", rec))
		}
		res.Duration = time.Since(start)
		r.finish(ctx, span, &res)
	}()

	res.Err = fn(ctx)
	return res
}

func (r *Runner) finish(ctx context.Context, span trace.Span, res *ChartResult) {
	defer span.End()
	logger := r.logger.With(
		slog.String("chart", string(res.Chart)),
		slog.String("path", res.Path),
		slog.Duration("duration", res.Duration))

	switch {
	case res.Err == nil:
		res.Status = StatusRendered
		logger.InfoContext(ctx, "Chart rendered")
	case apperrors.IsWarning(res.Err):
		res.Status = StatusSkipped
		span.AddEvent("skipped", trace.WithAttributes(attribute.String("reason", res.Err.Error())))
		infrastructure.WithError(logger, res.Err).WarnContext(ctx, "Chart skipped, nothing to plot")
	default:
		res.Status = StatusFailed
		span.RecordError(res.Err)
		span.SetStatus(codes.Error, string(apperrors.Classify(res.Err)))
		infrastructure.WithError(logger, res.Err).ErrorContext(ctx, "Chart failed",
			slog.String("error_type", string(apperrors.Classify(res.Err))))
	}

	span.SetAttributes(attribute.String("status", string(res.Status)))
	r.metrics.RecordChart(ctx, string(res.Chart), string(res.Status), res.Duration)
}
