package pipeline

import (
	"log/slog"
	"time"
)

// Chart names one of the rendered images.
type Chart string

const (
	ChartFitness Chart = "fitness_convergence"
	ChartDays    Chart = "days_convergence"
	ChartHeatmap Chart = "production_heatmap"
)

// Status is the outcome of one chart.
type Status string

const (
	StatusRendered Status = "rendered"
	// StatusSkipped means there was nothing to draw. It is a warning only.
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// ChartResult records how one chart went.
type ChartResult struct {
	Chart    Chart
	Path     string
	Status   Status
	Err      error
	Duration time.Duration
}

// ExportResult records one companion data file.
type ExportResult struct {
	Path string
	Err  error
}

// Summary is the outcome of a run.
type Summary struct {
	RunID   string
	Charts  []ChartResult
	Exports []ExportResult
}

// Result returns the result for chart, if it was attempted.
func (s *Summary) Result(chart Chart) (ChartResult, bool) {
	for _, r := range s.Charts {
		if r.Chart == chart {
			return r, true
		}
	}
	return ChartResult{}, false
}

// Count returns the number of charts with the given status.
func (s *Summary) Count(status Status) int {
	n := 0
	for _, r := range s.Charts {
		if r.Status == status {
			n++
		}
	}
	return n
}

// Failed reports whether any chart or export failed.
func (s *Summary) Failed() bool {
	if s.Count(StatusFailed) > 0 {
		return true
	}
	for _, e := range s.Exports {
		if e.Err != nil {
			return true
		}
	}
	return false
}

// LogValue implements slog.LogValuer.
func (s *Summary) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int(string(StatusRendered), s.Count(StatusRendered)),
		slog.Int(string(StatusSkipped), s.Count(StatusSkipped)),
		slog.Int(string(StatusFailed), s.Count(StatusFailed)),
	}
	for _, r := range s.Charts {
		attrs = append(attrs, slog.String(string(r.Chart), string(r.Status)))
	}
	return slog.GroupValue(attrs...)
}
