package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains every file location used by one run.
// This is the single source of truth for paths; nothing else joins file names.
type Paths struct {
	ResultsDir string

	// Inputs written by the optimizer
	PlanCSV     string
	ProgressCSV string

	// Rendered charts
	FitnessChart string
	DaysChart    string
	HeatmapChart string

	// Companion exports of the heatmap matrix
	MatrixCSV  string
	MatrixXLSX string
}

// GetPaths resolves the configured file names against the results directory.
// The results directory is made absolute relative to the working directory;
// absolute file names are kept as they are.
func GetPaths(cfg PathsConfig) (*Paths, error) {
	resultsDir, err := filepath.Abs(cfg.ResultsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve results directory %s: %w", cfg.ResultsDir, err)
	}

	paths := &Paths{
		ResultsDir:   resultsDir,
		PlanCSV:      resolve(resultsDir, cfg.PlanFile),
		ProgressCSV:  resolve(resultsDir, cfg.ProgressFile),
		FitnessChart: resolve(resultsDir, cfg.FitnessChart),
		DaysChart:    resolve(resultsDir, cfg.DaysChart),
		HeatmapChart: resolve(resultsDir, cfg.HeatmapChart),
		MatrixCSV:    resolve(resultsDir, cfg.MatrixCSV),
		MatrixXLSX:   resolve(resultsDir, cfg.MatrixXLSX),
	}

	return paths, nil
}

func resolve(dir, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}

// LogPathResolution logs the resolved paths at debug level
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("Resolved paths",
		slog.String("results_dir", p.ResultsDir),
		slog.String("plan_csv", p.PlanCSV),
		slog.String("progress_csv", p.ProgressCSV),
		slog.Bool("plan_exists", FileExists(p.PlanCSV)),
		slog.Bool("progress_exists", FileExists(p.ProgressCSV)))
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
