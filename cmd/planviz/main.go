// Command planviz renders the diagnostic charts for one optimizer results
// directory.
//
// Usage:
//
//	planviz [-results dir] [-plan file] [-progress file] [-config file] [-export=false]
//
// Exit status is 0 when every chart was rendered or skipped for lack of data,
// 1 when any chart or export failed and 2 when an input is missing.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"planviz/internal/config"
	apperrors "planviz/internal/errors"
	"planviz/internal/infrastructure"
	"planviz/internal/pipeline"
)

const (
	exitOK           = 0
	exitFailure      = 1
	exitMissingInput = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("planviz", flag.ContinueOnError)
	fs.SetOutput(stderr)
	results := fs.String("results", "", "results directory written by the optimizer (default from config)")
	plan := fs.String("plan", "", "production plan file name or path (default from config)")
	progressLog := fs.String("progress", "", "iteration log file name or path (default from config)")
	configFile := fs.String("config", "", "YAML configuration file")
	export := fs.Bool("export", true, "also write the heatmap matrix as CSV and xlsx")
	if err := fs.Parse(args); err != nil {
		return exitFailure
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}

	if *results != "" {
		cfg.Paths.ResultsDir = *results
	}
	if *plan != "" {
		cfg.Paths.PlanFile = *plan
	}
	if *progressLog != "" {
		cfg.Paths.ProgressFile = *progressLog
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "export" {
			cfg.Export.Matrix = *export
		}
	})

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	tel, err := infrastructure.InitializeTelemetry(cfg.Telemetry, logger)
	if err != nil {
		logger.Warn("Telemetry disabled", slog.String("error", err.Error()))
		tel = nil
	}
	if tel != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tel.Shutdown(ctx); err != nil {
				logger.Warn("Telemetry shutdown failed", slog.String("error", err.Error()))
			}
		}()
	}

	runner, err := pipeline.NewRunner(cfg, tel, logger)
	if err != nil {
		logger.Error("Failed to set up run", slog.String("error", err.Error()))
		fmt.Fprintf(stderr, "planviz: %v\n", err)
		return exitFailure
	}

	ctx := infrastructure.ContextWithRunID(context.Background())
	logger.InfoContext(ctx, "Starting chart rendering",
		slog.String("results_dir", runner.Paths().ResultsDir),
		slog.Bool("export_matrix", cfg.Export.Matrix))

	summary, err := runner.Run(ctx)
	if err != nil {
		var missing *apperrors.MissingInputError
		if errors.As(err, &missing) {
			fmt.Fprintf(stderr, "planviz: nothing rendered: %v\n", err)
			return exitMissingInput
		}
		fmt.Fprintf(stderr, "planviz: %v\n", err)
		return exitFailure
	}

	for _, res := range summary.Charts {
		switch res.Status {
		case pipeline.StatusRendered:
			fmt.Fprintf(stderr, "%-8s %s\n", res.Status, res.Path)
		default:
			fmt.Fprintf(stderr, "%-8s %s: %v\n", res.Status, res.Path, res.Err)
		}
	}

	if summary.Failed() {
		return exitFailure
	}
	return exitOK
}
