package validation

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"planviz/internal/config"
	apperrors "planviz/internal/errors"
)

// FileValidator checks that the optimizer outputs are in place before any
// chart is attempted.
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateInputs checks the results directory and both input files. Every
// missing input is reported; the returned error matches *MissingInputError.
func (v *FileValidator) ValidateInputs(paths *config.Paths) error {
	if err := v.ValidateInputDirectory(paths.ResultsDir); err != nil {
		return err
	}

	var errs []error
	if err := v.ValidateFile("production plan", paths.PlanCSV); err != nil {
		errs = append(errs, err)
	}
	if err := v.ValidateFile("iteration log", paths.ProgressCSV); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	v.logger.Info("Inputs validated",
		slog.String("results_dir", paths.ResultsDir),
		slog.String("plan", paths.PlanCSV),
		slog.String("progress", paths.ProgressCSV))
	return nil
}

// ValidateInputDirectory validates that the results directory exists.
func (v *FileValidator) ValidateInputDirectory(dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		v.logger.Error("Results directory does not exist",
			slog.String("directory", dir))
		return &apperrors.MissingInputError{Kind: "results directory", Path: dir}
	}
	if err != nil {
		v.logger.Error("Failed to stat results directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return &apperrors.MissingInputError{Kind: "results directory", Path: dir, Cause: err}
	}
	if !info.IsDir() {
		v.logger.Error("Results path is not a directory",
			slog.String("path", dir))
		return &apperrors.MissingInputError{
			Kind:  "results directory",
			Path:  dir,
			Cause: fmt.Errorf("%s is not a directory", dir),
		}
	}
	return nil
}

// ValidateFile checks that a regular, readable file exists at path. kind
// names the input in the error.
func (v *FileValidator) ValidateFile(kind, path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("Input file does not exist",
			slog.String("kind", kind),
			slog.String("file", path))
		return &apperrors.MissingInputError{Kind: kind, Path: path}
	}
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return &apperrors.MissingInputError{Kind: kind, Path: path, Cause: err}
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return &apperrors.MissingInputError{
			Kind:  kind,
			Path:  path,
			Cause: fmt.Errorf("%s is a directory, not a file", path),
		}
	}

	// Check if file is readable by opening it
	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return &apperrors.MissingInputError{Kind: kind, Path: path, Cause: err}
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}
