package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrEmptyMatrix is the sentinel matched by EmptyResultWarning.
var ErrEmptyMatrix = stderrors.New("production matrix is empty after compaction")

// MissingInputError reports an absent results directory or input file.
// It aborts the run before any chart is attempted.
type MissingInputError struct {
	Kind  string // "results directory", "production plan", "iteration log"
	Path  string
	Cause error
}

func (e *MissingInputError) Error() string {
	msg := fmt.Sprintf("%s not found: %s", e.Kind, e.Path)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *MissingInputError) Unwrap() error { return e.Cause }

// DataFormatError reports input that cannot be turned into a table or matrix.
// It is fatal to a single chart pipeline only.
type DataFormatError struct {
	Path    string
	Message string
	Row     string // row label or 1-based record number, when known
	Column  string
	Value   string
	// Attempts holds one message per failed encoding attempt.
	Attempts []string
	Cause    error
}

func (e *DataFormatError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Path != "" {
		fmt.Fprintf(&b, " (file %s", e.Path)
		if e.Row != "" {
			fmt.Fprintf(&b, ", row %q", e.Row)
		}
		if e.Column != "" {
			fmt.Fprintf(&b, ", column %q", e.Column)
		}
		if e.Value != "" {
			fmt.Fprintf(&b, ", value %q", e.Value)
		}
		b.WriteString(")")
	}
	if len(e.Attempts) > 0 {
		fmt.Fprintf(&b, ": %s", strings.Join(e.Attempts, "; "))
	} else if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *DataFormatError) Unwrap() error { return e.Cause }

// EmptyResultWarning reports that compaction removed every row or column.
// Callers skip the chart and log a warning; it never changes the exit status.
type EmptyResultWarning struct {
	Path    string
	Rows    int
	Columns int
}

func (e *EmptyResultWarning) Error() string {
	return fmt.Sprintf("no production data to plot in %s (%d rows x %d columns after compaction)",
		e.Path, e.Rows, e.Columns)
}

// Is makes errors.Is(err, ErrEmptyMatrix) true for any EmptyResultWarning.
func (e *EmptyResultWarning) Is(target error) bool {
	return target == ErrEmptyMatrix
}

// Classify maps an error onto its ErrorType for logging and metric labels.
func Classify(err error) ErrorType {
	if err == nil {
		return ""
	}
	var missing *MissingInputError
	var format *DataFormatError
	var app *AppError
	switch {
	case stderrors.As(err, &missing):
		return ErrTypeMissingInput
	case stderrors.As(err, &format):
		return ErrTypeDataFormat
	case stderrors.Is(err, ErrEmptyMatrix):
		return ErrTypeEmptyResult
	case stderrors.As(err, &app):
		return app.Type
	default:
		return ErrTypeUnknown
	}
}

// IsWarning reports whether err is a non-fatal condition.
func IsWarning(err error) bool {
	return stderrors.Is(err, ErrEmptyMatrix)
}
