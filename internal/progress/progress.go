// Package progress reads the optimizer's per-generation iteration log.
package progress

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	apperrors "planviz/internal/errors"
)

// Column names of the iteration log.
const (
	GenerationColumn  = "Generation"
	BestFitnessColumn = "BestFitness"
	ActualDaysColumn  = "ActualDays"
	// TotalDaysColumn is the name the optimizer itself writes for ActualDays.
	TotalDaysColumn = "TotalDays"
)

// Record is one generation of the optimizer run.
type Record struct {
	Generation  int
	BestFitness float64
	ActualDays  float64
}

// Load reads the iteration log at path. Records keep file order.
func Load(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &apperrors.MissingInputError{Kind: "iteration log", Path: path, Cause: err}
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(path, data)
}

// Parse decodes an iteration log. path is used only in diagnostics.
func Parse(path string, data []byte) ([]Record, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, &apperrors.DataFormatError{Path: path, Message: "malformed iteration log", Cause: err}
	}
	if len(rows) == 0 {
		return nil, &apperrors.DataFormatError{Path: path, Message: "iteration log has no header row"}
	}

	cols, headerErr := locate(rows[0])
	if headerErr != nil {
		headerErr.Path = path
		return nil, headerErr
	}

	records := make([]Record, 0, len(rows)-1)
	for n, row := range rows[1:] {
		if blank(row) {
			continue
		}
		rec, err := cols.record(row)
		if err != nil {
			err.Path = path
			err.Row = strconv.Itoa(n + 2)
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

type columns struct {
	generation, fitness, days int
	daysName                  string
}

func locate(header []string) (columns, *apperrors.DataFormatError) {
	pos := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, dup := pos[name]; !dup {
			pos[name] = i
		}
	}

	c := columns{daysName: ActualDaysColumn}
	var ok bool
	if c.generation, ok = pos[GenerationColumn]; !ok {
		return c, missingColumn(GenerationColumn)
	}
	if c.fitness, ok = pos[BestFitnessColumn]; !ok {
		return c, missingColumn(BestFitnessColumn)
	}
	if c.days, ok = pos[ActualDaysColumn]; !ok {
		if c.days, ok = pos[TotalDaysColumn]; !ok {
			return c, missingColumn(ActualDaysColumn)
		}
		c.daysName = TotalDaysColumn
	}
	return c, nil
}

func missingColumn(name string) *apperrors.DataFormatError {
	return &apperrors.DataFormatError{
		Message: fmt.Sprintf("iteration log has no %q column", name),
		Column:  name,
	}
}

func (c columns) record(row []string) (Record, *apperrors.DataFormatError) {
	var rec Record

	raw := cell(row, c.generation)
	gen, err := strconv.Atoi(raw)
	if err != nil {
		return rec, badValue(GenerationColumn, raw, err)
	}
	rec.Generation = gen

	raw = cell(row, c.fitness)
	if rec.BestFitness, err = strconv.ParseFloat(raw, 64); err != nil {
		return rec, badValue(BestFitnessColumn, raw, err)
	}

	raw = cell(row, c.days)
	if rec.ActualDays, err = strconv.ParseFloat(raw, 64); err != nil {
		return rec, badValue(c.daysName, raw, err)
	}
	return rec, nil
}

func badValue(column, value string, cause error) *apperrors.DataFormatError {
	return &apperrors.DataFormatError{
		Message: "invalid iteration log value",
		Column:  column,
		Value:   value,
		Cause:   cause,
	}
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
