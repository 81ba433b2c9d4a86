package heatmap

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	apperrors "planviz/internal/errors"
	"planviz/internal/planload"
)

// Block is the production block of a plan export before coercion.
type Block struct {
	Path    string
	Labels  []string
	Columns []string
	// Cells[r] aligns with Columns.
	Cells [][]planload.Cell
}

// Build turns a loaded plan into a compacted Matrix.
//
// When compaction leaves no rows or no columns Build returns a nil matrix and
// an *errors.EmptyResultWarning. Any other error is a *errors.DataFormatError.
func Build(table *planload.RawTable) (*Matrix, error) {
	block := SliceProductionBlock(table)
	block.Columns = NormalizeLabels(block.Columns)

	values, err := Coerce(block.Path, block.Labels, block.Columns, FillAbsentAsZero(block.Cells))
	if err != nil {
		return nil, err
	}

	m := (&Matrix{Rows: block.Labels, Columns: block.Columns, Values: values}).Compact()
	if m.Empty() {
		rows, cols := m.Dims()
		return nil, &apperrors.EmptyResultWarning{Path: block.Path, Rows: rows, Columns: cols}
	}
	return m, nil
}

// SliceProductionBlock keeps the date columns of table, skipping the metadata
// prefix. Column order is the production timeline and is left untouched.
func SliceProductionBlock(table *planload.RawTable) Block {
	b := Block{
		Path:    table.Path,
		Labels:  table.Labels(),
		Columns: append([]string(nil), table.DateColumns()...),
		Cells:   make([][]planload.Cell, len(table.Rows)),
	}
	for i := range table.Rows {
		b.Cells[i] = append([]planload.Cell(nil), table.DateCells(i)...)
	}
	return b
}

// NormalizeLabels strips the trailing delimiter residue the optimizer leaves
// on date headers. The result has the same length and order as labels.
func NormalizeLabels(labels []string) []string {
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = strings.TrimRight(l, ",")
	}
	return out
}

// FillAbsentAsZero maps every absent or blank cell to "0". No data and no
// production are the same thing in a plan export.
func FillAbsentAsZero(cells [][]planload.Cell) [][]string {
	out := make([][]string, len(cells))
	for r, row := range cells {
		out[r] = make([]string, len(row))
		for c, cell := range row {
			if !cell.Present || strings.TrimSpace(cell.Value) == "" {
				out[r][c] = "0"
				continue
			}
			out[r][c] = cell.Value
		}
	}
	return out
}

// Coerce parses every cell as a production quantity. Quantities must be
// finite and non-negative.
func Coerce(path string, labels, columns []string, cells [][]string) ([][]float64, error) {
	values := make([][]float64, len(cells))
	for r, row := range cells {
		values[r] = make([]float64, len(row))
		for c, raw := range row {
			v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
			msg := ""
			switch {
			case err != nil:
				msg = "non-numeric production quantity"
			case math.IsNaN(v) || math.IsInf(v, 0):
				msg = "non-finite production quantity"
			case v < 0:
				msg = "negative production quantity"
			}
			if msg != "" {
				return nil, &apperrors.DataFormatError{
					Path:    path,
					Message: msg,
					Row:     labelAt(labels, r),
					Column:  labelAt(columns, c),
					Value:   raw,
					Cause:   err,
				}
			}
			values[r][c] = v
		}
	}
	return values, nil
}

func labelAt(labels []string, i int) string {
	if i < len(labels) {
		return labels[i]
	}
	return fmt.Sprintf("#%d", i+1)
}
