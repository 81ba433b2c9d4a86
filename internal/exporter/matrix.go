package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	apperrors "planviz/internal/errors"
	"planviz/internal/heatmap"
)

// MatrixSheet is the worksheet name used by WriteXLSX.
const MatrixSheet = "production"

// MatrixExporter writes the compacted production matrix as data files, one
// row per product type and one column per date.
type MatrixExporter struct {
	// IndexHeader captions the product-type column.
	IndexHeader string
	csv         *CSVWriter
	logger      *slog.Logger
}

// NewMatrixExporter creates an exporter whose first column is captioned
// indexHeader.
func NewMatrixExporter(indexHeader string, logger *slog.Logger) *MatrixExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &MatrixExporter{
		IndexHeader: indexHeader,
		csv:         NewCSVWriter(logger),
		logger:      logger,
	}
}

func (e *MatrixExporter) headers(m *heatmap.Matrix) []string {
	return append([]string{e.IndexHeader}, m.Columns...)
}

// WriteCSV writes m as a UTF-8 CSV with a BOM so spreadsheet tools detect
// the encoding of the product-type labels.
func (e *MatrixExporter) WriteCSV(m *heatmap.Matrix, path string) error {
	records := make([][]string, len(m.Rows))
	for r, label := range m.Rows {
		record := make([]string, 0, len(m.Columns)+1)
		record = append(record, label)
		for _, v := range m.Values[r] {
			record = append(record, strconv.FormatFloat(v, 'f', -1, 64))
		}
		records[r] = record
	}

	if err := e.csv.WriteSimpleCSV(path, e.headers(m), records); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to export matrix to %s", path), err)
	}
	return nil
}

// WriteXLSX writes m to a single worksheet with numeric cells.
func (e *MatrixExporter) WriteXLSX(m *heatmap.Matrix, path string) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			e.logger.Warn("Failed to close workbook", slog.String("path", path), slog.String("error", err.Error()))
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), MatrixSheet); err != nil {
		return apperrors.NewStorageError("failed to name worksheet", err)
	}

	header := make([]interface{}, 0, len(m.Columns)+1)
	for _, h := range e.headers(m) {
		header = append(header, h)
	}
	if err := f.SetSheetRow(MatrixSheet, "A1", &header); err != nil {
		return apperrors.NewStorageError("failed to write header row", err)
	}

	for r, label := range m.Rows {
		row := make([]interface{}, 0, len(m.Columns)+1)
		row = append(row, label)
		for _, v := range m.Values[r] {
			row = append(row, v)
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return apperrors.NewStorageError("failed to address row", err)
		}
		if err := f.SetSheetRow(MatrixSheet, cell, &row); err != nil {
			return apperrors.NewStorageError(fmt.Sprintf("failed to write row %q", label), err)
		}
	}

	if err := f.SetPanes(MatrixSheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      1,
		YSplit:      1,
		TopLeftCell: "B2",
		ActivePane:  "bottomRight",
	}); err != nil {
		return apperrors.NewStorageError("failed to freeze header panes", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewStorageError("failed to create directory", err)
	}
	if err := f.SaveAs(path); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to export matrix to %s", path), err)
	}

	e.logger.Info("Exported production matrix",
		slog.String("path", path),
		slog.Int("rows", len(m.Rows)),
		slog.Int("columns", len(m.Columns)))
	return nil
}
