// Package exporter writes the compacted production matrix as companion data
// files next to the heatmap.
//
// CSVWriter is the low-level writer, with an optional UTF-8 BOM so Excel
// recognises the Chinese product-type labels. MatrixExporter lays a
// heatmap.Matrix out as CSV or as an xlsx workbook.
//
// Example usage:
//
//	exp := exporter.NewMatrixExporter("砖型", logger)
//	if err := exp.WriteCSV(matrix, "results/3_production_matrix.csv"); err != nil {
//		return err
//	}
package exporter
