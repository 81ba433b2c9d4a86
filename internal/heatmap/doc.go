// Package heatmap turns a loaded production plan into the dense numeric
// matrix behind the production heatmap.
//
// Build runs a fixed sequence of steps, each exported so it can be exercised
// on its own:
//
//	SliceProductionBlock -> NormalizeLabels -> FillAbsentAsZero -> Coerce
//	    -> CompactRows -> CompactColumns
//
// Rows are always compacted before columns.
package heatmap
