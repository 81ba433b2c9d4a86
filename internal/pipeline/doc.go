// Package pipeline runs the three diagnostic charts for one optimizer
// results directory:
//
//	1_fitness_convergence.png   best fitness per generation (line)
//	2_days_convergence.png      schedule length per generation (scatter)
//	3_production_heatmap.png    production quantity per product type and date
//
// Inputs are checked first and a missing one aborts the run. After that each
// chart is contained: a failure is logged and recorded in the Summary and the
// next chart is still attempted. An empty production matrix skips the heatmap
// with a warning.
package pipeline
