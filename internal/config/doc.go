// Package config provides centralized configuration management for planviz.
// It handles loading configuration from multiple sources, validation, and
// resolution of every file path a run touches.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern PLANVIZ_<SECTION>_<FIELD>:
//
//	PLANVIZ_PATHS_RESULTS_DIR=results
//	PLANVIZ_LOGGING_LEVEL=debug
//	PLANVIZ_PLAN_ENCODINGS=utf-8,gbk
//	PLANVIZ_CHART_MAX_TICK_LABELS=20
//	PLANVIZ_TELEMETRY_METRICS_FILE=results/planviz.prom
//
// PLANVIZ_CONFIG points at a YAML file; otherwise planviz.yaml and
// configs/planviz.yaml are tried.
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	paths, err := config.GetPaths(cfg.Paths)
package config
