package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "PLANVIZ"

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Plan      PlanConfig      `yaml:"plan" envconfig:"PLAN"`
	Chart     ChartConfig     `yaml:"chart" envconfig:"CHART"`
	Export    ExportConfig    `yaml:"export" envconfig:"EXPORT"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format      string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json"`
	Output      string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// PathsConfig locates the optimizer outputs and the rendered artifacts.
// File names are relative to ResultsDir.
type PathsConfig struct {
	ResultsDir   string `yaml:"results_dir" envconfig:"RESULTS_DIR" validate:"required"`
	PlanFile     string `yaml:"plan_file" envconfig:"PLAN_FILE" validate:"required"`
	ProgressFile string `yaml:"progress_file" envconfig:"PROGRESS_FILE" validate:"required"`
	FitnessChart string `yaml:"fitness_chart" envconfig:"FITNESS_CHART" validate:"required"`
	DaysChart    string `yaml:"days_chart" envconfig:"DAYS_CHART" validate:"required"`
	HeatmapChart string `yaml:"heatmap_chart" envconfig:"HEATMAP_CHART" validate:"required"`
	MatrixCSV    string `yaml:"matrix_csv" envconfig:"MATRIX_CSV" validate:"required"`
	MatrixXLSX   string `yaml:"matrix_xlsx" envconfig:"MATRIX_XLSX" validate:"required"`
}

// PlanConfig describes the layout of the production plan export.
type PlanConfig struct {
	IndexColumn     string   `yaml:"index_column" envconfig:"INDEX_COLUMN" validate:"required"`
	MetadataColumns int      `yaml:"metadata_columns" envconfig:"METADATA_COLUMNS" validate:"min=0"`
	Encodings       []string `yaml:"encodings" envconfig:"ENCODINGS" validate:"min=1,max=2,dive,oneof=utf-8 gbk"`
}

// ChartConfig sizes the rendered images.
type ChartConfig struct {
	WidthInches         float64 `yaml:"width_inches" envconfig:"WIDTH_INCHES" validate:"gt=0"`
	HeightInches        float64 `yaml:"height_inches" envconfig:"HEIGHT_INCHES" validate:"gt=0"`
	HeatmapWidthInches  float64 `yaml:"heatmap_width_inches" envconfig:"HEATMAP_WIDTH_INCHES" validate:"gt=0"`
	HeatmapHeightInches float64 `yaml:"heatmap_height_inches" envconfig:"HEATMAP_HEIGHT_INCHES" validate:"gt=0"`
	DPI                 int     `yaml:"dpi" envconfig:"DPI" validate:"min=36,max=1200"`
	MaxTickLabels       int     `yaml:"max_tick_labels" envconfig:"MAX_TICK_LABELS" validate:"min=1"`
}

// ExportConfig controls the companion data files written next to the heatmap.
type ExportConfig struct {
	Matrix bool `yaml:"matrix" envconfig:"MATRIX"`
}

// TelemetryConfig controls the optional run metrics and span dumps.
// An empty file path disables that output.
type TelemetryConfig struct {
	ServiceName string `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	MetricsFile string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
	TraceFile   string `yaml:"trace_file" envconfig:"TRACE_FILE"`
}

// Load builds the configuration from defaults, an optional YAML file and
// environment variables, in increasing order of precedence.
// An empty configFile means search the well-known locations.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile == "" {
		configFile = getConfigFilePath()
	}
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file %s: %w", configFile, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg; keys absent from the file keep
// their current values.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// validate validates the configuration
func (c *Config) validate() error {
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	for i, enc := range c.Plan.Encodings {
		c.Plan.Encodings[i] = strings.ToLower(strings.TrimSpace(enc))
	}

	if err := validator.New().Struct(c); err != nil {
		return err
	}

	seen := make(map[string]bool, len(c.Plan.Encodings))
	for _, enc := range c.Plan.Encodings {
		if seen[enc] {
			return fmt.Errorf("encoding %q listed more than once", enc)
		}
		seen[enc] = true
	}

	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/planviz.log"
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if env := os.Getenv(EnvPrefix + "_CONFIG"); env != "" {
		return env
	}

	locations := []string{
		"planviz.yaml",
		"configs/planviz.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/planviz.log",
		},
		Paths: PathsConfig{
			ResultsDir:   "results",
			PlanFile:     "production_plan.csv",
			ProgressFile: "progress_log.csv",
			FitnessChart: "1_fitness_convergence.png",
			DaysChart:    "2_days_convergence.png",
			HeatmapChart: "3_production_heatmap.png",
			MatrixCSV:    "3_production_matrix.csv",
			MatrixXLSX:   "3_production_matrix.xlsx",
		},
		Plan: PlanConfig{
			IndexColumn:     "砖型",
			MetadataColumns: 9,
			Encodings:       []string{"utf-8", "gbk"},
		},
		Chart: ChartConfig{
			WidthInches:         12,
			HeightInches:        7,
			HeatmapWidthInches:  20,
			HeatmapHeightInches: 12,
			DPI:                 300,
			MaxTickLabels:       20,
		},
		Export: ExportConfig{
			Matrix: true,
		},
		Telemetry: TelemetryConfig{
			ServiceName: "planviz",
		},
	}
}
