package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config is the complete analyzer configuration.
type Config struct {
	Paths       PathsConfig       `yaml:"paths" envconfig:"PATHS"`
	Analysis    AnalysisConfig    `yaml:"analysis" envconfig:"ANALYSIS"`
	Performance PerformanceConfig `yaml:"performance" envconfig:"PERFORMANCE"`
	DateRange   DateRangeConfig   `yaml:"date_range" envconfig:"DATE_RANGE"`
	Logging     LoggingConfig     `yaml:"logging" envconfig:"LOGGING"`

	// Exchanges optionally restricts the run to a subset of venues. Empty
	// means all discovered exchanges.
	Exchanges []string `yaml:"exchanges" envconfig:"EXCHANGES"`
}

// PathsConfig contains filesystem locations.
type PathsConfig struct {
	DataDir   string `yaml:"data_directory" envconfig:"DATA_DIR" validate:"required"`
	OutputDir string `yaml:"output_directory" envconfig:"OUTPUT_DIR" validate:"required"`
}

// AnalysisConfig contains the numeric parameters of one run.
type AnalysisConfig struct {
	// ZeroThreshold is the neutral-zone half-width in percent.
	ZeroThreshold float64 `yaml:"zero_threshold" envconfig:"ZERO_THRESHOLD" validate:"gt=0"`
	// Thresholds are the excursion levels in percent, in report order.
	Thresholds []float64 `yaml:"thresholds" envconfig:"THRESHOLDS" validate:"min=1,dive,gt=0"`
}

// PerformanceConfig contains pool sizing.
type PerformanceConfig struct {
	// Workers is the compute pool size. Zero selects the default derived
	// from the CPU count.
	Workers int `yaml:"workers" envconfig:"WORKERS" validate:"gte=0"`
}

// DateRangeConfig bounds the analysis to an inclusive date range. Both ends
// are independently optional YYYY-MM-DD strings.
type DateRangeConfig struct {
	StartDate string `yaml:"start_date" envconfig:"START_DATE" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `yaml:"end_date" envconfig:"END_DATE" validate:"omitempty,datetime=2006-01-02"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			DataDir:   "data/market_data",
			OutputDir: "summary_stats",
		},
		Analysis: AnalysisConfig{
			ZeroThreshold: 0.05,
			Thresholds:    []float64{0.3, 0.5, 0.4},
		},
		Performance: PerformanceConfig{
			Workers: 0,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: "logs/analyzer.log",
		},
	}
}

// Load assembles the configuration from defaults, the optional YAML file at
// path, and environment variables, then validates it. A missing file is only
// an error when a path was explicitly given.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	// Environment overrides file values; envconfig only writes fields whose
	// variable is actually set.
	if err := envconfig.Process("ARBSCAN", cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the assembled configuration, including the cross-field
// constraint that the date range is ordered.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if c.DateRange.StartDate != "" && c.DateRange.EndDate != "" &&
		c.DateRange.StartDate > c.DateRange.EndDate {
		return fmt.Errorf("start_date %s is after end_date %s", c.DateRange.StartDate, c.DateRange.EndDate)
	}
	return nil
}
