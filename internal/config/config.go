package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "olistcli/internal/errors"
)

// EnvPrefix namespaces every environment variable read by Load (OLIST_DATA_DIR, ...).
const EnvPrefix = "OLIST"

// Config represents the complete application configuration
type Config struct {
	Data      DataConfig      `yaml:"data"`
	Features  FeaturesConfig  `yaml:"features"`
	Output    OutputConfig    `yaml:"output"`
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// DataConfig describes where the source CSV tables live and how their
// file names map to logical table names
type DataConfig struct {
	Dir          string   `yaml:"dir" split_words:"true" validate:"required"`
	FilePrefix   string   `yaml:"file_prefix" split_words:"true"`
	FileSuffixes []string `yaml:"file_suffixes" split_words:"true" validate:"required,min=1,dive,required"`
	Concurrency  int      `yaml:"concurrency" split_words:"true" validate:"min=1,max=64"`
}

// FeaturesConfig toggles the optional parts of the training table
type FeaturesConfig struct {
	IsDelivered  bool `yaml:"is_delivered" split_words:"true"`
	WithDistance bool `yaml:"with_distance" split_words:"true"`
	StrictJoins  bool `yaml:"strict_joins" split_words:"true"`
}

// OutputConfig selects the export sink. An empty Path disables the export.
type OutputConfig struct {
	Path   string `yaml:"path" split_words:"true"`
	Format string `yaml:"format" split_words:"true" validate:"oneof=csv xlsx sqlite"`
	BOM    bool   `yaml:"bom" split_words:"true"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" split_words:"true" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" split_words:"true"`
	Output   string `yaml:"output" split_words:"true" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" split_words:"true"`
}

// TelemetryConfig contains tracing and metrics configuration
type TelemetryConfig struct {
	EnableTracing bool   `yaml:"enable_tracing" split_words:"true"`
	TraceExporter string `yaml:"trace_exporter" split_words:"true" validate:"oneof=stdout none"`
	EnableMetrics bool   `yaml:"enable_metrics" split_words:"true"`
	MetricsFile   string `yaml:"metrics_file" split_words:"true"`
}

// Load builds the configuration from defaults, an optional YAML file and
// OLIST_* environment variables, in increasing order of precedence.
// An empty path searches the usual locations; a missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = getConfigFilePath()
	}
	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, apperrors.NewConfigError("failed to load config from file", err).
				WithContext("path", path)
		}
	}

	// envconfig only touches fields whose variable is set, so file values survive.
	// Leaf fields carry no envconfig tag: a tag would also make envconfig fall back
	// to the unprefixed name (PATH, FORMAT, ...).
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile overlays YAML values onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks the configuration and normalizes logging settings
func (c *Config) Validate() error {
	if c.Logging.Format != "json" {
		// Logs are always JSON
		c.Logging.Format = "json"
	}
	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/features.log"
	}

	if err := validator.New().Struct(c); err != nil {
		return apperrors.NewConfigError("config validation failed", err)
	}
	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
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
		Data: DataConfig{
			Dir:          "data/csv",
			FilePrefix:   "olist_",
			FileSuffixes: []string{"_dataset.csv", ".csv"},
			Concurrency:  4,
		},
		Features: FeaturesConfig{
			IsDelivered:  true,
			WithDistance: false,
			StrictJoins:  false,
		},
		Output: OutputConfig{
			Format: "csv",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/features.log",
		},
		Telemetry: TelemetryConfig{
			EnableTracing: false,
			TraceExporter: "stdout",
			EnableMetrics: true,
		},
	}
}
