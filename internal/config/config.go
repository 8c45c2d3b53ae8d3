package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces all environment variables, e.g. ORDERPULSE_PIPELINE_INPUT_FILE.
const EnvPrefix = "ORDERPULSE"

// Config represents the complete application configuration
type Config struct {
	Pipeline  PipelineConfig  `yaml:"pipeline" envconfig:"PIPELINE"`
	Reports   ReportsConfig   `yaml:"reports" envconfig:"REPORTS"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// PipelineConfig controls the load → transform → filter → aggregate run
type PipelineConfig struct {
	InputFile    string `yaml:"input_file" envconfig:"INPUT_FILE"`
	OutputFile   string `yaml:"output_file" envconfig:"OUTPUT_FILE"`
	OutputFormat string `yaml:"output_format" envconfig:"OUTPUT_FORMAT"`
	TopCustomers int    `yaml:"top_customers" envconfig:"TOP_CUSTOMERS"`
	FailOnEmpty  bool   `yaml:"fail_on_empty" envconfig:"FAIL_ON_EMPTY"`
	MaxLineBytes int    `yaml:"max_line_bytes" envconfig:"MAX_LINE_BYTES"`
}

// ReportsConfig controls report artifacts written next to the processed orders
type ReportsConfig struct {
	Dir  string `yaml:"dir" envconfig:"DIR"`
	CSV  bool   `yaml:"csv" envconfig:"CSV"`
	XLSX bool   `yaml:"xlsx" envconfig:"XLSX"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// TelemetryConfig contains OpenTelemetry configuration
type TelemetryConfig struct {
	Environment    string `yaml:"environment" envconfig:"ENVIRONMENT"`
	TraceExporter  string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER"`
	MetricExporter string `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER"`
	MetricsFile    string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in increasing order of precedence. An empty path falls back to
// the well-known config locations; a missing well-known file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = getConfigFilePath()
	}
	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			if explicit || !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to load config from file: %w", err)
			}
		}
	}

	// Only variables that are set overwrite file values: no default tags.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file at filePath onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate normalizes and checks the configuration. Callers that modify a
// loaded Config, such as CLI flag overrides, call it again.
func (c *Config) Validate() error {
	c.Pipeline.OutputFormat = strings.ToLower(strings.TrimSpace(c.Pipeline.OutputFormat))
	switch c.Pipeline.OutputFormat {
	case OutputFormatJSON, OutputFormatJSONL:
	default:
		return fmt.Errorf("invalid output format %q (want %s or %s)", c.Pipeline.OutputFormat, OutputFormatJSON, OutputFormatJSONL)
	}

	if c.Pipeline.TopCustomers < 0 {
		return fmt.Errorf("top customers limit must not be negative: %d", c.Pipeline.TopCustomers)
	}

	if c.Pipeline.MaxLineBytes <= 0 {
		return fmt.Errorf("max line bytes must be positive: %d", c.Pipeline.MaxLineBytes)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Logging.Level)
	}

	// JSON is the only supported log format
	c.Logging.Format = "json"

	switch c.Logging.Output {
	case "console", "file", "both":
	default:
		c.Logging.Output = "console"
	}

	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		c.Logging.FilePath = DefaultLogFile
	}

	switch c.Telemetry.TraceExporter {
	case "stdout", "none":
	default:
		return fmt.Errorf("unsupported trace exporter: %s", c.Telemetry.TraceExporter)
	}

	switch c.Telemetry.MetricExporter {
	case "prometheus", "none":
	default:
		return fmt.Errorf("unsupported metric exporter: %s", c.Telemetry.MetricExporter)
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"orderpulse.yaml",
		"configs/orderpulse.yaml",
		"../configs/orderpulse.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			InputFile:    DefaultInputFile,
			OutputFile:   DefaultOutputFile,
			OutputFormat: OutputFormatJSON,
			TopCustomers: DefaultTopCustomers,
			FailOnEmpty:  false,
			MaxLineBytes: DefaultMaxLineBytes,
		},
		Reports: ReportsConfig{
			Dir:  DefaultReportsDir,
			CSV:  true,
			XLSX: true,
		},
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   "json",
			Output:   "console",
			FilePath: DefaultLogFile,
		},
		Telemetry: TelemetryConfig{
			Environment:    "development",
			TraceExporter:  "none",
			MetricExporter: "prometheus",
		},
	}
}
