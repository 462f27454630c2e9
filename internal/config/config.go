package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "incomecli/internal/errors"
	"incomecli/pkg/contracts/domain"
)

// Config represents the complete application configuration
type Config struct {
	Input     InputConfig     `yaml:"input" envconfig:"INPUT"`
	Output    OutputConfig    `yaml:"output" envconfig:"OUTPUT"`
	Filter    FilterConfig    `yaml:"filter" envconfig:"FILTER"`
	Reshape   ReshapeConfig   `yaml:"reshape" envconfig:"RESHAPE"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// InputConfig describes the source CSV
type InputConfig struct {
	Path      string `yaml:"path" split_words:"true" validate:"required"`
	Delimiter string `yaml:"delimiter" split_words:"true" validate:"required,len=1"`
}

// OutputConfig describes the produced workbook
type OutputConfig struct {
	Path         string `yaml:"path" split_words:"true" validate:"required"`
	// ManifestPath, when set, receives the JSON run manifest.
	ManifestPath string `yaml:"manifest_path" split_words:"true"`
}

// FilterConfig holds the row predicate applied after cleaning
type FilterConfig struct {
	Region            string   `yaml:"region" split_words:"true" validate:"required"`
	MinYear           int      `yaml:"min_year" split_words:"true" validate:"gte=0"`
	ExcludedSexes     []string `yaml:"excluded_sexes" split_words:"true" validate:"dive,required"`
	ExcludedAgeGroups []string `yaml:"excluded_age_groups" split_words:"true" validate:"dive,required"`
}

// ReshapeConfig controls statistic classification, pivoting and the
// government transfer aggregate
type ReshapeConfig struct {
	AveragePattern            string   `yaml:"average_pattern" split_words:"true" validate:"required"`
	MedianPattern             string   `yaml:"median_pattern" split_words:"true" validate:"required,nefield=AveragePattern"`
	ConflictPolicy            string   `yaml:"conflict_policy" split_words:"true" validate:"oneof=mean first last error"`
	GovernmentTransferSources []string `yaml:"government_transfer_sources" split_words:"true" validate:"min=1,unique,dive,required"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" split_words:"true" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" split_words:"true" validate:"oneof=json text"`
	Output   string `yaml:"output" split_words:"true" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" split_words:"true" validate:"required_unless=Output console"`
}

// TelemetryConfig contains tracing and metrics configuration
type TelemetryConfig struct {
	ServiceName   string `yaml:"service_name" split_words:"true" validate:"required"`
	TraceExporter string `yaml:"trace_exporter" split_words:"true" validate:"oneof=none stdout"`
	// MetricsFile, when set, receives a Prometheus text-format snapshot of
	// the run's metrics after the pipeline finishes.
	MetricsFile string `yaml:"metrics_file" split_words:"true"`
}

// Load builds the configuration from defaults, an optional YAML file and
// INCOME_* environment variables, in increasing order of precedence. An
// empty path searches the default locations and silently skips a missing
// file; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	file := path
	if file == "" {
		file = getConfigFilePath()
	}
	if file != "" {
		if err := loadFromFile(file, cfg); err != nil {
			return nil, apperrors.NewConfigError(fmt.Sprintf("failed to load config file %s", file), err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile overlays YAML values onto cfg. Keys missing from the file
// keep their current value.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// getConfigFilePath returns the first config file found in the common
// locations, or "" when there is none.
func getConfigFilePath() string {
	for _, location := range ConfigFileLocations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Validate checks field constraints and returns a CONFIG error listing every
// offending field.
func (c *Config) Validate() error {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.Struct(c); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return apperrors.NewConfigError("config validation failed", err)
		}
		msgs := make([]string, 0, len(validationErrors))
		fields := make([]string, 0, len(validationErrors))
		for _, fe := range validationErrors {
			msgs = append(msgs, formatValidationError(fe))
			fields = append(fields, fe.Namespace())
		}
		return apperrors.NewConfigError("config validation failed: "+strings.Join(msgs, "; "), nil).
			WithContext("fields", fields)
	}

	if _, err := domain.ParseConflictPolicy(c.Reshape.ConflictPolicy); err != nil {
		return apperrors.NewConfigError("config validation failed", err)
	}

	return nil
}

// Delimiter returns the input delimiter as a rune.
func (c *Config) Delimiter() rune {
	for _, r := range c.Input.Delimiter {
		return r
	}
	return DefaultDelimiter
}

func formatValidationError(fe validator.FieldError) string {
	field := fe.Namespace()
	switch fe.Tag() {
	case "required", "required_unless":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "len":
		return fmt.Sprintf("%s must be exactly %s character(s)", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must have at least %s item(s)", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "unique":
		return fmt.Sprintf("%s must not contain duplicates", field)
	case "nefield":
		return fmt.Sprintf("%s must differ from %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// Default returns default configuration: the Ontario report read from
// 11100239.csv in the working directory.
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Path:      DefaultInputPath,
			Delimiter: string(DefaultDelimiter),
		},
		Output: OutputConfig{
			Path: DefaultOutputPath,
		},
		Filter: FilterConfig{
			Region:            DefaultRegion,
			MinYear:           DefaultMinYear,
			ExcludedSexes:     []string{"Both sexes"},
			ExcludedAgeGroups: []string{"15 years and over", "25 to 54 years"},
		},
		Reshape: ReshapeConfig{
			AveragePattern:            DefaultAveragePattern,
			MedianPattern:             DefaultMedianPattern,
			ConflictPolicy:            string(domain.ConflictMean),
			GovernmentTransferSources: append([]string(nil), domain.DefaultGovernmentTransferSources...),
		},
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   "console",
			FilePath: DefaultLogFile,
		},
		Telemetry: TelemetryConfig{
			ServiceName:   AppName,
			TraceExporter: "none",
		},
	}
}
