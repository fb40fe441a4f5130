package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "ECLAB"

// Config represents the complete application configuration
type Config struct {
	Import  ImportConfig  `yaml:"import" envconfig:"IMPORT"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Report  ReportConfig  `yaml:"report" envconfig:"REPORT"`
}

// ImportConfig holds the import toggles and batch settings
type ImportConfig struct {
	Technique       string `yaml:"technique" envconfig:"TECHNIQUE" default:"auto" validate:"oneof=auto cv gc"`
	SplitCycles     bool   `yaml:"split_cycles" envconfig:"SPLIT_CYCLES" default:"false"`
	SplitHalfCycles bool   `yaml:"split_half_cycles" envconfig:"SPLIT_HALF_CYCLES" default:"false"`
	IncludeAll      bool   `yaml:"include_all" envconfig:"INCLUDE_ALL" default:"false"`
	Workers         int    `yaml:"workers" envconfig:"WORKERS" default:"4" validate:"min=1,max=64"`
	PreviewRows     int    `yaml:"preview_rows" envconfig:"PREVIEW_ROWS" default:"20" validate:"min=1"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"text" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/eclab_import.log" validate:"required_unless=Output console"`
}

// ReportConfig contains chart and PDF settings
type ReportConfig struct {
	OutputDir string  `yaml:"output_dir" envconfig:"OUTPUT_DIR" default:"reports" validate:"required"`
	Width     float64 `yaml:"width" envconfig:"WIDTH" default:"800" validate:"gt=0"`
	Height    float64 `yaml:"height" envconfig:"HEIGHT" default:"400" validate:"gt=0"`
	PDF       bool    `yaml:"pdf" envconfig:"PDF" default:"true"`
}

// Load reads the configuration. Defaults and ECLAB_* environment variables
// are applied first; a YAML file, given by path or ECLAB_CONFIG, then
// overrides the keys it sets. The result is validated.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.UnmarshalStrict(data, cfg)
}

// Validate checks the configuration against its validation tags
func (c *Config) Validate() error {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	err := v.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, formatValidationError(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

// formatValidationError formats validation error messages
func formatValidationError(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required", "required_unless":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	}
	return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Import: ImportConfig{
			Technique:   "auto",
			Workers:     4,
			PreviewRows: 20,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "text",
			Output:   "console",
			FilePath: "logs/eclab_import.log",
		},
		Report: ReportConfig{
			OutputDir: "reports",
			Width:     800,
			Height:    400,
			PDF:       true,
		},
	}
}
