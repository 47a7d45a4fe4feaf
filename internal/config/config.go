// Package config provides configuration loading for triage.
//
// Configuration is read from an optional YAML file and overridden by TRIAGE_*
// environment variables. Command-line flags are applied on top by the CLI.
package config

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// Defaults applied when a value is missing.
const (
	DefaultServiceName   = "triage"
	DefaultLogLevel      = "warn"
	DefaultLogFormat     = "console"
	DefaultSampleRate    = 1.0
	DefaultWatchDebounce = 250 * time.Millisecond
)

var (
	validLogLevels  = []string{"trace", "debug", "info", "warn", "error"}
	validLogFormats = []string{"json", "console"}
)

// Config holds the complete triage configuration.
type Config struct {
	Rules     RulesConfig     `koanf:"rules"`
	Logging   LoggingConfig   `koanf:"logging"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Metrics   MetricsConfig   `koanf:"metrics"`
}

// RulesConfig selects the rule catalog.
type RulesConfig struct {
	// Path to a TOML or YAML rule file. Empty uses the built-in catalog.
	Path     string   `koanf:"path"`
	Watch    bool     `koanf:"watch"`
	Debounce Duration `koanf:"debounce"`
}

// LoggingConfig holds the user-facing logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// TelemetryConfig holds OpenTelemetry tracing configuration.
type TelemetryConfig struct {
	Enabled        bool    `koanf:"enabled"`
	ServiceName    string  `koanf:"service_name"`
	ServiceVersion string  `koanf:"service_version"`
	SampleRate     float64 `koanf:"sample_rate"`
}

// MetricsConfig holds Prometheus export configuration.
type MetricsConfig struct {
	// Textfile is written on exit when set.
	Textfile string `koanf:"textfile"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errs []error

	if !slices.Contains(validLogLevels, c.Logging.Level) {
		errs = append(errs, fmt.Errorf("logging.level must be one of %v, got %q", validLogLevels, c.Logging.Level))
	}
	if !slices.Contains(validLogFormats, c.Logging.Format) {
		errs = append(errs, fmt.Errorf("logging.format must be 'json' or 'console', got %q", c.Logging.Format))
	}

	if c.Telemetry.SampleRate < 0 || c.Telemetry.SampleRate > 1 {
		errs = append(errs, fmt.Errorf("telemetry.sample_rate must be between 0 and 1, got %v", c.Telemetry.SampleRate))
	}
	if c.Telemetry.Enabled && c.Telemetry.ServiceName == "" {
		errs = append(errs, errors.New("telemetry.service_name is required when telemetry is enabled"))
	}

	if c.Rules.Watch && c.Rules.Path == "" {
		errs = append(errs, errors.New("rules.watch requires rules.path"))
	}

	return errors.Join(errs...)
}
