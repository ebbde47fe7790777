package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jackzampolin/ballotmaker/internal/edf"
)

// ErrInvalidConfig is returned when a config value is outside its allowed set.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds ballotmaker configuration.
// Stored at: {home}/config.yaml
type Config struct {
	// Namespace qualifies unprefixed type names in the election definition.
	Namespace  string        `mapstructure:"namespace" json:"namespace" yaml:"namespace"`
	Output     OutputCfg     `mapstructure:"output" json:"output" yaml:"output"`
	Validation ValidationCfg `mapstructure:"validate" json:"validate" yaml:"validate"`
	Log        LogCfg        `mapstructure:"log" json:"log" yaml:"log"`
}

// OutputCfg controls how extracted ballot data is written.
type OutputCfg struct {
	Format string `mapstructure:"format" json:"format" yaml:"format"` // "yaml" or "json"
	Dir    string `mapstructure:"dir" json:"dir" yaml:"dir"`          // export directory (supports ${ENV_VAR} syntax)
}

// ValidationCfg controls structural checks on input documents.
type ValidationCfg struct {
	// Schema validates input against the embedded schema before extraction.
	Schema bool `mapstructure:"schema" json:"schema" yaml:"schema"`
}

// LogCfg configures the CLI logger.
type LogCfg struct {
	Level  string `mapstructure:"level" json:"level" yaml:"level"`    // debug, info, warn, error
	Format string `mapstructure:"format" json:"format" yaml:"format"` // "text" or "json"
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Namespace: edf.Namespace,
		Output: OutputCfg{
			Format: "yaml",
		},
		Validation: ValidationCfg{
			Schema: true,
		},
		Log: LogCfg{
			Level:  "info",
			Format: "text",
		},
	}
}

// Check reports the first config value outside its allowed set.
func (c *Config) Check() error {
	switch c.Output.Format {
	case "yaml", "json":
	default:
		return fmt.Errorf("%w: output.format %q (want yaml or json)", ErrInvalidConfig, c.Output.Format)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log.format %q (want text or json)", ErrInvalidConfig, c.Log.Format)
	}
	return nil
}

// OutputDir returns the export directory with ${ENV_VAR} references resolved.
func (c *Config) OutputDir() string {
	return ResolveEnvVars(c.Output.Dir)
}

// NewLogger builds a logger writing to w.
func (l LogCfg) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(l.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("%w: log.level %q", ErrInvalidConfig, s)
	}
	return level, nil
}
