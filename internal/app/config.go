package app

import (
	"errors"
	"fmt"

	"github.com/vk/akamai2azion/internal/output"
)

// StdinPath makes the app read a JSON/YAML document from standard input.
const StdinPath = "-"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	InputPath       string // .tf file or directory, JSON/YAML document, or "-"
	OutputPath      string // empty or "-" writes to the app's output writer
	Format          string // json | hcl
	Environment     string // overrides context.environment when set
	FunctionMapPath string // JSON/YAML function map, overrides function_map

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.InputPath == "" {
		return nil, errors.New("InputPath is a required configuration field and cannot be empty")
	}

	if cfg.Format == "" {
		cfg.Format = string(output.FormatJSON)
	}
	if _, err := output.ParseFormat(cfg.Format); err != nil {
		return nil, err
	}

	switch cfg.LogFormat {
	case "":
		cfg.LogFormat = "text"
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", cfg.LogFormat)
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if _, ok := levels[cfg.LogLevel]; !ok {
		return nil, fmt.Errorf("invalid log level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}

	return &cfg, nil
}

// writesToFile reports whether output goes to OutputPath.
func (c *Config) writesToFile() bool {
	return c.OutputPath != "" && c.OutputPath != StdinPath
}
