package app

import (
	"errors"
	"fmt"
	"slices"
)

// Output formats accepted by Config.Format.
const (
	FormatText = "text"
	FormatHCL  = "hcl"
	FormatYAML = "yaml"
)

var (
	formats   = []string{FormatText, FormatHCL, FormatYAML}
	logLevels = []string{"debug", "info", "warn", "error"}
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	SearchPaths []string // directories holding <library>.eli.hcl manifests
	Targets     []string // "lib" or "lib.element"; empty means every library

	Format    string
	LogFormat string
	LogLevel  string
	Metrics   bool
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.Format == "" {
		cfg.Format = FormatText
	}
	if !slices.Contains(formats, cfg.Format) {
		return nil, fmt.Errorf("invalid format %q: must be one of %v", cfg.Format, formats)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if !slices.Contains(logLevels, cfg.LogLevel) {
		return nil, fmt.Errorf("invalid log-level %q: must be one of %v", cfg.LogLevel, logLevels)
	}
	if cfg.LogFormat != "" && cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, errors.New("invalid log-format: must be 'text' or 'json'")
	}
	for _, t := range cfg.Targets {
		if t == "" {
			return nil, errors.New("empty target: expected lib or lib.element")
		}
	}
	return &cfg, nil
}
