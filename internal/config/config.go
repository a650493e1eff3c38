// Package config reads server settings from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Environment variables read by FromEnv.
const (
	EnvLogLevel  = "IMAGE_FILTER_MCP_LOG_LEVEL"
	EnvMaxWindow = "IMAGE_FILTER_MCP_MAX_WINDOW"
	EnvOutputDir = "IMAGE_FILTER_MCP_OUTPUT_DIR"
)

// DefaultMaxWindow is the largest window side accepted when none is configured.
const DefaultMaxWindow = 31

// Config holds the server settings.
type Config struct {
	// LogLevel is "info" or "debug".
	LogLevel string

	// MaxWindow caps the width and height of filter windows and masks.
	MaxWindow int

	// OutputDir, when set, is the base for relative output paths.
	OutputDir string
}

// Default returns the settings used when no environment variables are set.
func Default() Config {
	return Config{
		LogLevel:  "info",
		MaxWindow: DefaultMaxWindow,
	}
}

// FromEnv returns Default overridden by any environment variables that are set.
func FromEnv() (Config, error) {
	cfg := Default()

	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		v = strings.ToLower(v)
		if v != "info" && v != "debug" {
			return cfg, fmt.Errorf("%s: unknown log level %q", EnvLogLevel, v)
		}
		cfg.LogLevel = v
	}

	if v := strings.TrimSpace(os.Getenv(EnvMaxWindow)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvMaxWindow, err)
		}
		if n < 1 {
			return cfg, fmt.Errorf("%s: must be at least 1, got %d", EnvMaxWindow, n)
		}
		cfg.MaxWindow = n
	}

	cfg.OutputDir = strings.TrimSpace(os.Getenv(EnvOutputDir))
	return cfg, nil
}

// Debug reports whether debug logging is enabled.
func (c Config) Debug() bool {
	return c.LogLevel == "debug"
}

// ResolveOutput joins a relative path onto OutputDir. Absolute paths, and
// every path when OutputDir is unset, are returned cleaned but otherwise
// unchanged.
func (c Config) ResolveOutput(path string) string {
	if c.OutputDir == "" || filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(c.OutputDir, path)
}
