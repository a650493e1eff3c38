package config

import (
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.LogLevel != "info" || cfg.MaxWindow != DefaultMaxWindow || cfg.OutputDir != "" {
		t.Errorf("unexpected default: %+v", cfg)
	}
	if cfg.Debug() {
		t.Error("Debug should be off by default")
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvLogLevel, " DEBUG ")
	t.Setenv(EnvMaxWindow, "9")
	t.Setenv(EnvOutputDir, "/tmp/filtered")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}
	if !cfg.Debug() {
		t.Errorf("LogLevel: got %q, want debug", cfg.LogLevel)
	}
	if cfg.MaxWindow != 9 {
		t.Errorf("MaxWindow: got %d, want 9", cfg.MaxWindow)
	}
	if cfg.OutputDir != "/tmp/filtered" {
		t.Errorf("OutputDir: got %q", cfg.OutputDir)
	}
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"log level", EnvLogLevel, "verbose"},
		{"window not a number", EnvMaxWindow, "big"},
		{"window zero", EnvMaxWindow, "0"},
		{"window negative", EnvMaxWindow, "-3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := FromEnv(); err == nil {
				t.Errorf("%s=%q: expected error", tt.key, tt.value)
			}
		})
	}
}

func TestResolveOutput(t *testing.T) {
	tests := []struct {
		dir  string
		path string
		want string
	}{
		{"", "out.png", "out.png"},
		{"", "/abs/../out.png", "/out.png"},
		{"/data", "out.png", filepath.Join("/data", "out.png")},
		{"/data", "sub/out.png", filepath.Join("/data", "sub", "out.png")},
		{"/data", "/elsewhere/out.png", "/elsewhere/out.png"},
	}
	for _, tt := range tests {
		cfg := Config{OutputDir: tt.dir}
		if got := cfg.ResolveOutput(tt.path); got != tt.want {
			t.Errorf("ResolveOutput(%q) with dir %q: got %q, want %q", tt.path, tt.dir, got, tt.want)
		}
	}
}
