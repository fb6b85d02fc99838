// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads workspace service configuration.
//
// Configuration is layered: defaults, then an optional YAML file, then
// ALEUTIAN_DOCS_* environment variables. Later layers win.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config contains all workspace service configuration.
//
// Thread Safety: Safe to read concurrently. Not safe to modify after
// creation.
type Config struct {
	// Server contains HTTP listener settings.
	Server ServerConfig `yaml:"server"`

	// Storage contains data directory settings.
	Storage StorageConfig `yaml:"storage"`

	// Watcher contains filesystem watcher settings.
	Watcher WatcherConfig `yaml:"watcher"`

	// RateLimit contains mutation rate limiter settings.
	RateLimit RateLimitConfig `yaml:"rate_limit"`

	// Logging contains log output settings.
	Logging LoggingConfig `yaml:"logging"`

	// Tracing contains OpenTelemetry export settings.
	Tracing TracingConfig `yaml:"tracing"`
}

// ServerConfig contains HTTP listener settings.
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes"`
}

// StorageConfig contains data directory settings.
type StorageConfig struct {
	// DataDir is the base directory. The registry database lives in
	// DataDir/registry and space roots default to DataDir/spaces/<name>.
	DataDir string `yaml:"data_dir"`
}

// WatcherConfig contains filesystem watcher settings.
type WatcherConfig struct {
	DebounceWindow time.Duration `yaml:"debounce_window"`
	BufferSize     int           `yaml:"buffer_size"`
}

// RateLimitConfig contains mutation rate limiter settings.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// LoggingConfig contains log output settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	Dir   string `yaml:"dir"`
	JSON  bool   `yaml:"json"`
}

// TracingConfig contains OpenTelemetry export settings. Tracing is off
// when Endpoint is empty.
type TracingConfig struct {
	Endpoint string `yaml:"endpoint"`
}

// Default returns the default configuration for a local workspace.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            8985,
			ShutdownTimeout: 10 * time.Second,
			MaxUploadBytes:  256 << 20, // 256 MiB
		},
		Storage: StorageConfig{
			DataDir: "~/.aleutian/docs",
		},
		Watcher: WatcherConfig{
			DebounceWindow: 100 * time.Millisecond,
			BufferSize:     1000,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 25,
			Burst:             50,
		},
		Logging: LoggingConfig{
			Level: "info",
			JSON:  true,
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path
// (skipped when path is empty or the file does not exist), and then
// environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// Missing file falls back to defaults.
		default:
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	loadFromEnv(&cfg)
	cfg.Storage.DataDir = expandHome(cfg.Storage.DataDir)
	cfg.Logging.Dir = expandHome(cfg.Logging.Dir)
	return cfg, nil
}

// Addr returns the host:port listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RegistryDir returns the directory holding the space registry database.
func (c StorageConfig) RegistryDir() string {
	return filepath.Join(c.DataDir, "registry")
}

// SpacesDir returns the default parent directory for new space roots.
func (c StorageConfig) SpacesDir() string {
	return filepath.Join(c.DataDir, "spaces")
}

func loadFromEnv(cfg *Config) {
	if v := os.Getenv("ALEUTIAN_DOCS_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("ALEUTIAN_DOCS_PORT"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = i
		}
	}
	if v := os.Getenv("ALEUTIAN_DOCS_DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv("ALEUTIAN_DOCS_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("ALEUTIAN_DOCS_LOG_DIR"); v != "" {
		cfg.Logging.Dir = v
	}
	if v := os.Getenv("ALEUTIAN_DOCS_DEBOUNCE_WINDOW"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Watcher.DebounceWindow = d
		}
	}
	if v := os.Getenv("ALEUTIAN_DOCS_RATE_LIMIT_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.RateLimit.RequestsPerSecond = f
		}
	}
	if v := os.Getenv("ALEUTIAN_DOCS_RATE_LIMIT_BURST"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.RateLimit.Burst = i
		}
	}
	if v := os.Getenv("ALEUTIAN_DOCS_OTEL_ENDPOINT"); v != "" {
		cfg.Tracing.Endpoint = v
	}
	if v := os.Getenv("ALEUTIAN_DOCS_MAX_UPLOAD_BYTES"); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Server.MaxUploadBytes = i
		}
	}
}

// expandHome expands a leading ~ to the user's home directory.
func expandHome(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	if path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
