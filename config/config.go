// Package config loads service configuration from an optional YAML file with
// environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v2"
)

// Config is read from YAML first; env tags then override individual fields.
// Variables that are unset leave the file value alone.
type Config struct {
	Http struct {
		Host    string        `yaml:"host"`
		Port    int           `yaml:"port" env:"HERBALIF_PORT"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"http"`
	ML struct {
		ModelType string `yaml:"model_type"`
		ModelPath string `yaml:"model_path" env:"HERBALIF_MODEL_PATH"`
	} `yaml:"ml"`
	CORS struct {
		Paths            []string `yaml:"paths"`
		AllowedOrigins   []string `yaml:"allowed_origins" env:"HERBALIF_ALLOWED_ORIGINS" envSeparator:","`
		FallbackAllowAll bool     `yaml:"fallback_allow_all"`
	} `yaml:"cors"`
	Log struct {
		Level      string `yaml:"level" env:"HERBALIF_LOG_LEVEL"`
		File       string `yaml:"file"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
	} `yaml:"log"`
	History struct {
		Enabled   bool   `yaml:"enabled" env:"HERBALIF_HISTORY_ENABLED"`
		Path      string `yaml:"path" env:"HERBALIF_HISTORY_PATH"`
		CacheSize int    `yaml:"cache_size"`
	} `yaml:"history"`
}

// Default mirrors the behaviour of the service with no config at all: port
// 5000 on every interface, model.json in the working directory.
func Default() *Config {
	cfg := &Config{}
	cfg.Http.Host = "0.0.0.0"
	cfg.Http.Port = 5000
	cfg.Http.Timeout = 30 * time.Second
	cfg.ML.ModelType = "decision_tree"
	cfg.ML.ModelPath = "model.json"
	cfg.CORS.Paths = []string{"/predict"}
	cfg.CORS.AllowedOrigins = []string{
		"http://localhost:3000",
		"http://127.0.0.1:3000",
		"https://herbalif.vercel.app",
	}
	cfg.CORS.FallbackAllowAll = true
	cfg.Log.Level = "info"
	cfg.Log.MaxSizeMB = 100
	cfg.Log.MaxBackups = 3
	cfg.Log.MaxAgeDays = 28
	cfg.History.Path = "history.db"
	cfg.History.CacheSize = 256
	return cfg
}

// Load reads path (a missing file is not an error), applies env overrides and
// validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("failed to parse env: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Http.Port < 1 || c.Http.Port > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.Http.Port)
	}
	if c.ML.ModelPath == "" {
		return errors.New("ml.model_path is required")
	}
	if !ValidLogLevel(c.Log.Level) {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Log.Level)
	}
	if c.History.Enabled && c.History.Path == "" {
		return errors.New("history.path is required when history is enabled")
	}
	return nil
}

func ValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Http.Host, c.Http.Port)
}
