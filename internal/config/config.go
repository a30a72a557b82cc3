// Package config provides configuration for the panel engine.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds the engine configuration.
type Config struct {
	// Backend
	Mode           string        `yaml:"mode"`
	BackendURL     string        `yaml:"backend_url"`
	BackendTimeout time.Duration `yaml:"backend_timeout"`
	BackendStream  bool          `yaml:"backend_stream"`
	SimDelay       time.Duration `yaml:"sim_delay"`

	// Storage
	StorageDriver string `yaml:"storage_driver"`
	DatabaseURL   string `yaml:"database_url"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisDB       int    `yaml:"redis_db"`

	// Server settings
	HTTPPort    int `yaml:"http_port"`
	BackendPort int `yaml:"backend_port"`

	// History
	SessionCapacity  int `yaml:"session_capacity"`
	FeedbackCapacity int `yaml:"feedback_capacity"`

	// TimelineStep scales the run timeline; zero keeps the reference offsets.
	TimelineStep time.Duration `yaml:"timeline_step"`

	// Logging
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		BackendURL:       "http://localhost:8000",
		BackendTimeout:   30 * time.Second,
		SimDelay:         200 * time.Millisecond,
		StorageDriver:    "sqlite",
		DatabaseURL:      "file:panel.db?cache=shared&mode=rwc",
		RedisAddr:        "localhost:6379",
		HTTPPort:         8080,
		BackendPort:      8000,
		SessionCapacity:  20,
		FeedbackCapacity: 100,
		LogLevel:         "info",
		LogFormat:        "console",
	}
}

// Load builds the configuration from defaults, then the YAML file at path
// (skipped when path is empty), then environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config %s", path)
		}
	}

	cfg.Mode = getEnv("PANEL_MODE", cfg.Mode)
	cfg.BackendURL = getEnv("BACKEND_URL", cfg.BackendURL)
	cfg.BackendTimeout = getEnvMillis("BACKEND_TIMEOUT_MS", cfg.BackendTimeout)
	cfg.BackendStream = getEnvBool("BACKEND_STREAM", cfg.BackendStream)
	cfg.SimDelay = getEnvMillis("SIM_DELAY_MS", cfg.SimDelay)
	cfg.StorageDriver = getEnv("STORAGE_DRIVER", cfg.StorageDriver)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.RedisAddr = getEnv("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisDB = getEnvInt("REDIS_DB", cfg.RedisDB)
	cfg.HTTPPort = getEnvInt("HTTP_PORT", cfg.HTTPPort)
	cfg.BackendPort = getEnvInt("BACKEND_PORT", cfg.BackendPort)
	cfg.SessionCapacity = getEnvInt("SESSION_CAPACITY", cfg.SessionCapacity)
	cfg.FeedbackCapacity = getEnvInt("FEEDBACK_CAPACITY", cfg.FeedbackCapacity)
	cfg.TimelineStep = getEnvMillis("TIMELINE_STEP_MS", cfg.TimelineStep)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the engine cannot start with.
func (c *Config) Validate() error {
	switch strings.ToLower(c.StorageDriver) {
	case "sqlite", "redis", "memory":
	default:
		return errors.Errorf("unknown storage driver %q", c.StorageDriver)
	}
	if c.SessionCapacity <= 0 {
		return errors.Errorf("session capacity must be positive, got %d", c.SessionCapacity)
	}
	if c.FeedbackCapacity <= 0 {
		return errors.Errorf("feedback capacity must be positive, got %d", c.FeedbackCapacity)
	}
	if c.BackendTimeout <= 0 {
		return errors.Errorf("backend timeout must be positive, got %s", c.BackendTimeout)
	}
	return nil
}

// TimelineOffsets returns the four step offsets, or nil for the reference
// ones. With a step of s the offsets are 0, s, 2s and 3s.
func (c *Config) TimelineOffsets() []time.Duration {
	if c.TimelineStep <= 0 {
		return nil
	}
	return []time.Duration{0, c.TimelineStep, 2 * c.TimelineStep, 3 * c.TimelineStep}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if boolVal, err := strconv.ParseBool(val); err == nil {
			return boolVal
		}
	}
	return defaultVal
}

func getEnvMillis(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if ms, err := strconv.Atoi(val); err == nil {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return defaultVal
}
