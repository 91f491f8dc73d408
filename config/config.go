// Package config loads server configuration from a yaml file with
// MINIGIT_* environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Pool    PoolConfig    `yaml:"pool"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
	Debug        bool          `yaml:"debug"`
}

// PoolConfig contains repository pool configuration
type PoolConfig struct {
	MaxRepositories int           `yaml:"max_repositories"`
	MaxIdleTime     time.Duration `yaml:"max_idle_time"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level     string `yaml:"level"`
	Component string `yaml:"component"`
}

// MetricsConfig contains metrics configuration
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// DefaultConfig returns the configuration used when no file or environment
// overrides are present.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		Pool: PoolConfig{
			MaxRepositories: 100,
			MaxIdleTime:     30 * time.Minute,
			CleanupInterval: 5 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:     "info",
			Component: "minigit",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Load reads configuration from the given yaml file (skipped when path is
// empty or the file does not exist), applies environment overrides, and
// validates the result.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Missing file falls back to defaults
		case err != nil:
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if host := os.Getenv("MINIGIT_SERVER_HOST"); host != "" {
		c.Server.Host = host
	}
	if port := os.Getenv("MINIGIT_SERVER_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid MINIGIT_SERVER_PORT %q: %w", port, err)
		}
		c.Server.Port = p
	}
	if level := os.Getenv("MINIGIT_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if enabled := os.Getenv("MINIGIT_METRICS_ENABLED"); enabled != "" {
		b, err := strconv.ParseBool(enabled)
		if err != nil {
			return fmt.Errorf("invalid MINIGIT_METRICS_ENABLED %q: %w", enabled, err)
		}
		c.Metrics.Enabled = b
	}
	if maxRepos := os.Getenv("MINIGIT_POOL_MAX_REPOSITORIES"); maxRepos != "" {
		n, err := strconv.Atoi(maxRepos)
		if err != nil {
			return fmt.Errorf("invalid MINIGIT_POOL_MAX_REPOSITORIES %q: %w", maxRepos, err)
		}
		c.Pool.MaxRepositories = n
	}
	if idle := os.Getenv("MINIGIT_POOL_MAX_IDLE_TIME"); idle != "" {
		d, err := time.ParseDuration(idle)
		if err != nil {
			return fmt.Errorf("invalid MINIGIT_POOL_MAX_IDLE_TIME %q: %w", idle, err)
		}
		c.Pool.MaxIdleTime = d
	}
	return nil
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be in 1..65535, got %d", c.Server.Port)
	}
	if c.Pool.MaxRepositories <= 0 {
		return fmt.Errorf("pool max_repositories must be positive, got %d", c.Pool.MaxRepositories)
	}
	if c.Pool.CleanupInterval < 0 || c.Pool.MaxIdleTime < 0 {
		return fmt.Errorf("pool durations must not be negative")
	}
	if c.Metrics.Enabled && c.Metrics.Path == "" {
		return fmt.Errorf("metrics path must be set when metrics are enabled")
	}
	return nil
}

// Addr returns the host:port the HTTP server binds to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
