package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 100, cfg.Pool.MaxRepositories)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Metrics.Enabled)
	require.NoError(t, cfg.Validate())
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))

	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Server.Port, cfg.Server.Port)
}

func TestLoadYAMLFile(t *testing.T) {
	data := `
server:
  host: 127.0.0.1
  port: 9090
pool:
  max_repositories: 5
logging:
  level: debug
metrics:
  enabled: false
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Pool.MaxRepositories)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: ["), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("MINIGIT_SERVER_PORT", "7070")
	t.Setenv("MINIGIT_LOG_LEVEL", "error")
	t.Setenv("MINIGIT_POOL_MAX_REPOSITORIES", "3")
	t.Setenv("MINIGIT_POOL_MAX_IDLE_TIME", "1m")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Equal(t, 3, cfg.Pool.MaxRepositories)
	assert.Equal(t, time.Minute, cfg.Pool.MaxIdleTime)
}

func TestEnvOverrideInvalidPort(t *testing.T) {
	t.Setenv("MINIGIT_SERVER_PORT", "not-a-port")

	_, err := Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero port", func(c *Config) { c.Server.Port = 0 }},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }},
		{"non-positive pool size", func(c *Config) { c.Pool.MaxRepositories = 0 }},
		{"negative idle time", func(c *Config) { c.Pool.MaxIdleTime = -time.Second }},
		{"metrics enabled without path", func(c *Config) { c.Metrics.Path = "" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestAddr(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Host = "localhost"
	cfg.Server.Port = 8081

	assert.Equal(t, "localhost:8081", cfg.Addr())
}
