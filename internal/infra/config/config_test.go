package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "memory", cfg.Store.Type)
	assert.Equal(t, 5000, cfg.Poll.IntervalMs)
	assert.Equal(t, 5*time.Second, cfg.Poll.Interval())
	assert.Equal(t, 10*time.Second, cfg.Youtube.Timeout())
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	content := `
server:
  addr: ":9090"
store:
  type: redis
  settings:
    addr: "redis:6379"
    password: "secret"
    db: 2
poll:
  interval_ms: 1000
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "redis", cfg.Store.Type)
	assert.Equal(t, time.Second, cfg.Poll.Interval())

	settings, err := cfg.RedisSettings()
	require.NoError(t, err)
	assert.Equal(t, "redis:6379", settings.Addr)
	assert.Equal(t, "secret", settings.Password)
	assert.Equal(t, 2, settings.DB)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/server.yaml")
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("REDIS_ADDR", "env-redis:6379")
	t.Setenv("REDIS_PASSWORD", "env-secret")

	cfg, err := Load("")
	require.NoError(t, err)

	settings, err := cfg.RedisSettings()
	require.NoError(t, err)
	assert.Equal(t, "env-redis:6379", settings.Addr)
	assert.Equal(t, "env-secret", settings.Password)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "unknown store type",
			mutate:  func(c *Config) { c.Store.Type = "postgres" },
			wantErr: true,
		},
		{
			name:    "poll interval too small",
			mutate:  func(c *Config) { c.Poll.IntervalMs = 10 },
			wantErr: true,
		},
		{
			name:    "youtube timeout too small",
			mutate:  func(c *Config) { c.Youtube.TimeoutMs = 1 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			require.NoError(t, err)
			tt.mutate(cfg)

			err = cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRedisSettings_DefaultAddr(t *testing.T) {
	cfg := &Config{Store: StoreConfig{Type: "redis"}}

	settings, err := cfg.RedisSettings()
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", settings.Addr)
}
