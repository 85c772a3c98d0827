package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	cfg := New()

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "public", cfg.StaticDir)
	assert.Equal(t, 15*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, 600*time.Second, cfg.Cache.TTL)
	assert.Equal(t, 5*time.Minute, cfg.Notify.Interval)
	assert.Equal(t, "mailto:admin@example.com", cfg.Push.Subject)
	assert.False(t, cfg.Push.Enabled())
	require.NoError(t, cfg.Validate())
}

func TestLoad_JSONFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	data := `{"port": 8081, "logger": {"level": "debug"}, "cache": {"ttl": "30s"}}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, 8081, cfg.Port)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, 15*time.Second, cfg.Fetch.Timeout)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("VAPID_PUBLIC_KEY", "pub")
	t.Setenv("VAPID_PRIVATE_KEY", "priv")
	t.Setenv("STATIC_DIR", "web")
	t.Setenv("SERVER_SHUTDOWN_TIMEOUT", "3s")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "pub", cfg.Push.PublicKey)
	assert.Equal(t, "priv", cfg.Push.PrivateKey)
	assert.True(t, cfg.Push.Enabled())
	assert.Equal(t, ":9090", cfg.Address())
	assert.Equal(t, "web", cfg.StaticDir)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"bad port", func(c *Config) { c.Port = 0 }, "port"},
		{"bad level", func(c *Config) { c.Logger.Level = "trace" }, "logger.level"},
		{"bad timeout", func(c *Config) { c.Fetch.Timeout = 0 }, "fetch.timeout"},
		{"negative retries", func(c *Config) { c.Fetch.Retries = -1 }, "fetch.retries"},
		{"bad ttl", func(c *Config) { c.Cache.TTL = 0 }, "cache.ttl"},
		{"bad interval", func(c *Config) { c.Notify.Interval = -time.Second }, "notify.interval"},
		{"half keys", func(c *Config) { c.Push.PublicKey = "pub" }, "push keys"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
