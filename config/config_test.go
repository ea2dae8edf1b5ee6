package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/gramwalk/config"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "-", cfg.Compositor.Separator)
	assert.Equal(t, 500, cfg.Override.Capacity)
	assert.Equal(t, 90*time.Minute, cfg.Override.HalfLife)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "gramwalk.yaml", `
compositor:
  separator: "_"
  max_buffer_length: 12
override:
  capacity: 64
  half_life: 30m
  store:
    driver: sqlite
    path: /tmp/overrides.db
model:
  dictionaries: [base.txt, extra.txt]
  user_boost: 1.5
logging:
  level: debug
  format: json
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "_", cfg.Compositor.Separator)
	assert.Equal(t, 12, cfg.Compositor.MaxBufferLength)
	assert.Equal(t, 64, cfg.Override.Capacity)
	assert.Equal(t, 30*time.Minute, cfg.Override.HalfLife)
	assert.Equal(t, config.StoreSQLite, cfg.Override.Store.Driver)
	assert.Equal(t, []string{"base.txt", "extra.txt"}, cfg.Model.Dictionaries)
	assert.InDelta(t, 1.5, cfg.Model.UserBoost, 1e-12)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "gramwalk:overrides", cfg.Override.Store.RedisKey, "untouched defaults survive")
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, "gramwalk.toml", `
[override]
capacity = 8
half_life = "2h"

[override.store]
driver = "redis"
redis_addr = "localhost:6379"

[metrics]
enabled = true
addr = ":9100"
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Override.Capacity)
	assert.Equal(t, 2*time.Hour, cfg.Override.HalfLife)
	assert.Equal(t, config.StoreRedis, cfg.Override.Store.Driver)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, ":9100", cfg.Metrics.Addr)
}

func TestLoad_Errors(t *testing.T) {
	_, err := config.Load(writeFile(t, "gramwalk.json", "{}"))
	assert.ErrorIs(t, err, config.ErrUnsupportedFormat)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = config.Load(writeFile(t, "bad.yaml", "compositor: [unclosed"))
	assert.Error(t, err)

	_, err = config.Load(writeFile(t, "bad.yaml", "override:\n  capacity: 0\n"))
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("GRAMWALK_MAX_BUFFER_LENGTH", "5")
	t.Setenv("GRAMWALK_OVERRIDE_HALF_LIFE", "10s")
	t.Setenv("GRAMWALK_OVERRIDE_CAPACITY", "not-a-number")
	t.Setenv("GRAMWALK_DICTIONARIES", "a.txt,b.txt")
	t.Setenv("GRAMWALK_LOG_LEVEL", "warn")
	t.Setenv("GRAMWALK_METRICS_ADDR", ":9200")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Compositor.MaxBufferLength)
	assert.Equal(t, 10*time.Second, cfg.Override.HalfLife)
	assert.Equal(t, 500, cfg.Override.Capacity, "unparsable value ignored")
	assert.Equal(t, []string{"a.txt", "b.txt"}, cfg.Model.Dictionaries)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, ":9200", cfg.Metrics.Addr)
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := config.Default()
	cfg.Compositor.Separator = ""
	cfg.Override.HalfLife = 0
	cfg.Override.Store.Driver = "mongo"
	cfg.Logging.Format = "xml"

	err := cfg.Validate()
	require.ErrorIs(t, err, config.ErrInvalid)
	for _, field := range []string{"separator", "half_life", "driver", "logging.format"} {
		assert.Contains(t, err.Error(), field)
	}

	cfg = config.Default()
	cfg.Override.Store.Driver = config.StoreSQLite
	assert.ErrorContains(t, cfg.Validate(), "path is required")
	cfg.Override.Store.Driver = config.StoreRedis
	assert.ErrorContains(t, cfg.Validate(), "redis_addr is required")

	assert.NoError(t, config.Default().Validate())
}
