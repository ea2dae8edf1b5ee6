// Package config loads and validates gramwalk configuration from YAML or TOML
// files with GRAMWALK_* environment-variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/gramwalk/compositor"
	"github.com/katalvlaran/gramwalk/logging"
	"github.com/katalvlaran/gramwalk/override"
)

// Sentinel errors.
var (
	// ErrUnsupportedFormat indicates a config file extension other than
	// .yaml, .yml or .toml.
	ErrUnsupportedFormat = errors.New("config: unsupported file format")

	// ErrInvalid wraps every validation failure.
	ErrInvalid = errors.New("config: invalid value")
)

// Store drivers.
const (
	StoreNone   = ""
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

// Config is the top-level configuration.
type Config struct {
	Compositor CompositorConfig `yaml:"compositor" toml:"compositor"`
	Override   OverrideConfig   `yaml:"override" toml:"override"`
	Model      ModelConfig      `yaml:"model" toml:"model"`
	Logging    LoggingConfig    `yaml:"logging" toml:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics" toml:"metrics"`
}

// CompositorConfig controls the composition buffer.
type CompositorConfig struct {
	Separator       string `yaml:"separator" toml:"separator"`
	MaxBufferLength int    `yaml:"max_buffer_length" toml:"max_buffer_length"`
	LenientInsert   bool   `yaml:"lenient_insert" toml:"lenient_insert"`
}

// OverrideConfig controls the user override model and its persistence.
type OverrideConfig struct {
	Capacity int           `yaml:"capacity" toml:"capacity"`
	HalfLife time.Duration `yaml:"half_life" toml:"half_life"`
	Store    StoreConfig   `yaml:"store" toml:"store"`
}

// StoreConfig selects where the override cache is persisted.
type StoreConfig struct {
	Driver    string `yaml:"driver" toml:"driver"`
	Path      string `yaml:"path" toml:"path"`
	RedisAddr string `yaml:"redis_addr" toml:"redis_addr"`
	RedisDB   int    `yaml:"redis_db" toml:"redis_db"`
	RedisKey  string `yaml:"redis_key" toml:"redis_key"`
}

// ModelConfig lists dictionary sources.
type ModelConfig struct {
	Dictionaries []string `yaml:"dictionaries" toml:"dictionaries"`
	UserPhrases  string   `yaml:"user_phrases" toml:"user_phrases"`
	UserBoost    float64  `yaml:"user_boost" toml:"user_boost"`
	Watch        bool     `yaml:"watch" toml:"watch"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	Addr    string `yaml:"addr" toml:"addr"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Compositor: CompositorConfig{
			Separator:       compositor.DefaultSeparator,
			MaxBufferLength: 20,
		},
		Override: OverrideConfig{
			Capacity: override.DefaultCapacity,
			HalfLife: override.DefaultHalfLife,
			Store:    StoreConfig{RedisKey: "gramwalk:overrides"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Addr: ":9090",
		},
	}
}

// Load reads path (if non-empty), applies environment overrides and validates.
// The format follows the extension: .toml, .yaml or .yml.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
		if err := decode(path, data, cfg); err != nil {
			return nil, err
		}
	}
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("config: decode TOML %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("config: decode YAML %s: %w", path, err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}

	return nil
}

// ApplyEnvOverrides reads GRAMWALK_* variables. Unparsable numbers are ignored.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("GRAMWALK_SEPARATOR"); v != "" {
		c.Compositor.Separator = v
	}
	if v := os.Getenv("GRAMWALK_MAX_BUFFER_LENGTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Compositor.MaxBufferLength = n
		}
	}
	if v := os.Getenv("GRAMWALK_OVERRIDE_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Override.Capacity = n
		}
	}
	if v := os.Getenv("GRAMWALK_OVERRIDE_HALF_LIFE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Override.HalfLife = d
		}
	}
	if v := os.Getenv("GRAMWALK_STORE_DRIVER"); v != "" {
		c.Override.Store.Driver = v
	}
	if v := os.Getenv("GRAMWALK_STORE_PATH"); v != "" {
		c.Override.Store.Path = v
	}
	if v := os.Getenv("GRAMWALK_REDIS_ADDR"); v != "" {
		c.Override.Store.RedisAddr = v
	}
	if v := os.Getenv("GRAMWALK_DICTIONARIES"); v != "" {
		c.Model.Dictionaries = strings.Split(v, ",")
	}
	if v := os.Getenv("GRAMWALK_USER_PHRASES"); v != "" {
		c.Model.UserPhrases = v
	}
	if v := os.Getenv("GRAMWALK_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("GRAMWALK_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("GRAMWALK_METRICS_ADDR"); v != "" {
		c.Metrics.Addr = v
		c.Metrics.Enabled = true
	}
}

// Validate reports every invalid field, each wrapped in ErrInvalid.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if c.Compositor.Separator == "" {
		bad("compositor.separator is empty")
	}
	if c.Compositor.MaxBufferLength < 1 {
		bad("compositor.max_buffer_length %d < 1", c.Compositor.MaxBufferLength)
	}
	if c.Override.Capacity < 1 {
		bad("override.capacity %d < 1", c.Override.Capacity)
	}
	if c.Override.HalfLife <= 0 {
		bad("override.half_life %s is not positive", c.Override.HalfLife)
	}
	switch c.Override.Store.Driver {
	case StoreNone:
	case StoreSQLite:
		if c.Override.Store.Path == "" {
			bad("override.store.path is required for sqlite")
		}
	case StoreRedis:
		if c.Override.Store.RedisAddr == "" {
			bad("override.store.redis_addr is required for redis")
		}
		if c.Override.Store.RedisKey == "" {
			bad("override.store.redis_key is empty")
		}
	default:
		bad("override.store.driver %q (want sqlite or redis)", c.Override.Store.Driver)
	}
	if !logging.ValidLevel(c.Logging.Level) {
		bad("logging.level %q", c.Logging.Level)
	}
	if !logging.ValidFormat(c.Logging.Format) {
		bad("logging.format %q", c.Logging.Format)
	}
	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		bad("metrics.addr is required when metrics are enabled")
	}

	return errors.Join(errs...)
}
