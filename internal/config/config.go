// Package config handles the configuration directory, the optional config.yaml
// file and environment overrides.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "todo"

	// ConfigFile is the optional YAML settings filename.
	ConfigFile = "config.yaml"

	// GoogleDir is the subdirectory holding Google Tasks credentials for import.
	GoogleDir = "google"

	// DefaultBaseURL is the API root used when nothing else is configured.
	DefaultBaseURL = "http://localhost:8000/api"

	// StoreFile keeps credentials as files in the config directory.
	StoreFile = "file"

	// StoreRedis keeps credentials in Redis.
	StoreRedis = "redis"
)

// Environment variables that override config.yaml.
const (
	EnvBaseURL   = "TODO_API_BASE_URL"
	EnvStore     = "TODO_STORE"
	EnvRedisAddr = "TODO_REDIS_ADDR"
	EnvRedisDB   = "TODO_REDIS_DB"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string `yaml:"-"`

	// Debug enables debug logging.
	Debug bool `yaml:"-"`

	// Quiet suppresses informational output.
	Quiet bool `yaml:"-"`

	// Timings prints a per-call timing report after the command.
	Timings bool `yaml:"-"`

	// BaseURL is the API root, e.g. http://localhost:8000/api.
	BaseURL string `yaml:"base_url"`

	// Timeout bounds each HTTP call. Zero means no timeout.
	Timeout Duration `yaml:"timeout"`

	// Store selects the credential store backend: "file" or "redis".
	Store string `yaml:"store"`

	Redis RedisConfig `yaml:"redis"`
}

// RedisConfig configures the Redis credential store.
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	Namespace string `yaml:"namespace"`
}

// Duration is a time.Duration that unmarshals from YAML strings like "10s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	if s == "" {
		*d = 0
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Default returns a Config with built-in defaults for the given directory.
func Default(dir string) *Config {
	return &Config{
		Dir:     dir,
		BaseURL: DefaultBaseURL,
		Store:   StoreFile,
		Redis: RedisConfig{
			Addr:      "localhost:6379",
			Namespace: "default",
		},
	}
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/todo or $HOME/.config/todo.
// Settings are read from config.yaml when present, then environment overrides apply.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}

	cfg, err := readFile(dir)
	if err != nil {
		return nil, err
	}
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads config.yaml from dir over the defaults, ignoring the
// environment. It is the starting point for editing the file.
func LoadFile(dir string) (*Config, error) {
	cfg, err := readFile(dir)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readFile(dir string) (*Config, error) {
	cfg := Default(dir)
	data, err := os.ReadFile(cfg.FilePath())
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read %s: %w", ConfigFile, err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", ConfigFile, err)
		}
	}
	return cfg, nil
}

// Keys lists the settings accepted by Set, in display order.
var Keys = []string{"base_url", "timeout", "store", "redis.addr", "redis.password", "redis.db", "redis.namespace"}

// Get returns the display value of a setting.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "base_url":
		return c.BaseURL, nil
	case "timeout":
		return time.Duration(c.Timeout).String(), nil
	case "store":
		return c.Store, nil
	case "redis.addr":
		return c.Redis.Addr, nil
	case "redis.password":
		if c.Redis.Password == "" {
			return "", nil
		}
		return "********", nil
	case "redis.db":
		return strconv.Itoa(c.Redis.DB), nil
	case "redis.namespace":
		return c.Redis.Namespace, nil
	}
	return "", fmt.Errorf("unknown setting: %s", key)
}

// Set changes one setting and validates the result.
func (c *Config) Set(key, value string) error {
	switch key {
	case "base_url":
		u, err := url.Parse(value)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid base_url: %q", value)
		}
		c.BaseURL = strings.TrimRight(value, "/")
	case "timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid timeout: %q", value)
		}
		c.Timeout = Duration(d)
	case "store":
		c.Store = value
	case "redis.addr":
		c.Redis.Addr = value
	case "redis.password":
		c.Redis.Password = value
	case "redis.db":
		db, err := strconv.Atoi(value)
		if err != nil || db < 0 {
			return fmt.Errorf("invalid redis.db: %q", value)
		}
		c.Redis.DB = db
	case "redis.namespace":
		c.Redis.Namespace = value
	default:
		return fmt.Errorf("unknown setting: %s", key)
	}
	return c.Validate()
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvStore); v != "" {
		c.Store = v
	}
	if v := os.Getenv(EnvRedisAddr); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv(EnvRedisDB); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %s", EnvRedisDB, v)
		}
		c.Redis.DB = db
	}
	return nil
}

// Validate checks settings that cannot be defaulted.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	switch c.Store {
	case "":
		c.Store = StoreFile
	case StoreFile, StoreRedis:
	default:
		return fmt.Errorf("unknown store: %s", c.Store)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	return nil
}

// Save writes the file-backed settings to config.yaml.
func (c *Config) Save() error {
	if err := c.EnsureDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(c.FilePath(), data, 0600)
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// FilePath returns the path to config.yaml.
func (c *Config) FilePath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// GoogleDir returns the directory holding oauth_client.json and token.json
// for the Google Tasks import.
func (c *Config) GoogleDir() string {
	return filepath.Join(c.Dir, GoogleDir)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}
