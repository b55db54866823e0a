// Package config loads runtime configuration for the CLI and the API server.
// Values come from DefaultConfig, then an optional YAML file, then
// FOLIO_A11Y_* environment variables (a .env file in the working directory
// is loaded first when present).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/raysh454/folio-a11y/internal/panel"
	"github.com/raysh454/folio-a11y/internal/render"
)

const envPrefix = "FOLIO_A11Y_"

type ServerConfig struct {
	// ListenAddr is the HTTP listen address for the API server.
	ListenAddr string `yaml:"listen_addr"`
	// ReadTimeout bounds reading a request, body included.
	ReadTimeout time.Duration `yaml:"read_timeout"`
}

type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// Format is json or console.
	Format string `yaml:"format"`
}

type Config struct {
	Server ServerConfig `yaml:"server"`

	// StorageRoot holds the page registry database.
	StorageRoot string `yaml:"storage_root"`

	// BatchConcurrency caps parallel audits in a batch.
	BatchConcurrency int `yaml:"batch_concurrency"`

	Render  render.Config `yaml:"render"`
	Logging LoggingConfig `yaml:"logging"`
	Panel   panel.Config  `yaml:"panel"`
}

// DefaultConfig returns a Config populated with development defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			ListenAddr:  ":8080",
			ReadTimeout: 15 * time.Second,
		},
		StorageRoot:      "~/.config/folio-a11y",
		BatchConcurrency: 4,
		Render:           render.DefaultConfig(),
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Panel: panel.DefaultConfig(),
	}
}

// Load reads the YAML file at path over the defaults and applies
// environment overrides. An empty path or a missing file yields the
// defaults (plus overrides).
func Load(path string) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnvOverrides(os.Getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadDotEnv() error {
	if _, err := os.Stat(".env"); err == nil {
		return godotenv.Load(".env")
	}
	return nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// applyEnvOverrides reads FOLIO_A11Y_* variables through getenv.
func (c *Config) applyEnvOverrides(getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := getenv(envPrefix + key); v != "" {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) error {
		v := getenv(envPrefix + key)
		if v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, key, err)
		}
		*dst = d
		return nil
	}

	str("LISTEN_ADDR", &c.Server.ListenAddr)
	str("STORAGE_ROOT", &c.StorageRoot)
	str("BACKEND", &c.Render.Backend)
	str("BROWSER_PATH", &c.Render.BrowserPath)
	str("LOG_LEVEL", &c.Logging.Level)
	str("LOG_FORMAT", &c.Logging.Format)

	if err := dur("RENDER_TIMEOUT", &c.Render.Timeout); err != nil {
		return err
	}
	if err := dur("HIGHLIGHT_FOR", &c.Panel.HighlightFor); err != nil {
		return err
	}
	if v := getenv(envPrefix + "HEADLESS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sHEADLESS: %w", envPrefix, err)
		}
		c.Render.Headless = b
	}
	if v := getenv(envPrefix + "BATCH_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sBATCH_CONCURRENCY: %w", envPrefix, err)
		}
		c.BatchConcurrency = n
	}
	return nil
}

var validLevels = []string{"debug", "info", "warn", "error"}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.StorageRoot) == "" {
		return errors.New("storage_root must be set")
	}
	if c.BatchConcurrency < 1 {
		return fmt.Errorf("batch_concurrency must be at least 1, got %d", c.BatchConcurrency)
	}
	if c.Render.Timeout <= 0 {
		return fmt.Errorf("render.timeout must be positive, got %s", c.Render.Timeout)
	}
	if c.Panel.HighlightFor < 0 {
		return fmt.Errorf("panel.highlight_for must not be negative, got %s", c.Panel.HighlightFor)
	}

	backendOK := false
	for _, b := range render.ListBackends() {
		if c.Render.Backend == b {
			backendOK = true
			break
		}
	}
	if !backendOK {
		return fmt.Errorf("invalid render backend: %s (valid: %v)", c.Render.Backend, render.ListBackends())
	}

	levelOK := false
	for _, l := range validLevels {
		if strings.EqualFold(c.Logging.Level, l) {
			levelOK = true
			break
		}
	}
	if !levelOK {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.Logging.Level, validLevels)
	}
	if f := strings.ToLower(c.Logging.Format); f != "json" && f != "console" {
		return fmt.Errorf("invalid log format: %s (valid: json, console)", c.Logging.Format)
	}
	return nil
}

// ExpandedStorageRoot resolves a leading "~" in StorageRoot.
func (c *Config) ExpandedStorageRoot() (string, error) {
	return ExpandPath(c.StorageRoot)
}

// ExpandPath expands a leading "~" to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}
