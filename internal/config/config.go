package config

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

// APIKeyEnv names the environment variable holding the API key.
const APIKeyEnv = "NEWSAPP_API_KEY"

type ShakeConfig struct {
	Threshold float64 `yaml:"threshold"`
	Cooldown  string  `yaml:"cooldown"`
	Interval  string  `yaml:"interval"`
	Sensor    string  `yaml:"sensor"`
}

type Config struct {
	Endpoint          string      `yaml:"endpoint"`
	APIKey            string      `yaml:"api_key"`
	Country           string      `yaml:"country"`
	Language          string      `yaml:"language"`
	Locale            string      `yaml:"locale"`
	LogLevel          string      `yaml:"log_level"`
	SearchDebounce    string      `yaml:"search_debounce"`
	RequestsPerMinute int         `yaml:"requests_per_minute"`
	Shake             ShakeConfig `yaml:"shake"`
}

// ResolvedAPIKey returns the configured key, falling back to the environment.
func (c *Config) ResolvedAPIKey() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	return os.Getenv(APIKeyEnv)
}

func (c *Config) DebounceDuration() time.Duration {
	return parseDuration(c.SearchDebounce, 500*time.Millisecond)
}

func (c *Config) ShakeCooldown() time.Duration {
	return parseDuration(c.Shake.Cooldown, 4*time.Second)
}

func (c *Config) ShakeInterval() time.Duration {
	return parseDuration(c.Shake.Interval, 300*time.Millisecond)
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "newsapp", "config.yaml")
}

func CachePath() string {
	return filepath.Join(xdg.CacheHome, "newsapp", "newsapp.db")
}

func LogPath() string {
	return filepath.Join(xdg.StateHome, "newsapp", "newsapp.log")
}

// LoadEnv loads .env files into the process environment. Missing files are
// not an error; variables already set win.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env", filepath.Join(xdg.ConfigHome, "newsapp", ".env")}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

// Load reads the config at path (the xdg default when empty) on top of the
// embedded defaults. A missing file is created from the defaults.
func Load(path string) (*Config, error) {
	cfg, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Non-fatal: the embedded defaults are enough to run.
			_ = writeDefaults(path)
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	u, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return fmt.Errorf("endpoint: invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("endpoint: url scheme must be http or https, got %q", u.Scheme)
	}
	if cfg.Language == "" {
		return fmt.Errorf("language is required")
	}
	if cfg.Shake.Threshold <= 0 {
		return fmt.Errorf("shake.threshold must be positive, got %v", cfg.Shake.Threshold)
	}
	if cfg.RequestsPerMinute < 0 {
		return fmt.Errorf("requests_per_minute must not be negative")
	}
	return nil
}
