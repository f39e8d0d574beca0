package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all application configuration
type Config struct {
	Version  int            `toml:"version"`
	Scrape   ScrapeConfig   `toml:"scrape"`
	Analysis AnalysisConfig `toml:"analysis"`
	Cache    CacheConfig    `toml:"cache"`
	Server   ServerConfig   `toml:"server"`
}

type ScrapeConfig struct {
	Headless       bool `toml:"headless"`
	TimeoutSeconds int  `toml:"timeout_seconds"`
}

type AnalysisConfig struct {
	Provider  string  `toml:"provider"` // "openai" or "anthropic"
	Model     string  `toml:"model"`
	BaseURL   string  `toml:"base_url"`
	APIKeyEnv string  `toml:"api_key_env"`
	MaxTokens int     `toml:"max_tokens"`
	Temp      float64 `toml:"temperature"`
}

type CacheConfig struct {
	Path          string `toml:"path"`
	TTLDays       int    `toml:"ttl_days"`
	PurgeSchedule string `toml:"purge_schedule"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

// APIKey resolves the analysis API key from the configured environment
// variable.
func (c AnalysisConfig) APIKey() string {
	return os.Getenv(c.APIKeyEnv)
}

// Default returns a Config with sensible defaults
func Default() *Config {
	return &Config{
		Version: 1,
		Scrape: ScrapeConfig{
			Headless:       true,
			TimeoutSeconds: 120,
		},
		Analysis: AnalysisConfig{
			Provider:  "openai",
			Model:     "gemini-2.0-flash",
			APIKeyEnv: "OPENAI_API_KEY",
			MaxTokens: 6000,
			Temp:      0.3,
		},
		Cache: CacheConfig{
			TTLDays:       7,
			PurgeSchedule: "0 3 * * *",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// ConfigDir returns the platform-appropriate config directory
func ConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "gramlens"), nil
}

// ConfigPath returns the full path to the config file
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DefaultCachePath returns the default sqlite database location.
func DefaultCachePath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cache.db"), nil
}

// Load reads config from the given path, or the default location when path
// is empty.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = ConfigPath()
		if err != nil {
			return nil, err
		}
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes config to disk
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(c)
}
