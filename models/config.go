package models

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL        = "https://github.blog/changelog/"
	DefaultCacheTTL       = time.Hour
	DefaultSweepInterval  = 10 * time.Minute
	DefaultRequestTimeout = 30 * time.Second
	DefaultUserAgent      = "changelog-mcp/1.0"
	DefaultLogLevel       = "info"
)

// Config holds runtime configuration. Values come from an optional YAML file
// and are then overridden by CLI flags or environment variables.
type Config struct {
	BaseURL        string        `yaml:"base_url"`
	CacheTTL       time.Duration `yaml:"cache_ttl"`
	SweepInterval  time.Duration `yaml:"sweep_interval"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	UserAgent      string        `yaml:"user_agent"`
	LogLevel       string        `yaml:"log_level"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:        DefaultBaseURL,
		CacheTTL:       DefaultCacheTTL,
		SweepInterval:  DefaultSweepInterval,
		RequestTimeout: DefaultRequestTimeout,
		UserAgent:      DefaultUserAgent,
		LogLevel:       DefaultLogLevel,
	}
}

// LoadConfig reads a YAML config file over the defaults. An empty path yields
// the defaults; a path that cannot be read is an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configurations the service cannot run with.
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("base_url must be an absolute URL, got %q", c.BaseURL)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("cache_ttl must be positive, got %s", c.CacheTTL)
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("sweep_interval must be positive, got %s", c.SweepInterval)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout)
	}
	return nil
}
