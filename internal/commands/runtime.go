package commands

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/changelog-mcp/internal/mcp"
	"github.com/dtnitsch/changelog-mcp/models"
	"github.com/dtnitsch/changelog-mcp/pkg/changelog"
	"github.com/dtnitsch/changelog-mcp/pkg/detector"
	"github.com/dtnitsch/changelog-mcp/pkg/fetcher"
)

// runtime is everything one invocation needs, built from config and flags.
type runtime struct {
	config  models.Config
	logger  *slog.Logger
	service *changelog.Service
	server  *mcp.Server
}

func (r *runtime) Close() {
	r.service.Close()
}

// NewLogger builds the JSON stderr logger. quiet forces error level.
func NewLogger(w io.Writer, level string, quiet bool) (*slog.Logger, error) {
	var logLevel slog.Level
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		logLevel = slog.LevelDebug
	case "", "info":
		logLevel = slog.LevelInfo
	case "warn", "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		return nil, fmt.Errorf("invalid log level %q (valid: debug, info, warn, error)", level)
	}
	if quiet {
		logLevel = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: logLevel})), nil
}

// loadConfig merges defaults, the optional YAML file, then flags and
// environment variables.
func loadConfig(c *cli.Context) (models.Config, error) {
	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return cfg, err
	}

	if c.IsSet("base-url") {
		cfg.BaseURL = c.String("base-url")
	}
	if c.IsSet("cache-ttl") {
		cfg.CacheTTL = c.Duration("cache-ttl")
	}
	if c.IsSet("sweep-interval") {
		cfg.SweepInterval = c.Duration("sweep-interval")
	}
	if c.IsSet("timeout") {
		cfg.RequestTimeout = c.Duration("timeout")
	}
	if c.IsSet("user-agent") {
		cfg.UserAgent = c.String("user-agent")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newRuntime(c *cli.Context) (*runtime, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	logger, err := NewLogger(c.App.ErrWriter, cfg.LogLevel, c.Bool("quiet"))
	if err != nil {
		return nil, err
	}

	f, err := fetcher.NewFetcher(cfg.BaseURL,
		fetcher.WithUserAgent(cfg.UserAgent),
		fetcher.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}),
	)
	if err != nil {
		return nil, err
	}

	service := changelog.NewService(f,
		changelog.WithLogger(logger),
		changelog.WithCacheTTL(cfg.CacheTTL),
		changelog.WithSweepInterval(cfg.SweepInterval),
		changelog.WithTimeout(cfg.RequestTimeout),
	)

	analyzer, err := detector.NewAnalyzer(f, f.Origin())
	if err != nil {
		service.Close()
		return nil, err
	}

	logger.Debug("configuration loaded",
		"base_url", cfg.BaseURL,
		"cache_ttl", cfg.CacheTTL.String(),
		"sweep_interval", cfg.SweepInterval.String(),
		"request_timeout", cfg.RequestTimeout.String())

	return &runtime{
		config:  cfg,
		logger:  logger,
		service: service,
		server:  mcp.NewServer(c.App.Version, service, analyzer, logger),
	}, nil
}
