package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/jdziat/apigen/pkg/core"
	"github.com/jdziat/apigen/pkg/stats"
)

// EnvAPIRoot overrides Config.APIRoot when set.
const EnvAPIRoot = "APIGEN_API_ROOT"

// Defaults.
const (
	DefaultListen    = ":8080"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Config is the daemon configuration.
type Config struct {
	// APIRoot is the directory holding v{N}/ module trees.
	APIRoot string `yaml:"api_root"`
	// DocCacheRoot is where rendered documentation may be cached.
	DocCacheRoot string `yaml:"doc_cache_root"`
	Listen       string `yaml:"listen"`
	Log          Log    `yaml:"log"`
	Stats        Stats  `yaml:"stats"`
}

// Log configures logging.
type Log struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// Stats configures the dispatch summary reporter.
type Stats struct {
	Schedule string `yaml:"schedule"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Listen: DefaultListen,
		Log: Log{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Stats: Stats{Schedule: stats.DefaultSchedule},
	}
}

// Load reads path, fills in defaults and applies environment overrides.
// An empty path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	cfg.applyEnv(os.LookupEnv)
	cfg.fillDefaults()
	return cfg, nil
}

// Parse decodes YAML data on top of the defaults. No environment overrides apply.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.fillDefaults()
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvAPIRoot); ok && v != "" {
		c.APIRoot = v
	}
}

func (c *Config) fillDefaults() {
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if c.Stats.Schedule == "" {
		c.Stats.Schedule = stats.DefaultSchedule
	}
}

// Validate checks the configuration. A missing APIRoot is not an error
// here; it is logged, and every dispatch reports it until fixed.
func (c *Config) Validate(logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	var errs []error
	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("config: log.format must be text or json, got %q", c.Log.Format))
	}
	if _, err := stats.ParseSchedule(c.Stats.Schedule); err != nil {
		errs = append(errs, fmt.Errorf("config: %w", err))
	}

	if c.APIRoot == "" {
		logger.Warn("api_root is not configured", "error", core.ErrMissingConfig)
	} else if info, err := os.Stat(c.APIRoot); err != nil || !info.IsDir() {
		logger.Warn("api_root is not a directory", "api_root", c.APIRoot)
	}

	return errors.Join(errs...)
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(c.Log.Level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("config: log.level: %w", err)
	}
	return level, nil
}

// NewLogger builds a logger writing to w according to Log.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, _ := c.LogLevel()
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
