package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
type Config struct {
	ThreatBoard ThreatBoardConfig `yaml:"threatboard"`
}

// ThreatBoardConfig is the project configuration.
type ThreatBoardConfig struct {
	Source  SourceConfig  `yaml:"source"`
	Poll    PollConfig    `yaml:"poll"`
	Layout  LayoutConfig  `yaml:"layout"`
	Catalog CatalogConfig `yaml:"catalog"`
	Cache   CacheConfig   `yaml:"cache"`
	Output  OutputConfig  `yaml:"output"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
}

// SourceConfig selects where snapshots come from.
type SourceConfig struct {
	Mode  string           `yaml:"mode"` // http|redis|file
	HTTP  HTTPSourceConfig `yaml:"http"`
	Redis RedisConfig      `yaml:"redis"`
	File  FileSourceConfig `yaml:"file"`
}

// HTTPSourceConfig polls the statistics backend.
type HTTPSourceConfig struct {
	URL     string            `yaml:"url"`
	Timeout time.Duration     `yaml:"timeout"`
	Headers map[string]string `yaml:"headers"`
}

// RedisConfig controls Redis input.
type RedisConfig struct {
	Addr         string        `yaml:"addr"`
	Password     string        `yaml:"password"`
	DB           int           `yaml:"db"`
	Key          string        `yaml:"key"`
	Mode         string        `yaml:"mode"` // key|list
	BlockTimeout time.Duration `yaml:"block_timeout"`
}

// FileSourceConfig re-reads a snapshot file every cycle.
type FileSourceConfig struct {
	Path string `yaml:"path"`
}

// PollConfig controls the refresh cadence.
type PollConfig struct {
	Interval time.Duration `yaml:"interval"`
	Timeout  time.Duration `yaml:"timeout"`
}

// LayoutConfig is the drawable region of the radial tenant map.
type LayoutConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Margin float64 `yaml:"margin"`
}

// CatalogConfig controls technique enrichment.
type CatalogConfig struct {
	SigmaPath    string `yaml:"sigma_path"`
	FillSeverity bool   `yaml:"fill_severity"`
}

// CacheConfig controls the unchanged-snapshot cache.
type CacheConfig struct {
	Size int `yaml:"size"`
}

// OutputConfig controls where published dashboards go.
type OutputConfig struct {
	Mode string           `yaml:"mode"` // none|file|http|nats
	File FileOutputConfig `yaml:"file"`
	HTTP HTTPOutputConfig `yaml:"http"`
	NATS NATSOutputConfig `yaml:"nats"`
}

// FileOutputConfig config for local JSON lines output.
type FileOutputConfig struct {
	Path string `yaml:"path"`
}

// HTTPOutputConfig config for remote output.
type HTTPOutputConfig struct {
	URL     string            `yaml:"url"`
	Timeout time.Duration     `yaml:"timeout"`
	Headers map[string]string `yaml:"headers"`
}

// NATSOutputConfig config for NATS publishing.
type NATSOutputConfig struct {
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Address         string        `yaml:"address"`
	GracefulTimeout time.Duration `yaml:"graceful_timeout"`
}

// LoggingConfig controls logging output.
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`
	File    string `yaml:"file"`
	Console bool   `yaml:"console"`
	JSON    bool   `yaml:"json"`
}

// LoadConfig reads a YAML config file for the serve loop: LoadFile plus the
// source and output checks.
func LoadConfig(path string) (*Config, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile parses a YAML config file and applies THREATBOARD_* overrides and
// defaults without checking the source or output sections. One-shot commands
// that never poll or publish load through here.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Config{ThreatBoard: ThreatBoardConfig{
		Logging: LoggingConfig{Enabled: true, Console: true},
		Layout:  LayoutConfig{Margin: -1},
	}}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	ApplyEnv(&cfg)
	ApplyDefaults(&cfg)
	return &cfg, nil
}

// Default returns a configuration that needs no file.
func Default() *Config {
	cfg := Config{ThreatBoard: ThreatBoardConfig{
		Logging: LoggingConfig{Enabled: true, Console: true},
		Layout:  LayoutConfig{Margin: -1},
	}}
	ApplyEnv(&cfg)
	ApplyDefaults(&cfg)
	return &cfg
}

// ApplyDefaults fills every unset field. A negative margin means unset so an
// explicit 0 survives.
func ApplyDefaults(cfg *Config) {
	tb := &cfg.ThreatBoard

	if tb.Source.Mode == "" {
		tb.Source.Mode = "http"
	}
	if tb.Source.HTTP.Timeout <= 0 {
		tb.Source.HTTP.Timeout = 5 * time.Second
	}
	if tb.Source.Redis.Addr == "" {
		tb.Source.Redis.Addr = "127.0.0.1:6379"
	}
	if tb.Source.Redis.Key == "" {
		tb.Source.Redis.Key = "threatboard:snapshot"
	}
	if tb.Source.Redis.Mode == "" {
		tb.Source.Redis.Mode = "key"
	}
	if tb.Source.Redis.BlockTimeout <= 0 {
		tb.Source.Redis.BlockTimeout = 5 * time.Second
	}

	if tb.Poll.Interval <= 0 {
		tb.Poll.Interval = 5 * time.Second
	}
	if tb.Poll.Timeout <= 0 {
		tb.Poll.Timeout = 10 * time.Second
	}

	if tb.Layout.Width <= 0 {
		tb.Layout.Width = 800
	}
	if tb.Layout.Height <= 0 {
		tb.Layout.Height = 600
	}
	if tb.Layout.Margin < 0 {
		tb.Layout.Margin = 60
	}

	if tb.Cache.Size < 0 {
		tb.Cache.Size = 0
	}

	if tb.Output.Mode == "" {
		tb.Output.Mode = "none"
	}
	if tb.Output.HTTP.Timeout <= 0 {
		tb.Output.HTTP.Timeout = 5 * time.Second
	}
	if tb.Output.NATS.Subject == "" {
		tb.Output.NATS.Subject = "threatboard.dashboard"
	}

	if tb.Server.Address == "" {
		tb.Server.Address = ":8080"
	}
	if tb.Server.GracefulTimeout <= 0 {
		tb.Server.GracefulTimeout = 10 * time.Second
	}

	if tb.Logging.Level == "" {
		tb.Logging.Level = "info"
	}
}

// ApplyEnv overrides config values from THREATBOARD_* variables.
func ApplyEnv(cfg *Config) {
	tb := &cfg.ThreatBoard

	if v := os.Getenv("THREATBOARD_SOURCE_MODE"); v != "" {
		tb.Source.Mode = v
	}
	if v := os.Getenv("THREATBOARD_SOURCE_URL"); v != "" {
		tb.Source.HTTP.URL = v
	}
	if v := os.Getenv("THREATBOARD_SOURCE_FILE"); v != "" {
		tb.Source.File.Path = v
	}
	if v := os.Getenv("THREATBOARD_REDIS_ADDR"); v != "" {
		tb.Source.Redis.Addr = v
	}
	if v := os.Getenv("THREATBOARD_REDIS_PASSWORD"); v != "" {
		tb.Source.Redis.Password = v
	}
	if v := os.Getenv("THREATBOARD_REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			tb.Source.Redis.DB = db
		}
	}
	if v := os.Getenv("THREATBOARD_REDIS_KEY"); v != "" {
		tb.Source.Redis.Key = v
	}
	if v := os.Getenv("THREATBOARD_POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			tb.Poll.Interval = d
		}
	}
	if v := os.Getenv("THREATBOARD_CACHE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			tb.Cache.Size = n
		}
	}
	if v := os.Getenv("THREATBOARD_SIGMA_PATH"); v != "" {
		tb.Catalog.SigmaPath = v
	}
	if v := os.Getenv("THREATBOARD_OUTPUT_MODE"); v != "" {
		tb.Output.Mode = v
	}
	if v := os.Getenv("THREATBOARD_NATS_URL"); v != "" {
		tb.Output.NATS.URL = v
	}
	if v := os.Getenv("THREATBOARD_SERVER_ADDRESS"); v != "" {
		tb.Server.Address = v
	}
	if v := os.Getenv("THREATBOARD_LOG_LEVEL"); v != "" {
		tb.Logging.Level = v
	}
	if v := os.Getenv("THREATBOARD_LOG_FORMAT"); v != "" {
		tb.Logging.JSON = strings.EqualFold(v, "json")
	}
}

// Validate checks everything the serve loop depends on.
func (c *Config) Validate() error {
	if err := c.ValidateSource(); err != nil {
		return err
	}
	return c.ValidateOutput()
}

// ValidateSource checks the snapshot source section.
func (c *Config) ValidateSource() error {
	tb := c.ThreatBoard
	switch tb.Source.Mode {
	case "http":
		if tb.Source.HTTP.URL == "" {
			return fmt.Errorf("source.http.url is required for http source")
		}
	case "file":
		if tb.Source.File.Path == "" {
			return fmt.Errorf("source.file.path is required for file source")
		}
	case "redis":
		if tb.Source.Redis.Mode != "key" && tb.Source.Redis.Mode != "list" {
			return fmt.Errorf("unsupported source.redis.mode: %s", tb.Source.Redis.Mode)
		}
	default:
		return fmt.Errorf("unsupported source mode: %s", tb.Source.Mode)
	}
	return nil
}

// ValidateOutput checks the dashboard output section.
func (c *Config) ValidateOutput() error {
	tb := c.ThreatBoard
	switch tb.Output.Mode {
	case "none":
	case "file":
		if tb.Output.File.Path == "" {
			return fmt.Errorf("output.file.path is required for file output")
		}
	case "http":
		if tb.Output.HTTP.URL == "" {
			return fmt.Errorf("output.http.url is required for http output")
		}
	case "nats":
		if tb.Output.NATS.URL == "" {
			return fmt.Errorf("output.nats.url is required for nats output")
		}
	default:
		return fmt.Errorf("unsupported output mode: %s", tb.Output.Mode)
	}
	return nil
}
