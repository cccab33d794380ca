package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"priceboard/internal/theme"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"server"`
	DataSource struct {
		BaseURL string        `yaml:"base_url"`
		Timeout time.Duration `yaml:"timeout"`
		Mock    bool          `yaml:"mock"`
	} `yaml:"data_source"`
	Schedule struct {
		RefreshCron   string        `yaml:"refresh_cron"`
		IdleThreshold time.Duration `yaml:"idle_threshold"`
	} `yaml:"schedule"`
	Chart struct {
		Title        string  `yaml:"title"`
		DefaultHours float64 `yaml:"default_hours"`
		BaseFontSize float64 `yaml:"base_font_size"`
		Location     string  `yaml:"location"`
	} `yaml:"chart"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Theme theme.Palettes `yaml:"theme"`
	Proxy string         `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.ListenAddr = v
	}
	if v := os.Getenv("COMED_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("USE_MOCK_FEED"); v == "true" {
		cfg.DataSource.Mock = true
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("REFRESH_CRON"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("CHART_TZ"); v != "" {
		cfg.Chart.Location = v
	}
	sqlitePath, sqliteFromEnv := os.LookupEnv("SQLITE_PATH")
	if sqliteFromEnv {
		cfg.Database.SQLitePath = sqlitePath
	}

	// Defaults
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = ":8080"
	}
	if cfg.DataSource.BaseURL == "" {
		cfg.DataSource.BaseURL = "https://hourlypricing.comed.com/api"
	}
	if cfg.DataSource.Timeout == 0 {
		cfg.DataSource.Timeout = 15 * time.Second
	}
	if cfg.Schedule.RefreshCron == "" {
		cfg.Schedule.RefreshCron = "@every 60s"
	}
	if cfg.Schedule.IdleThreshold == 0 {
		cfg.Schedule.IdleThreshold = time.Minute
	}
	if cfg.Chart.DefaultHours == 0 {
		cfg.Chart.DefaultHours = 3
	}
	if cfg.Chart.BaseFontSize == 0 {
		cfg.Chart.BaseFontSize = 16
	}
	if cfg.Chart.Location == "" {
		cfg.Chart.Location = "America/Chicago"
	}
	// An explicitly empty SQLITE_PATH disables the recorder.
	if cfg.Database.SQLitePath == "" && !sqliteFromEnv {
		cfg.Database.SQLitePath = "data/priceboard.db"
	}
	cfg.Theme = theme.DefaultPalettes().Merge(cfg.Theme)

	return cfg, nil
}

// Validate checks that all settings are usable.
func (c *Config) Validate() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("server.listen_addr is required")
	}
	if !c.DataSource.Mock && c.DataSource.BaseURL == "" {
		return fmt.Errorf("data_source.base_url is required")
	}
	if c.Chart.DefaultHours <= 0 || c.Chart.DefaultHours > 24 {
		return fmt.Errorf("chart.default_hours must be in (0, 24]")
	}
	if c.Chart.BaseFontSize <= 0 {
		return fmt.Errorf("chart.base_font_size must be positive")
	}
	if c.Schedule.IdleThreshold < 0 {
		return fmt.Errorf("schedule.idle_threshold must not be negative")
	}
	if _, err := c.LoadLocation(); err != nil {
		return fmt.Errorf("chart.location: %w", err)
	}
	return nil
}

// LoadLocation resolves the chart time zone.
func (c *Config) LoadLocation() (*time.Location, error) {
	return time.LoadLocation(c.Chart.Location)
}
