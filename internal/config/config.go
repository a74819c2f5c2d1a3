package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	DataDir string `envconfig:"LW_DATA_DIR" default:"data"`

	BaseURL        string        `envconfig:"LW_BASE_URL" default:"https://eur-lex.europa.eu"`
	EpochStart     string        `envconfig:"LW_EPOCH_START" default:"2024-01-01"`
	MaxPages       int           `envconfig:"LW_MAX_PAGES" default:"10"`
	PageDelay      time.Duration `envconfig:"LW_PAGE_DELAY" default:"1s"`
	RequestTimeout time.Duration `envconfig:"LW_REQUEST_TIMEOUT" default:"30s"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("LW_DATA_DIR is required")
	}
	if strings.TrimSpace(c.BaseURL) == "" {
		return fmt.Errorf("LW_BASE_URL is required")
	}
	if _, err := time.Parse("2006-01-02", strings.TrimSpace(c.EpochStart)); err != nil {
		return fmt.Errorf("LW_EPOCH_START must be YYYY-MM-DD: %w", err)
	}
	if c.MaxPages < 1 {
		return fmt.Errorf("LW_MAX_PAGES must be >= 1")
	}
	if c.PageDelay < 0 {
		return fmt.Errorf("LW_PAGE_DELAY must be >= 0")
	}
	if c.RequestTimeout < time.Second {
		return fmt.Errorf("LW_REQUEST_TIMEOUT must be >= 1s")
	}
	return nil
}

// EpochStartDate returns the configured epoch as a UTC midnight time.
// Validate guarantees the value parses.
func (c *Config) EpochStartDate() time.Time {
	day, _ := time.Parse("2006-01-02", strings.TrimSpace(c.EpochStart))
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
}
