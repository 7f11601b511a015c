package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/rustyeddy/globalfire/feed"
	"github.com/rustyeddy/globalfire/indicators"
	"github.com/rustyeddy/globalfire/market"
	"github.com/rustyeddy/globalfire/pkg/logger"
	"github.com/rustyeddy/globalfire/risk"
	"gopkg.in/yaml.v3"
)

// Config represents the complete evaluation configuration
type Config struct {
	Instruments []market.Instrument `json:"instruments" yaml:"instruments" validate:"required,min=1,dive"`
	Feed        FeedConfig          `json:"feed" yaml:"feed"`
	Cache       CacheConfig         `json:"cache" yaml:"cache"`
	Indicators  indicators.Params   `json:"indicators" yaml:"indicators"`
	Policy      risk.Policy         `json:"policy" yaml:"policy"`
	Log         logger.Config       `json:"log" yaml:"log"`
	Server      ServerConfig        `json:"server" yaml:"server"`
}

// FeedConfig selects and tunes the market-data source
type FeedConfig struct {
	Source   string `json:"source" yaml:"source" default:"yahoo" validate:"oneof=yahoo csv"`
	Interval string `json:"interval" yaml:"interval" default:"1wk" validate:"oneof=1d 1wk 1mo"`
	Range    string `json:"range" yaml:"range" default:"2y" validate:"required"`

	// MonthlyRange enables the monthly momentum view when non-empty.
	MonthlyRange string `json:"monthly_range,omitempty" yaml:"monthly_range,omitempty"`

	CSVDir            string  `json:"csv_dir,omitempty" yaml:"csv_dir,omitempty"`
	BaseURL           string  `json:"base_url,omitempty" yaml:"base_url,omitempty" validate:"omitempty,url"`
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second" default:"2" validate:"gt=0"`
	Burst             int     `json:"burst" yaml:"burst" default:"1" validate:"min=1"`
	Timeout           string  `json:"timeout" yaml:"timeout" default:"30s"` // e.g. "30s"
	Retries           int     `json:"retries" yaml:"retries" default:"2" validate:"min=0,max=10"`
}

// CacheConfig controls how long retrieved series are reused
type CacheConfig struct {
	Type  string           `json:"type" yaml:"type" default:"memory" validate:"oneof=none memory sqlite redis"`
	TTL   string           `json:"ttl" yaml:"ttl" default:"5m"` // e.g. "5m", "1h"
	Path  string           `json:"path,omitempty" yaml:"path,omitempty" default:"./globalfire-cache.sqlite"`
	Redis feed.RedisConfig `json:"redis" yaml:"redis"`
}

type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr" default:":8080"`
}

// TimeoutDuration parses the feed timeout.
func (f FeedConfig) TimeoutDuration() (time.Duration, error) {
	return parseDuration(f.Timeout)
}

// TTLDuration parses the cache TTL.
func (c CacheConfig) TTLDuration() (time.Duration, error) {
	return parseDuration(c.TTL)
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

var validate = validator.New()

// LoadFromFile loads configuration from a file (JSON or YAML)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Keys the file omits keep their defaults; explicit zeros are kept.
	// JSON is a subset of YAML, so one parser covers both.
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, len(verrs))
			for i, fe := range verrs {
				msgs[i] = fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag())
			}
			return fmt.Errorf("%s", strings.Join(msgs, "; "))
		}
		return err
	}

	roles := map[market.Role]int{}
	seen := map[string]bool{}
	for _, in := range c.Instruments {
		roles[in.Role]++
		if seen[in.Symbol] {
			return fmt.Errorf("instrument %s listed twice", in.Symbol)
		}
		seen[in.Symbol] = true
	}
	if roles[market.Primary] != 1 {
		return fmt.Errorf("exactly one primary instrument is required, got %d", roles[market.Primary])
	}
	if roles[market.Benchmark] > 1 || roles[market.Auxiliary] > 1 {
		return fmt.Errorf("at most one benchmark and one auxiliary instrument are allowed")
	}

	if c.Feed.Source == "csv" && c.Feed.CSVDir == "" {
		return fmt.Errorf("feed.csv_dir required for csv source")
	}
	if _, err := c.Feed.TimeoutDuration(); err != nil {
		return fmt.Errorf("feed.timeout: %w", err)
	}
	ttl, err := c.Cache.TTLDuration()
	if err != nil {
		return fmt.Errorf("cache.ttl: %w", err)
	}
	if c.Cache.Type != "none" && ttl <= 0 {
		return fmt.Errorf("cache.ttl must be positive")
	}
	if c.Cache.Type == "sqlite" && c.Cache.Path == "" {
		return fmt.Errorf("cache.path required for sqlite cache")
	}

	if err := c.Policy.Validate(); err != nil {
		return err
	}
	return nil
}

// Default returns a configuration with sensible defaults, taken from the
// struct tags.
func Default() *Config {
	cfg := &Config{}
	defaults.MustSet(cfg)
	cfg.Instruments = append([]market.Instrument(nil), market.DefaultInstruments...)
	return cfg
}
