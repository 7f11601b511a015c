package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// envVars maps environment variables onto config fields.
var envVars = map[string]func(c *Config, v string){
	"GLOBALFIRE_FEED_SOURCE":    func(c *Config, v string) { c.Feed.Source = v },
	"GLOBALFIRE_CSV_DIR":        func(c *Config, v string) { c.Feed.CSVDir = v },
	"GLOBALFIRE_YAHOO_URL":      func(c *Config, v string) { c.Feed.BaseURL = v },
	"GLOBALFIRE_CACHE_TYPE":     func(c *Config, v string) { c.Cache.Type = v },
	"GLOBALFIRE_CACHE_TTL":      func(c *Config, v string) { c.Cache.TTL = v },
	"GLOBALFIRE_CACHE_PATH":     func(c *Config, v string) { c.Cache.Path = v },
	"GLOBALFIRE_REDIS_ADDR":     func(c *Config, v string) { c.Cache.Redis.Addr = v },
	"GLOBALFIRE_REDIS_PASSWORD": func(c *Config, v string) { c.Cache.Redis.Password = v },
	"GLOBALFIRE_LOG_LEVEL":      func(c *Config, v string) { c.Log.Level = v },
	"GLOBALFIRE_SERVER_ADDR":    func(c *Config, v string) { c.Server.Addr = v },
}

// LoadDotEnv reads .env files into the process environment. Missing files
// are not an error.
func LoadDotEnv(files ...string) error {
	err := godotenv.Load(files...)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// ApplyEnv overrides fields from the GLOBALFIRE_* variables found by
// lookup. Pass os.LookupEnv in production.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	for name, set := range envVars {
		if v, ok := lookup(name); ok && v != "" {
			set(c, v)
		}
	}
}
