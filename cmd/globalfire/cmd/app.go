package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/rustyeddy/globalfire/config"
	"github.com/rustyeddy/globalfire/feed"
	"github.com/rustyeddy/globalfire/market"
	"github.com/rustyeddy/globalfire/metrics"
	"github.com/rustyeddy/globalfire/report"
)

// app is the wired object graph shared by check, watch and serve.
type app struct {
	eval    *report.Evaluator
	closers []io.Closer
}

func (a *app) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// newApp builds source, cache and evaluator from cfg. rec may be nil.
func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger, rec *metrics.Recorder) (*app, error) {
	a := &app{}

	src, err := newSource(cfg)
	if err != nil {
		return nil, err
	}

	ttl, err := cfg.Cache.TTLDuration()
	if err != nil {
		return nil, err
	}

	var store feed.Store
	switch cfg.Cache.Type {
	case "none":
	case "memory":
		store = feed.NewMemoryStore()
	case "sqlite":
		s, err := feed.NewSQLiteStore(cfg.Cache.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite cache: %w", err)
		}
		store = s
		a.closers = append(a.closers, s)
	case "redis":
		s, err := feed.NewRedisStore(ctx, cfg.Cache.Redis, ttl)
		if err != nil {
			return nil, fmt.Errorf("connect redis cache: %w", err)
		}
		store = s
		a.closers = append(a.closers, s)
	default:
		return nil, fmt.Errorf("unknown cache type %q", cfg.Cache.Type)
	}
	if store != nil {
		src = feed.NewCached(src, store, ttl, log.With().Str("component", "cache").Logger())
	}

	iv, err := market.ParseInterval(cfg.Feed.Interval)
	if err != nil {
		return nil, err
	}

	a.eval = &report.Evaluator{
		Source:       src,
		Instruments:  cfg.Instruments,
		Interval:     iv,
		Range:        cfg.Feed.Range,
		MonthlyRange: cfg.Feed.MonthlyRange,
		Policy:       cfg.Policy,
		Params:       cfg.Indicators,
		Log:          log.With().Str("component", "evaluator").Logger(),
		Metrics:      rec,
	}
	return a, nil
}

func newSource(cfg *config.Config) (feed.Source, error) {
	switch cfg.Feed.Source {
	case "csv":
		return feed.CSVSource{Dir: cfg.Feed.CSVDir, Interval: market.Interval(cfg.Feed.Interval)}, nil
	case "yahoo":
		c := feed.NewYahooClient(cfg.Feed.RequestsPerSecond, cfg.Feed.Burst)
		if cfg.Feed.BaseURL != "" {
			c.BaseURL = cfg.Feed.BaseURL
		}
		timeout, err := cfg.Feed.TimeoutDuration()
		if err != nil {
			return nil, err
		}
		if timeout > 0 {
			c.HTTP.Timeout = timeout
		}
		c.MaxRetries = cfg.Feed.Retries
		return c, nil
	}
	return nil, fmt.Errorf("unknown feed source %q", cfg.Feed.Source)
}
