package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rustyeddy/globalfire/market"
	"github.com/rs/zerolog"
)

// Entry is one cached retrieval.
type Entry struct {
	FetchedAt time.Time
	Series    map[string]market.Series
}

// Store persists entries by request key. Implementations do not decide
// freshness; Cached does.
type Store interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Put(ctx context.Context, key string, e Entry) error
}

// Cached serves a request from Store while the stored entry is younger
// than TTL, and from Source otherwise. Only complete retrievals are
// stored.
type Cached struct {
	Source Source
	Store  Store
	TTL    time.Duration
	Now    func() time.Time
	Log    zerolog.Logger
}

func NewCached(src Source, store Store, ttl time.Duration, log zerolog.Logger) *Cached {
	return &Cached{Source: src, Store: store, TTL: ttl, Now: time.Now, Log: log}
}

func (c *Cached) Fetch(ctx context.Context, req Request) (map[string]market.Series, error) {
	key := req.Key()
	now := c.now()

	e, ok, err := c.Store.Get(ctx, key)
	if err != nil {
		// A broken cache degrades to a direct fetch.
		c.Log.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}
	if ok && now.Sub(e.FetchedAt) < c.TTL {
		c.Log.Debug().Str("key", key).Time("fetched_at", e.FetchedAt).Msg("cache hit")
		return e.Series, nil
	}

	series, err := c.Source.Fetch(ctx, req)
	if err != nil {
		return series, err
	}

	if perr := c.Store.Put(ctx, key, Entry{FetchedAt: now, Series: series}); perr != nil {
		c.Log.Warn().Err(perr).Str("key", key).Msg("cache write failed")
	}
	return series, nil
}

func (c *Cached) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// storedEntry is the serialized form used by the SQLite and Redis stores.
type storedEntry struct {
	FetchedAt time.Time      `json:"fetched_at"`
	Series    []storedSeries `json:"series"`
}

type storedSeries struct {
	Symbol   string          `json:"symbol"`
	Role     market.Role     `json:"role"`
	Interval market.Interval `json:"interval"`
	Points   []market.Point  `json:"points"`
}

func encodeEntry(e Entry) ([]byte, error) {
	se := storedEntry{FetchedAt: e.FetchedAt.UTC()}
	for _, s := range e.Series {
		se.Series = append(se.Series, storedSeries{
			Symbol:   s.Symbol,
			Role:     s.Role,
			Interval: s.Interval,
			Points:   s.Points(),
		})
	}
	return json.Marshal(se)
}

func decodeEntry(b []byte) (Entry, error) {
	var se storedEntry
	if err := json.Unmarshal(b, &se); err != nil {
		return Entry{}, fmt.Errorf("decode cache entry: %w", err)
	}
	e := Entry{FetchedAt: se.FetchedAt, Series: make(map[string]market.Series, len(se.Series))}
	for _, ss := range se.Series {
		s, err := market.NewSeries(ss.Symbol, ss.Role, ss.Interval, ss.Points)
		if err != nil {
			return Entry{}, fmt.Errorf("decode cache entry: %w", err)
		}
		e.Series[ss.Symbol] = s
	}
	return e, nil
}
