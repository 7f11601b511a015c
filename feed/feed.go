// Package feed retrieves historical close prices for an evaluation cycle.
// It owns all network I/O, retries, rate limiting and caching so that the
// indicator and decision packages only ever see immutable series.
package feed

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rustyeddy/globalfire/market"
)

var (
	ErrNoData        = errors.New("no data available")
	ErrUnknownSymbol = errors.New("unknown symbol")
)

// Request names the instruments and sampling for one retrieval.
type Request struct {
	Instruments []market.Instrument
	Interval    market.Interval
	Range       string // provider range, e.g. "2y"
}

// Key identifies a request for caching: instrument set plus sampling.
func (r Request) Key() string {
	syms := make([]string, len(r.Instruments))
	for i, in := range r.Instruments {
		syms[i] = in.Symbol + ":" + string(in.Role)
	}
	sort.Strings(syms)
	return fmt.Sprintf("%s|%s|%s", strings.Join(syms, ","), r.Interval, r.Range)
}

func (r Request) Validate() error {
	if len(r.Instruments) == 0 {
		return fmt.Errorf("feed: request has no instruments")
	}
	for _, in := range r.Instruments {
		if in.Symbol == "" {
			return fmt.Errorf("feed: missing symbol")
		}
		if !in.Role.Valid() {
			return fmt.Errorf("feed: %s has invalid role %q", in.Symbol, in.Role)
		}
	}
	if _, err := market.ParseInterval(string(r.Interval)); err != nil {
		return fmt.Errorf("feed: %w", err)
	}
	return nil
}

// Source retrieves series keyed by symbol. On partial failure it returns
// the series it did get together with a non-nil error.
type Source interface {
	Fetch(ctx context.Context, req Request) (map[string]market.Series, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, req Request) (map[string]market.Series, error)

func (f SourceFunc) Fetch(ctx context.Context, req Request) (map[string]market.Series, error) {
	return f(ctx, req)
}

// normalize sorts pts by time and keeps the last sample for any repeated
// timestamp, which is how providers report a still-open bar.
func normalize(pts []market.Point) []market.Point {
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].Time.Before(pts[j].Time) })
	out := pts[:0]
	for _, p := range pts {
		if n := len(out); n > 0 && out[n-1].Time.Equal(p.Time) {
			out[n-1] = p
			continue
		}
		out = append(out, p)
	}
	return out
}
