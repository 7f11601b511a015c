package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rustyeddy/globalfire/feed"
	"github.com/rustyeddy/globalfire/indicators"
	"github.com/rustyeddy/globalfire/market"
	"github.com/rustyeddy/globalfire/metrics"
	"github.com/rustyeddy/globalfire/pkg/id"
	"github.com/rustyeddy/globalfire/risk"
	"github.com/rs/zerolog"
)

// Evaluator runs evaluation cycles: one retrieval, then Build on the
// retrieved snapshot. It holds configuration only, so concurrent Run
// calls each work on their own series.
type Evaluator struct {
	Source      feed.Source
	Instruments []market.Instrument
	Interval    market.Interval
	Range       string

	// MonthlyRange, when set, adds a monthly momentum reading for the
	// primary instrument.
	MonthlyRange string

	Policy risk.Policy
	Params indicators.Params

	Log     zerolog.Logger
	Metrics *metrics.Recorder
	Now     func() time.Time
}

var ErrNoPrimary = errors.New("no primary instrument configured")

// Run executes one cycle. Retrieval failures do not abort the cycle: the
// affected series are treated as empty, the decision falls back to
// InsufficientData, and the failure is returned alongside the cycle.
func (e *Evaluator) Run(ctx context.Context) (Cycle, error) {
	start := e.now()
	cyc := Cycle{ID: id.At(start), At: start}

	primary, ok := e.instrument(market.Primary)
	if !ok {
		return cyc, ErrNoPrimary
	}

	log := e.Log.With().Str("cycle", cyc.ID).Logger()

	series, fetchErr := e.fetch(ctx, log, feed.Request{
		Instruments: e.Instruments,
		Interval:    e.Interval,
		Range:       e.Range,
	})

	in := Inputs{Primary: pick(series, primary, e.Interval)}
	if b, ok := e.instrument(market.Benchmark); ok {
		s := pick(series, b, e.Interval)
		in.Benchmark = &s
	}
	if a, ok := e.instrument(market.Auxiliary); ok {
		s := pick(series, a, e.Interval)
		in.Auxiliary = &s
	}

	if e.MonthlyRange != "" {
		monthly, err := e.fetch(ctx, log, feed.Request{
			Instruments: []market.Instrument{primary},
			Interval:    market.Monthly,
			Range:       e.MonthlyRange,
		})
		fetchErr = errors.Join(fetchErr, err)
		s := pick(monthly, primary, market.Monthly)
		in.PrimaryMonthly = &s
	}

	cyc.Report = Build(e.Policy, e.Params, in)
	e.observe(cyc.Report, e.now().Sub(start))

	d := cyc.Report.Decision
	log.Info().
		Str("state", d.State.String()).
		Str("rule", d.Rule).
		Stringer("momentum", cyc.Report.Primary.Momentum).
		Stringer("drawdown", cyc.Report.Primary.Drawdown).
		Msg("cycle evaluated")

	return cyc, fetchErr
}

func (e *Evaluator) fetch(ctx context.Context, log zerolog.Logger, req feed.Request) (map[string]market.Series, error) {
	start := e.now()
	series, err := e.Source.Fetch(ctx, req)
	if e.Metrics != nil {
		e.Metrics.ObserveDuration("fetch", e.now().Sub(start))
	}
	if err != nil {
		log.Warn().Err(err).Str("interval", string(req.Interval)).Msg("market data retrieval failed")
		if e.Metrics != nil {
			e.Metrics.RecordFetchError(string(req.Interval))
		}
		err = fmt.Errorf("fetch %s: %w", req.Interval, err)
	}
	return series, err
}

func (e *Evaluator) observe(r Report, took time.Duration) {
	if e.Metrics == nil {
		return
	}
	states := risk.States()
	names := make([]string, len(states))
	for i, s := range states {
		names[i] = s.String()
	}
	e.Metrics.RecordCycle(r.Decision.State.String(), names)
	e.Metrics.ObserveDuration("cycle", took)

	sym := r.Primary.Symbol
	e.Metrics.SetIndicator(sym, "momentum", r.Primary.Momentum.V, r.Primary.Momentum.OK)
	e.Metrics.SetIndicator(sym, "drawdown_pct", r.Primary.Drawdown.V, r.Primary.Drawdown.OK)
	if r.Secondary != nil {
		sym = r.Secondary.Symbol
		e.Metrics.SetIndicator(sym, "momentum", r.Secondary.Momentum.V, r.Secondary.Momentum.OK)
		e.Metrics.SetIndicator(sym, "drawdown_pct", r.Secondary.Drawdown.V, r.Secondary.Drawdown.OK)
	}
}

func (e *Evaluator) instrument(role market.Role) (market.Instrument, bool) {
	for _, in := range e.Instruments {
		if in.Role == role {
			return in, true
		}
	}
	return market.Instrument{}, false
}

func (e *Evaluator) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

// pick returns the retrieved series for in, or an empty one.
func pick(series map[string]market.Series, in market.Instrument, iv market.Interval) market.Series {
	if s, ok := series[in.Symbol]; ok {
		return s.WithRole(in.Role)
	}
	return market.Empty(in.Symbol, in.Role, iv)
}
