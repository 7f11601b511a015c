// Package metrics exports evaluation-cycle counters to Prometheus.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder holds the collectors for evaluation cycles.
type Recorder struct {
	cycles      *prometheus.CounterVec
	fetchErrors *prometheus.CounterVec
	state       *prometheus.GaugeVec
	indicator   *prometheus.GaugeVec
	duration    *prometheus.HistogramVec

	stateMu sync.Mutex // serializes the reset-and-set of state
}

// New registers the collectors with reg. Pass prometheus.DefaultRegisterer
// to expose them on the default /metrics handler.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		cycles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "globalfire_cycles_total",
				Help: "Evaluation cycles by resulting action state",
			},
			[]string{"state"},
		),
		fetchErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "globalfire_fetch_errors_total",
				Help: "Market-data retrieval failures",
			},
			[]string{"interval"},
		),
		state: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "globalfire_action_state",
				Help: "1 for the action state chosen by the latest cycle, 0 otherwise",
			},
			[]string{"state"},
		),
		indicator: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "globalfire_indicator",
				Help: "Latest indicator reading per symbol",
			},
			[]string{"symbol", "indicator"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "globalfire_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
	reg.MustRegister(r.cycles, r.fetchErrors, r.state, r.indicator, r.duration)
	return r
}

// RecordCycle counts a finished cycle and marks state as current. states
// lists every possible state so the others can be reset to 0.
func (r *Recorder) RecordCycle(state string, states []string) {
	r.cycles.WithLabelValues(state).Inc()

	r.stateMu.Lock()
	defer r.stateMu.Unlock()
	for _, s := range states {
		v := 0.0
		if s == state {
			v = 1
		}
		r.state.WithLabelValues(s).Set(v)
	}
}

func (r *Recorder) RecordFetchError(interval string) {
	r.fetchErrors.WithLabelValues(interval).Inc()
}

// SetIndicator publishes a defined reading; undefined readings are removed.
func (r *Recorder) SetIndicator(symbol, name string, v float64, ok bool) {
	if !ok {
		r.indicator.DeleteLabelValues(symbol, name)
		return
	}
	r.indicator.WithLabelValues(symbol, name).Set(v)
}

func (r *Recorder) ObserveDuration(operation string, d time.Duration) {
	r.duration.WithLabelValues(operation).Observe(d.Seconds())
}
