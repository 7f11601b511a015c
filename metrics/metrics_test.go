package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordCycle(t *testing.T) {
	t.Parallel()

	r := New(prometheus.NewRegistry())
	states := []string{"MADNESS", "NORMAL"}

	r.RecordCycle("NORMAL", states)
	r.RecordCycle("NORMAL", states)
	r.RecordCycle("MADNESS", states)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.cycles.WithLabelValues("NORMAL")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.state.WithLabelValues("MADNESS")))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.state.WithLabelValues("NORMAL")))
}

func TestRecordCycleConcurrentLeavesOneState(t *testing.T) {
	t.Parallel()

	r := New(prometheus.NewRegistry())
	states := []string{"MADNESS", "WARNING", "NORMAL", "INSUFFICIENT_DATA"}

	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.RecordCycle(states[i%len(states)], states)
		}(i)
	}
	wg.Wait()

	var sum float64
	for _, s := range states {
		sum += testutil.ToFloat64(r.state.WithLabelValues(s))
	}
	assert.Equal(t, 1.0, sum)
	assert.Equal(t, 200, int(testutil.ToFloat64(r.cycles.WithLabelValues("MADNESS"))+
		testutil.ToFloat64(r.cycles.WithLabelValues("WARNING"))+
		testutil.ToFloat64(r.cycles.WithLabelValues("NORMAL"))+
		testutil.ToFloat64(r.cycles.WithLabelValues("INSUFFICIENT_DATA"))))
}

func TestSetIndicator(t *testing.T) {
	t.Parallel()

	r := New(prometheus.NewRegistry())
	r.SetIndicator("TQQQ", "momentum", 72.5, true)
	assert.Equal(t, 72.5, testutil.ToFloat64(r.indicator.WithLabelValues("TQQQ", "momentum")))

	r.SetIndicator("TQQQ", "momentum", 0, false)
	assert.Equal(t, 0, testutil.CollectAndCount(r.indicator))
}

func TestFetchErrorsAndDuration(t *testing.T) {
	t.Parallel()

	r := New(prometheus.NewRegistry())
	r.RecordFetchError("1wk")
	r.ObserveDuration("cycle", 10*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.fetchErrors.WithLabelValues("1wk")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.duration))
}
