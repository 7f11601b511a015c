package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rustyeddy/globalfire/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

const chartBody = `{"chart":{"result":[{"meta":{"symbol":"TQQQ"},
"timestamp":[1704067200,1704672000,1705276800,1705276800],
"indicators":{"quote":[{"close":[50.5,null,52.25,53.0]}]}}],"error":null}}`

const notFoundBody = `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`

func newTestYahoo(url string) *YahooClient {
	c := NewYahooClient(1000, 10)
	c.BaseURL = url
	c.Backoff = time.Millisecond
	return c
}

func TestYahooFetch(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v8/finance/chart/TQQQ", r.URL.Path)
		require.Equal(t, "1wk", r.URL.Query().Get("interval"))
		require.Equal(t, "2y", r.URL.Query().Get("range"))
		require.NotEmpty(t, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(chartBody))
	}))
	defer srv.Close()

	got, err := newTestYahoo(srv.URL).Fetch(context.Background(), Request{
		Instruments: []market.Instrument{{Symbol: "TQQQ", Role: market.Primary}},
		Interval:    market.Weekly,
		Range:       "2y",
	})
	require.NoError(t, err)

	s := got["TQQQ"]
	assert.Equal(t, market.Primary, s.Role)
	assert.Equal(t, market.Weekly, s.Interval)
	// null close dropped, repeated timestamp keeps the later sample
	assert.Equal(t, []float64{50.5, 53.0}, s.Closes())
}

func TestYahooNotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(notFoundBody))
	}))
	defer srv.Close()

	_, err := newTestYahoo(srv.URL).Fetch(context.Background(), Request{
		Instruments: []market.Instrument{{Symbol: "NOPE", Role: market.Primary}},
		Interval:    market.Weekly,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownSymbol)
	assert.Contains(t, err.Error(), "symbol may be delisted")
}

func TestYahooNotFoundWithoutChartBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestYahoo(srv.URL).Fetch(context.Background(), Request{
		Instruments: []market.Instrument{{Symbol: "NOPE", Role: market.Primary}},
		Interval:    market.Weekly,
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnknownSymbol)
	assert.Contains(t, err.Error(), "http 404")
}

func TestYahooChartError(t *testing.T) {
	t.Parallel()

	_, err := parseChart(market.Instrument{Symbol: "NOPE", Role: market.Primary}, market.Weekly, []byte(notFoundBody))
	assert.ErrorIs(t, err, ErrUnknownSymbol)

	_, err = parseChart(market.Instrument{Symbol: "X", Role: market.Primary}, market.Weekly, []byte(`{"chart":{"result":[]}}`))
	assert.ErrorIs(t, err, ErrNoData)
}

func TestYahooRetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(chartBody))
	}))
	defer srv.Close()

	got, err := newTestYahoo(srv.URL).Fetch(context.Background(), Request{
		Instruments: []market.Instrument{{Symbol: "TQQQ", Role: market.Primary}},
		Interval:    market.Weekly,
	})
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, 2, got["TQQQ"].Len())
}

func TestYahooPartialFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v8/finance/chart/QQQ" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(chartBody))
	}))
	defer srv.Close()

	got, err := newTestYahoo(srv.URL).Fetch(context.Background(), Request{
		Instruments: []market.Instrument{
			{Symbol: "TQQQ", Role: market.Primary},
			{Symbol: "QQQ", Role: market.Benchmark},
		},
		Interval: market.Weekly,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "QQQ")
	assert.Contains(t, got, "TQQQ")
	assert.NotContains(t, got, "QQQ")
}

func TestYahooHonorsContext(t *testing.T) {
	t.Parallel()

	c := newTestYahoo("http://127.0.0.1:1")
	c.Limiter = rate.NewLimiter(rate.Every(time.Hour), 1)
	require.NoError(t, c.Limiter.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Fetch(ctx, Request{
		Instruments: []market.Instrument{{Symbol: "TQQQ", Role: market.Primary}},
		Interval:    market.Weekly,
	})
	assert.Error(t, err)
}
