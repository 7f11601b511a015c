package feed

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rustyeddy/globalfire/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSVHeaderless(t *testing.T) {
	t.Parallel()

	pts, err := ReadCSV(strings.NewReader("2024-01-01,10\n2024-01-08,11.5\n"))
	require.NoError(t, err)
	require.Len(t, pts, 2)
	assert.Equal(t, 11.5, pts[1].Price)
}

func TestReadCSVProviderExport(t *testing.T) {
	t.Parallel()

	in := `Date,Open,High,Low,Close,Adj Close,Volume
2024-01-01,50,52,49,51.5,51.5,1000
2024-01-08,51,53,50,null,null,0
2024-01-15,52,54,51,53.25,53.25,1200
`
	pts, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, pts, 2)
	assert.Equal(t, 51.5, pts[0].Price)
	assert.Equal(t, 53.25, pts[1].Price)
}

func TestReadCSVErrors(t *testing.T) {
	t.Parallel()

	_, err := ReadCSV(strings.NewReader("symbol,volume\nX,1\n"))
	assert.Error(t, err)

	_, err = ReadCSV(strings.NewReader("2024-01-01,abc\n"))
	assert.Error(t, err)

	pts, err := ReadCSV(strings.NewReader(""))
	assert.NoError(t, err)
	assert.Empty(t, pts)
}

func TestCSVSourceFetch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "TQQQ_1wk.csv"),
		[]byte("time,close\n2024-01-01T00:00:00Z,10\n2024-01-08T00:00:00Z,12\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "QQQ.csv"),
		[]byte("2024-01-01,400\n2024-01-08,410\n"), 0o644))

	got, err := CSVSource{Dir: dir}.Fetch(context.Background(), Request{
		Instruments: []market.Instrument{
			{Symbol: "TQQQ", Role: market.Primary},
			{Symbol: "QQQ", Role: market.Benchmark},
			{Symbol: "KRW=X", Role: market.Auxiliary},
		},
		Interval: market.Weekly,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoData)
	assert.Contains(t, err.Error(), "KRW=X")

	assert.Equal(t, []float64{10, 12}, got["TQQQ"].Closes())
	assert.Equal(t, market.Benchmark, got["QQQ"].Role)
	assert.NotContains(t, got, "KRW=X")
}

func TestCSVSourcePlainFileOnlyServesItsInterval(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "TQQQ.csv"),
		[]byte("2024-01-01,10\n2024-01-08,11\n2024-01-15,12\n"), 0o644))

	req := Request{
		Instruments: []market.Instrument{{Symbol: "TQQQ", Role: market.Primary}},
		Interval:    market.Weekly,
	}

	got, err := CSVSource{Dir: dir}.Fetch(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, market.Weekly, got["TQQQ"].Interval)

	req.Interval = market.Monthly
	got, err = CSVSource{Dir: dir}.Fetch(context.Background(), req)
	assert.ErrorIs(t, err, ErrNoData)
	assert.NotContains(t, got, "TQQQ")

	// a daily source reads the plain file as daily, not weekly
	req.Interval = market.Weekly
	_, err = CSVSource{Dir: dir, Interval: market.Daily}.Fetch(context.Background(), req)
	assert.ErrorIs(t, err, ErrNoData)
}
