package feed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rustyeddy/globalfire/market"
)

// CSVSource reads series from files in Dir. For symbol TQQQ at 1wk it
// looks for TQQQ_1wk.csv, then TQQQ.csv.
//
// Files are either headerless "time,close" rows or have a header row with
// a date/time column and a close column (a provider export works as is).
type CSVSource struct {
	Dir string

	// Interval is the sampling of unsuffixed {sym}.csv files. Requests at
	// any other interval need a {sym}_{interval}.csv file. Weekly if empty.
	Interval market.Interval
}

func (s CSVSource) Fetch(ctx context.Context, req Request) (map[string]market.Series, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	out := make(map[string]market.Series, len(req.Instruments))
	var errs []error
	for _, in := range req.Instruments {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		ser, err := s.load(in, req.Interval)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", in.Symbol, err))
			continue
		}
		out[in.Symbol] = ser
	}
	return out, errors.Join(errs...)
}

func (s CSVSource) load(in market.Instrument, iv market.Interval) (market.Series, error) {
	candidates := []string{filepath.Join(s.Dir, fmt.Sprintf("%s_%s.csv", in.Symbol, iv))}
	if iv == s.plainInterval() {
		candidates = append(candidates, filepath.Join(s.Dir, in.Symbol+".csv"))
	}
	for _, path := range candidates {
		f, err := os.Open(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return market.Series{}, err
		}
		defer f.Close()

		pts, err := ReadCSV(f)
		if err != nil {
			return market.Series{}, fmt.Errorf("%s: %w", path, err)
		}
		return market.NewSeries(in.Symbol, in.Role, iv, normalize(pts))
	}
	return market.Series{}, fmt.Errorf("no csv file in %s: %w", s.Dir, ErrNoData)
}

func (s CSVSource) plainInterval() market.Interval {
	if s.Interval == "" {
		return market.Weekly
	}
	return s.Interval
}

// ReadCSV parses close prices from r. Rows with an empty or "null" close
// are skipped.
func ReadCSV(r io.Reader) ([]market.Point, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	first, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	timeCol, closeCol := 0, 1
	var pts []market.Point
	if isHeader(first) {
		timeCol, closeCol = -1, -1
		for i, h := range first {
			switch strings.ToLower(strings.TrimSpace(h)) {
			case "time", "date", "datetime", "timestamp":
				timeCol = i
			case "close", "price":
				closeCol = i
			}
		}
		if timeCol < 0 || closeCol < 0 {
			return nil, fmt.Errorf("header %v lacks a time and close column", first)
		}
	} else {
		p, ok, err := parseRow(first, timeCol, closeCol)
		if err != nil {
			return nil, err
		}
		if ok {
			pts = append(pts, p)
		}
	}

	for {
		row, err := cr.Read()
		if err == io.EOF {
			return pts, nil
		}
		if err != nil {
			return nil, err
		}
		if len(row) == 0 {
			continue
		}
		p, ok, err := parseRow(row, timeCol, closeCol)
		if err != nil {
			return nil, err
		}
		if ok {
			pts = append(pts, p)
		}
	}
}

func isHeader(row []string) bool {
	if len(row) == 0 {
		return false
	}
	_, err := parseTime(row[0])
	return err != nil
}

func parseRow(row []string, timeCol, closeCol int) (market.Point, bool, error) {
	if len(row) <= timeCol || len(row) <= closeCol {
		return market.Point{}, false, fmt.Errorf("bad row (need time and close): %v", row)
	}
	t, err := parseTime(row[timeCol])
	if err != nil {
		return market.Point{}, false, fmt.Errorf("bad time %q: %w", row[timeCol], err)
	}
	raw := strings.TrimSpace(row[closeCol])
	if raw == "" || strings.EqualFold(raw, "null") {
		return market.Point{}, false, nil
	}
	c, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return market.Point{}, false, fmt.Errorf("bad close %q: %w", raw, err)
	}
	return market.Point{Time: t, Price: c}, true, nil
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	if sec, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(sec, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized time format")
}
