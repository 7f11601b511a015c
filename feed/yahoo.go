package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rustyeddy/globalfire/market"
	"golang.org/x/time/rate"
)

// YahooURL is the public chart API host.
const YahooURL = "https://query1.finance.yahoo.com"

// YahooClient fetches close series from the Yahoo Finance chart API.
type YahooClient struct {
	BaseURL   string
	UserAgent string
	HTTP      *http.Client
	Limiter   *rate.Limiter

	MaxRetries int
	Backoff    time.Duration
}

// NewYahooClient returns a client allowing rps requests per second.
func NewYahooClient(rps float64, burst int) *YahooClient {
	return &YahooClient{
		BaseURL:    YahooURL,
		UserAgent:  "globalfire/1.0",
		HTTP:       &http.Client{Timeout: 30 * time.Second},
		Limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		MaxRetries: 2,
		Backoff:    500 * time.Millisecond,
	}
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// statusError is returned for non-200 responses.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("yahoo chart http %d: %s", e.code, e.body)
}

func (e *statusError) retryable() bool {
	return e.code == http.StatusTooManyRequests || e.code >= 500
}

// Fetch retrieves every instrument in req, one request per symbol.
func (c *YahooClient) Fetch(ctx context.Context, req Request) (map[string]market.Series, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	out := make(map[string]market.Series, len(req.Instruments))
	var errs []error
	for _, in := range req.Instruments {
		s, err := c.fetchOne(ctx, in, req.Interval, req.Range)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", in.Symbol, err))
			continue
		}
		out[in.Symbol] = s
	}
	return out, errors.Join(errs...)
}

func (c *YahooClient) fetchOne(ctx context.Context, in market.Instrument, iv market.Interval, rng string) (market.Series, error) {
	var lastErr error
	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return market.Series{}, ctx.Err()
			case <-time.After(c.Backoff * time.Duration(1<<(attempt-1))):
			}
		}

		body, err := c.get(ctx, in.Symbol, iv, rng)
		if err == nil {
			return parseChart(in, iv, body)
		}
		lastErr = err

		var se *statusError
		if errors.As(err, &se) && !se.retryable() {
			// Unknown symbols come back as 404 with a chart error body.
			if se.code == http.StatusNotFound {
				if _, cerr := parseChart(in, iv, []byte(se.body)); errors.Is(cerr, ErrUnknownSymbol) {
					return market.Series{}, cerr
				}
			}
			return market.Series{}, err
		}
		if ctx.Err() != nil {
			return market.Series{}, ctx.Err()
		}
	}
	return market.Series{}, lastErr
}

func (c *YahooClient) get(ctx context.Context, symbol string, iv market.Interval, rng string) ([]byte, error) {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, err
	}
	u.Path = "/v8/finance/chart/" + url.PathEscape(symbol)
	q := u.Query()
	q.Set("interval", string(iv))
	if rng == "" {
		rng = "2y"
	}
	q.Set("range", rng)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	req.Header.Set("Accept", "application/json")

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		return nil, &statusError{code: resp.StatusCode, body: strings.TrimSpace(string(b))}
	}
	return io.ReadAll(resp.Body)
}

func parseChart(in market.Instrument, iv market.Interval, body []byte) (market.Series, error) {
	var cr chartResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return market.Series{}, fmt.Errorf("decode chart: %w", err)
	}
	if cr.Chart.Error != nil {
		if cr.Chart.Error.Code == "Not Found" {
			return market.Series{}, fmt.Errorf("%s: %w", cr.Chart.Error.Description, ErrUnknownSymbol)
		}
		return market.Series{}, fmt.Errorf("yahoo chart error %s: %s", cr.Chart.Error.Code, cr.Chart.Error.Description)
	}
	if len(cr.Chart.Result) == 0 || len(cr.Chart.Result[0].Indicators.Quote) == 0 {
		return market.Series{}, ErrNoData
	}

	res := cr.Chart.Result[0]
	closes := res.Indicators.Quote[0].Close
	pts := make([]market.Point, 0, len(res.Timestamp))
	for i, ts := range res.Timestamp {
		if i >= len(closes) || closes[i] == nil || *closes[i] <= 0 {
			continue
		}
		pts = append(pts, market.Point{Time: time.Unix(ts, 0).UTC(), Price: *closes[i]})
	}
	if len(pts) == 0 {
		return market.Series{}, ErrNoData
	}

	return market.NewSeries(in.Symbol, in.Role, iv, normalize(pts))
}
