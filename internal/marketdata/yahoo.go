package marketdata

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"time"

	"github.com/lab1702/trading-app/internal/domain/models"
	"github.com/lab1702/trading-app/internal/faults"
	xhttp "github.com/lab1702/trading-app/pkg/http"
	"github.com/lab1702/trading-app/pkg/logger"
)

// YahooFetcher implements Fetcher using the Yahoo Finance chart API. The base
// URL is configurable so tests point it at a stub server.
type YahooFetcher struct {
	baseURL      string
	client       *xhttp.Client
	historyYears int
	retryMax     int
	retryBackoff time.Duration
	log          *logger.Logger
}

// Option configures YahooFetcher.
type Option func(*YahooFetcher)

// WithRetry sets the bounded retry policy for transient network failures.
func WithRetry(max int, backoff time.Duration) Option {
	return func(f *YahooFetcher) {
		f.retryMax = max
		f.retryBackoff = backoff
	}
}

// WithTimeout sets the request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(f *YahooFetcher) {
		f.client = xhttp.NewClient(xhttp.WithTimeout(timeout))
	}
}

// NewYahooFetcher creates a fetcher trimming history to the most recent
// historyYears of daily candles.
func NewYahooFetcher(baseURL string, historyYears int, log *logger.Logger, opts ...Option) *YahooFetcher {
	f := &YahooFetcher{
		baseURL:      baseURL,
		client:       xhttp.NewClient(),
		historyYears: historyYears,
		retryMax:     1,
		retryBackoff: 250 * time.Millisecond,
		log:          log,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// chartResponse is the Yahoo Finance chart API response shape.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// History fetches the full available daily history for ticker and trims it to
// the configured lookback window. Unknown symbols and empty results surface
// as faults.ErrNoData; transport failures as faults.ErrNetwork, after the
// bounded retry is exhausted.
func (f *YahooFetcher) History(ctx context.Context, ticker string) (*models.Series, error) {
	var resp chartResponse
	var err error

	for attempt := 1; ; attempt++ {
		err = f.request(ctx, ticker, &resp)
		if err == nil || !errors.Is(err, faults.ErrNetwork) || attempt >= f.retryMax {
			break
		}
		f.log.Warn("market data fetch retry",
			logger.String("ticker", ticker),
			logger.Int("attempt", attempt),
			logger.Error(err))
		select {
		case <-time.After(time.Duration(attempt) * f.retryBackoff):
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", faults.ErrNetwork, ctx.Err())
		}
	}
	if err != nil {
		return nil, err
	}

	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("%w: %s (%s)", faults.ErrNoData, resp.Chart.Error.Description, ticker)
	}
	if len(resp.Chart.Result) == 0 || len(resp.Chart.Result[0].Timestamp) == 0 {
		return nil, fmt.Errorf("%w for symbol %s", faults.ErrNoData, ticker)
	}

	result := resp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%w for symbol %s", faults.ErrNoData, ticker)
	}
	quote := result.Indicators.Quote[0]

	candles := make([]models.Candle, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		o := deref(quote.Open, i)
		h := deref(quote.High, i)
		l := deref(quote.Low, i)
		c := deref(quote.Close, i)
		if o == 0 && h == 0 && l == 0 && c == 0 {
			continue // null bars (holidays etc.)
		}
		candles = append(candles, models.Candle{
			Date:   time.Unix(ts, 0).UTC().Truncate(24 * time.Hour),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: deref(quote.Volume, i),
		})
	}
	if len(candles) == 0 {
		return nil, fmt.Errorf("%w for symbol %s", faults.ErrNoData, ticker)
	}

	sort.Slice(candles, func(i, j int) bool { return candles[i].Date.Before(candles[j].Date) })
	candles = dedupeDates(candles)

	series := &models.Series{Ticker: ticker, Candles: candles}
	cutoff := series.LastDate().AddDate(-f.historyYears, 0, 0)
	series.TrimBefore(cutoff)

	if series.Len() == 0 {
		return nil, fmt.Errorf("%w for symbol %s", faults.ErrNoData, ticker)
	}
	return series, nil
}

func (f *YahooFetcher) request(ctx context.Context, ticker string, dest *chartResponse) error {
	err := f.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    fmt.Sprintf("%s/v8/finance/chart/%s", f.baseURL, url.PathEscape(ticker)),
		Headers: map[string]string{
			"User-Agent": "Mozilla/5.0",
		},
		QueryParams: map[string][]string{
			"interval": {"1d"},
			"range":    {"max"},
		},
	}, dest)
	if err != nil {
		var statusErr *xhttp.StatusError
		if errors.As(err, &statusErr) && statusErr.Code == 404 {
			return fmt.Errorf("%w: symbol not found (%s)", faults.ErrNoData, ticker)
		}
		return fmt.Errorf("%w: %v", faults.ErrNetwork, err)
	}
	return nil
}

func deref(xs []*float64, i int) float64 {
	if i >= len(xs) || xs[i] == nil {
		return 0
	}
	return *xs[i]
}

func dedupeDates(candles []models.Candle) []models.Candle {
	out := candles[:0]
	for i, c := range candles {
		if i > 0 && !c.Date.After(out[len(out)-1].Date) {
			continue
		}
		out = append(out, c)
	}
	return out
}
