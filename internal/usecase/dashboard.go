// Package usecase orchestrates the analysis pipeline: validated symbol in,
// cached series / strategies / forecast out. Every stage returns a value or a
// classified error; raw failures never reach a view.
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/lab1702/trading-app/internal/domain/models"
	"github.com/lab1702/trading-app/internal/faults"
	"github.com/lab1702/trading-app/internal/forecast"
	"github.com/lab1702/trading-app/internal/indicators"
	"github.com/lab1702/trading-app/internal/marketdata"
	"github.com/lab1702/trading-app/internal/notify"
	"github.com/lab1702/trading-app/internal/strategy"
	"github.com/lab1702/trading-app/internal/symbol"
	"github.com/lab1702/trading-app/pkg/cache"
	"github.com/lab1702/trading-app/pkg/config"
	"github.com/lab1702/trading-app/pkg/logger"
	"github.com/lab1702/trading-app/pkg/util"
)

// Metrics is the observability hook the pipeline reports into.
type Metrics interface {
	RecordFetch(ticker, result string)
	RecordClassifiedError(kind string)
	RecordStageDuration(stage string, seconds float64)
}

type nopMetrics struct{}

func (nopMetrics) RecordFetch(string, string)          {}
func (nopMetrics) RecordClassifiedError(string)        {}
func (nopMetrics) RecordStageDuration(string, float64) {}

// DashboardService runs the pipeline for the dashboard views.
type DashboardService struct {
	cfg        *config.Config
	validator  *symbol.Validator
	names      *symbol.Table
	fetcher    marketdata.Fetcher
	strategies *strategy.Engine
	forecaster *forecast.Engine
	memo       *cache.Memo
	notifier   *notify.Center
	metrics    Metrics
	log        *logger.Logger
}

// NewDashboardService wires the pipeline stages together.
func NewDashboardService(
	cfg *config.Config,
	validator *symbol.Validator,
	names *symbol.Table,
	fetcher marketdata.Fetcher,
	strategies *strategy.Engine,
	forecaster *forecast.Engine,
	memo *cache.Memo,
	notifier *notify.Center,
	metrics Metrics,
	log *logger.Logger,
) *DashboardService {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &DashboardService{
		cfg:        cfg,
		validator:  validator,
		names:      names,
		fetcher:    fetcher,
		strategies: strategies,
		forecaster: forecaster,
		memo:       memo,
		notifier:   notifier,
		metrics:    metrics,
		log:        log,
	}
}

// SeriesOutcome is the cached result of the fetch stage: a series or its
// classified failure. Failures are cached so a view refresh does not hammer
// a source that just failed.
type SeriesOutcome struct {
	Series *models.Series     `json:"series,omitempty"`
	Err    *faults.Classified `json:"error,omitempty"`
}

// StrategyOutcome is the cached result of one (ticker, level) computation.
type StrategyOutcome struct {
	Signal *models.StrategySignal `json:"signal,omitempty"`
	Err    *faults.Classified     `json:"error,omitempty"`
}

// ForecastOutcome is the cached result of the forecast stage.
type ForecastOutcome struct {
	Result *models.ForecastResult `json:"result,omitempty"`
	Err    *faults.Classified     `json:"error,omitempty"`
}

// ResolveTicker canonicalizes raw input. Empty input is the expected initial
// state; invalid input additionally fires a transient warning. Both yield a
// classified empty-input result so views fall back to their placeholder.
func (s *DashboardService) ResolveTicker(raw string) (string, *faults.Classified) {
	ticker, err := s.validator.Validate(raw)
	if err == nil {
		return ticker, nil
	}
	if errors.Is(err, symbol.ErrInvalid) {
		s.notifier.Warn(err.Error())
		s.log.Warn("symbol rejected", logger.String("input", raw), logger.Error(err))
	}
	return "", faults.Classify(faults.ContextGeneric, 0, nil)
}

// Series returns the cached OHLCV history for the raw input, fetching at most
// once per ticker within the cache TTL. No fetch happens for rejected input.
func (s *DashboardService) Series(ctx context.Context, raw string) SeriesOutcome {
	ticker, cerr := s.ResolveTicker(raw)
	if cerr != nil {
		return SeriesOutcome{Err: cerr}
	}

	out, err := cache.GetOrCompute(ctx, s.memo, cache.SeriesKey(ticker), s.cfg.Cache.SeriesTTL,
		func(ctx context.Context) (SeriesOutcome, error) {
			start := time.Now()
			series, err := s.fetcher.History(ctx, ticker)
			s.metrics.RecordStageDuration("fetch", time.Since(start).Seconds())

			if err != nil {
				ce := faults.Classify(faults.ContextChart, 0, err)
				s.fail("market data fetch failed", ticker, ce)
				s.metrics.RecordFetch(ticker, "error")
				return SeriesOutcome{Err: ce}, nil
			}

			s.metrics.RecordFetch(ticker, "ok")
			s.log.Info("market data fetched",
				logger.String("ticker", ticker),
				logger.Int("candles", series.Len()))
			return SeriesOutcome{Series: series}, nil
		})
	if err != nil {
		return SeriesOutcome{Err: faults.Classify(faults.ContextGeneric, 0, err)}
	}
	return out
}

// Strategy returns the cached best signal for (ticker, level).
func (s *DashboardService) Strategy(ctx context.Context, raw string, level int) StrategyOutcome {
	so := s.Series(ctx, raw)
	if so.Err != nil {
		return StrategyOutcome{Err: so.Err}
	}
	ticker := so.Series.Ticker

	out, err := cache.GetOrCompute(ctx, s.memo, cache.StrategyKey(ticker, level), s.cfg.Cache.DerivedTTL,
		func(ctx context.Context) (StrategyOutcome, error) {
			start := time.Now()
			sig, err := s.strategies.Best(so.Series, level)
			s.metrics.RecordStageDuration("strategy", time.Since(start).Seconds())

			if err != nil {
				ce := faults.Classify(faults.ContextStrategy, level, err)
				s.fail("strategy computation failed", ticker, ce)
				return StrategyOutcome{Err: ce}, nil
			}
			return StrategyOutcome{Signal: sig}, nil
		})
	if err != nil {
		return StrategyOutcome{Err: faults.Classify(faults.ContextStrategy, level, err)}
	}
	return out
}

// Forecast returns the cached forecast for the ticker.
func (s *DashboardService) Forecast(ctx context.Context, raw string) ForecastOutcome {
	so := s.Series(ctx, raw)
	if so.Err != nil {
		return ForecastOutcome{Err: so.Err}
	}
	ticker := so.Series.Ticker

	out, err := cache.GetOrCompute(ctx, s.memo, cache.ForecastKey(ticker), s.cfg.Cache.DerivedTTL,
		func(ctx context.Context) (ForecastOutcome, error) {
			start := time.Now()
			res, err := s.forecaster.Fit(ticker, so.Series.Dates(), so.Series.Closes())
			s.metrics.RecordStageDuration("forecast", time.Since(start).Seconds())

			if err != nil {
				ce := faults.Classify(faults.ContextForecast, 0, err)
				s.fail("forecast fit failed", ticker, ce)
				return ForecastOutcome{Err: ce}, nil
			}
			return ForecastOutcome{Result: res}, nil
		})
	if err != nil {
		return ForecastOutcome{Err: faults.Classify(faults.ContextForecast, 0, err)}
	}
	return out
}

func (s *DashboardService) fail(msg, ticker string, ce *faults.Classified) {
	s.notifier.Error(ce.Presentation)
	s.metrics.RecordClassifiedError(string(ce.Kind))
	s.log.Error(msg,
		logger.String("ticker", ticker),
		logger.String("kind", string(ce.Kind)),
		logger.String("cause", ce.Cause))
}

// --- View assembly ---

// ChartData is the candlestick view payload.
type ChartData struct {
	Ticker  string              `json:"ticker,omitempty"`
	Name    string              `json:"name,omitempty"`
	Candles []models.Candle     `json:"candles,omitempty"`
	Overlay *indicators.Overlay `json:"overlay,omitempty"`
	Err     *faults.Classified  `json:"error,omitempty"`
}

// StrategyView is the cloud-and-signal view payload for one level.
type StrategyView struct {
	Ticker         string                 `json:"ticker,omitempty"`
	Level          int                    `json:"level"`
	Recommendation string                 `json:"recommendation"`
	Signal         *models.StrategySignal `json:"signal,omitempty"`
	Err            *faults.Classified     `json:"error,omitempty"`
}

// PerformanceView is the backtest summary payload for one level.
type PerformanceView struct {
	Level       int                   `json:"level"`
	Performance *strategy.Performance `json:"performance,omitempty"`
	Err         *faults.Classified    `json:"error,omitempty"`
}

// ForecastView is the forecast chart payload.
type ForecastView struct {
	Result *models.ForecastResult `json:"result,omitempty"`
	Err    *faults.Classified     `json:"error,omitempty"`
}

// DecompositionView is the model components payload.
type DecompositionView struct {
	Decomposition *models.Decomposition `json:"decomposition,omitempty"`
	Err           *faults.Classified    `json:"error,omitempty"`
}

// RecommendationRow is one level's label on the summary strip.
type RecommendationRow struct {
	Level int    `json:"level"`
	Label string `json:"label"`
}

// RowsView is the recent-raw-data table payload.
type RowsView struct {
	Ticker string             `json:"ticker,omitempty"`
	Rows   []models.Candle    `json:"rows,omitempty"`
	Err    *faults.Classified `json:"error,omitempty"`
}

// Chart assembles the candlestick view with indicator overlays.
func (s *DashboardService) Chart(ctx context.Context, raw string) ChartData {
	so := s.Series(ctx, raw)
	if so.Err != nil {
		return ChartData{Err: so.Err}
	}
	return ChartData{
		Ticker:  so.Series.Ticker,
		Name:    s.names.Name(so.Series.Ticker),
		Candles: so.Series.Candles,
		Overlay: indicators.Compute(so.Series.Closes()),
	}
}

// StrategyLevel assembles the strategy view for one level. A failed level
// degrades to its error label without affecting the others.
func (s *DashboardService) StrategyLevel(ctx context.Context, raw string, level int) StrategyView {
	out := s.Strategy(ctx, raw, level)
	if out.Err != nil {
		return StrategyView{Level: level, Recommendation: out.Err.Short, Err: out.Err}
	}
	return StrategyView{
		Ticker:         out.Signal.Ticker,
		Level:          level,
		Recommendation: string(out.Signal.Recommendation()),
		Signal:         out.Signal,
	}
}

// Recommendations returns the label strip for all three levels.
func (s *DashboardService) Recommendations(ctx context.Context, raw string) []RecommendationRow {
	rows := make([]RecommendationRow, 0, 3)
	for level := 1; level <= 3; level++ {
		view := s.StrategyLevel(ctx, raw, level)
		rows = append(rows, RecommendationRow{Level: level, Label: view.Recommendation})
	}
	return rows
}

// Performance assembles the backtest summary for one level.
func (s *DashboardService) Performance(ctx context.Context, raw string, level int) PerformanceView {
	out := s.Strategy(ctx, raw, level)
	if out.Err != nil {
		return PerformanceView{Level: level, Err: out.Err}
	}
	return PerformanceView{Level: level, Performance: strategy.Summarize(out.Signal)}
}

// ForecastChart assembles the forecast view.
func (s *DashboardService) ForecastChart(ctx context.Context, raw string) ForecastView {
	out := s.Forecast(ctx, raw)
	if out.Err != nil {
		return ForecastView{Err: out.Err}
	}
	return ForecastView{Result: out.Result}
}

// Decomposition assembles the component breakdown from the cached forecast.
func (s *DashboardService) Decomposition(ctx context.Context, raw string) DecompositionView {
	out := s.Forecast(ctx, raw)
	if out.Err != nil {
		return DecompositionView{Err: out.Err}
	}

	dates := make([]time.Time, 0, len(out.Result.Fitted)+len(out.Result.Future))
	for _, p := range out.Result.Fitted {
		dates = append(dates, p.Date)
	}
	for _, p := range out.Result.Future {
		dates = append(dates, p.Date)
	}
	return DecompositionView{Decomposition: forecast.Decompose(out.Result, dates)}
}

// RecentRows returns the last n raw data rows for the table view.
func (s *DashboardService) RecentRows(ctx context.Context, raw string, n int) RowsView {
	so := s.Series(ctx, raw)
	if so.Err != nil {
		return RowsView{Err: so.Err}
	}
	n = util.Clamp(n, 1, 500)
	return RowsView{Ticker: so.Series.Ticker, Rows: so.Series.Tail(n)}
}

// CompanyName resolves the display name for a validated ticker.
func (s *DashboardService) CompanyName(raw string) (string, *faults.Classified) {
	ticker, cerr := s.ResolveTicker(raw)
	if cerr != nil {
		return "", cerr
	}
	return s.names.Name(ticker), nil
}
