package di

import (
	"fmt"

	"github.com/lab1702/trading-app/internal/forecast"
	"github.com/lab1702/trading-app/internal/handler/api"
	"github.com/lab1702/trading-app/internal/marketdata"
	"github.com/lab1702/trading-app/internal/notify"
	"github.com/lab1702/trading-app/internal/strategy"
	"github.com/lab1702/trading-app/internal/symbol"
	"github.com/lab1702/trading-app/internal/usecase"
	"github.com/lab1702/trading-app/pkg/cache"
	"github.com/lab1702/trading-app/pkg/config"
	xhttp "github.com/lab1702/trading-app/pkg/http"
	"github.com/lab1702/trading-app/pkg/logger"
	"github.com/lab1702/trading-app/pkg/metrics"
	"github.com/lab1702/trading-app/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	l, err := logger.New(&logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates the Prometheus metrics recorder.
func ProvideMetrics() *metrics.Recorder {
	return metrics.New()
}

// ProvideCacheStore creates the cache backend: in-memory by default, layered
// over Redis when enabled.
func ProvideCacheStore(cfg *config.Config, l *logger.Logger) (cache.Store, error) {
	if !cfg.Cache.Redis.Enabled {
		return cache.NewMemoryStore(cache.WithMaxEntries(cfg.Cache.MaxEntries)), nil
	}

	rs, err := cache.NewRedisStore(
		cache.WithRedisAddr(cfg.Cache.Redis.Host, cfg.Cache.Redis.Port),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis store: %w", err)
	}
	l.Info("redis cache connected",
		logger.String("host", cfg.Cache.Redis.Host),
		logger.Int("port", cfg.Cache.Redis.Port))
	return cache.NewLayeredStore(rs, cache.WithMaxEntries(cfg.Cache.MaxEntries)), nil
}

// ProvideMemo creates the memoizer over the cache store.
func ProvideMemo(store cache.Store, rec *metrics.Recorder) *cache.Memo {
	return cache.NewMemo(store, rec)
}

// ProvideFetcher creates the market data source.
func ProvideFetcher(cfg *config.Config, l *logger.Logger) marketdata.Fetcher {
	return marketdata.NewYahooFetcher(
		cfg.MarketData.BaseURL,
		cfg.MarketData.HistoryYears,
		l,
		marketdata.WithRetry(cfg.MarketData.RetryMax, cfg.MarketData.RetryBackoff),
		marketdata.WithTimeout(cfg.MarketData.Timeout),
	)
}

// ProvideSymbolValidator creates the ticker input validator.
func ProvideSymbolValidator(cfg *config.Config) *symbol.Validator {
	return symbol.NewValidator(cfg.Symbols.MaxLength)
}

// ProvideSymbolTable loads the ticker-to-company-name table. A missing file
// is not fatal: names fall back to the ticker itself.
func ProvideSymbolTable(cfg *config.Config, l *logger.Logger) *symbol.Table {
	if cfg.Symbols.NamesFile == "" {
		return symbol.NewTable(nil)
	}
	t, err := symbol.LoadTable(cfg.Symbols.NamesFile)
	if err != nil {
		l.Warn("symbol names unavailable",
			logger.String("path", cfg.Symbols.NamesFile),
			logger.Error(err))
		return symbol.NewTable(nil)
	}
	l.Info("symbol names loaded", logger.Int("count", t.Len()))
	return t
}

// ProvideStrategyEngine creates the strategy engine.
func ProvideStrategyEngine(cfg *config.Config) *strategy.Engine {
	return strategy.New(cfg.Strategy.Candidates)
}

// ProvideForecastEngine creates the forecast engine.
func ProvideForecastEngine(cfg *config.Config) *forecast.Engine {
	return forecast.New(cfg.Forecast.HorizonDays, cfg.Forecast.MinObservations)
}

// ProvideHub creates the websocket notification hub.
func ProvideHub(l *logger.Logger) *notify.Hub {
	return notify.NewHub(l)
}

// ProvideNotifyCenter creates the transient notification center.
func ProvideNotifyCenter(cfg *config.Config, hub *notify.Hub) *notify.Center {
	return notify.NewCenter(cfg.Notify.WarningTTL, cfg.Notify.ErrorTTL, cfg.Notify.MaxPending, hub)
}

// ProvideDashboardService creates the pipeline use case.
func ProvideDashboardService(
	cfg *config.Config,
	validator *symbol.Validator,
	names *symbol.Table,
	fetcher marketdata.Fetcher,
	strategies *strategy.Engine,
	forecaster *forecast.Engine,
	memo *cache.Memo,
	notifier *notify.Center,
	rec *metrics.Recorder,
	l *logger.Logger,
) *usecase.DashboardService {
	return usecase.NewDashboardService(cfg, validator, names, fetcher, strategies, forecaster, memo, notifier, rec, l)
}

// ProvideHTTPHandler creates the Echo route handler.
func ProvideHTTPHandler(l *logger.Logger, svc *usecase.DashboardService, notifier *notify.Center, hub *notify.Hub) xhttp.Handler {
	return api.NewDashboardHandler(l, svc, notifier, hub)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *logger.Logger,
	handler xhttp.Handler,
	store cache.Store,
	hub *notify.Hub,
) *server.App {
	return server.New(cfg, l, handler, store, hub)
}
