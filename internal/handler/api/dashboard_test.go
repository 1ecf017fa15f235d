package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lab1702/trading-app/internal/domain/models"
	"github.com/lab1702/trading-app/internal/faults"
	"github.com/lab1702/trading-app/internal/forecast"
	"github.com/lab1702/trading-app/internal/notify"
	"github.com/lab1702/trading-app/internal/strategy"
	"github.com/lab1702/trading-app/internal/symbol"
	"github.com/lab1702/trading-app/internal/usecase"
	"github.com/lab1702/trading-app/pkg/cache"
	"github.com/lab1702/trading-app/pkg/config"
	"github.com/lab1702/trading-app/pkg/logger"
)

type fixedFetcher struct {
	series *models.Series
}

func (f *fixedFetcher) History(_ context.Context, ticker string) (*models.Series, error) {
	if f.series != nil && f.series.Ticker == ticker {
		return f.series, nil
	}
	return nil, faults.ErrNoData
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestRouter(t *testing.T) *echo.Echo {
	t.Helper()
	cfg := config.Default()
	store := cache.NewMemoryStore(cache.WithCleanupInterval(time.Hour))
	t.Cleanup(func() { _ = store.Close() })

	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	candles := make([]models.Candle, 200)
	close := 100.0
	for i := range candles {
		close += 0.4
		candles[i] = models.Candle{
			Date: start.AddDate(0, 0, i), Open: close - 0.2,
			High: close * 1.01, Low: close * 0.99, Close: close, Volume: 1e6,
		}
	}

	log := logger.Nop()
	hub := notify.NewHub(log)
	t.Cleanup(hub.Close)
	center := notify.NewCenter(time.Minute, time.Minute, 16, hub)
	svc := usecase.NewDashboardService(
		cfg,
		symbol.NewValidator(cfg.Symbols.MaxLength),
		symbol.NewTable(map[string]string{"AAPL": "Apple Inc."}),
		&fixedFetcher{series: &models.Series{Ticker: "AAPL", Candles: candles}},
		strategy.New(cfg.Strategy.Candidates),
		forecast.New(cfg.Forecast.HorizonDays, cfg.Forecast.MinObservations),
		cache.NewMemo(store, nil),
		center,
		nil,
		log,
	)

	e := echo.New()
	NewDashboardHandler(log, svc, center, hub).RegisterRoutes(e)
	return e
}

func doGet(t *testing.T, e *echo.Echo, target string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestChartEndpoint(t *testing.T) {
	e := newTestRouter(t)

	rec, env := doGet(t, e, "/api/chart?symbol=aapl")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, http.StatusOK, env.Status)

	var data struct {
		Ticker  string          `json:"ticker"`
		Name    string          `json:"name"`
		Candles []models.Candle `json:"candles"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "AAPL", data.Ticker)
	assert.Equal(t, "Apple Inc.", data.Name)
	assert.Len(t, data.Candles, 200)
}

func TestChartEndpointEmptySymbol(t *testing.T) {
	e := newTestRouter(t)

	rec, env := doGet(t, e, "/api/chart")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, http.StatusOK, env.Status, "empty symbol is a view state, not a request error")

	var data struct {
		Err *faults.Classified `json:"error"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotNil(t, data.Err)
	assert.Equal(t, faults.KindEmptyInput, data.Err.Kind)
}

func TestStrategyEndpointDefaultsLevel(t *testing.T) {
	e := newTestRouter(t)

	_, env := doGet(t, e, "/api/strategy?symbol=AAPL")
	require.Equal(t, http.StatusOK, env.Status)

	var data struct {
		Level          int    `json:"level"`
		Recommendation string `json:"recommendation"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, 1, data.Level)
	assert.Equal(t, string(models.RecommendBuyHold), data.Recommendation)
}

func TestStrategyEndpointRejectsBadLevel(t *testing.T) {
	e := newTestRouter(t)

	_, env := doGet(t, e, "/api/strategy?symbol=AAPL&level=9")
	require.Equal(t, http.StatusBadRequest, env.Status)
}

func TestRecommendationsEndpoint(t *testing.T) {
	e := newTestRouter(t)

	_, env := doGet(t, e, "/api/recommendations?symbol=AAPL")
	require.Equal(t, http.StatusOK, env.Status)

	var rows []struct {
		Level int    `json:"level"`
		Label string `json:"label"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	require.Len(t, rows, 3)
	for i, row := range rows {
		assert.Equal(t, i+1, row.Level)
		assert.Equal(t, string(models.RecommendBuyHold), row.Label)
	}
}

func TestForecastEndpoint(t *testing.T) {
	e := newTestRouter(t)

	_, env := doGet(t, e, "/api/forecast?symbol=AAPL")
	require.Equal(t, http.StatusOK, env.Status)

	var data struct {
		Result *models.ForecastResult `json:"result"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotNil(t, data.Result)
	assert.Len(t, data.Result.Future, 90)
}

func TestRowsEndpoint(t *testing.T) {
	e := newTestRouter(t)

	_, env := doGet(t, e, "/api/rows?symbol=AAPL&n=10")
	require.Equal(t, http.StatusOK, env.Status)

	var data struct {
		Rows []models.Candle `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Len(t, data.Rows, 10)
}

func TestNotificationsEndpoint(t *testing.T) {
	e := newTestRouter(t)

	// An unknown symbol leaves an error notification behind.
	doGet(t, e, "/api/chart?symbol=ZZZZ")

	_, env := doGet(t, e, "/api/notifications")
	require.Equal(t, http.StatusOK, env.Status)

	var items []notify.Notification
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 1)
	assert.Equal(t, notify.SeverityError, items[0].Severity)
}

func TestSymbolNameEndpoint(t *testing.T) {
	e := newTestRouter(t)

	_, env := doGet(t, e, "/api/symbols/AAPL/name")
	require.Equal(t, http.StatusOK, env.Status)

	var data map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "Apple Inc.", data["name"])
}

func TestHealthEndpoint(t *testing.T) {
	e := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}
