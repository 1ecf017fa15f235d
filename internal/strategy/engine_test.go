package strategy

import (
	"testing"
	"time"

	"github.com/lab1702/trading-app/internal/domain/models"
)

// syntheticSeries builds n daily candles whose closes follow step, starting
// at 100. A positive step gives a persistent uptrend, a negative one a
// downtrend.
func syntheticSeries(ticker string, n int, step float64) *models.Series {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	candles := make([]models.Candle, n)
	close := 100.0
	for i := 0; i < n; i++ {
		close += step
		candles[i] = models.Candle{
			Date:   start.AddDate(0, 0, i),
			Open:   close - step/2,
			High:   close * 1.01,
			Low:    close * 0.99,
			Close:  close,
			Volume: 1e6,
		}
	}
	return &models.Series{Ticker: ticker, Candles: candles}
}

func TestBestUptrendRecommendsBuy(t *testing.T) {
	e := New(1)
	series := syntheticSeries("UP", 120, 0.5)

	for level := 1; level <= 3; level++ {
		sig, err := e.Best(series, level)
		if err != nil {
			t.Fatalf("Best(level=%d): %v", level, err)
		}
		if got := sig.Recommendation(); got != models.RecommendBuyHold {
			t.Fatalf("level %d recommendation = %q, want %q", level, got, models.RecommendBuyHold)
		}
		if sig.Level != level {
			t.Fatalf("signal level = %d, want %d", sig.Level, level)
		}
	}
}

func TestBestDowntrendRecommendsSell(t *testing.T) {
	e := New(1)
	series := syntheticSeries("DOWN", 120, -0.3)

	for level := 1; level <= 3; level++ {
		sig, err := e.Best(series, level)
		if err != nil {
			t.Fatalf("Best(level=%d): %v", level, err)
		}
		if got := sig.Recommendation(); got != models.RecommendSellWait {
			t.Fatalf("level %d recommendation = %q, want %q", level, got, models.RecommendSellWait)
		}
	}
}

func TestBestDefinedAtFiftyPoints(t *testing.T) {
	e := New(1)
	series := syntheticSeries("SHORT", 50, 0.5)

	for level := 1; level <= 3; level++ {
		sig, err := e.Best(series, level)
		if err != nil {
			t.Fatalf("Best(level=%d) on 50 points: %v", level, err)
		}
		if got := sig.Recommendation(); got == models.RecommendNoData {
			t.Fatalf("level %d on 50 points yielded NO DATA", level)
		}
	}
}

func TestGenerateRejectsShortSeries(t *testing.T) {
	e := New(1)
	if _, err := e.Generate(syntheticSeries("X", MinCandles-1, 0.5), 1); err == nil {
		t.Fatal("expected error below MinCandles")
	}
	if _, err := e.Generate(nil, 1); err == nil {
		t.Fatal("expected error for nil series")
	}
}

func TestGenerateRejectsBadLevel(t *testing.T) {
	e := New(1)
	series := syntheticSeries("X", 60, 0.5)
	for _, level := range []int{0, 4, -1} {
		if _, err := e.Generate(series, level); err == nil {
			t.Fatalf("expected error for level %d", level)
		}
	}
}

func TestGenerateRanksAndTruncates(t *testing.T) {
	series := syntheticSeries("RANK", 120, 0.5)

	all, err := New(3).Generate(series, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != len(candidateParams) {
		t.Fatalf("got %d candidates, want %d", len(all), len(candidateParams))
	}
	for i := 1; i < len(all); i++ {
		if all[i].Score > all[i-1].Score {
			t.Fatalf("candidates not sorted by score: %f > %f", all[i].Score, all[i-1].Score)
		}
	}

	top, err := New(1).Generate(series, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 1 {
		t.Fatalf("got %d candidates, want 1", len(top))
	}
	if top[0].Score != all[0].Score {
		t.Fatalf("truncated best %f != ranked best %f", top[0].Score, all[0].Score)
	}
}

func TestStrategyReturnsGatedByCondition(t *testing.T) {
	sig, err := New(1).Best(syntheticSeries("GATE", 120, 0.5), 1)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(sig.StratReturns); i++ {
		if sig.Cond[i-1] == models.CondBullish {
			if sig.StratReturns[i] != sig.MarketReturns[i] {
				t.Fatalf("day %d: in market but sret %f != ret %f", i, sig.StratReturns[i], sig.MarketReturns[i])
			}
		} else if sig.StratReturns[i] != 0 {
			t.Fatalf("day %d: out of market but sret %f != 0", i, sig.StratReturns[i])
		}
	}
}

func TestBuildCloudWarmupAndShift(t *testing.T) {
	series := syntheticSeries("CLOUD", 120, 0.5)
	cloud, err := BuildCloud(series, DefaultParams)
	if err != nil {
		t.Fatal(err)
	}

	if cloud.Tenkan[DefaultParams.Tenkan-2] != 0 {
		t.Fatal("tenkan defined inside warmup")
	}
	if cloud.Tenkan[DefaultParams.Tenkan-1] == 0 {
		t.Fatal("tenkan undefined after warmup")
	}
	if cloud.Kijun[DefaultParams.Kijun-2] != 0 {
		t.Fatal("kijun defined inside warmup")
	}

	// Span at i reproduces the midpoint of the window ending Shift bars back.
	i := 100
	src := i - DefaultParams.Shift
	wantA := (cloud.Tenkan[src] + cloud.Kijun[src]) / 2
	if cloud.SenkouA[i] != wantA {
		t.Fatalf("senkou A at %d = %f, want %f", i, cloud.SenkouA[i], wantA)
	}

	// Chikou is the close plotted back by the shift.
	if cloud.Chikou[i-DefaultParams.Shift] != series.Candles[i].Close {
		t.Fatal("chikou misaligned")
	}
}
