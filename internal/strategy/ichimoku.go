package strategy

import (
	"fmt"

	"github.com/lab1702/trading-app/internal/domain/models"
)

// DefaultParams are the classic Ichimoku line periods.
var DefaultParams = models.IchimokuParams{Tenkan: 9, Kijun: 26, Senkou: 52, Shift: 26}

// MinCandles is the shortest series a cloud can be built from: the base line
// needs a full Kijun window plus at least one bar to act on.
const MinCandles = 30

// midpoint returns (highest high + lowest low) / 2 over the period ending at
// index i inclusive, or 0 while inside the warmup window.
func midpoint(highs, lows []float64, i, period int) float64 {
	if i+1 < period {
		return 0
	}
	hi := highs[i]
	lo := lows[i]
	for j := i - period + 1; j <= i; j++ {
		if highs[j] > hi {
			hi = highs[j]
		}
		if lows[j] < lo {
			lo = lows[j]
		}
	}
	return (hi + lo) / 2
}

// BuildCloud computes the five Ichimoku lines over the series. Warmup indexes
// hold zero. Senkou spans are plotted shifted forward; the chikou span is the
// close plotted back.
func BuildCloud(series *models.Series, p models.IchimokuParams) (*models.IchimokuCloud, error) {
	n := series.Len()
	if n < MinCandles {
		return nil, fmt.Errorf("ichimoku: need at least %d candles, got %d", MinCandles, n)
	}

	highs := make([]float64, n)
	lows := make([]float64, n)
	for i, c := range series.Candles {
		highs[i] = c.High
		lows[i] = c.Low
	}

	cloud := &models.IchimokuCloud{
		Dates:   series.Dates(),
		Tenkan:  make([]float64, n),
		Kijun:   make([]float64, n),
		SenkouA: make([]float64, n),
		SenkouB: make([]float64, n),
		Chikou:  make([]float64, n),
	}

	for i := 0; i < n; i++ {
		cloud.Tenkan[i] = midpoint(highs, lows, i, p.Tenkan)
		cloud.Kijun[i] = midpoint(highs, lows, i, p.Kijun)
	}

	for i := 0; i < n; i++ {
		// Spans at index i come from the window ending Shift bars earlier.
		src := i - p.Shift
		if src >= 0 {
			if cloud.Tenkan[src] != 0 && cloud.Kijun[src] != 0 {
				cloud.SenkouA[i] = (cloud.Tenkan[src] + cloud.Kijun[src]) / 2
			}
			cloud.SenkouB[i] = midpoint(highs, lows, src, p.Senkou)
		}
		if i+p.Shift < n {
			cloud.Chikou[i] = series.Candles[i+p.Shift].Close
		}
	}

	return cloud, nil
}
