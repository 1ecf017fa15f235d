// Package indicators computes the chart overlay series with go-talib using
// the standard default window parameters.
package indicators

import (
	"github.com/markcheno/go-talib"
)

const (
	smaFastPeriod = 20
	smaSlowPeriod = 50
	bbandsPeriod  = 20
	rsiPeriod     = 14
	macdFast      = 12
	macdSlow      = 26
	macdSignal    = 9
)

// Overlay carries the indicator series aligned with the close-price index.
// Warmup indexes hold zero, following the go-talib convention.
type Overlay struct {
	SMA20      []float64 `json:"sma20"`
	SMA50      []float64 `json:"sma50"`
	BBUpper    []float64 `json:"bb_upper"`
	BBMiddle   []float64 `json:"bb_middle"`
	BBLower    []float64 `json:"bb_lower"`
	RSI14      []float64 `json:"rsi14"`
	MACD       []float64 `json:"macd"`
	MACDSignal []float64 `json:"macd_signal"`
	MACDHist   []float64 `json:"macd_hist"`
}

// Compute derives all overlay indicators from a close-price series.
// Indicators whose lookback exceeds the series length are left empty rather
// than failing the whole overlay.
func Compute(closes []float64) *Overlay {
	o := &Overlay{}
	n := len(closes)

	if n > smaFastPeriod {
		o.SMA20 = talib.Sma(closes, smaFastPeriod)
	}
	if n > smaSlowPeriod {
		o.SMA50 = talib.Sma(closes, smaSlowPeriod)
	}
	if n > bbandsPeriod {
		o.BBUpper, o.BBMiddle, o.BBLower = talib.BBands(closes, bbandsPeriod, 2, 2, talib.SMA)
	}
	if n > rsiPeriod {
		o.RSI14 = talib.Rsi(closes, rsiPeriod)
	}
	if n > macdSlow+macdSignal {
		o.MACD, o.MACDSignal, o.MACDHist = talib.Macd(closes, macdFast, macdSlow, macdSignal)
	}

	return o
}
