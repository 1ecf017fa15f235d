package models

import "time"

// Condition is the per-day strategy state. Zero means the signal is not yet
// defined for that day (indicator warmup); only +1 and -1 carry meaning.
type Condition int8

const (
	CondNA      Condition = 0
	CondBullish Condition = 1
	CondBearish Condition = -1
)

// Recommendation is the user-facing position label derived from the most
// recent defined condition.
type Recommendation string

const (
	RecommendBuyHold  Recommendation = "BUY / HOLD"
	RecommendSellWait Recommendation = "SELL / WAIT"
	RecommendNoData   Recommendation = "NO DATA"
)

// IchimokuCloud carries the five Ichimoku lines aligned with the date index.
// Warmup indexes where a line is undefined hold zero.
type IchimokuCloud struct {
	Dates   []time.Time `json:"dates"`
	Tenkan  []float64   `json:"tenkan"`
	Kijun   []float64   `json:"kijun"`
	SenkouA []float64   `json:"senkou_a"`
	SenkouB []float64   `json:"senkou_b"`
	Chikou  []float64   `json:"chikou"`
}

// StrategySignal is the selected best candidate for one (ticker, level) pair.
// All slices share the series date index. StratReturns holds the daily return
// realized while the previous day's condition was bullish; MarketReturns is
// the buy-and-hold benchmark.
type StrategySignal struct {
	Ticker        string         `json:"ticker"`
	Level         int            `json:"level"`
	Params        IchimokuParams `json:"params"`
	Dates         []time.Time    `json:"dates"`
	Close         []float64      `json:"close"`
	Cond          []Condition    `json:"cond"`
	StratReturns  []float64      `json:"sret"`
	MarketReturns []float64      `json:"ret"`
	Score         float64        `json:"score"`
	Cloud         *IchimokuCloud `json:"cloud,omitempty"`
}

// IchimokuParams are the line periods of one strategy candidate.
type IchimokuParams struct {
	Tenkan int `json:"tenkan"`
	Kijun  int `json:"kijun"`
	Senkou int `json:"senkou"`
	Shift  int `json:"shift"`
}

// Recommendation maps the last defined condition to a position label, in time
// order. A signal with no defined condition yields NO DATA.
func (s *StrategySignal) Recommendation() Recommendation {
	for i := len(s.Cond) - 1; i >= 0; i-- {
		switch s.Cond[i] {
		case CondBullish:
			return RecommendBuyHold
		case CondBearish:
			return RecommendSellWait
		}
	}
	return RecommendNoData
}
