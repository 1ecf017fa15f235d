package strategy

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/lab1702/trading-app/internal/domain/models"
)

const tradingDaysPerYear = 252

// outperformanceHorizons are the holding periods, in trading days, reported
// in the outperformance table.
var outperformanceHorizons = []int{21, 63, 126, 252}

// OutperformanceRow estimates the probability that the strategy beats
// buy-and-hold over a horizon.
type OutperformanceRow struct {
	HorizonDays int     `json:"horizon_days"`
	Probability float64 `json:"probability"`
}

// Performance summarizes a backtested signal against its buy-hold benchmark.
type Performance struct {
	Ticker           string              `json:"ticker"`
	Level            int                 `json:"level"`
	CumulativeReturn float64             `json:"cumulative_return"`
	BuyHoldReturn    float64             `json:"buy_hold_return"`
	AnnualizedVol    float64             `json:"annualized_vol"`
	BuyHoldVol       float64             `json:"buy_hold_vol"`
	HitRate          float64             `json:"hit_rate"`
	DaysInMarket     int                 `json:"days_in_market"`
	Outperformance   []OutperformanceRow `json:"outperformance"`
}

// Summarize computes the performance view for a selected signal.
func Summarize(sig *models.StrategySignal) *Performance {
	p := &Performance{
		Ticker:           sig.Ticker,
		Level:            sig.Level,
		CumulativeReturn: cumulative(sig.StratReturns),
		BuyHoldReturn:    cumulative(sig.MarketReturns),
		AnnualizedVol:    annualizedVol(sig.StratReturns),
		BuyHoldVol:       annualizedVol(sig.MarketReturns),
	}

	wins, active := 0, 0
	for i, r := range sig.StratReturns {
		if i > 0 && sig.Cond[i-1] == models.CondBullish {
			active++
			if r > 0 {
				wins++
			}
		}
	}
	p.DaysInMarket = active
	if active > 0 {
		p.HitRate = float64(wins) / float64(active)
	}

	p.Outperformance = outperformanceTable(sig)
	return p
}

// outperformanceTable approximates, per horizon, the probability that the
// strategy's cumulative return exceeds buy-and-hold. Daily active returns
// (strategy minus benchmark) are treated as i.i.d. and the horizon sum as
// normal.
func outperformanceTable(sig *models.StrategySignal) []OutperformanceRow {
	active := make([]float64, 0, len(sig.StratReturns))
	for i := 1; i < len(sig.StratReturns); i++ {
		active = append(active, sig.StratReturns[i]-sig.MarketReturns[i])
	}

	rows := make([]OutperformanceRow, 0, len(outperformanceHorizons))
	if len(active) < 2 {
		return rows
	}

	mean := stat.Mean(active, nil)
	sd := stat.StdDev(active, nil)
	norm := distuv.Normal{Mu: 0, Sigma: 1}

	for _, h := range outperformanceHorizons {
		var prob float64
		switch {
		case sd == 0 && mean > 0:
			prob = 1
		case sd == 0:
			prob = 0
		default:
			z := mean * float64(h) / (sd * math.Sqrt(float64(h)))
			prob = norm.CDF(z)
		}
		rows = append(rows, OutperformanceRow{HorizonDays: h, Probability: prob})
	}
	return rows
}

func annualizedVol(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	return stat.StdDev(returns, nil) * math.Sqrt(tradingDaysPerYear)
}
