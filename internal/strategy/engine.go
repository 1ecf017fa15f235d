// Package strategy builds Ichimoku clouds and generates ranked trading-signal
// candidates for the three strategy levels.
package strategy

import (
	"fmt"
	"sort"

	"github.com/lab1702/trading-app/internal/domain/models"
)

// candidateParams are the parameter sets tried by the auto-strategy search,
// best-known defaults first.
var candidateParams = []models.IchimokuParams{
	{Tenkan: 9, Kijun: 26, Senkou: 52, Shift: 26},
	{Tenkan: 7, Kijun: 22, Senkou: 44, Shift: 22},
	{Tenkan: 12, Kijun: 30, Senkou: 60, Shift: 30},
}

// Engine generates and ranks strategy candidates per level.
type Engine struct {
	candidates int
}

// New creates an engine returning up to n ranked candidates per request.
func New(candidates int) *Engine {
	if candidates < 1 {
		candidates = 1
	}
	return &Engine{candidates: candidates}
}

// Generate builds one signal per parameter set at the given level, ranks them
// by cumulative strategy return and returns the top candidates.
func (e *Engine) Generate(series *models.Series, level int) ([]*models.StrategySignal, error) {
	if level < 1 || level > 3 {
		return nil, fmt.Errorf("strategy: level must be 1..3, got %d", level)
	}
	if series == nil || series.Len() < MinCandles {
		n := 0
		if series != nil {
			n = series.Len()
		}
		return nil, fmt.Errorf("strategy: need at least %d candles, got %d", MinCandles, n)
	}

	signals := make([]*models.StrategySignal, 0, len(candidateParams))
	for _, p := range candidateParams {
		sig, err := buildSignal(series, level, p)
		if err != nil {
			continue // parameter set does not fit this series
		}
		signals = append(signals, sig)
	}
	if len(signals) == 0 {
		return nil, fmt.Errorf("strategy: no viable candidate for %s L%d", series.Ticker, level)
	}

	sort.SliceStable(signals, func(i, j int) bool { return signals[i].Score > signals[j].Score })
	if len(signals) > e.candidates {
		signals = signals[:e.candidates]
	}
	return signals, nil
}

// Best returns the highest ranked candidate for the level.
func (e *Engine) Best(series *models.Series, level int) (*models.StrategySignal, error) {
	signals, err := e.Generate(series, level)
	if err != nil {
		return nil, err
	}
	return signals[0], nil
}

// buildSignal derives the condition series for one parameter set. Level 1
// follows the primary signal alone; level 2 requires the primary and
// confirmation signals to agree; level 3 is asymmetric: entering a bullish
// state needs both signals, leaving it needs only the primary to turn.
func buildSignal(series *models.Series, level int, p models.IchimokuParams) (*models.StrategySignal, error) {
	cloud, err := BuildCloud(series, p)
	if err != nil {
		return nil, err
	}

	n := series.Len()
	closes := series.Closes()
	cond := make([]models.Condition, n)

	for i := 0; i < n; i++ {
		if cloud.Kijun[i] == 0 || cloud.Tenkan[i] == 0 {
			continue // warmup, stays CondNA
		}

		// Primary: price relative to the base line. Confirmation: conversion
		// line relative to the base line.
		primary := closes[i] > cloud.Kijun[i]
		confirm := cloud.Tenkan[i] > cloud.Kijun[i]

		switch level {
		case 1:
			cond[i] = toCondition(primary)
		case 2:
			cond[i] = toCondition(primary && confirm)
		case 3:
			prev := models.CondNA
			if i > 0 {
				prev = cond[i-1]
			}
			if prev == models.CondBullish {
				cond[i] = toCondition(primary)
			} else {
				cond[i] = toCondition(primary && confirm)
			}
		}
	}

	sret, ret := computeReturns(closes, cond)

	sig := &models.StrategySignal{
		Ticker:        series.Ticker,
		Level:         level,
		Params:        p,
		Dates:         series.Dates(),
		Close:         closes,
		Cond:          cond,
		StratReturns:  sret,
		MarketReturns: ret,
		Cloud:         cloud,
	}
	sig.Score = cumulative(sret)
	return sig, nil
}

func toCondition(bullish bool) models.Condition {
	if bullish {
		return models.CondBullish
	}
	return models.CondBearish
}

// computeReturns derives daily buy-hold returns and the strategy returns
// realized by holding while the previous day's condition was bullish.
func computeReturns(closes []float64, cond []models.Condition) (sret, ret []float64) {
	n := len(closes)
	sret = make([]float64, n)
	ret = make([]float64, n)
	for i := 1; i < n; i++ {
		if closes[i-1] != 0 {
			ret[i] = closes[i]/closes[i-1] - 1
		}
		if cond[i-1] == models.CondBullish {
			sret[i] = ret[i]
		}
	}
	return sret, ret
}

func cumulative(returns []float64) float64 {
	c := 1.0
	for _, r := range returns {
		c *= 1 + r
	}
	return c - 1
}
