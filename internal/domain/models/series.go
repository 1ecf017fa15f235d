package models

import "time"

// Candle is a single daily OHLCV record.
type Candle struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Series is a date-ordered OHLCV history for one ticker. Dates are strictly
// increasing with no duplicates; an empty history is never passed downstream,
// the fetch boundary reports it as a no-data failure instead.
type Series struct {
	Ticker  string   `json:"ticker"`
	Candles []Candle `json:"candles"`
}

func (s *Series) Len() int {
	return len(s.Candles)
}

// Closes returns the close price column.
func (s *Series) Closes() []float64 {
	out := make([]float64, len(s.Candles))
	for i, c := range s.Candles {
		out[i] = c.Close
	}
	return out
}

// Dates returns the date index.
func (s *Series) Dates() []time.Time {
	out := make([]time.Time, len(s.Candles))
	for i, c := range s.Candles {
		out[i] = c.Date
	}
	return out
}

// LastDate returns the most recent date in the series.
func (s *Series) LastDate() time.Time {
	if len(s.Candles) == 0 {
		return time.Time{}
	}
	return s.Candles[len(s.Candles)-1].Date
}

// Tail returns the last n candles (all of them when n exceeds the length).
func (s *Series) Tail(n int) []Candle {
	if n >= len(s.Candles) {
		return s.Candles
	}
	return s.Candles[len(s.Candles)-n:]
}

// TrimBefore drops candles dated before cutoff.
func (s *Series) TrimBefore(cutoff time.Time) {
	i := 0
	for i < len(s.Candles) && s.Candles[i].Date.Before(cutoff) {
		i++
	}
	s.Candles = s.Candles[i:]
}
