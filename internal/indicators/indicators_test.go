package indicators

import (
	"math"
	"testing"
)

func TestComputeAlignment(t *testing.T) {
	n := 120
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 + 0.5*float64(i) + 3*math.Sin(float64(i)/7)
	}

	o := Compute(closes)
	for name, series := range map[string][]float64{
		"sma20":       o.SMA20,
		"sma50":       o.SMA50,
		"bb_upper":    o.BBUpper,
		"bb_middle":   o.BBMiddle,
		"bb_lower":    o.BBLower,
		"rsi14":       o.RSI14,
		"macd":        o.MACD,
		"macd_signal": o.MACDSignal,
	} {
		if len(series) != n {
			t.Fatalf("%s length = %d, want %d", name, len(series), n)
		}
	}
}

func TestComputeSMAValue(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = float64(i + 1)
	}
	o := Compute(closes)

	// SMA20 at the last index is the mean of 41..60.
	want := (41.0 + 60.0) / 2
	got := o.SMA20[len(closes)-1]
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("sma20 = %f, want %f", got, want)
	}
}

func TestComputeShortSeries(t *testing.T) {
	o := Compute([]float64{100, 101, 99})
	if o.SMA20 != nil || o.RSI14 != nil || o.MACD != nil {
		t.Fatal("indicators computed below their lookback")
	}
}

func TestComputeBandsBracketMiddle(t *testing.T) {
	closes := make([]float64, 80)
	for i := range closes {
		closes[i] = 100 + 2*math.Sin(float64(i)/5)
	}
	o := Compute(closes)
	for i := bbandsPeriod; i < len(closes); i++ {
		if o.BBUpper[i] < o.BBMiddle[i] || o.BBLower[i] > o.BBMiddle[i] {
			t.Fatalf("bands disordered at %d: %f %f %f", i, o.BBLower[i], o.BBMiddle[i], o.BBUpper[i])
		}
	}
}
