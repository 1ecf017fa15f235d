package models

import "time"

// PricePoint is one (date, value) observation.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// ForecastPoint is one predicted value with its confidence interval.
type ForecastPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
	Lower float64   `json:"lower"`
	Upper float64   `json:"upper"`
}

// ForecastModel is the fitted model handle: an additive trend plus yearly
// seasonality regression. The coefficients are enough to reproduce fitted
// values and the decomposition without refitting.
type ForecastModel struct {
	Origin       time.Time `json:"origin"`
	Coefficients []float64 `json:"coefficients"`
	FourierOrder int       `json:"fourier_order"`
	ResidualStd  float64   `json:"residual_std"`
	Observations int       `json:"observations"`
}

// ForecastResult pairs a fitted model with its predictions. Future covers the
// configured horizon strictly after the last historical date; Fitted covers
// the historical index with in-sample predictions.
type ForecastResult struct {
	Ticker string          `json:"ticker"`
	Model  ForecastModel   `json:"model"`
	Fitted []ForecastPoint `json:"fitted"`
	Future []ForecastPoint `json:"future"`
}

// Decomposition is the component breakdown of a fitted forecast model over a
// date index.
type Decomposition struct {
	Ticker   string       `json:"ticker"`
	Trend    []PricePoint `json:"trend"`
	Seasonal []PricePoint `json:"seasonal"`
}
