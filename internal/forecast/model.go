// Package forecast fits an additive trend-plus-yearly-seasonality model to a
// close-price series and extends it over a fixed calendar horizon. Weekly and
// daily seasonality are deliberately absent: daily bars carry no intraday
// structure and weekday effects wash out over a multi-year window.
package forecast

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/lab1702/trading-app/internal/domain/models"
	"github.com/lab1702/trading-app/internal/faults"
)

const (
	daysPerYear  = 365.25
	fourierOrder = 3
	zScore95     = 1.96
)

// Engine fits forecast models over a configured horizon.
type Engine struct {
	horizonDays     int
	minObservations int
}

// New creates a forecast engine. horizonDays is in calendar days.
func New(horizonDays, minObservations int) *Engine {
	return &Engine{horizonDays: horizonDays, minObservations: minObservations}
}

// Fit estimates the model on (date, close) pairs and predicts over the
// historical index plus the horizon. Too few observations return
// faults.ErrInsufficientData.
func (e *Engine) Fit(ticker string, dates []time.Time, closes []float64) (*models.ForecastResult, error) {
	n := len(closes)
	if n != len(dates) {
		return nil, fmt.Errorf("forecast: %d dates for %d observations", len(dates), n)
	}
	if n < e.minObservations {
		return nil, fmt.Errorf("%w: have %d observations, need %d", faults.ErrInsufficientData, n, e.minObservations)
	}

	origin := dates[0]
	cols := 2 + 2*fourierOrder

	X := mat.NewDense(n, cols, nil)
	y := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		t := daysSince(origin, dates[i])
		fillRow(X, i, t)
		y.SetVec(i, closes[i])
	}

	var coef mat.VecDense
	if err := coef.SolveVec(X, y); err != nil {
		return nil, fmt.Errorf("forecast: model fit failed: %w", err)
	}

	coefficients := make([]float64, cols)
	for j := 0; j < cols; j++ {
		coefficients[j] = coef.AtVec(j)
	}

	residuals := make([]float64, n)
	fitted := make([]models.ForecastPoint, n)
	for i := 0; i < n; i++ {
		pred := predict(coefficients, daysSince(origin, dates[i]))
		residuals[i] = closes[i] - pred
		fitted[i] = models.ForecastPoint{Date: dates[i], Value: pred}
	}
	residualStd := stat.StdDev(residuals, nil)

	model := models.ForecastModel{
		Origin:       origin,
		Coefficients: coefficients,
		FourierOrder: fourierOrder,
		ResidualStd:  residualStd,
		Observations: n,
	}

	for i := range fitted {
		fitted[i].Lower = fitted[i].Value - zScore95*residualStd
		fitted[i].Upper = fitted[i].Value + zScore95*residualStd
	}

	last := dates[n-1]
	future := make([]models.ForecastPoint, 0, e.horizonDays)
	for d := 1; d <= e.horizonDays; d++ {
		date := last.AddDate(0, 0, d)
		t := daysSince(origin, date)
		pred := predict(coefficients, t)
		// Interval widens with distance from the sample.
		se := residualStd * math.Sqrt(1+float64(d)/daysPerYear)
		future = append(future, models.ForecastPoint{
			Date:  date,
			Value: pred,
			Lower: pred - zScore95*se,
			Upper: pred + zScore95*se,
		})
	}

	return &models.ForecastResult{
		Ticker: ticker,
		Model:  model,
		Fitted: fitted,
		Future: future,
	}, nil
}

// Decompose splits the fitted model into trend and seasonal components over
// the given index. It reuses the stored coefficients; nothing is refit.
func Decompose(res *models.ForecastResult, dates []time.Time) *models.Decomposition {
	dec := &models.Decomposition{
		Ticker:   res.Ticker,
		Trend:    make([]models.PricePoint, len(dates)),
		Seasonal: make([]models.PricePoint, len(dates)),
	}
	c := res.Model.Coefficients
	for i, date := range dates {
		t := daysSince(res.Model.Origin, date)
		dec.Trend[i] = models.PricePoint{Date: date, Value: c[0] + c[1]*t}
		dec.Seasonal[i] = models.PricePoint{Date: date, Value: seasonal(c, t)}
	}
	return dec
}

func daysSince(origin, date time.Time) float64 {
	return date.Sub(origin).Hours() / 24
}

// fillRow writes [1, t, sin/cos yearly Fourier terms] into row i.
func fillRow(X *mat.Dense, i int, t float64) {
	X.Set(i, 0, 1)
	X.Set(i, 1, t)
	for k := 1; k <= fourierOrder; k++ {
		w := 2 * math.Pi * float64(k) * t / daysPerYear
		X.Set(i, 2*k, math.Sin(w))
		X.Set(i, 2*k+1, math.Cos(w))
	}
}

func predict(c []float64, t float64) float64 {
	return c[0] + c[1]*t + seasonal(c, t)
}

func seasonal(c []float64, t float64) float64 {
	s := 0.0
	order := (len(c) - 2) / 2
	for k := 1; k <= order; k++ {
		w := 2 * math.Pi * float64(k) * t / daysPerYear
		s += c[2*k]*math.Sin(w) + c[2*k+1]*math.Cos(w)
	}
	return s
}
