// Package marketdata retrieves OHLCV history from a Yahoo-chart-shaped HTTP
// source and isolates its failure modes behind the pipeline's typed causes.
package marketdata

import (
	"context"

	"github.com/lab1702/trading-app/internal/domain/models"
)

// Fetcher retrieves the trimmed daily history for a ticker.
type Fetcher interface {
	History(ctx context.Context, ticker string) (*models.Series, error)
}
