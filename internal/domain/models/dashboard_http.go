package models

// Requests for dashboard HTTP endpoints. Defined in domain for consistency and reuse.
//
// Symbol is deliberately not required: an empty symbol is the dashboard's
// initial state and renders the placeholder views rather than a 400.

type ChartRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"max=32"`
}

type StrategyRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"max=32"`
	Level  int    `query:"level" json:"level" default:"1" validate:"gte=1,lte=3"`
}

type ForecastRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"max=32"`
}

type RowsRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"max=32"`
	N      int    `query:"n" json:"n" default:"30" validate:"gte=1,lte=500"`
}
