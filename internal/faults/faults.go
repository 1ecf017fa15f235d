// Package faults defines the error taxonomy of the analysis pipeline and the
// classification rules that turn any stage failure into a typed, renderable
// error. No raw error crosses into a view: every boundary wraps its failures
// here first.
package faults

import (
	"errors"
	"fmt"
	"regexp"
)

// Kind is the fixed error taxonomy.
type Kind string

const (
	KindEmptyInput Kind = "empty_input"
	KindNoData     Kind = "no_data"
	KindNetwork    Kind = "network"
	KindStrategy   Kind = "strategy_failure"
	KindForecast   Kind = "forecast_failure"
	KindGeneric    Kind = "generic"
)

// Context identifies the pipeline stage a failure escaped from. It only
// decides classification when the error itself carries no recognizable cause.
type Context string

const (
	ContextChart    Context = "chart"
	ContextStrategy Context = "strategy"
	ContextForecast Context = "forecast"
	ContextGeneric  Context = "generic"
)

// Sentinel causes wrapped by the producing boundaries. Classification prefers
// these structured causes; the text patterns below cover errors from
// libraries we do not control.
var (
	ErrEmptyInput       = errors.New("empty input")
	ErrNoData           = errors.New("no data available")
	ErrNetwork          = errors.New("network failure")
	ErrInsufficientData = errors.New("insufficient data points")
)

var (
	noDataPattern  = regexp.MustCompile(`(?i)no data available|symbol not found|unknown symbol`)
	networkPattern = regexp.MustCompile(`(?i)network|timeout|connection|http`)
)

// Classified is a failure mapped to the taxonomy, carrying both the short
// label for text outputs and the longer message placeholder views render.
type Classified struct {
	Kind         Kind   `json:"kind"`
	Level        int    `json:"level,omitempty"`
	Short        string `json:"short_message"`
	Presentation string `json:"presentation_message"`
	Cause        string `json:"cause,omitempty"`
}

func (c *Classified) Error() string {
	if c.Cause != "" {
		return fmt.Sprintf("%s: %s", c.Kind, c.Cause)
	}
	return string(c.Kind)
}

// Classify maps a stage failure to the taxonomy. Precedence is fixed and
// user-visible: empty input first, then data-availability and network causes
// recognized from the error itself (so a timeout inside a strategy
// computation reports as network), then the stage context, then generic.
func Classify(ctx Context, level int, err error) *Classified {
	cause := ""
	if err != nil {
		cause = err.Error()
	}

	switch {
	case err == nil || errors.Is(err, ErrEmptyInput):
		return &Classified{
			Kind:         KindEmptyInput,
			Short:        "ENTER SYMBOL",
			Presentation: "Enter a stock symbol to begin",
		}
	case errors.Is(err, ErrNoData) || noDataPattern.MatchString(cause):
		return &Classified{
			Kind:         KindNoData,
			Short:        "SYMBOL NOT FOUND",
			Presentation: "No data available - check the symbol and try again",
			Cause:        cause,
		}
	case errors.Is(err, ErrNetwork) || networkPattern.MatchString(cause):
		return &Classified{
			Kind:         KindNetwork,
			Short:        "NETWORK ERROR",
			Presentation: "Network error - unable to fetch data",
			Cause:        cause,
		}
	case ctx == ContextStrategy && level >= 1:
		return &Classified{
			Kind:         KindStrategy,
			Level:        level,
			Short:        fmt.Sprintf("L%d ERROR", level),
			Presentation: fmt.Sprintf("Strategy L%d unavailable - computation failed", level),
			Cause:        cause,
		}
	case ctx == ContextForecast:
		presentation := "Forecast unavailable - computation failed"
		if errors.Is(err, ErrInsufficientData) {
			presentation = "Forecast unavailable - need more data points"
		}
		return &Classified{
			Kind:         KindForecast,
			Short:        "ERROR",
			Presentation: presentation,
			Cause:        cause,
		}
	default:
		return &Classified{
			Kind:         KindGeneric,
			Short:        "ERROR",
			Presentation: "An unexpected error occurred",
			Cause:        cause,
		}
	}
}
