// Package symbol normalizes raw ticker input and resolves company names from
// a read-only table loaded at startup.
package symbol

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lab1702/trading-app/internal/faults"
)

// ErrInvalid marks user-correctable input: wrong characters or too long.
var ErrInvalid = fmt.Errorf("invalid symbol")

var symbolPattern = regexp.MustCompile(`^[A-Z0-9.\-]+$`)

// Validator canonicalizes raw user input into a ticker.
type Validator struct {
	maxLength int
}

// NewValidator creates a validator with the configured maximum length.
func NewValidator(maxLength int) *Validator {
	return &Validator{maxLength: maxLength}
}

// Validate trims and uppercases raw input. Empty input returns
// faults.ErrEmptyInput (the expected initial state, not a failure). Input
// that is too long or carries characters outside [A-Z0-9.-] returns
// ErrInvalid.
func (v *Validator) Validate(raw string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return "", faults.ErrEmptyInput
	}
	if len(s) > v.maxLength {
		return "", fmt.Errorf("%w: %q exceeds %d characters", ErrInvalid, s, v.maxLength)
	}
	if !symbolPattern.MatchString(s) {
		return "", fmt.Errorf("%w: %q contains characters outside A-Z, 0-9, '.', '-'", ErrInvalid, s)
	}
	return s, nil
}
