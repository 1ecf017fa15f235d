// Package util holds small parsing and numeric helpers shared across layers.
package util

import "strconv"

// ParseIntDefault parses s as an int, returning def when s is empty or
// malformed.
func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// Clamp bounds n to [lo, hi].
func Clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
