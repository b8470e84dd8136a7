package style

import (
	"strconv"
	"strings"
)

// ParsePx parses a pixel length ("12px" or a bare number).
// Unparseable input, including keywords like "auto", yields zero.
func ParsePx(s string) float64 {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.TrimSuffix(s, "px")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// NonNegativePx parses a pixel length and clamps it to zero or greater.
// Used for spacing and padding, which the IR contract keeps non-negative.
func NonNegativePx(s string) float64 {
	v := ParsePx(s)
	if v < 0 {
		return 0
	}
	return v
}

// ParseZIndex parses a computed z-index value.
// Returns (0, false) for "auto", empty, or unparseable input so the caller
// can fall back to depth-based ordering.
func ParseZIndex(s string) (int, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "auto" {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseOpacity parses a computed opacity value, clamped to [0,1].
// Empty or unparseable input yields 1 (fully opaque), the CSS initial value.
func ParseOpacity(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 1
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 1
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
