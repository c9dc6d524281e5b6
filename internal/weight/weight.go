// Package weight holds the numeric helpers shared by the progression and plate calculations. All weights are pounds.
package weight

import (
	"math"
	"strconv"
	"strings"
)

const (
	// Increment is the granularity set weights are rounded to.
	Increment = 5.0
	// Epsilon is the tolerance under which a remaining weight counts as zero.
	Epsilon = 0.1
)

// Valid reports whether w is a usable weight: finite and strictly positive.
func Valid(w float64) bool {
	return !math.IsNaN(w) && !math.IsInf(w, 0) && w > 0
}

// RoundTo rounds w to the nearest multiple of inc. Halves round away from zero, so 92.5 becomes 95.
func RoundTo(w, inc float64) float64 {
	if inc <= 0 {
		return w
	}
	return math.Round(w/inc) * inc
}

// RoundToIncrement rounds w to the nearest multiple of [Increment].
func RoundToIncrement(w float64) float64 {
	return RoundTo(w, Increment)
}

// IsZero reports whether w is within [Epsilon] of zero.
func IsZero(w float64) bool {
	return math.Abs(w) <= Epsilon
}

// Parse reads a weight typed into a form field.
//
// Like a browser's parseFloat it accepts a leading number followed by junk ("135 lbs"). Anything that does not
// yield a valid weight returns 0, which callers treat as "nothing to calculate yet".
func Parse(raw string) float64 {
	w, err := strconv.ParseFloat(numericPrefix(strings.TrimSpace(raw)), 64)
	if err != nil || !Valid(w) {
		return 0
	}
	return w
}

// ParseCount reads a positive integer such as a set count. Non-positive or unparseable input returns fallback.
func ParseCount(raw string, fallback int) int {
	prefix := numericPrefix(strings.TrimSpace(raw))
	if i := strings.IndexByte(prefix, '.'); i >= 0 {
		prefix = prefix[:i]
	}
	n, err := strconv.Atoi(prefix)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// numericPrefix returns the longest prefix of s that looks like a decimal number with an optional sign.
func numericPrefix(s string) string {
	end := 0
	seenDigit, seenDot := false, false
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			seenDigit = true
			end = i + 1
		case r == '.' && !seenDot:
			seenDot = true
		case (r == '-' || r == '+') && i == 0:
		default:
			if !seenDigit {
				return ""
			}
			return s[:end]
		}
	}
	if !seenDigit {
		return ""
	}
	return s[:end]
}

// Format renders w without trailing zeros, e.g. 2.5 and 45.
func Format(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}
