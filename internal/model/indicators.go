package model

import "math"

// IndicatorSet holds the derived per-row indicator columns for a price series.
// Every slice has the same length as the source series; rows without enough
// history hold NaN (see Defined).
type IndicatorSet struct {
	RSI      []float64
	MACD     []float64
	Signal   []float64
	EMAFast  []float64
	EMASlow  []float64
	BBMiddle []float64
	BBUpper  []float64
	BBLower  []float64
	MA       map[int][]float64 // keyed by period
}

// Undefined is the sentinel for an indicator row without enough history.
func Undefined() float64 { return math.NaN() }

// Defined reports whether v is a usable finite value.
func Defined(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// FirstDefined returns the first index holding a defined value, or -1.
func FirstDefined(values []float64) int {
	for i, v := range values {
		if Defined(v) {
			return i
		}
	}
	return -1
}
