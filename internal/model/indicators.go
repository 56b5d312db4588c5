package model

import "math"

// IndicatorSet holds per-bar indicator series aligned with the price bars.
// Warm-up positions hold NaN.
type IndicatorSet struct {
	RSI14   []float64
	EMA21   []float64
	EMA50   []float64
	BBUpper []float64
	BBLower []float64
	BBWidth []float64
}

// Aligned reports whether every series has n values.
func (s *IndicatorSet) Aligned(n int) bool {
	for _, col := range [][]float64{s.RSI14, s.EMA21, s.EMA50, s.BBUpper, s.BBLower, s.BBWidth} {
		if len(col) != n {
			return false
		}
	}
	return true
}

// Last returns the final value of a series, or NaN if it is empty.
func Last(series []float64) float64 {
	if len(series) == 0 {
		return math.NaN()
	}
	return series[len(series)-1]
}
