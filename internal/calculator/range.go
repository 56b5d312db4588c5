package calculator

import (
	"errors"
	"math"

	"BreakoutScanner/internal/model"
)

// TrailingRange returns the highest high and lowest low of the last n bars.
func TrailingRange(bars []model.OHLCV, n int) (high, low float64, err error) {
	if n <= 0 {
		return 0, 0, errors.New("window must be positive")
	}
	if len(bars) < n {
		return 0, 0, ErrInsufficientData
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, b := range bars[len(bars)-n:] {
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
	}
	return high, low, nil
}

// MinDefined returns the smallest non-NaN value, or NaN if there is none.
func MinDefined(series []float64) float64 {
	lowest := math.NaN()
	for _, v := range series {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(lowest) || v < lowest {
			lowest = v
		}
	}
	return lowest
}
