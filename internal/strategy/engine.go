package strategy

import (
	"math"

	"BreakoutScanner/internal/calculator"
	"BreakoutScanner/internal/model"
)

// Score weights. BaselineScore stands in for the relative-strength, sector
// and fundamental checks that are not modelled yet.
const (
	SqueezeScore    = 20
	TightRangeScore = 20
	TrendScore      = 15
	BaselineScore   = 45
)

const (
	minRSI          = 60.0
	squeezeFactor   = 1.3
	tightRangeBars  = 10
	tightRangeLimit = 0.08
)

// Score rates one ticker's breakout readiness from 0 to 100.
// It returns 0 when a hard filter fails or the inputs cannot be scored.
func Score(bars []model.OHLCV, ind *model.IndicatorSet) int {
	if len(bars) == 0 || ind == nil || !ind.Aligned(len(bars)) {
		return 0
	}
	latest := bars[len(bars)-1]
	ema50 := model.Last(ind.EMA50)
	rsi := model.Last(ind.RSI14)
	if math.IsNaN(ema50) || math.IsNaN(rsi) || latest.Close <= 0 {
		return 0
	}

	// Hard filters
	if !(latest.Close > ema50) {
		return 0
	}
	if !(rsi > minRSI) {
		return 0
	}

	score := 0
	if isSqueeze(ind.BBWidth) {
		score += SqueezeScore
	}
	if isTightRange(bars) {
		score += TightRangeScore
	}
	if model.Last(ind.EMA21) > ema50 {
		score += TrendScore
	}
	score += BaselineScore

	return score
}

// isSqueeze reports whether the latest band width sits within 30% of the
// narrowest width seen in the series.
func isSqueeze(width []float64) bool {
	latest := model.Last(width)
	narrowest := calculator.MinDefined(width)
	if math.IsNaN(latest) || math.IsNaN(narrowest) {
		return false
	}
	return latest < narrowest*squeezeFactor
}

// isTightRange reports whether the last 10 bars traded within 8% of the
// latest close.
func isTightRange(bars []model.OHLCV) bool {
	high, low, err := calculator.TrailingRange(bars, tightRangeBars)
	if err != nil {
		return false
	}
	return (high-low)/bars[len(bars)-1].Close < tightRangeLimit
}
