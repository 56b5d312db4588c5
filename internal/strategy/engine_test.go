package strategy

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BreakoutScanner/internal/calculator"
	"BreakoutScanner/internal/model"
)

func barsFromCloses(closes []float64) []model.OHLCV {
	start := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = model.OHLCV{
			Time:   start.AddDate(0, 0, i),
			Open:   c - 0.02,
			High:   c + 0.05,
			Low:    c - 0.05,
			Close:  c,
			Volume: 250000,
		}
	}
	return bars
}

func steadyClimb(n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 + 0.1*float64(i)
	}
	return closes
}

func steadyDecline(n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 200 - 0.5*float64(i)
	}
	return closes
}

// choppyClimb alternates +2 and -1.5, drifting up while RSI stays under 60.
func choppyClimb(n int) []float64 {
	closes := []float64{100}
	for i := 1; i < n; i++ {
		step := 2.0
		if i%2 == 0 {
			step = -1.5
		}
		closes = append(closes, closes[i-1]+step)
	}
	return closes
}

// breakaway creeps for 30 bars and then runs hard, widening the bands.
func breakaway(n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		if i < 30 {
			closes[i] = 100 + 0.1*float64(i)
		} else {
			closes[i] = closes[29] + 2*float64(i-29)
		}
	}
	return closes
}

func scoreCloses(t *testing.T, closes []float64) (int, *model.IndicatorSet) {
	t.Helper()
	bars := barsFromCloses(closes)
	ind, err := calculator.Compute(bars)
	require.NoError(t, err)
	return Score(bars, ind), ind
}

func TestScore_AllConditionsMet(t *testing.T) {
	score, _ := scoreCloses(t, steadyClimb(60))
	assert.Equal(t, SqueezeScore+TightRangeScore+TrendScore+BaselineScore, score)
	assert.Equal(t, 100, score)
}

func TestScore_BelowEMA50(t *testing.T) {
	score, ind := scoreCloses(t, steadyDecline(60))
	closes := steadyDecline(60)
	require.LessOrEqual(t, closes[len(closes)-1], model.Last(ind.EMA50))
	assert.Equal(t, 0, score)
}

func TestScore_WeakMomentum(t *testing.T) {
	closes := choppyClimb(60)
	score, ind := scoreCloses(t, closes)
	require.Greater(t, closes[len(closes)-1], model.Last(ind.EMA50), "close must sit above EMA50")
	require.LessOrEqual(t, model.Last(ind.RSI14), 60.0)
	assert.Equal(t, 0, score)
}

func TestScore_TrendOnly(t *testing.T) {
	score, _ := scoreCloses(t, breakaway(60))
	assert.Equal(t, TrendScore+BaselineScore, score)
}

func TestScore_FailsClosed(t *testing.T) {
	bars := barsFromCloses(steadyClimb(60))
	ind, err := calculator.Compute(bars)
	require.NoError(t, err)

	assert.Equal(t, 0, Score(bars, nil))
	assert.Equal(t, 0, Score(nil, ind))
	assert.Equal(t, 0, Score(bars[:55], ind), "misaligned indicator columns")

	broken := *ind
	broken.EMA21 = nil
	assert.Equal(t, 0, Score(bars, &broken))
}

func TestScore_Range(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 200; trial++ {
		closes := make([]float64, 60+rng.Intn(60))
		closes[0] = 50 + rng.Float64()*100
		drift := rng.Float64()*0.02 - 0.005
		for i := 1; i < len(closes); i++ {
			closes[i] = closes[i-1] * (1 + drift + rng.NormFloat64()*0.015)
		}
		score, _ := scoreCloses(t, closes)
		if score != 0 {
			assert.GreaterOrEqual(t, score, BaselineScore)
			assert.LessOrEqual(t, score, 100)
		}
	}
}
