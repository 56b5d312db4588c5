package calculator

import (
	"errors"
	"fmt"

	"BreakoutScanner/internal/model"
)

// ErrInsufficientData is returned when a series is too short for an indicator.
var ErrInsufficientData = errors.New("insufficient data")

const (
	rsiPeriod     = 14
	fastEMAPeriod = 21
	slowEMAPeriod = 50
	bbPeriod      = 20
	bbStdDev      = 2.0
)

// Compute derives the full indicator set used by the scorer.
func Compute(bars []model.OHLCV) (*model.IndicatorSet, error) {
	if len(bars) < model.MinBars {
		return nil, fmt.Errorf("%d bars, need %d: %w", len(bars), model.MinBars, ErrInsufficientData)
	}
	closes := model.Closes(bars)

	rsi, err := CalculateRSI(closes, rsiPeriod)
	if err != nil {
		return nil, fmt.Errorf("rsi: %w", err)
	}
	fast, err := CalculateEMA(closes, fastEMAPeriod)
	if err != nil {
		return nil, fmt.Errorf("ema%d: %w", fastEMAPeriod, err)
	}
	slow, err := CalculateEMA(closes, slowEMAPeriod)
	if err != nil {
		return nil, fmt.Errorf("ema%d: %w", slowEMAPeriod, err)
	}
	bands, err := CalculateBollinger(closes, bbPeriod, bbStdDev)
	if err != nil {
		return nil, fmt.Errorf("bollinger: %w", err)
	}

	return &model.IndicatorSet{
		RSI14:   rsi,
		EMA21:   fast,
		EMA50:   slow,
		BBUpper: bands.Upper,
		BBLower: bands.Lower,
		BBWidth: bands.Width(),
	}, nil
}
