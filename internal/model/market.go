package model

import "time"

// MinBars is the shortest daily series that can be scored. It covers the
// EMA(50) warm-up plus the latest bar.
const MinBars = 51

// OHLCV represents a single daily candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceSeries holds one ticker's daily bars, oldest first.
type PriceSeries struct {
	Symbol    string
	Bars      []OHLCV
	FetchedAt time.Time
}

// Latest returns the most recent bar.
func (s *PriceSeries) Latest() OHLCV {
	return s.Bars[len(s.Bars)-1]
}

// Closes extracts closing prices in bar order.
func Closes(bars []OHLCV) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}
