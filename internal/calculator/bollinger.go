package calculator

import (
	"errors"
	"math"
)

// Bands holds per-bar Bollinger envelope values.
type Bands struct {
	Middle []float64
	Upper  []float64
	Lower  []float64
}

// Width returns upper minus lower for every bar; NaN where undefined.
func (b *Bands) Width() []float64 {
	width := make([]float64, len(b.Upper))
	for i := range b.Upper {
		width[i] = b.Upper[i] - b.Lower[i]
	}
	return width
}

// CalculateBollinger computes the period SMA of prices plus and minus
// numStd population standard deviations.
func CalculateBollinger(prices []float64, period int, numStd float64) (*Bands, error) {
	if numStd <= 0 {
		return nil, errors.New("standard deviation multiplier must be positive")
	}
	middle, err := CalculateSMA(prices, period)
	if err != nil {
		return nil, err
	}
	bands := &Bands{
		Middle: middle,
		Upper:  nanSeries(len(prices)),
		Lower:  nanSeries(len(prices)),
	}
	for i := period - 1; i < len(prices); i++ {
		var variance float64
		for j := i - period + 1; j <= i; j++ {
			d := prices[j] - middle[i]
			variance += d * d
		}
		sd := math.Sqrt(variance / float64(period))
		bands.Upper[i] = middle[i] + numStd*sd
		bands.Lower[i] = middle[i] - numStd*sd
	}
	return bands, nil
}
