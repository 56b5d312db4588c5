package notifier

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"BreakoutScanner/internal/model"
)

// FormatPrice renders a price with two decimals, rounding half away from zero.
func FormatPrice(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// FormatCaption builds the alert caption for a candidate.
func FormatCaption(c *model.ScoredCandidate) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🚀 Pre-Breakout Alert: %s\n", c.Ticker))
	b.WriteString(fmt.Sprintf("Score: %d/100\n", c.Score))
	b.WriteString(fmt.Sprintf("Pattern: %s\n", c.Pattern))
	b.WriteString(fmt.Sprintf("Entry: %s | Target: %s | Stop-Loss: %s",
		FormatPrice(c.Close), FormatPrice(c.Target), FormatPrice(c.StopLoss)))
	return b.String()
}
