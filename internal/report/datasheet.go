package report

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"

	"BreakoutScanner/internal/model"
	"BreakoutScanner/internal/notifier"
)

const (
	sheetWidth  = 800
	sheetHeight = 150
)

// drawDatasheet renders the fixed-size summary panel under the chart.
func (r *Renderer) drawDatasheet(c *model.ScoredCandidate) image.Image {
	dc := gg.NewContext(sheetWidth, sheetHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	r.loadFont(dc, boldFont, 28)
	dc.SetRGB(0, 0, 0)
	dc.DrawStringAnchored(fmt.Sprintf("Analysis for: %s", c.Ticker), 10, 10, 0, 1)

	dc.SetLineWidth(1)
	dc.DrawLine(10, 50, 790, 50)
	dc.Stroke()

	r.loadFont(dc, regularFont, 22)
	dc.SetRGB255(0, 128, 0)
	dc.DrawStringAnchored(fmt.Sprintf("Score: %d/100", c.Score), 20, 60, 0, 1)
	dc.SetRGB(0, 0, 0)
	dc.DrawStringAnchored(fmt.Sprintf("Pattern: %s", c.Pattern), 20, 90, 0, 1)
	dc.SetRGB255(0, 100, 0)
	dc.DrawStringAnchored(fmt.Sprintf("Target: %s", notifier.FormatPrice(c.Target)), 400, 60, 0, 1)
	dc.SetRGB255(139, 0, 0)
	dc.DrawStringAnchored(fmt.Sprintf("Stop-Loss: %s", notifier.FormatPrice(c.StopLoss)), 400, 90, 0, 1)

	return dc.Image()
}
