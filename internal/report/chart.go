package report

import (
	"fmt"
	"image"
	"math"

	"github.com/fogleman/gg"

	"BreakoutScanner/internal/model"
	"BreakoutScanner/internal/notifier"
)

const (
	chartWidth   = 800
	chartHeight  = 600
	marginLeft   = 70.0
	marginRight  = 20.0
	marginTop    = 40.0
	marginBottom = 20.0
	volumeHeight = 90.0
	panelGap     = 10.0
	priceTicks   = 5
	markerFactor = 0.98
)

// chartView maps prices and bar indexes onto the canvas.
type chartView struct {
	lo, hi      float64
	top, bottom float64
	slot        float64
}

func (v chartView) y(price float64) float64 {
	return v.bottom - (price-v.lo)/(v.hi-v.lo)*(v.bottom-v.top)
}

func (v chartView) x(i int) float64 {
	return marginLeft + (float64(i)+0.5)*v.slot
}

// drawChart renders trailing daily candles with EMA overlays, a volume strip,
// a buy marker under the latest bar and dashed target/stop lines.
func (r *Renderer) drawChart(c *model.ScoredCandidate) image.Image {
	start := 0
	if r.ChartDays > 0 && len(c.Bars) > r.ChartDays {
		start = len(c.Bars) - r.ChartDays
	}
	bars := c.Bars[start:]
	last := len(bars) - 1
	marker := bars[last].Low * markerFactor

	dc := gg.NewContext(chartWidth, chartHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	lo, hi := marker, c.Target
	for _, p := range []float64{c.StopLoss, c.Target} {
		lo, hi = math.Min(lo, p), math.Max(hi, p)
	}
	for _, b := range bars {
		lo, hi = math.Min(lo, b.Low), math.Max(hi, b.High)
	}
	if hi-lo < 1e-9 {
		hi = lo + 1
	}
	pad := (hi - lo) * 0.03
	view := chartView{
		lo:     lo - pad,
		hi:     hi + pad,
		top:    marginTop,
		bottom: chartHeight - marginBottom - volumeHeight - panelGap,
		slot:   (chartWidth - marginLeft - marginRight) / float64(len(bars)),
	}

	r.loadFont(dc, boldFont, 16)
	dc.SetRGB(0, 0, 0)
	dc.DrawStringAnchored(fmt.Sprintf("%s - Daily Chart Plan", c.Ticker), chartWidth/2, marginTop/2, 0.5, 0.5)

	r.loadFont(dc, regularFont, 11)
	drawGrid(dc, view)
	drawCandles(dc, view, bars)

	if ind := c.Indicators; ind != nil && ind.Aligned(len(c.Bars)) {
		drawLine(dc, view, ind.EMA21[start:], 0.12, 0.47, 0.71)
		drawLine(dc, view, ind.EMA50[start:], 1.0, 0.5, 0.05)
		dc.SetRGB255(31, 119, 180)
		dc.DrawString("EMA 21", marginLeft+8, marginTop+14)
		dc.SetRGB255(255, 127, 14)
		dc.DrawString("EMA 50", marginLeft+70, marginTop+14)
	}

	drawVolume(dc, view, bars)

	dc.SetLineWidth(1.5)
	dc.SetDash(6, 4)
	dc.SetRGB255(0, 128, 0)
	dc.DrawLine(marginLeft, view.y(c.Target), chartWidth-marginRight, view.y(c.Target))
	dc.Stroke()
	dc.SetRGB255(200, 0, 0)
	dc.DrawLine(marginLeft, view.y(c.StopLoss), chartWidth-marginRight, view.y(c.StopLoss))
	dc.Stroke()
	dc.SetDash()

	// up-triangle with its tip at the marker price
	mx, my := view.x(last), view.y(marker)
	dc.SetRGB255(0, 160, 0)
	dc.MoveTo(mx, my)
	dc.LineTo(mx-7, my+12)
	dc.LineTo(mx+7, my+12)
	dc.ClosePath()
	dc.Fill()

	return dc.Image()
}

func drawGrid(dc *gg.Context, v chartView) {
	dc.SetLineWidth(0.5)
	for i := 0; i <= priceTicks; i++ {
		price := v.lo + (v.hi-v.lo)*float64(i)/priceTicks
		y := v.y(price)
		dc.SetRGB(0.88, 0.88, 0.88)
		dc.DrawLine(marginLeft, y, chartWidth-marginRight, y)
		dc.Stroke()
		dc.SetRGB(0.3, 0.3, 0.3)
		dc.DrawStringAnchored(notifier.FormatPrice(price), marginLeft-6, y, 1, 0.5)
	}
}

func drawCandles(dc *gg.Context, v chartView, bars []model.OHLCV) {
	body := math.Max(v.slot*0.6, 1)
	for i, b := range bars {
		if b.Close >= b.Open {
			dc.SetRGB255(38, 166, 91)
		} else {
			dc.SetRGB255(234, 57, 67)
		}
		x := v.x(i)
		dc.SetLineWidth(1)
		dc.DrawLine(x, v.y(b.High), x, v.y(b.Low))
		dc.Stroke()

		top := v.y(math.Max(b.Open, b.Close))
		height := math.Max(v.y(math.Min(b.Open, b.Close))-top, 1)
		dc.DrawRectangle(x-body/2, top, body, height)
		dc.Fill()
	}
}

func drawLine(dc *gg.Context, v chartView, series []float64, red, green, blue float64) {
	dc.SetRGB(red, green, blue)
	dc.SetLineWidth(1.5)
	drawing := false
	for i, val := range series {
		if math.IsNaN(val) {
			drawing = false
			continue
		}
		if !drawing {
			dc.NewSubPath()
			dc.MoveTo(v.x(i), v.y(val))
			drawing = true
			continue
		}
		dc.LineTo(v.x(i), v.y(val))
	}
	dc.Stroke()
}

func drawVolume(dc *gg.Context, v chartView, bars []model.OHLCV) {
	maxVol := 0.0
	for _, b := range bars {
		maxVol = math.Max(maxVol, b.Volume)
	}
	if maxVol <= 0 {
		return
	}
	base := float64(chartHeight) - marginBottom
	body := math.Max(v.slot*0.6, 1)
	for i, b := range bars {
		h := b.Volume / maxVol * volumeHeight
		if b.Close >= b.Open {
			dc.SetRGBA255(38, 166, 91, 140)
		} else {
			dc.SetRGBA255(234, 57, 67, 140)
		}
		dc.DrawRectangle(v.x(i)-body/2, base-h, body, h)
		dc.Fill()
	}
}
