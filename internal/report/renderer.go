package report

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/fogleman/gg"
	"github.com/google/uuid"

	"BreakoutScanner/internal/model"
)

const (
	boldFont    = "DejaVuSans-Bold.ttf"
	regularFont = "DejaVuSans.ttf"
)

// Common system location for DejaVu fonts, tried after FontDir.
var systemFontDir = "/usr/share/fonts/truetype/dejavu"

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Renderer draws a chart-plus-summary composite image for a candidate.
type Renderer struct {
	Dir       string
	ChartDays int
	FontDir   string
}

// NewRenderer creates a renderer writing into dir.
func NewRenderer(dir string, chartDays int, fontDir string) *Renderer {
	if dir == "" {
		dir = os.TempDir()
	}
	return &Renderer{Dir: dir, ChartDays: chartDays, FontDir: fontDir}
}

// Render writes the composite PNG and returns its path. The caller owns the
// file and removes it once delivered.
func (r *Renderer) Render(c *model.ScoredCandidate) (string, error) {
	if len(c.Bars) == 0 {
		return "", fmt.Errorf("render %s: no bars", c.Ticker)
	}
	chart := r.drawChart(c)
	sheet := r.drawDatasheet(c)

	cb, sb := chart.Bounds(), sheet.Bounds()
	width := cb.Dx()
	if sb.Dx() > width {
		width = sb.Dx()
	}
	dc := gg.NewContext(width, cb.Dy()+sb.Dy())
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.DrawImage(chart, 0, 0)
	dc.DrawImage(sheet, 0, cb.Dy())

	name := fmt.Sprintf("%s_%s_composite.png", unsafeChars.ReplaceAllString(c.Ticker, "_"), uuid.NewString()[:8])
	path := filepath.Join(r.Dir, name)
	if err := dc.SavePNG(path); err != nil {
		return "", fmt.Errorf("save composite for %s: %w", c.Ticker, err)
	}
	return path, nil
}

// loadFont switches dc to the named TrueType font, keeping the current face
// when the font cannot be found.
func (r *Renderer) loadFont(dc *gg.Context, name string, points float64) {
	candidates := []string{name, filepath.Join(systemFontDir, name)}
	if r.FontDir != "" {
		candidates = append([]string{filepath.Join(r.FontDir, name)}, candidates...)
	}
	for _, path := range candidates {
		if err := dc.LoadFontFace(path, points); err == nil {
			return
		}
	}
}
