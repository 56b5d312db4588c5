package report

import (
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BreakoutScanner/internal/calculator"
	"BreakoutScanner/internal/model"
)

func testCandidate(t *testing.T, ticker string, n int) *model.ScoredCandidate {
	t.Helper()
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, n)
	for i := range bars {
		p := 250 + 0.4*float64(i)
		open := p - 0.3
		if i%3 == 0 {
			open = p + 0.3
		}
		bars[i] = model.OHLCV{Time: start.AddDate(0, 0, i), Open: open, High: p + 0.8, Low: p - 0.8, Close: p, Volume: float64(1000 + 10*i)}
	}
	ind, err := calculator.Compute(bars)
	require.NoError(t, err)
	return model.NewScoredCandidate(&model.PriceSeries{Symbol: ticker, Bars: bars}, ind, 100)
}

func TestRender_Composite(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(dir, 120, "")

	path, err := r.Render(testCandidate(t, "M&M", 150))
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "M_M_"))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, chartWidth, img.Bounds().Dx())
	assert.Equal(t, chartHeight+sheetHeight, img.Bounds().Dy())
}

func TestRender_UniqueNames(t *testing.T) {
	r := NewRenderer(t.TempDir(), 120, "")
	c := testCandidate(t, "SBIN", 60)

	first, err := r.Render(c)
	require.NoError(t, err)
	second, err := r.Render(c)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestRender_WithoutIndicators(t *testing.T) {
	c := testCandidate(t, "ITC", 60)
	c.Indicators = nil

	_, err := NewRenderer(t.TempDir(), 0, "").Render(c)
	assert.NoError(t, err)
}

func TestRender_Errors(t *testing.T) {
	c := testCandidate(t, "ITC", 60)
	_, err := NewRenderer(filepath.Join(t.TempDir(), "missing"), 120, "").Render(c)
	assert.Error(t, err)

	c.Bars = nil
	_, err = NewRenderer(t.TempDir(), 120, "").Render(c)
	assert.Error(t, err)
}
