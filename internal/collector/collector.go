package collector

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"BreakoutScanner/internal/model"
)

var (
	// ErrNoData is returned when the provider has nothing for a symbol.
	ErrNoData = errors.New("no data returned")
	// ErrInsufficientHistory is returned when fewer than model.MinBars bars are available.
	ErrInsufficientHistory = errors.New("insufficient history")
)

// DefaultLookbackDays is roughly six months of trading sessions.
const DefaultLookbackDays = 126

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	mu     sync.Mutex
	Bars   map[string][]model.OHLCV
	Errors map[string]error
	calls  []string
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, symbol string, days int) ([]model.OHLCV, error) {
	m.mu.Lock()
	m.calls = append(m.calls, symbol)
	m.mu.Unlock()

	if err, ok := m.Errors[symbol]; ok {
		return nil, err
	}
	bars, ok := m.Bars[symbol]
	if !ok {
		return nil, ErrNoData
	}
	if len(bars) > days {
		bars = bars[len(bars)-days:]
	}
	return bars, nil
}

// Calls returns the symbols requested so far, in order.
func (m *MockFetcher) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// GenerateMockBars builds count daily bars drifting by step per bar from basePrice.
func GenerateMockBars(basePrice, step float64, count int) []model.OHLCV {
	bars := make([]model.OHLCV, count)
	start := time.Now().AddDate(0, 0, -count)
	for i := 0; i < count; i++ {
		p := basePrice + float64(i)*step
		bars[i] = model.OHLCV{
			Time:   start.AddDate(0, 0, i),
			Open:   p - 0.02,
			High:   p + 0.05,
			Low:    p - 0.05,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

// Collector fetches a ticker's history and enforces the minimum length.
type Collector struct {
	Fetcher      Fetcher
	LookbackDays int
	logger       zerolog.Logger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, lookbackDays int) *Collector {
	if lookbackDays < model.MinBars {
		lookbackDays = DefaultLookbackDays
	}
	return &Collector{
		Fetcher:      fetcher,
		LookbackDays: lookbackDays,
		logger:       log.With().Str("component", "collector").Str("source", fetcher.Name()).Logger(),
	}
}

// Collect returns the daily series for symbol, or an error when the data is
// unavailable or shorter than model.MinBars.
func (c *Collector) Collect(ctx context.Context, symbol string) (*model.PriceSeries, error) {
	symbol = strings.TrimSpace(symbol)
	bars, err := c.Fetcher.FetchDailyBars(ctx, symbol, c.LookbackDays)
	if err != nil {
		c.logger.Debug().Err(err).Str("symbol", symbol).Msg("fetch failed")
		return nil, fmt.Errorf("fetch %s: %w", symbol, err)
	}
	if len(bars) < model.MinBars {
		return nil, fmt.Errorf("%s has %d bars: %w", symbol, len(bars), ErrInsufficientHistory)
	}
	return &model.PriceSeries{
		Symbol:    symbol,
		Bars:      bars,
		FetchedAt: time.Now(),
	}, nil
}
