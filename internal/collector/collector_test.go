package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BreakoutScanner/internal/model"
)

func TestCollector_Collect(t *testing.T) {
	fetcher := &MockFetcher{
		Bars: map[string][]model.OHLCV{
			"LONG":  GenerateMockBars(100, 0.1, 80),
			"SHORT": GenerateMockBars(100, 0.1, model.MinBars-1),
		},
		Errors: map[string]error{"DOWN": errors.New("connection reset")},
	}
	c := NewCollector(fetcher, DefaultLookbackDays)
	ctx := context.Background()

	series, err := c.Collect(ctx, " LONG ")
	require.NoError(t, err)
	assert.Equal(t, "LONG", series.Symbol)
	assert.Len(t, series.Bars, 80)

	_, err = c.Collect(ctx, "SHORT")
	assert.ErrorIs(t, err, ErrInsufficientHistory)

	_, err = c.Collect(ctx, "MISSING")
	assert.ErrorIs(t, err, ErrNoData)

	_, err = c.Collect(ctx, "DOWN")
	assert.Error(t, err)

	assert.Equal(t, []string{"LONG", "SHORT", "MISSING", "DOWN"}, fetcher.Calls())
}

func TestNewCollector_DefaultsShortLookback(t *testing.T) {
	c := NewCollector(&MockFetcher{}, 10)
	assert.Equal(t, DefaultLookbackDays, c.LookbackDays)
}

func yahooPayload(n int) string {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Unix()
	var ts, open, high, low, closes, vol []string
	for i := 0; i < n; i++ {
		ts = append(ts, fmt.Sprint(start+int64(i)*86400))
		p := 100 + float64(i)
		if i == 2 {
			// holiday row with null prices
			open, high, low, closes, vol = append(open, "null"), append(high, "null"), append(low, "null"), append(closes, "null"), append(vol, "null")
			continue
		}
		open = append(open, fmt.Sprint(p-0.5))
		high = append(high, fmt.Sprint(p+1))
		low = append(low, fmt.Sprint(p-1))
		closes = append(closes, fmt.Sprint(p))
		vol = append(vol, "1000")
	}
	return fmt.Sprintf(`{"chart":{"result":[{"timestamp":[%s],"indicators":{"quote":[{"open":[%s],"high":[%s],"low":[%s],"close":[%s],"volume":[%s]}]}}],"error":null}}`,
		strings.Join(ts, ","), strings.Join(open, ","), strings.Join(high, ","),
		strings.Join(low, ","), strings.Join(closes, ","), strings.Join(vol, ","))
}

func TestYahooFetcher_FetchDailyBars(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, yahooPayload(10))
	}))
	defer srv.Close()

	f := NewYahooFetcher(".NS", 10*time.Second, "")
	f.BaseURL = srv.URL

	bars, err := f.FetchDailyBars(context.Background(), "RELIANCE", 126)
	require.NoError(t, err)
	assert.Equal(t, "/v8/finance/chart/RELIANCE.NS", gotPath)
	assert.Contains(t, gotQuery, "interval=1d")
	assert.Contains(t, gotQuery, "range=6mo")
	require.Len(t, bars, 9, "null bar must be skipped")
	assert.Equal(t, 100.0, bars[0].Close)
	assert.Equal(t, 109.0, bars[len(bars)-1].Close)
	assert.True(t, bars[0].Time.Before(bars[1].Time))

	bars, err = f.FetchDailyBars(context.Background(), "RELIANCE", 5)
	require.NoError(t, err)
	assert.Len(t, bars, 5)
	assert.Equal(t, 109.0, bars[4].Close)
}

func TestYahooFetcher_SkipsRowsWithoutClose(t *testing.T) {
	payload := `{"chart":{"result":[{"timestamp":[1735689600,1735776000,1735862400],
		"indicators":{"quote":[{"open":[100,101,102],"high":[101,102,103],"low":[99,100,101],
		"close":[100.5,null,102.5],"volume":[1000,1000,1000]}]}}],"error":null}}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, payload)
	}))
	defer srv.Close()

	f := NewYahooFetcher("", 10*time.Second, "")
	f.BaseURL = srv.URL

	bars, err := f.FetchDailyBars(context.Background(), "INFY", 126)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, 100.5, bars[0].Close)
	assert.Equal(t, 102.5, bars[1].Close)
	for _, b := range bars {
		assert.NotZero(t, b.Close)
	}
}

func TestYahooFetcher_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"http error", http.StatusNotFound, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`},
		{"api error", http.StatusOK, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`},
		{"empty result", http.StatusOK, `{"chart":{"result":[],"error":null}}`},
		{"bad json", http.StatusOK, `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			f := NewYahooFetcher("", time.Second, "")
			f.BaseURL = srv.URL
			_, err := f.FetchDailyBars(context.Background(), "XYZ", 126)
			assert.Error(t, err)
		})
	}
}

func TestYahooRange(t *testing.T) {
	assert.Equal(t, "1mo", yahooRange(20))
	assert.Equal(t, "3mo", yahooRange(90))
	assert.Equal(t, "6mo", yahooRange(126))
	assert.Equal(t, "1y", yahooRange(250))
	assert.Equal(t, "2y", yahooRange(400))
}

func TestNewPolygonFetcher_RequiresKey(t *testing.T) {
	_, err := NewPolygonFetcher("", time.Second)
	assert.Error(t, err)

	f, err := NewPolygonFetcher("key", time.Second)
	require.NoError(t, err)
	assert.Equal(t, "polygon", f.Name())
}
