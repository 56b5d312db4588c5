package scanner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"BreakoutScanner/internal/calculator"
	"BreakoutScanner/internal/collector"
	"BreakoutScanner/internal/model"
	"BreakoutScanner/internal/notifier"
	"BreakoutScanner/internal/strategy"
)

// ErrScanInProgress is returned when a scan is triggered while another runs.
var ErrScanInProgress = errors.New("scan already in progress")

// Renderer turns a candidate into an image file on disk.
type Renderer interface {
	Render(c *model.ScoredCandidate) (string, error)
}

// WatchlistLoader returns the symbols to scan.
type WatchlistLoader func(path string) ([]string, error)

// Options are the scan parameters taken from configuration.
type Options struct {
	WatchlistPath  string
	MaxTickers     int
	ScoreThreshold int
	TopN           int
}

// Scanner runs the fetch, score, rank and report pipeline one ticker at a time.
type Scanner struct {
	opts      Options
	load      WatchlistLoader
	collector *collector.Collector
	renderer  Renderer
	notifier  notifier.Notifier
	mu        sync.Mutex
	logger    zerolog.Logger
}

// New creates a Scanner.
func New(opts Options, load WatchlistLoader, col *collector.Collector, r Renderer, n notifier.Notifier) *Scanner {
	return &Scanner{
		opts:      opts,
		load:      load,
		collector: col,
		renderer:  r,
		notifier:  n,
		logger:    log.With().Str("component", "scanner").Logger(),
	}
}

// Run executes one full scan cycle. Only a missing watchlist or an already
// running scan abort it; per-ticker and per-candidate failures are logged
// and skipped.
func (s *Scanner) Run(ctx context.Context) *Result {
	res := &Result{ID: uuid.NewString(), StartedAt: time.Now(), State: StateLoadingWatchlist}
	logger := s.logger.With().Str("scan_id", res.ID).Logger()

	if !s.mu.TryLock() {
		res.State = StateAborted
		res.Err = ErrScanInProgress
		logger.Warn().Msg("scan rejected, another scan is running")
		return res
	}
	defer s.mu.Unlock()
	defer func() { res.FinishedAt = time.Now() }()

	symbols, err := s.load(s.opts.WatchlistPath)
	if err != nil {
		res.State = StateAborted
		res.Err = err
		logger.Error().Err(err).Msg("watchlist unavailable, scan aborted")
		return res
	}
	if s.opts.MaxTickers > 0 && len(symbols) > s.opts.MaxTickers {
		symbols = symbols[:s.opts.MaxTickers]
	}
	res.Total = len(symbols)
	logger.Info().Int("tickers", res.Total).Msg("scan started")

	res.State = StateScanning
	var qualified []*model.ScoredCandidate
	for _, symbol := range symbols {
		if ctx.Err() != nil {
			logger.Warn().Err(ctx.Err()).Msg("scan interrupted")
			break
		}
		c, outcome := s.scanTicker(ctx, logger, symbol)
		switch outcome {
		case OutcomeQualified:
			res.Scanned++
			res.Qualified++
			qualified = append(qualified, c)
		case OutcomeRejected:
			res.Scanned++
		case OutcomeFailed:
			res.Skipped++
		}
	}

	res.State = StateRanking
	res.Candidates = strategy.Rank(qualified, s.opts.ScoreThreshold, s.opts.TopN)
	logger.Info().Int("qualified", res.Qualified).Int("top", len(res.Candidates)).Msg("ranking done")

	// Candidates already ranked are still delivered after a shutdown
	// request; each delivery is bounded by the notifier's own timeout.
	res.State = StateReporting
	reportCtx := context.WithoutCancel(ctx)
	for _, c := range res.Candidates {
		if err := s.report(reportCtx, c); err != nil {
			res.Failed++
			logger.Error().Err(err).Str("ticker", c.Ticker).Msg("alert dropped")
			continue
		}
		res.Sent++
	}

	res.State = StateDone
	logger.Info().Int("sent", res.Sent).Int("failed", res.Failed).Msg("scan finished")
	return res
}

// scanTicker runs Fetching -> Scoring for one symbol.
func (s *Scanner) scanTicker(ctx context.Context, logger zerolog.Logger, symbol string) (*model.ScoredCandidate, Outcome) {
	series, err := s.collector.Collect(ctx, symbol)
	if err != nil {
		logger.Debug().Err(err).Str("ticker", symbol).Msg("skipped")
		return nil, OutcomeFailed
	}
	ind, err := calculator.Compute(series.Bars)
	if err != nil {
		logger.Debug().Err(err).Str("ticker", symbol).Msg("indicators unavailable")
		return nil, OutcomeFailed
	}
	score := strategy.Score(series.Bars, ind)
	if score < s.opts.ScoreThreshold || score == 0 {
		return nil, OutcomeRejected
	}
	logger.Info().Str("ticker", symbol).Int("score", score).Msg("candidate qualified")
	return model.NewScoredCandidate(series, ind, score), OutcomeQualified
}

// report renders and delivers one candidate, removing the image afterwards.
func (s *Scanner) report(ctx context.Context, c *model.ScoredCandidate) error {
	path, err := s.renderer.Render(c)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	defer func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn().Err(err).Str("path", path).Msg("remove report image")
		}
	}()
	if err := s.notifier.Notify(ctx, notifier.NewAlert(c, path)); err != nil {
		return fmt.Errorf("notify via %s: %w", s.notifier.Name(), err)
	}
	return nil
}
