package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"BreakoutScanner/internal/scanner"
)

// ScanRunner runs one complete scan.
type ScanRunner interface {
	Run(ctx context.Context) *scanner.Result
}

// Scheduler triggers scans on a cron schedule.
type Scheduler struct {
	Cron   *cron.Cron
	Runner ScanRunner
	Ctx    context.Context
	logger zerolog.Logger
}

// exprParser accepts both five-field expressions and the six-field form
// with a leading seconds column, plus descriptors such as @daily.
var exprParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// NewScheduler creates a scheduler evaluating expressions in the given
// IANA timezone. An empty timezone means local time.
func NewScheduler(ctx context.Context, runner ScanRunner, timezone string) (*Scheduler, error) {
	loc := time.Local
	if timezone != "" {
		var err error
		if loc, err = time.LoadLocation(timezone); err != nil {
			return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
		}
	}
	return &Scheduler{
		Cron:   cron.New(cron.WithParser(exprParser), cron.WithLocation(loc)),
		Runner: runner,
		Ctx:    ctx,
		logger: log.With().Str("component", "scheduler").Logger(),
	}, nil
}

// Register adds the scan job on the cron expression.
func (s *Scheduler) Register(expr string) error {
	if _, err := s.Cron.AddFunc(expr, func() { s.RunNow() }); err != nil {
		return fmt.Errorf("register scan task %q: %w", expr, err)
	}
	s.logger.Info().Str("cron", expr).Msg("scan task registered")
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.logger.Info().Msg("scheduler started")
}

// Stop stops the scheduler and waits for a running scan to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.logger.Info().Msg("scheduler stopped")
}

// RunNow executes the scan task immediately (for manual trigger / run on start).
func (s *Scheduler) RunNow() *scanner.Result {
	s.logger.Info().Msg("running scheduled scan")
	res := s.Runner.Run(s.Ctx)
	if res.Err != nil {
		s.logger.Error().Err(res.Err).Str("scan_id", res.ID).Msg("scheduled scan did not complete")
	} else {
		s.logger.Info().Str("scan_id", res.ID).Msg(res.Summary())
	}
	return res
}
