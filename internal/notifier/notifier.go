package notifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"BreakoutScanner/internal/model"
)

// Alert is one candidate's delivery: the rendered report and its caption.
type Alert struct {
	Candidate *model.ScoredCandidate
	ImagePath string
	Caption   string
}

// NewAlert builds an alert for a rendered candidate.
func NewAlert(c *model.ScoredCandidate, imagePath string) *Alert {
	return &Alert{Candidate: c, ImagePath: imagePath, Caption: FormatCaption(c)}
}

// Notifier delivers alerts downstream.
type Notifier interface {
	Notify(ctx context.Context, alert *Alert) error
	Name() string
}

// LogNotifier only logs alerts. It is used when no webhook is configured.
type LogNotifier struct{}

func (LogNotifier) Name() string { return "log" }

func (LogNotifier) Notify(_ context.Context, alert *Alert) error {
	log.Info().
		Str("component", "notifier").
		Str("ticker", alert.Candidate.Ticker).
		Int("score", alert.Candidate.Score).
		Str("image", alert.ImagePath).
		Msg("webhook not configured, alert logged only")
	return nil
}

// MultiNotifier fans an alert out to every notifier. Delivery succeeds if
// at least one target accepted it.
type MultiNotifier []Notifier

func (m MultiNotifier) Name() string { return "multi" }

func (m MultiNotifier) Notify(ctx context.Context, alert *Alert) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, alert); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", n.Name(), err))
		}
	}
	if len(errs) == len(m) && len(errs) > 0 {
		return errors.Join(errs...)
	}
	for _, err := range errs {
		log.Warn().Err(err).Str("component", "notifier").Msg("partial delivery failure")
	}
	return nil
}
