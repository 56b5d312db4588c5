package scanner

import (
	"fmt"
	"time"

	"BreakoutScanner/internal/model"
)

// State is a scan's position in its lifecycle.
type State string

const (
	StateLoadingWatchlist State = "LOADING_WATCHLIST"
	StateScanning         State = "SCANNING"
	StateRanking          State = "RANKING"
	StateReporting        State = "REPORTING"
	StateDone             State = "DONE"
	StateAborted          State = "ABORTED"
)

// Outcome is the terminal state of one ticker.
type Outcome string

const (
	OutcomeQualified Outcome = "QUALIFIED"
	OutcomeRejected  Outcome = "REJECTED"
	OutcomeFailed    Outcome = "FAILED"
)

// Result summarizes one scan cycle.
type Result struct {
	ID         string
	State      State
	StartedAt  time.Time
	FinishedAt time.Time
	Total      int // watchlist size after truncation
	Scanned    int // tickers that reached scoring
	Skipped    int // fetch or indicator failures
	Qualified  int
	Candidates []*model.ScoredCandidate
	Sent       int
	Failed     int // render or delivery failures
	Err        error
}

// Summary is the plain-text status returned to the trigger caller.
func (r *Result) Summary() string {
	if r.Err != nil {
		return fmt.Sprintf("Error: %v", r.Err)
	}
	return fmt.Sprintf("Scan complete. Scanned %d of %d tickers (%d skipped). %d qualified, top %d reported, %d alerts sent, %d failed.",
		r.Scanned, r.Total, r.Skipped, r.Qualified, len(r.Candidates), r.Sent, r.Failed)
}
