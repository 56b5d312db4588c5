package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BreakoutScanner/internal/scanner"
)

type countingRunner struct {
	calls atomic.Int32
	err   error
}

func (c *countingRunner) Run(context.Context) *scanner.Result {
	c.calls.Add(1)
	return &scanner.Result{ID: "id", State: scanner.StateDone, Err: c.err}
}

func TestNewScheduler_Timezone(t *testing.T) {
	s, err := NewScheduler(context.Background(), &countingRunner{}, "Asia/Kolkata")
	require.NoError(t, err)
	assert.Equal(t, "Asia/Kolkata", s.Cron.Location().String())

	_, err = NewScheduler(context.Background(), &countingRunner{}, "Mars/Olympus")
	assert.Error(t, err)
}

func TestRegister(t *testing.T) {
	s, err := NewScheduler(context.Background(), &countingRunner{}, "")
	require.NoError(t, err)

	assert.NoError(t, s.Register("0 30 15 * * 1-5"))
	assert.NoError(t, s.Register("30 15 * * 1-5"))
	assert.NoError(t, s.Register("@daily"))
	assert.Len(t, s.Cron.Entries(), 3)

	assert.Error(t, s.Register("not a cron"))
}

func TestRunNow(t *testing.T) {
	runner := &countingRunner{}
	s, err := NewScheduler(context.Background(), runner, "UTC")
	require.NoError(t, err)

	res := s.RunNow()
	assert.Equal(t, scanner.StateDone, res.State)
	assert.EqualValues(t, 1, runner.calls.Load())

	runner.err = errors.New("watchlist file x not found")
	res = s.RunNow()
	assert.Error(t, res.Err)
	assert.EqualValues(t, 2, runner.calls.Load())
}

func TestScheduledRun(t *testing.T) {
	runner := &countingRunner{}
	s, err := NewScheduler(context.Background(), runner, "UTC")
	require.NoError(t, err)
	require.NoError(t, s.Register("* * * * * *"))

	s.Start()
	assert.Eventually(t, func() bool { return runner.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
	s.Stop()
}
