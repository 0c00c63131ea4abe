package sync

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingCycle struct {
	runs atomic.Int64
}

func (c *countingCycle) Run(ctx context.Context) error {
	c.runs.Add(1)
	return nil
}

func waitForRuns(t *testing.T, c *countingCycle, want int64) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if c.runs.Load() >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected at least %d runs, got %d", want, c.runs.Load())
}

func TestSchedulerRunsAfterInitialDelayThenInterval(t *testing.T) {
	cycle := &countingCycle{}
	sched := NewScheduler(cycle, 10*time.Millisecond, 25*time.Millisecond, testLogger())

	sched.Start()
	defer sched.Stop()

	waitForRuns(t, cycle, 1)
	waitForRuns(t, cycle, 3)
}

func TestSchedulerStopHaltsLoop(t *testing.T) {
	cycle := &countingCycle{}
	sched := NewScheduler(cycle, 5*time.Millisecond, 10*time.Millisecond, testLogger())

	sched.Start()
	waitForRuns(t, cycle, 1)
	sched.Stop()

	count := cycle.runs.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, count, cycle.runs.Load(), "no runs after Stop")
}

func TestSchedulerStopWithoutStart(t *testing.T) {
	cycle := &countingCycle{}
	sched := NewScheduler(cycle, time.Millisecond, time.Millisecond, testLogger())

	// Must not panic or block.
	sched.Stop()
	sched.Stop()
}

func TestSchedulerRestartReplacesLoop(t *testing.T) {
	cycle := &countingCycle{}
	sched := NewScheduler(cycle, 5*time.Millisecond, 10*time.Millisecond, testLogger())

	sched.Start()
	sched.Start()
	defer sched.Stop()

	waitForRuns(t, cycle, 2)
	require.NotPanics(t, func() { sched.Stop() })
}
