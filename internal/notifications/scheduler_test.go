package notifications

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingRunner struct {
	calls atomic.Int32
	block chan struct{}
}

func (r *countingRunner) Run(ctx context.Context) (RunResult, error) {
	r.calls.Add(1)
	if r.block != nil {
		select {
		case <-r.block:
		case <-ctx.Done():
		}
	}
	return RunResult{}, nil
}

func TestScheduler(t *testing.T) {
	t.Run("start_runs_immediately", func(t *testing.T) {
		runner := &countingRunner{}
		s := NewScheduler(runner, time.Hour, time.Second, true)

		s.Start()
		assert.Eventually(t, func() bool { return runner.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
		s.Stop()
	})

	t.Run("ticks_repeat_the_check", func(t *testing.T) {
		runner := &countingRunner{}
		s := NewScheduler(runner, 10*time.Millisecond, time.Second, true)

		s.Start()
		assert.Eventually(t, func() bool { return runner.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
		s.Stop()
	})

	t.Run("disabled_scheduler_does_not_run", func(t *testing.T) {
		runner := &countingRunner{}
		s := NewScheduler(runner, 10*time.Millisecond, time.Second, false)

		s.Start()
		time.Sleep(30 * time.Millisecond)
		s.Stop()
		assert.Equal(t, int32(0), runner.calls.Load())
	})

	t.Run("trigger_runs_without_start", func(t *testing.T) {
		runner := &countingRunner{}
		s := NewScheduler(runner, time.Hour, time.Second, false)

		s.Trigger()
		s.Stop()
		assert.Equal(t, int32(1), runner.calls.Load())
	})

	t.Run("overlapping_check_is_skipped", func(t *testing.T) {
		runner := &countingRunner{block: make(chan struct{})}
		s := NewScheduler(runner, time.Hour, time.Second, false)

		s.Trigger()
		assert.Eventually(t, func() bool { return runner.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
		s.check("manual")
		close(runner.block)
		s.Stop()
		assert.Equal(t, int32(1), runner.calls.Load())
	})

	t.Run("stop_is_idempotent", func(t *testing.T) {
		s := NewScheduler(&countingRunner{}, time.Hour, time.Second, true)
		s.Start()
		s.Stop()
		s.Stop()
	})
}
