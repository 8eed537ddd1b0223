package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-reminder/internal/domain"
	"github.com/spec-kit/ticket-reminder/internal/service"
)

type countingRunner struct {
	calls int32
	err   error
}

func (r *countingRunner) Run(ctx context.Context) (*domain.ReminderRun, error) {
	atomic.AddInt32(&r.calls, 1)
	if r.err != nil {
		return nil, r.err
	}
	return &domain.ReminderRun{ID: "run"}, nil
}

func TestStartReminderScheduler(t *testing.T) {
	t.Run("runs until cancelled", func(t *testing.T) {
		runner := &countingRunner{}
		ctx, cancel := context.WithCancel(context.Background())
		done := StartReminderScheduler(ctx, runner, 10*time.Millisecond, zap.NewNop())

		assert.Eventually(t, func() bool { return atomic.LoadInt32(&runner.calls) >= 2 }, time.Second, 5*time.Millisecond)
		cancel()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("scheduler did not stop")
		}
	})

	t.Run("overlap is tolerated", func(t *testing.T) {
		runner := &countingRunner{err: service.ErrRunInProgress}
		ctx, cancel := context.WithCancel(context.Background())
		done := StartReminderScheduler(ctx, runner, 5*time.Millisecond, nil)

		assert.Eventually(t, func() bool { return atomic.LoadInt32(&runner.calls) >= 1 }, time.Second, 5*time.Millisecond)
		cancel()
		<-done
	})

	t.Run("disabled", func(t *testing.T) {
		runner := &countingRunner{}
		done := StartReminderScheduler(context.Background(), runner, 0, nil)

		_, open := <-done
		assert.False(t, open)
		assert.Zero(t, atomic.LoadInt32(&runner.calls))
	})
}
