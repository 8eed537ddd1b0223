package worker

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-reminder/internal/domain"
	"github.com/spec-kit/ticket-reminder/internal/service"
)

// ReminderRunner runs one reminder pass.
type ReminderRunner interface {
	Run(ctx context.Context) (*domain.ReminderRun, error)
}

var _ ReminderRunner = (*service.ReminderService)(nil)

// StartReminderScheduler runs reminders every interval until ctx is done.
// The returned channel is closed once the loop exits. A non-positive
// interval disables scheduling and returns an already closed channel.
func StartReminderScheduler(ctx context.Context, runner ReminderRunner, interval time.Duration, logger *zap.Logger) <-chan struct{} {
	done := make(chan struct{})
	if interval <= 0 || runner == nil {
		close(done)
		return done
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("scheduler")

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		logger.Info("reminder scheduler started", zap.Duration("interval", interval))
		for {
			select {
			case <-ctx.Done():
				logger.Info("reminder scheduler stopped")
				return
			case <-ticker.C:
				run, err := runner.Run(ctx)
				switch {
				case errors.Is(err, service.ErrRunInProgress):
					logger.Info("skipping scheduled run; another run is in progress")
				case err != nil:
					logger.Error("scheduled reminder run failed", zap.Error(err))
				default:
					logger.Info("scheduled reminder run complete",
						zap.String("run_id", run.ID), zap.Int("sent", run.Sent))
				}
			}
		}
	}()
	return done
}
