package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"

	"fairway/backend/pkg/logger"
)

// Refresher reloads a cached value from its source of truth.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// StartSettingsRefresh reloads the feed settings every interval, so an instance that
// missed an invalidation converges on the stored value.
func StartSettingsRefresh(interval time.Duration, r Refresher) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := r.Refresh(ctx); err != nil {
				logger.Warn("[Scheduler] settings refresh failed", zap.Error(err))
				return
			}
			logger.Debug("[Scheduler] settings refreshed")
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, err
	}

	sched.Start()
	return sched, nil
}
