// Package worker runs scheduled background jobs.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/osse101/StarCase_Go/internal/event"
	"github.com/osse101/StarCase_Go/internal/logger"
	"github.com/osse101/StarCase_Go/internal/metrics"
)

// ErrWorkerStopped is returned by RunNow after Shutdown
var ErrWorkerStopped = errors.New(ErrMsgWorkerStopped)

// Resetter zeroes the weekly spending accumulators
type Resetter interface {
	ResetWeeklySpending(ctx context.Context) (int64, error)
}

// Invalidator drops cached state derived from weekly spending
type Invalidator interface {
	Invalidate()
}

// WeeklyResetWorker zeroes weekly spending on a cron schedule and publishes
// leaderboard.reset after every successful run.
type WeeklyResetWorker struct {
	resetter  Resetter
	publisher event.Publisher
	cache     Invalidator
	schedule  string
	cron      *cron.Cron
	now       func() time.Time

	runMu   sync.Mutex // serializes runs
	stateMu sync.Mutex
	stopped bool
	wg      sync.WaitGroup
}

// NewWeeklyResetWorker creates the worker. publisher and cache may be nil.
// An empty schedule means DefaultWeeklyResetSchedule, evaluated in UTC.
func NewWeeklyResetWorker(resetter Resetter, publisher event.Publisher, cache Invalidator, schedule string) *WeeklyResetWorker {
	if schedule == "" {
		schedule = DefaultWeeklyResetSchedule
	}
	return &WeeklyResetWorker{
		resetter:  resetter,
		publisher: publisher,
		cache:     cache,
		schedule:  schedule,
		cron:      cron.New(cron.WithLocation(time.UTC)),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Start registers the schedule and starts the cron loop
func (w *WeeklyResetWorker) Start() error {
	entryID, err := w.cron.AddFunc(w.schedule, func() {
		if !w.begin() {
			return
		}
		defer w.wg.Done()
		if _, err := w.run(context.Background()); err != nil {
			logger.FromContext(context.Background()).Error(LogMsgWeeklyResetFailed, "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf(ErrMsgInvalidSchedule, w.schedule, err)
	}
	w.cron.Start()

	logger.FromContext(context.Background()).Info(LogMsgWeeklyResetScheduled,
		"schedule", w.schedule,
		"next_run", w.cron.Entry(entryID).Next.Format(time.RFC3339))
	return nil
}

// RunNow performs a reset immediately and returns the number of users changed
func (w *WeeklyResetWorker) RunNow(ctx context.Context) (int64, error) {
	if !w.begin() {
		return 0, ErrWorkerStopped
	}
	defer w.wg.Done()

	logger.FromContext(ctx).Info(LogMsgWeeklyResetManualTrigger)
	return w.run(ctx)
}

// begin registers a run unless the worker is stopped
func (w *WeeklyResetWorker) begin() bool {
	w.stateMu.Lock()
	defer w.stateMu.Unlock()
	if w.stopped {
		return false
	}
	w.wg.Add(1)
	return true
}

func (w *WeeklyResetWorker) run(ctx context.Context) (int64, error) {
	w.runMu.Lock()
	defer w.runMu.Unlock()

	log := logger.FromContext(ctx)
	log.Info(LogMsgWeeklyResetStarting)

	affected, err := w.resetter.ResetWeeklySpending(ctx)
	if err != nil {
		return 0, fmt.Errorf(ErrMsgResetFailed, err)
	}
	resetAt := w.now()

	metrics.LeaderboardResets.Inc()
	if w.cache != nil {
		w.cache.Invalidate()
	}
	if w.publisher != nil {
		w.publisher.PublishWithRetry(ctx, event.NewLeaderboardResetEvent(resetAt, affected))
	}

	log.Info(LogMsgWeeklyResetCompleted, "records_affected", affected, "reset_at", resetAt)
	return affected, nil
}

// Shutdown stops the schedule and waits for an in-flight reset to finish
func (w *WeeklyResetWorker) Shutdown(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info(LogMsgShuttingDown)

	w.stateMu.Lock()
	w.stopped = true
	w.stateMu.Unlock()
	cronDone := w.cron.Stop()

	done := make(chan struct{})
	go func() {
		<-cronDone.Done()
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info(LogMsgShutdownComplete)
		return nil
	case <-ctx.Done():
		log.Warn(LogMsgShutdownTimeout)
		return ctx.Err()
	}
}
