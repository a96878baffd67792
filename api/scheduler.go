/*
scheduler.go - Automated run recording

PURPOSE:
  Periodically checks, for each configured dataset, whether a new period has
  finished its follow-up window and records a run for it, so extraction jobs
  can pick up ready periods from the store instead of computing dates.

DESIGN:
  - Driven by a cron expression (robfig/cron, standard 5-field syntax)
  - Runs once immediately on Start
  - "Ready" means period.LatestClosed: the newest period whose etterslep
    window ended before today
  - Skips periods already recorded for the dataset with the same wait

USAGE:
  scheduler := NewRunScheduler(store, logger, jobs)
  if err := scheduler.Start("15 2 * * *"); err != nil { ... }
  // ... later
  scheduler.Stop()

SEE ALSO:
  - period/ready.go: LatestClosed
  - config/config.go: scheduler.* keys
*/
package api

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/warp/period-engine/calendar"
	"github.com/warp/period-engine/period"
	"github.com/warp/period-engine/store/sqlite"
)

// RunJob is one dataset the scheduler keeps up to date.
type RunJob struct {
	Dataset string
	Type    period.Type
	Wait    period.WaitPeriod
}

// RunScheduler records runs for newly closed periods.
type RunScheduler struct {
	Store  *sqlite.Store
	Logger *zap.Logger
	Jobs   []RunJob
	Clock  calendar.Clock

	cron *cron.Cron
	mu   sync.Mutex
}

// NewRunScheduler creates a new scheduler.
func NewRunScheduler(store *sqlite.Store, logger *zap.Logger, jobs []RunJob) *RunScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RunScheduler{
		Store:  store,
		Logger: logger.Named("scheduler"),
		Jobs:   jobs,
		Clock:  time.Now,
	}
}

// Start validates the schedule, runs one check and schedules the rest.
func (rs *RunScheduler) Start(schedule string) error {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.cron != nil {
		return errors.New("scheduler already started")
	}

	c := cron.New()
	if _, err := c.AddFunc(schedule, func() { rs.checkAndRecord() }); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}
	rs.cron = c

	rs.checkAndRecord()
	c.Start()

	rs.Logger.Info("scheduler started", zap.String("cron", schedule), zap.Int("jobs", len(rs.Jobs)))
	return nil
}

// Stop waits for a running check to finish.
func (rs *RunScheduler) Stop() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.cron != nil {
		<-rs.cron.Stop().Done()
		rs.cron = nil
		rs.Logger.Info("scheduler stopped")
	}
}

func (rs *RunScheduler) checkAndRecord() {
	saved, err := rs.RecordReady(context.Background())
	if err != nil {
		rs.Logger.Error("scheduled check failed", zap.Error(err))
	}
	rs.Logger.Debug("scheduled check done", zap.Int("saved", len(saved)))
}

// RecordReady saves a run for every job whose latest closed period is not
// yet recorded. Failing jobs are skipped and reported in the joined error.
func (rs *RunScheduler) RecordReady(ctx context.Context) ([]sqlite.Run, error) {
	today := calendar.Today(rs.Clock)

	var (
		saved []sqlite.Run
		errs  []error
	)
	for _, job := range rs.Jobs {
		ep, err := period.LatestClosed(job.Type, job.Wait, today)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", job.Dataset, err))
			continue
		}

		exists, err := rs.Store.HasRun(ctx, job.Dataset, ep.TaggedLabel(), job.Wait)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", job.Dataset, err))
			continue
		}
		if exists {
			continue
		}

		run, err := rs.Store.SaveRun(ctx, job.Dataset, ep)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", job.Dataset, err))
			continue
		}
		rs.Logger.Info("ready period recorded",
			zap.String("dataset", job.Dataset),
			zap.String("label", ep.TaggedLabel()),
			zap.String("id", run.ID),
		)
		saved = append(saved, *run)
	}
	return saved, errors.Join(errs...)
}
