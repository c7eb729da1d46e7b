// Package jobs runs the periodic maintenance tasks: sweeping abandoned
// upload staging files and advancing event statuses as dates pass.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"marianconnect/internal/metrics"
	"marianconnect/internal/upload"
)

// Schedules, in robfig/cron descriptor syntax.
const (
	SweepSchedule   = "@every 15m"
	RefreshSchedule = "@hourly"
)

// StagingMaxAge is how old a staged file must be before the sweeper
// treats it as abandoned.
const StagingMaxAge = time.Hour

// EventRefresher advances event statuses.
type EventRefresher interface {
	RefreshStatuses() (int64, error)
}

// Invalidator drops cached public pages.
type Invalidator interface {
	InvalidateAll(ctx context.Context)
}

// Scheduler owns the cron runner and the collaborators its jobs use.
type Scheduler struct {
	cron       *cron.Cron
	events     EventRefresher
	cache      Invalidator
	stagingDir string
	now        func() time.Time
}

// New registers the maintenance jobs. Call Start to begin running them.
func New(events EventRefresher, cache Invalidator, stagingDir string) (*Scheduler, error) {
	logger := cron.PrintfLogger(slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn))
	s := &Scheduler{
		cron:       cron.New(cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger))),
		events:     events,
		cache:      cache,
		stagingDir: stagingDir,
		now:        time.Now,
	}
	if _, err := s.cron.AddFunc(SweepSchedule, s.SweepStaging); err != nil {
		return nil, err
	}
	if _, err := s.cron.AddFunc(RefreshSchedule, s.RefreshEvents); err != nil {
		return nil, err
	}
	return s, nil
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Info("scheduled jobs started", "jobs", len(s.cron.Entries()))
}

// Stop halts scheduling and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		slog.Warn("scheduled jobs still running at shutdown")
	}
}

// SweepStaging removes staged uploads older than StagingMaxAge. They are
// left behind only when a request dies between staging and promotion.
func (s *Scheduler) SweepStaging() {
	n, err := upload.SweepStaging(s.stagingDir, s.now().Add(-StagingMaxAge))
	if err != nil {
		slog.Error("staging sweep failed", "error", err)
		return
	}
	if n > 0 {
		metrics.StagingSwept.Add(float64(n))
		slog.Info("staging sweep", "removed", n)
	}
}

// RefreshEvents moves events to ongoing or completed by date and drops
// the page cache when anything changed.
func (s *Scheduler) RefreshEvents() {
	n, err := s.events.RefreshStatuses()
	if err != nil {
		slog.Error("event status refresh failed", "error", err)
		return
	}
	if n > 0 {
		slog.Info("event statuses refreshed", "changed", n)
		if s.cache != nil {
			s.cache.InvalidateAll(context.Background())
		}
	}
}
