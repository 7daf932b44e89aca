// Package scheduler triggers the daily feed sync and retention cleanup jobs.
// Schedules are evaluated in UTC and a trigger is skipped while its previous
// run is still in progress.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bitdoze/bitbuddies/internal/entity"
	"github.com/robfig/cron/v3"
)

type jobRunner interface {
	SyncAllChannels(ctx context.Context) ([]entity.SyncResult, error)
	CleanupOldVideos(ctx context.Context) (*entity.CleanupResult, error)
}

type Scheduler struct {
	cron     *cron.Cron
	jobs     jobRunner
	logger   *slog.Logger
	sync     cron.Schedule
	cleanup  cron.Schedule
	location *time.Location
}

// New parses both five-field cron specs and prepares a scheduler for jobs.
func New(jobs jobRunner, syncSpec, cleanupSpec string, logger *slog.Logger) (*Scheduler, error) {
	const op = "scheduler.New"

	if logger == nil {
		logger = slog.Default()
	}

	syncSchedule, err := cron.ParseStandard(syncSpec)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid sync schedule %q: %w", op, syncSpec, err)
	}

	cleanupSchedule, err := cron.ParseStandard(cleanupSpec)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid cleanup schedule %q: %w", op, cleanupSpec, err)
	}

	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))

	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(cronLogger),
			cron.WithChain(
				cron.Recover(cronLogger),
				cron.SkipIfStillRunning(cronLogger),
			),
		),
		jobs:     jobs,
		logger:   logger,
		sync:     syncSchedule,
		cleanup:  cleanupSchedule,
		location: time.UTC,
	}, nil
}

// Run starts the triggers and blocks until ctx is done. Jobs in flight receive
// the cancellation and Run waits for them before returning.
func (s *Scheduler) Run(ctx context.Context) error {
	s.cron.Schedule(s.sync, cron.FuncJob(func() { s.runSync(ctx) }))
	s.cron.Schedule(s.cleanup, cron.FuncJob(func() { s.runCleanup(ctx) }))

	s.cron.Start()
	s.logger.Info("scheduler started",
		slog.Time("next_sync", s.sync.Next(time.Now().In(s.location))),
		slog.Time("next_cleanup", s.cleanup.Next(time.Now().In(s.location))),
	)

	<-ctx.Done()

	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")

	return nil
}

func (s *Scheduler) runSync(ctx context.Context) {
	results, err := s.jobs.SyncAllChannels(ctx)
	if err != nil {
		s.logger.Error("scheduled sync failed", slog.Any("err", err))
		return
	}

	var failed int
	for _, res := range results {
		if !res.Success && !res.Skipped {
			failed++
		}
	}

	s.logger.Info("scheduled sync finished",
		slog.Int("channels", len(results)),
		slog.Int("failed", failed),
	)
}

func (s *Scheduler) runCleanup(ctx context.Context) {
	res, err := s.jobs.CleanupOldVideos(ctx)
	if err != nil {
		s.logger.Error("scheduled cleanup failed", slog.Any("err", err))
		return
	}

	s.logger.Info("scheduled cleanup finished",
		slog.String("run_id", res.RunID),
		slog.Int("removed", res.Removed),
	)
}
