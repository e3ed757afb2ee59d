package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/amaumene/catalogr/internal/controllers"
	"github.com/amaumene/catalogr/internal/models"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const (
	traktSchedule   = "0 */6 * * *"
	scraperSchedule = "30 */12 * * *"
)

// Runner runs one source to completion
type Runner interface {
	Sources() []string
	Run(ctx context.Context, source string) (controllers.RunStats, error)
}

// Scheduler manages scheduled tasks
type Scheduler struct {
	cron   *cron.Cron
	runner Runner
	jobs   map[string]cron.Job
	logger *logrus.Logger
	ctx    context.Context
	cancel context.CancelFunc
	// runs started outside the cron loop
	wg sync.WaitGroup
}

// ErrStopped is returned by Trigger once the scheduler is stopped
var ErrStopped = errors.New("scheduler stopped")

// NewScheduler creates a new scheduler. Every source gets one job; a job that is
// still running when it fires again (by schedule or trigger) is skipped.
func NewScheduler(runner Runner, logger *logrus.Logger) *Scheduler {
	cronLogger := cron.PrintfLogger(logger)
	chain := cron.NewChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger))

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron:   cron.New(cron.WithLogger(cronLogger)),
		runner: runner,
		jobs:   make(map[string]cron.Job),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}

	for _, source := range runner.Sources() {
		source := source
		s.jobs[source] = chain.Then(cron.FuncJob(func() { s.runSource(source) }))
	}

	return s
}

// Start registers the schedules, starts the cron loop and kicks off an initial Trakt pass
func (s *Scheduler) Start() error {
	s.logger.Info("Starting scheduler")

	for source, job := range s.jobs {
		schedule := scraperSchedule
		if source == controllers.SourceMovies || source == controllers.SourceShows {
			schedule = traktSchedule
		}
		if _, err := s.cron.AddJob(schedule, job); err != nil {
			return fmt.Errorf("failed to add %s job: %w", source, err)
		}
		s.logger.WithFields(logrus.Fields{
			"source":   source,
			"schedule": schedule,
		}).Debug("Scheduled sync job")
	}

	s.cron.Start()
	s.logger.Info("Scheduler started")

	// Run initial sync immediately
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for _, source := range []string{controllers.SourceMovies, controllers.SourceShows} {
			if job, ok := s.jobs[source]; ok {
				job.Run()
			}
		}
	}()

	return nil
}

// Trigger runs a source in the background. It fails for unknown sources and once stopped.
func (s *Scheduler) Trigger(source string) error {
	job, ok := s.jobs[source]
	if !ok {
		return fmt.Errorf("%w: %q", models.ErrUnknownSource, source)
	}
	if s.ctx.Err() != nil {
		return ErrStopped
	}

	s.logger.WithField("source", source).Info("Sync triggered")
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		job.Run()
	}()
	return nil
}

// Stop cancels running jobs and waits for all of them to return
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	s.cancel()
	<-s.cron.Stop().Done()
	s.wg.Wait()
	s.logger.Info("Scheduler stopped")
}

// runSource executes one sync run
func (s *Scheduler) runSource(source string) {
	if s.ctx.Err() != nil {
		return
	}

	s.logger.WithField("source", source).Info("Running scheduled sync")
	stats, err := s.runner.Run(s.ctx, source)
	if err != nil {
		s.logger.WithError(err).WithField("source", source).Error("Sync job failed")
		return
	}

	s.logger.WithFields(logrus.Fields{
		"source":    source,
		"processed": stats.Processed,
		"failed":    stats.Failed,
	}).Info("Sync job completed successfully")
}

// Sources lists the sources Trigger accepts
func (s *Scheduler) Sources() []string {
	return s.runner.Sources()
}
