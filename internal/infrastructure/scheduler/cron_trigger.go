// Package scheduler optionally triggers background jobs on cron schedules
// inside the server process. Each run gets its own timeout-bound context
// and runs of the same job never overlap.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/retailops/backend/internal/infrastructure/logger"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// JobFunc is a schedulable unit of work
type JobFunc func(ctx context.Context) error

// CronTriggerConfig holds configuration for the cron trigger
type CronTriggerConfig struct {
	// JobTimeout bounds each run; zero means 10 minutes
	JobTimeout time.Duration
	// Location evaluates schedules; nil means UTC
	Location *time.Location
}

// CronTrigger runs registered jobs on their cron schedules
type CronTrigger struct {
	config CronTriggerConfig
	cron   *cron.Cron
	logger *zap.Logger

	mu        sync.Mutex
	isRunning bool
	jobs      map[string]cron.EntryID
	baseCtx   context.Context
	cancel    context.CancelFunc
}

// NewCronTrigger creates a new cron trigger
func NewCronTrigger(config CronTriggerConfig, log *zap.Logger) *CronTrigger {
	if config.JobTimeout <= 0 {
		config.JobTimeout = 10 * time.Minute
	}
	if config.Location == nil {
		config.Location = time.UTC
	}
	log = log.Named("scheduler")
	cl := cronLogger{log: log}
	return &CronTrigger{
		config: config,
		cron: cron.New(
			cron.WithLocation(config.Location),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger:  log,
		jobs:    make(map[string]cron.EntryID),
		baseCtx: context.Background(),
	}
}

// Register adds a job under a standard five-field cron expression
func (c *CronTrigger) Register(name, schedule string, job JobFunc) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isRunning {
		return ErrSchedulerRunning
	}
	if _, ok := c.jobs[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateJob, name)
	}
	id, err := c.cron.AddFunc(schedule, func() { c.run(name, job) })
	if err != nil {
		return fmt.Errorf("%w: %s %q: %v", ErrInvalidSchedule, name, schedule, err)
	}
	c.jobs[name] = id
	return nil
}

// NextRun returns the next scheduled time of a job, or zero if unknown or not started
func (c *CronTrigger) NextRun(name string) time.Time {
	c.mu.Lock()
	id, ok := c.jobs[name]
	c.mu.Unlock()
	if !ok {
		return time.Time{}
	}
	return c.cron.Entry(id).Next
}

// Start starts the cron trigger
func (c *CronTrigger) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.isRunning {
		return nil
	}
	c.isRunning = true
	c.baseCtx, c.cancel = context.WithCancel(context.WithoutCancel(ctx))
	c.cron.Start()

	c.logger.Info("Cron trigger started",
		zap.Int("jobs", len(c.jobs)),
		zap.Duration("job_timeout", c.config.JobTimeout),
		zap.String("location", c.config.Location.String()),
	)
	return nil
}

// Stop cancels running jobs and waits for them until ctx is done
func (c *CronTrigger) Stop(ctx context.Context) error {
	c.mu.Lock()
	if !c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = false
	cancel := c.cancel
	c.mu.Unlock()

	done := c.cron.Stop()
	if cancel != nil {
		cancel()
	}

	select {
	case <-done.Done():
		c.logger.Info("Cron trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *CronTrigger) run(name string, job JobFunc) {
	c.mu.Lock()
	base := c.baseCtx
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(base, c.config.JobTimeout)
	defer cancel()

	log := c.logger.With(zap.String("job", name))
	ctx = logger.WithContext(logger.WithJob(ctx, name), log)

	start := time.Now()
	log.Info("Scheduled job started")
	if err := job(ctx); err != nil {
		log.Error("Scheduled job failed", zap.Duration("duration", time.Since(start)), zap.Error(err))
		return
	}
	log.Info("Scheduled job finished", zap.Duration("duration", time.Since(start)))
}

// cronLogger adapts zap to cron.Logger
type cronLogger struct {
	log *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug(msg, zap.Any("details", keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error(msg, zap.Error(err), zap.Any("details", keysAndValues))
}
