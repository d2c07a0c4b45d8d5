package renewal

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const DefaultSpec = "0 2 * * *"

// SchedulerConfig holds the renewal schedule.
type SchedulerConfig struct {
	Spec       string // five-field cron expression
	Location   *time.Location
	RunOnStart bool
}

// Runner is what the scheduler triggers.
type Runner interface {
	RunOnce(ctx context.Context, trigger string) (*Report, error)
}

// Scheduler runs the renewer on a cron schedule. Cron ticks never overlap;
// a RunNow call is not serialised against a cron run.
type Scheduler struct {
	cron     *cron.Cron
	schedule cron.Schedule
	runner   Runner
	config   SchedulerConfig
	logger   *zap.Logger

	mu      sync.Mutex
	entryID cron.EntryID
	started bool
}

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// NewScheduler validates the cron expression and builds a stopped scheduler.
func NewScheduler(cfg SchedulerConfig, runner Runner, logger *zap.Logger) (*Scheduler, error) {
	if cfg.Spec == "" {
		cfg.Spec = DefaultSpec
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}

	schedule, err := cronParser.Parse(cfg.Spec)
	if err != nil {
		return nil, fmt.Errorf("invalid renewal schedule %q: %w", cfg.Spec, err)
	}

	cronLogger := cron.PrintfLogger(zap.NewStdLog(logger.Named("cron")))

	return &Scheduler{
		cron: cron.New(
			cron.WithParser(cronParser),
			cron.WithLocation(cfg.Location),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		schedule: schedule,
		runner:   runner,
		config:   cfg,
		logger:   logger,
	}, nil
}

// Start registers the renewal job and starts the cron loop. Jobs inherit
// ctx values; an in-flight run is not aborted when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return fmt.Errorf("renewal scheduler already started")
	}

	s.entryID = s.cron.Schedule(s.schedule, cron.FuncJob(func() {
		if _, err := s.runner.RunOnce(ctx, TriggerCron); err != nil {
			s.logger.Error("scheduled subscription renewal failed", zap.Error(err))
		}
	}))
	s.cron.Start()
	s.started = true

	s.logger.Info("renewal scheduler started",
		zap.String("spec", s.config.Spec),
		zap.String("location", s.config.Location.String()),
		zap.Time("next_run", s.cron.Entry(s.entryID).Next),
	)

	if s.config.RunOnStart {
		go func() {
			if _, err := s.RunNow(ctx); err != nil {
				s.logger.Error("startup subscription renewal failed", zap.Error(err))
			}
		}()
	}

	return nil
}

// RunNow runs the renewal immediately, outside the cron schedule.
func (s *Scheduler) RunNow(ctx context.Context) (*Report, error) {
	return s.runner.RunOnce(ctx, TriggerManual)
}

// NextRun returns when the cron job fires next, or the zero time when the
// scheduler is not running.
func (s *Scheduler) NextRun() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return time.Time{}
	}
	return s.cron.Entry(s.entryID).Next
}

// Stop halts the cron loop. The returned context is done once a running
// job has finished.
func (s *Scheduler) Stop() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		s.cron.Remove(s.entryID)
	}
	s.started = false
	return s.cron.Stop()
}
