package tasks

import (
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"

	"skillbox/internal/config"
	"skillbox/internal/utils/logger"
)

// Scheduler handles periodic task scheduling
type Scheduler struct {
	scheduler *asynq.Scheduler
	logger    *logger.Logger
}

// NewScheduler creates a new task scheduler
func NewScheduler(cfg config.RedisConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{
			Addr:     cfg.Addr,
			Username: cfg.Username,
			Password: cfg.Password,
			DB:       cfg.DB,
		},
		&asynq.SchedulerOpts{},
	)

	return &Scheduler{
		scheduler: scheduler,
		logger:    logger.New("task_scheduler"),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	if err := s.registerTasks(); err != nil {
		return fmt.Errorf("failed to register tasks: %w", err)
	}

	s.logger.Info("starting task scheduler")
	return s.scheduler.Run()
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Shutdown()
	s.logger.Info("task scheduler stopped")
}

// registerTasks registers all periodic tasks
func (s *Scheduler) registerTasks() error {
	// Daily downloads digest at 06:00 UTC.
	return s.register("0 6 * * *", TaskTypeDownloadsDigest, nil,
		asynq.Queue(QueueLow),
		asynq.MaxRetry(RetryDefault),
		asynq.Timeout(TimeoutMedium),
	)
}

// register validates the cron spec before handing it to asynq, so a typo
// fails at startup instead of silently never firing.
func (s *Scheduler) register(spec string, taskType string, payload []byte, opts ...asynq.Option) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid cron spec %q for %s: %w", spec, taskType, err)
	}

	entryID, err := s.scheduler.Register(spec, asynq.NewTask(taskType, payload, opts...))
	if err != nil {
		return fmt.Errorf("failed to register task %s: %w", taskType, err)
	}

	s.logger.Info("registered periodic task %s %s %s", taskType, spec, entryID)
	return nil
}
