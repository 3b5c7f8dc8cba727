package tasks

import (
	"fmt"

	"github.com/hibiken/asynq"

	"inkwell/internal/utils/logger"
)

// periodicEntry pairs a cron expression with the task it enqueues.
type periodicEntry struct {
	spec string
	task *asynq.Task
}

// Scheduler enqueues the recurring maintenance tasks on their cron schedules.
type Scheduler struct {
	scheduler *asynq.Scheduler
	logger    *logger.Logger
}

// NewScheduler builds a scheduler backed by the given redis instance.
func NewScheduler(redisAddr, username, password string, db int, logger *logger.Logger) *Scheduler {
	sched := asynq.NewScheduler(
		asynq.RedisClientOpt{
			Addr:     redisAddr,
			Username: username,
			Password: password,
			DB:       db,
		},
		&asynq.SchedulerOpts{},
	)

	return &Scheduler{
		scheduler: sched,
		logger:    logger,
	}
}

// Start registers the periodic entries and blocks running the scheduler loop.
func (s *Scheduler) Start() error {
	entries := []periodicEntry{
		{
			spec: "*/5 * * * *",
			task: asynq.NewTask(TaskTypePublishScan, nil, asynq.Queue(QueueCritical), asynq.Timeout(TimeoutShort)),
		},
		{
			spec: "@daily",
			task: asynq.NewTask(TaskTypeMediaCleanup, nil, asynq.Queue(QueueLow), asynq.Timeout(TimeoutMedium)),
		},
	}

	for _, e := range entries {
		if _, err := s.scheduler.Register(e.spec, e.task); err != nil {
			return fmt.Errorf("failed to register %s: %w", e.task.Type(), err)
		}
	}

	s.logger.Info("starting task scheduler with %d periodic entries", len(entries))
	return s.scheduler.Run()
}

// Stop shuts the scheduler loop down.
func (s *Scheduler) Stop() {
	s.scheduler.Shutdown()
	s.logger.Info("task scheduler stopped")
}
