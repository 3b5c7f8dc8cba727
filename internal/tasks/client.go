package tasks

import (
	"context"
	"fmt"
	"time"

	"inkwell/internal/tasks/rate"
	"inkwell/internal/utils/logger"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// TaskClient handles task enqueuing with improved error handling and context support
type TaskClient struct {
	client       *asynq.Client
	logger       *logger.Logger
	redisOptions *redis.Options
	redisClient  *redis.Client
	scanLimiter  *rate.QueueRateLimiter
}

func (c *TaskClient) GetClient() *asynq.Client {
	return c.client
}

// NewTaskClient creates a new TaskClient with the given Redis configuration
func NewTaskClient(redisAddr, username, password string, db int) *TaskClient {
	redisOpt := asynq.RedisClientOpt{
		Addr:     redisAddr,
		Username: username,
		Password: password,
		DB:       db,
	}

	redisClient := redis.NewClient(
		&redis.Options{
			Addr:     redisAddr,
			Username: username,
			Password: password,
			DB:       db,
		},
	)

	return &TaskClient{
		client: asynq.NewClient(redisOpt),
		redisOptions: &redis.Options{
			Addr:     redisAddr,
			Username: username,
			Password: password,
			DB:       db,
		},
		redisClient: redisClient,
		logger:      logger.New("TASKS"),
		scanLimiter: rate.NewQueueRateLimiter(redisClient, rate.QueueConfig{
			Name: QueueCritical,
			RateLimit: rate.RateLimit{
				Window:  time.Minute,
				MaxJobs: 6,
			},
		}),
	}
}

// Close closes the underlying asynq client
func (c *TaskClient) Close() error {
	return c.client.Close()
}

// EnqueuePublishScan schedules an immediate publish scan, used after an
// editor saves a post with a publish time in the past. Scans are rate limited
// so a burst of edits collapses into the periodic sweep.
func (c *TaskClient) EnqueuePublishScan(ctx context.Context) error {
	allowed, err := c.scanLimiter.Allow(ctx, TaskTypePublishScan)
	if err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}
	if !allowed {
		c.logger.Info("publish scan suppressed by rate limit")
		return nil
	}

	task := asynq.NewTask(TaskTypePublishScan, nil, asynq.Queue(QueueCritical), asynq.Timeout(TimeoutShort))
	if _, err := c.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("failed to enqueue publish scan: %w", err)
	}
	return nil
}

// EnqueueMediaCleanup schedules a cleanup pass on the given cron expression.
func (c *TaskClient) EnqueueMediaCleanup(cronExpr string) error {
	task := asynq.NewTask(TaskTypeMediaCleanup, nil, asynq.Queue(QueueLow), asynq.Timeout(TimeoutMedium))
	if _, err := c.client.Enqueue(task, CronSchedule(cronExpr)); err != nil {
		return fmt.Errorf("failed to enqueue media cleanup: %w", err)
	}
	return nil
}
