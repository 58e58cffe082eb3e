package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"skillbox/internal/config"
	"skillbox/internal/utils/logger"
)

// NewRedisClient builds the plain redis client shared with the HTTP rate
// limiter. asynq manages its own connections separately.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// TaskClient enqueues background work
type TaskClient struct {
	client *asynq.Client
	logger *logger.Logger
}

// AccessRequestNotifyPayload identifies the request the reviewers should
// look at.
type AccessRequestNotifyPayload struct {
	RequestID string `json:"request_id"`
	UserID    string `json:"user_id"`
	CourseID  string `json:"course_id"`
}

// NewTaskClient creates a new TaskClient with the given Redis configuration
func NewTaskClient(cfg config.RedisConfig) *TaskClient {
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	}

	return &TaskClient{
		client: asynq.NewClient(redisOpt),
		logger: logger.New("TASKS"),
	}
}

// EnqueueAccessRequestNotify queues a reviewer notification for a freshly
// submitted access request.
func (c *TaskClient) EnqueueAccessRequestNotify(p AccessRequestNotifyPayload) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal notify payload: %w", err)
	}

	task := asynq.NewTask(TaskTypeAccessRequestNotify, payload,
		asynq.Queue(QueueCritical),
		asynq.MaxRetry(RetryDefault),
		asynq.Timeout(TimeoutShort),
	)

	info, err := c.client.Enqueue(task)
	if err != nil {
		return c.logger.Error("failed to enqueue notify task", err)
	}
	c.logger.Info("enqueued %s for request %s (task %s)", TaskTypeAccessRequestNotify, p.RequestID, info.ID)
	return nil
}

// Close closes the underlying asynq client
func (c *TaskClient) Close() error {
	return c.client.Close()
}
