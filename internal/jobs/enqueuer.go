package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/Shivanand-hulikatti/letsgo/internal/config"
)

// Enqueuer submits a named job for asynchronous execution.
type Enqueuer interface {
	Enqueue(ctx context.Context, jobName string, payload any) error
}

// Client enqueues tasks with asynq.
type Client struct {
	client   *asynq.Client
	queue    string
	maxRetry int
}

// NewClient connects an asynq client using the shared Redis settings.
func NewClient(redisCfg config.RedisConfig, cfg config.JobsConfig) *Client {
	return &Client{
		client:   asynq.NewClient(RedisOpt(redisCfg)),
		queue:    cfg.Queue,
		maxRetry: cfg.MaxRetry,
	}
}

// Enqueue serialises payload as JSON and submits it under jobName.
func (c *Client) Enqueue(ctx context.Context, jobName string, payload any) error {
	task, err := newTask(jobName, payload, c.queue, c.maxRetry)
	if err != nil {
		return err
	}
	if _, err := c.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("enqueue %s: %w", jobName, err)
	}
	return nil
}

// Close releases the Redis connection.
func (c *Client) Close() error {
	return c.client.Close()
}

func newTask(jobName string, payload any, queue string, maxRetry int) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", jobName, err)
	}
	opts := []asynq.Option{asynq.TaskID(uuid.NewString())}
	if queue != "" {
		opts = append(opts, asynq.Queue(queue))
	}
	if maxRetry > 0 {
		opts = append(opts, asynq.MaxRetry(maxRetry))
	}
	return asynq.NewTask(jobName, body, opts...), nil
}
