package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/letsgo/internal/config"
	"github.com/Shivanand-hulikatti/letsgo/internal/logger"
	"github.com/Shivanand-hulikatti/letsgo/internal/model"
)

// NotificationStore persists notifications.
type NotificationStore interface {
	Create(ctx context.Context, n *model.Notification) (*model.Notification, error)
}

// Handler processes tasks pulled from the queue.
type Handler struct {
	store NotificationStore
	log   *logger.Logger
}

// NewHandler constructs a Handler.
func NewHandler(store NotificationStore, log *logger.Logger) *Handler {
	return &Handler{store: store, log: log}
}

// HandlePaymentConfirmation stores a confirmation notification for the user.
// The notification is keyed by booking, so a redelivered task does not
// notify twice. A malformed payload is not retried.
func (h *Handler) HandlePaymentConfirmation(ctx context.Context, t *asynq.Task) error {
	var p PaymentConfirmationPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
	}
	if p.UserID <= 0 {
		return fmt.Errorf("payload has no user: %w", asynq.SkipRetry)
	}

	n, err := h.store.Create(ctx, &model.Notification{
		UserID:    p.UserID,
		Kind:      "payment_confirmation",
		BookingID: p.BookingID,
		Message:   fmt.Sprintf("Your booking #%d for event #%d is confirmed.", p.BookingID, p.EventID),
	})
	if err != nil {
		return fmt.Errorf("store notification: %w", err)
	}

	h.log.Info("payment confirmation sent",
		zap.Int64("user_id", p.UserID),
		zap.Int64("event_id", p.EventID),
		zap.Int64("booking_id", p.BookingID),
		zap.Int64("notification_id", n.ID),
	)
	return nil
}

// NewServeMux routes every task type to its handler.
func NewServeMux(h *Handler) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypePaymentConfirmation, h.HandlePaymentConfirmation)
	return mux
}

// NewServer builds the worker server consuming cfg.Queue.
func NewServer(redisCfg config.RedisConfig, cfg config.JobsConfig, log *logger.Logger) *asynq.Server {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 10
	}
	return asynq.NewServer(RedisOpt(redisCfg), asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{cfg.Queue: 1},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			log.Error("job failed",
				zap.String("type", task.Type()),
				zap.Error(err),
			)
		}),
	})
}
