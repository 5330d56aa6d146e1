// Package jobs runs background work on an asynq queue backed by Redis.
// Delivery is at least once, so handlers must tolerate repeats.
package jobs

import (
	"github.com/hibiken/asynq"

	"github.com/Shivanand-hulikatti/letsgo/internal/config"
)

// TypePaymentConfirmation notifies a user that a booking was placed.
const TypePaymentConfirmation = "booking:payment_confirmation"

// PaymentConfirmationPayload is the body of a TypePaymentConfirmation task.
type PaymentConfirmationPayload struct {
	UserID    int64 `json:"user_id"`
	EventID   int64 `json:"event_id"`
	BookingID int64 `json:"booking_id"`
}

// RedisOpt converts the Redis settings into asynq connection options.
func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}
