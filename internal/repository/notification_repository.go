package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shivanand-hulikatti/letsgo/internal/model"
)

// NotificationRepository stores messages produced by background jobs.
type NotificationRepository struct {
	db *pgxpool.Pool
}

// NewNotificationRepository constructs a NotificationRepository.
func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts a notification. A notification tied to a booking is stored
// once per kind; repeating the insert returns the stored row.
func (r *NotificationRepository) Create(ctx context.Context, n *model.Notification) (*model.Notification, error) {
	err := r.db.QueryRow(ctx,
		`INSERT INTO notifications (user_id, kind, booking_id, message)
		 VALUES ($1, $2, NULLIF($3::bigint, 0), $4)
		 ON CONFLICT (kind, booking_id) DO NOTHING
		 RETURNING id, created_at`,
		n.UserID, n.Kind, n.BookingID, n.Message,
	).Scan(&n.ID, &n.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		err = r.db.QueryRow(ctx,
			`SELECT id, user_id, message, created_at
			 FROM notifications
			 WHERE kind = $1 AND booking_id = $2`,
			n.Kind, n.BookingID,
		).Scan(&n.ID, &n.UserID, &n.Message, &n.CreatedAt)
	}
	if err != nil {
		return nil, fmt.Errorf("insert notification: %w", err)
	}
	return n, nil
}

// ListByUser returns the notifications of userID, newest first.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID int64) ([]model.Notification, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, kind, COALESCE(booking_id, 0), message, created_at
		 FROM notifications
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	notifications := []model.Notification{}
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Kind, &n.BookingID, &n.Message, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}
