package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shivanand-hulikatti/letsgo/internal/model"
)

// BookingRepository handles persistence for booked events.
type BookingRepository struct {
	db *pgxpool.Pool
}

// NewBookingRepository constructs a BookingRepository.
func NewBookingRepository(db *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{db: db}
}

// BookParams describes one booking attempt.
type BookParams struct {
	UserID  int64
	EventID int64
	// Reserve runs inside the transaction once the seat is known to be free
	// and before the booking row is written. A non-nil error aborts the
	// booking and is returned unchanged.
	Reserve func(ctx context.Context, event *model.Event) error
}

// Book reserves a seat inside a single transaction.
//
// The event row is locked with SELECT ... FOR UPDATE before anything is read,
// so concurrent bookings of the same event queue behind each other and the
// seat count cannot change between the check and the insert. Booking
// different events does not contend.
//
// Checks run in this order and the first failure wins:
//
//	unknown event          → ErrNotFound
//	already booked         → ErrAlreadyBooked
//	private, not a friend  → ErrPrivateEvent
//	no seats left          → ErrEventFull
//	Reserve hook fails     → hook error
func (r *BookingRepository) Book(ctx context.Context, p BookParams) (*model.BookedEvent, *model.Event, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var event model.Event
	err = tx.QueryRow(ctx,
		`SELECT id, title, price, created_by, event_type, seats
		 FROM events
		 WHERE id = $1
		 FOR UPDATE`,
		p.EventID,
	).Scan(&event.ID, &event.Title, &event.Price, &event.CreatedBy, &event.EventType, &event.Seats)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("lock event row: %w", err)
	}

	var booked bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM booked_events WHERE user_id = $1 AND event_id = $2)`,
		p.UserID, p.EventID,
	).Scan(&booked)
	if err != nil {
		return nil, nil, fmt.Errorf("check duplicate: %w", err)
	}
	if booked {
		return nil, nil, ErrAlreadyBooked
	}

	if event.IsPrivate() {
		var friend bool
		err = tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM user_friends WHERE user_id = $1 AND friend_id = $2)`,
			event.CreatedBy, p.UserID,
		).Scan(&friend)
		if err != nil {
			return nil, nil, fmt.Errorf("check friendship: %w", err)
		}
		if !friend {
			return nil, nil, ErrPrivateEvent
		}
	}

	var count int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM booked_events WHERE event_id = $1`,
		p.EventID,
	).Scan(&count)
	if err != nil {
		return nil, nil, fmt.Errorf("count bookings: %w", err)
	}
	if count >= event.Seats {
		return nil, nil, ErrEventFull
	}

	if p.Reserve != nil {
		if err = p.Reserve(ctx, &event); err != nil {
			return nil, nil, err
		}
	}

	b := &model.BookedEvent{
		EventID: p.EventID,
		UserID:  p.UserID,
		Status:  model.BookingRegistered,
	}
	err = tx.QueryRow(ctx,
		`INSERT INTO booked_events (user_id, event_id, status)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		b.UserID, b.EventID, b.Status,
	).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return nil, nil, ErrAlreadyBooked
		}
		return nil, nil, fmt.Errorf("insert booking: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit transaction: %w", err)
	}
	return b, &event, nil
}

// ListByUser returns the bookings of userID, newest first.
func (r *BookingRepository) ListByUser(ctx context.Context, userID int64) ([]model.BookedEvent, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, event_id, user_id, status, created_at
		 FROM booked_events
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	bookings := []model.BookedEvent{}
	for rows.Next() {
		var b model.BookedEvent
		if err := rows.Scan(&b.ID, &b.EventID, &b.UserID, &b.Status, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// GetForUser returns booking id only when it belongs to userID; any other
// booking is reported as ErrNotFound.
func (r *BookingRepository) GetForUser(ctx context.Context, id, userID int64) (*model.BookedEvent, error) {
	var b model.BookedEvent
	err := r.db.QueryRow(ctx,
		`SELECT id, event_id, user_id, status, created_at
		 FROM booked_events
		 WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&b.ID, &b.EventID, &b.UserID, &b.Status, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return &b, nil
}

// HasBooked reports whether userID holds a booking for eventID.
func (r *BookingRepository) HasBooked(ctx context.Context, userID, eventID int64) (bool, error) {
	var booked bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM booked_events WHERE user_id = $1 AND event_id = $2)`,
		userID, eventID,
	).Scan(&booked)
	if err != nil {
		return false, fmt.Errorf("check booking: %w", err)
	}
	return booked, nil
}

// Transition moves a booking of userID from one status to another. It fails
// with ErrStaleBooking when the booking is no longer in status from.
func (r *BookingRepository) Transition(ctx context.Context, id, userID int64, from, to model.BookingStatus) (*model.BookedEvent, error) {
	var b model.BookedEvent
	err := r.db.QueryRow(ctx,
		`UPDATE booked_events SET status = $4
		 WHERE id = $1 AND user_id = $2 AND status = $3
		 RETURNING id, event_id, user_id, status, created_at`,
		id, userID, from, to,
	).Scan(&b.ID, &b.EventID, &b.UserID, &b.Status, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStaleBooking
		}
		return nil, fmt.Errorf("update booking status: %w", err)
	}
	return &b, nil
}

// Delete removes a booking of userID that is still in status from, releasing
// its seat.
func (r *BookingRepository) Delete(ctx context.Context, id, userID int64, from model.BookingStatus) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM booked_events WHERE id = $1 AND user_id = $2 AND status = $3`,
		id, userID, from,
	)
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrStaleBooking
	}
	return nil
}
