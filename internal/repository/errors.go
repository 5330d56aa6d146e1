// Package repository implements all database queries for the event booking platform.
// It uses pgx directly (no ORM).
package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrEventFull is returned when an event has no remaining seats.
var ErrEventFull = errors.New("no seats available for this event")

// ErrAlreadyBooked is returned when the same user books an event twice.
var ErrAlreadyBooked = errors.New("event already booked by this user")

// ErrPrivateEvent is returned when a non-friend books a private event.
var ErrPrivateEvent = errors.New("private event of a non-friend")

// ErrSeatsBelowBookings is returned when an update would leave an event with
// fewer seats than it has bookings.
var ErrSeatsBelowBookings = errors.New("seats below current bookings")

// ErrStaleBooking is returned when a booking changed status concurrently.
var ErrStaleBooking = errors.New("booking status changed concurrently")

// ErrAlreadyRated is returned when a user rates the same event twice.
var ErrAlreadyRated = errors.New("event already rated by this user")

// ErrDuplicateFriendRequest is returned when a pending request already exists
// between two users, in either direction.
var ErrDuplicateFriendRequest = errors.New("pending friend request already exists")

// ErrAlreadyFriends is returned when a friend request targets an existing friend.
var ErrAlreadyFriends = errors.New("users are already friends")

// ErrUnknownCategory is returned when an event references a missing category.
var ErrUnknownCategory = errors.New("unknown category")

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
