// Package model defines the core domain types for the event booking platform.
package model

import "time"

// User is an identity that can create, book and rate events.
// Friends are symmetric; a private user is hidden from friend-based relations.
type User struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Private  bool    `json:"private"`
	Friends  []int64 `json:"friends"`
}

// FriendRequestStatus is the lifecycle state of a FriendRequest.
type FriendRequestStatus string

const (
	FriendRequestPending  FriendRequestStatus = "pending"
	FriendRequestAccepted FriendRequestStatus = "accepted"
	FriendRequestDeclined FriendRequestStatus = "declined"
)

// IsResolution reports whether the status is a valid decision for a pending request.
func (s FriendRequestStatus) IsResolution() bool {
	return s == FriendRequestAccepted || s == FriendRequestDeclined
}

// FriendRequest is a directed, transient proposal to become friends.
type FriendRequest struct {
	ID         int64               `json:"id"`
	SenderID   int64               `json:"sender"`
	ReceiverID int64               `json:"receiver"`
	Status     FriendRequestStatus `json:"status"`
	CreatedAt  time.Time           `json:"created_at"`
}

// Category is a name-only tag attached to events.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// EventType is the visibility of an event.
type EventType string

const (
	EventTypePublic  EventType = "public"
	EventTypePrivate EventType = "private"
)

// IsValid checks if the value is a known EventType.
func (t EventType) IsValid() bool {
	return t == EventTypePublic || t == EventTypePrivate
}

// Event represents a bookable event created by a user.
type Event struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	StartTime   time.Time `json:"start_time"`
	CreatedBy   int64     `json:"created_by"`
	EventType   EventType `json:"event_type"`
	Seats       int       `json:"seats"`
	Rating      float64   `json:"rating"`
	Categories  []int64   `json:"categories"`
}

// IsPrivate reports whether the event is only visible to its owner and the owner's friends.
func (e *Event) IsPrivate() bool {
	return e.EventType == EventTypePrivate
}

// IsFree returns true when booking the event requires no payment.
func (e *Event) IsFree() bool {
	return e.Price <= 0
}

// AmountMinorUnits is the price expressed in the payment gateway's smallest currency unit.
func (e *Event) AmountMinorUnits() int64 {
	return e.Price * 100
}

// BookingStatus is the state of a BookedEvent.
type BookingStatus string

const (
	BookingRegistered   BookingStatus = "registered"
	BookingParticipated BookingStatus = "participated"
	BookingUnregistered BookingStatus = "unregistered"
)

// IsValid checks if the status is a valid BookingStatus.
func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingRegistered, BookingParticipated, BookingUnregistered:
		return true
	}
	return false
}

// BookedEvent is one user's seat reservation against one event.
type BookedEvent struct {
	ID        int64         `json:"id"`
	EventID   int64         `json:"event"`
	UserID    int64         `json:"user"`
	Status    BookingStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

// CanUpdate checks if the booking may still change status.
func (b *BookedEvent) CanUpdate() bool {
	return b.Status == BookingRegistered
}

// Rating is a user's score for an event they booked.
type Rating struct {
	ID      int64 `json:"id"`
	UserID  int64 `json:"user"`
	EventID int64 `json:"event"`
	Score   int   `json:"score"`
}

// Notification is a message delivered to a user by a background job.
type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Kind      string    `json:"kind"`
	BookingID int64     `json:"booking_id,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
