// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the repository layer.
//
// Every operation takes the caller's user id; zero means the request carried
// no identity. Failures are returned as *model.Error so handlers can map the
// kind to a status without knowing about repository sentinels.
package service

import (
	"context"

	"github.com/Shivanand-hulikatti/letsgo/internal/model"
	"github.com/Shivanand-hulikatti/letsgo/internal/repository"
)

// EventStore is the persistence the catalog needs.
type EventStore interface {
	List(ctx context.Context, viewerID int64, filter model.EventFilter) ([]model.Event, error)
	GetVisible(ctx context.Context, viewerID, id int64) (*model.Event, error)
	GetByID(ctx context.Context, id int64) (*model.Event, error)
	Create(ctx context.Context, e *model.Event) (*model.Event, error)
	Update(ctx context.Context, e *model.Event, replaceCats bool) (*model.Event, error)
	Delete(ctx context.Context, id int64) error
}

// CategoryStore reads categories.
type CategoryStore interface {
	List(ctx context.Context) ([]model.Category, error)
	GetByID(ctx context.Context, id int64) (*model.Category, error)
}

// BookingStore is the persistence the booking core needs.
type BookingStore interface {
	Book(ctx context.Context, p repository.BookParams) (*model.BookedEvent, *model.Event, error)
	ListByUser(ctx context.Context, userID int64) ([]model.BookedEvent, error)
	GetForUser(ctx context.Context, id, userID int64) (*model.BookedEvent, error)
	HasBooked(ctx context.Context, userID, eventID int64) (bool, error)
	Transition(ctx context.Context, id, userID int64, from, to model.BookingStatus) (*model.BookedEvent, error)
	Delete(ctx context.Context, id, userID int64, from model.BookingStatus) error
}

// RatingStore persists ratings.
type RatingStore interface {
	Exists(ctx context.Context, userID, eventID int64) (bool, error)
	Create(ctx context.Context, r *model.Rating) (*model.Rating, error)
	List(ctx context.Context, eventID int64) ([]model.Rating, error)
}

// UserStore reads users and friendships.
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	Exists(ctx context.Context, id int64) (bool, error)
	AreFriends(ctx context.Context, a, b int64) (bool, error)
	ListFriends(ctx context.Context, userID int64) ([]model.User, error)
}

// FriendRequestStore persists friend requests.
type FriendRequestStore interface {
	PendingBetween(ctx context.Context, a, b int64) (bool, error)
	Create(ctx context.Context, senderID, receiverID int64) (*model.FriendRequest, error)
	GetByID(ctx context.Context, id int64) (*model.FriendRequest, error)
	List(ctx context.Context, userID int64, section model.RequestSection) ([]model.FriendRequest, error)
	Resolve(ctx context.Context, id int64, decision model.FriendRequestStatus) error
}
