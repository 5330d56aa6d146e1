package handler

import (
	"context"

	"github.com/Shivanand-hulikatti/letsgo/internal/model"
	"github.com/Shivanand-hulikatti/letsgo/internal/service"
)

// The handlers depend on these narrow views of the service layer so they can
// be exercised with fakes.

type EventService interface {
	ListEvents(ctx context.Context, userID int64, filter model.EventFilter) ([]model.Event, error)
	GetEvent(ctx context.Context, userID, id int64) (*model.Event, error)
	CreateEvent(ctx context.Context, userID int64, p model.Payload) (*model.Event, error)
	UpdateEvent(ctx context.Context, userID, id int64, p model.Payload, partial bool) (*model.Event, error)
	DeleteEvent(ctx context.Context, userID, id int64) error
}

type CategoryService interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	GetCategory(ctx context.Context, id int64) (*model.Category, error)
}

type BookingService interface {
	CreateBooking(ctx context.Context, userID int64, p model.Payload) (*service.BookingResult, error)
	ListBookings(ctx context.Context, userID int64) ([]model.BookedEvent, error)
	GetBooking(ctx context.Context, userID, id int64) (*model.BookedEvent, error)
	UpdateBooking(ctx context.Context, userID, id int64, p model.Payload, partial bool) (*service.BookingUpdate, error)
}

type RatingService interface {
	CreateRating(ctx context.Context, userID int64, p model.Payload) (*model.Rating, error)
	ListRatings(ctx context.Context, userID, eventID int64) ([]model.Rating, error)
}

type FriendService interface {
	SendFriendRequest(ctx context.Context, userID int64, p model.Payload) (*model.FriendRequest, error)
	ListFriendRequests(ctx context.Context, userID int64, section string) ([]model.FriendRequest, error)
	ResolveFriendRequest(ctx context.Context, userID, id int64, p model.Payload) (*model.FriendRequest, error)
	ListFriends(ctx context.Context, userID int64, ofUser string) ([]model.User, error)
}
