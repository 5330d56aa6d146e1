package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Shivanand-hulikatti/letsgo/internal/model"
	"github.com/Shivanand-hulikatti/letsgo/internal/repository"
)

const (
	minScore = 1
	maxScore = 5
)

// RatingService gates ratings on a prior booking.
type RatingService struct {
	ratings  RatingStore
	events   EventStore
	bookings BookingStore
}

// NewRatingService constructs a RatingService.
func NewRatingService(ratings RatingStore, events EventStore, bookings BookingStore) *RatingService {
	return &RatingService{ratings: ratings, events: events, bookings: bookings}
}

// CreateRating stores userID's score for an event they booked. Each user may
// rate an event once.
func (s *RatingService) CreateRating(ctx context.Context, userID int64, p model.Payload) (*model.Rating, error) {
	if err := Authenticate(OpCreateRating, userID); err != nil {
		return nil, err
	}
	if extra := p.UnknownKeys("id", "event", "score", "user"); len(extra) > 0 {
		return nil, model.Validation("invalid data: unknown fields %s", strings.Join(extra, ", "))
	}
	eventID, ok := p.ID("event")
	if !ok {
		return nil, model.Validation("event must be an integer id")
	}
	score, ok := p.Int("score")
	if !ok || score < minScore || score > maxScore {
		return nil, model.Validation("score must be an integer between %d and %d", minScore, maxScore)
	}

	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, model.NotFound("event %d not found", eventID)
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	rated, err := s.ratings.Exists(ctx, userID, eventID)
	if err != nil {
		return nil, fmt.Errorf("check rating: %w", err)
	}
	if rated {
		return nil, model.Conflict("you already gave a rating to this event")
	}

	booked, err := s.bookings.HasBooked(ctx, userID, eventID)
	if err != nil {
		return nil, fmt.Errorf("check booking: %w", err)
	}
	if !booked {
		return nil, model.Forbidden("you did not book this event, that is why you can not rate it")
	}

	rating, err := s.ratings.Create(ctx, &model.Rating{UserID: userID, EventID: eventID, Score: int(score)})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyRated):
			return nil, model.Conflict("you already gave a rating to this event")
		case errors.Is(err, repository.ErrNotFound):
			return nil, model.NotFound("event %d not found", eventID)
		}
		return nil, fmt.Errorf("create rating: %w", err)
	}
	return rating, nil
}

// ListRatings returns ratings, for one event when eventID is non-zero.
func (s *RatingService) ListRatings(ctx context.Context, userID, eventID int64) ([]model.Rating, error) {
	if err := Authenticate(OpListRatings, userID); err != nil {
		return nil, err
	}
	ratings, err := s.ratings.List(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	return ratings, nil
}
