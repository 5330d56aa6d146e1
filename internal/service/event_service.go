package service

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Shivanand-hulikatti/letsgo/internal/model"
	"github.com/Shivanand-hulikatti/letsgo/internal/repository"
	"github.com/Shivanand-hulikatti/letsgo/internal/telemetry"
)

// EventService implements the catalog: visibility-aware listing and
// owner-gated event mutation.
type EventService struct {
	events EventStore
}

// NewEventService constructs an EventService with its dependencies.
func NewEventService(events EventStore) *EventService {
	return &EventService{events: events}
}

// ListEvents returns the events visible to userID that match filter.
func (s *EventService) ListEvents(ctx context.Context, userID int64, filter model.EventFilter) (events []model.Event, err error) {
	ctx, span := telemetry.StartSpan(ctx, "EventService.ListEvents",
		attribute.Int64("user_id", userID),
		attribute.String("relation", string(filter.Relation)),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	if err := Authenticate(OpListEvents, userID); err != nil {
		return nil, err
	}
	if filter.EventType != "" && !filter.EventType.IsValid() {
		return nil, model.Validation("event_type must be one of public, private")
	}
	switch filter.Relation {
	case "", model.RelationAll:
		filter.Relation = model.RelationAll
	case model.RelationUser, model.RelationFriends:
		if userID == 0 {
			return nil, model.Unauthenticated("relation=%s requires authentication", filter.Relation)
		}
	default:
		return nil, model.Validation("relation must be one of all, user, friends")
	}
	if filter.Sort != model.SortAscending && filter.Sort != model.SortDescending {
		filter.Sort = ""
	}

	events, err = s.events.List(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// GetEvent returns an event visible to userID. Events the caller may not see
// are reported as not found.
func (s *EventService) GetEvent(ctx context.Context, userID, id int64) (*model.Event, error) {
	if err := Authenticate(OpGetEvent, userID); err != nil {
		return nil, err
	}
	event, err := s.events.GetVisible(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, model.NotFound("event %d not found", id)
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// CreateEvent validates the payload and stores a new event owned by userID.
func (s *EventService) CreateEvent(ctx context.Context, userID int64, p model.Payload) (*model.Event, error) {
	if err := Authenticate(OpCreateEvent, userID); err != nil {
		return nil, err
	}
	in, err := model.ParseEventInput(p)
	if err != nil {
		return nil, err
	}
	if err := requireFullEvent(in); err != nil {
		return nil, err
	}

	event := &model.Event{EventType: model.EventTypePublic, CreatedBy: userID}
	in.Apply(event)

	created, err := s.events.Create(ctx, event)
	if err != nil {
		if errors.Is(err, repository.ErrUnknownCategory) {
			return nil, model.Validation("categories contains an unknown category")
		}
		return nil, fmt.Errorf("create event: %w", err)
	}
	return created, nil
}

// UpdateEvent changes an event owned by userID. A partial update applies only
// the supplied fields; a full update needs every required field.
func (s *EventService) UpdateEvent(ctx context.Context, userID, id int64, p model.Payload, partial bool) (*model.Event, error) {
	if err := Authenticate(OpUpdateEvent, userID); err != nil {
		return nil, err
	}
	in, err := model.ParseEventInput(p)
	if err != nil {
		return nil, err
	}
	if !partial {
		if err := requireFullEvent(in); err != nil {
			return nil, err
		}
	}

	event, err := s.ownedEvent(ctx, OpUpdateEvent, userID, id)
	if err != nil {
		return nil, err
	}
	in.Apply(event)

	updated, err := s.events.Update(ctx, event, in.HasCategories)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUnknownCategory):
			return nil, model.Validation("categories contains an unknown category")
		case errors.Is(err, repository.ErrSeatsBelowBookings):
			return nil, model.Validation("seats cannot be fewer than the bookings already made")
		case errors.Is(err, repository.ErrNotFound):
			return nil, model.NotFound("event %d not found", id)
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return updated, nil
}

// DeleteEvent removes an event owned by userID together with its bookings
// and ratings.
func (s *EventService) DeleteEvent(ctx context.Context, userID, id int64) error {
	if err := Authenticate(OpDeleteEvent, userID); err != nil {
		return err
	}
	if _, err := s.ownedEvent(ctx, OpDeleteEvent, userID, id); err != nil {
		return err
	}
	if err := s.events.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.NotFound("event %d not found", id)
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

// ownedEvent loads an event the caller can see and checks ownership.
func (s *EventService) ownedEvent(ctx context.Context, op Operation, userID, id int64) (*model.Event, error) {
	event, err := s.events.GetVisible(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, model.NotFound("event %d not found", id)
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if err := Authorize(op, userID, event.CreatedBy); err != nil {
		return nil, err
	}
	return event, nil
}

func requireFullEvent(in *model.EventInput) error {
	if in.Title == nil {
		return model.Validation("title is required")
	}
	if in.StartTime == nil {
		return model.Validation("start_time is required")
	}
	return nil
}
