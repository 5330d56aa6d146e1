package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/letsgo/internal/config"
	"github.com/Shivanand-hulikatti/letsgo/internal/jobs"
	"github.com/Shivanand-hulikatti/letsgo/internal/logger"
	"github.com/Shivanand-hulikatti/letsgo/internal/model"
	"github.com/Shivanand-hulikatti/letsgo/internal/payment"
	"github.com/Shivanand-hulikatti/letsgo/internal/repository"
	"github.com/Shivanand-hulikatti/letsgo/internal/telemetry"
)

// BookingService is the booking transaction core: seat reservation, payment
// intent creation and the booking status state machine.
type BookingService struct {
	bookings BookingStore
	gateway  payment.Gateway
	jobs     jobs.Enqueuer
	payment  config.PaymentConfig
	log      *logger.Logger
}

// NewBookingService constructs a BookingService. paymentCfg is copied and not
// read from anywhere else afterwards.
func NewBookingService(
	bookings BookingStore,
	gateway payment.Gateway,
	enqueuer jobs.Enqueuer,
	paymentCfg config.PaymentConfig,
	log *logger.Logger,
) *BookingService {
	return &BookingService{
		bookings: bookings,
		gateway:  gateway,
		jobs:     enqueuer,
		payment:  paymentCfg,
		log:      log,
	}
}

// BookingResult is the outcome of a successful booking.
type BookingResult struct {
	BookedEvent  *model.BookedEvent `json:"booked_event"`
	ClientSecret string             `json:"client_secret"`
}

// BookingUpdate is the outcome of a status change. BookedEvent is nil when
// the booking was removed.
type BookingUpdate struct {
	BookedEvent *model.BookedEvent
	Message     string
}

const unregisteredMessage = "You have unregistered from the event"

// CreateBooking books the event named in the payload for userID.
//
// The payload is validated before anything is read. Everything after that
// runs in one locked transaction so that concurrent requests for the last
// seat cannot both succeed, and a paid event never gets a booking without a
// payment intent. The confirmation job is enqueued only after commit and its
// failure does not undo the booking.
func (s *BookingService) CreateBooking(ctx context.Context, userID int64, p model.Payload) (result *BookingResult, err error) {
	if err := Authenticate(OpCreateBooking, userID); err != nil {
		return nil, err
	}
	if !p.Has("event") {
		return nil, model.Validation("you did not put the event that you want to book")
	}
	if extra := p.UnknownKeys("event"); len(extra) > 0 {
		return nil, model.Validation("only the event field may be supplied, got %s", strings.Join(extra, ", "))
	}
	eventID, ok := p.ID("event")
	if !ok {
		return nil, model.Validation("event must be an integer id")
	}

	ctx, span := telemetry.StartSpan(ctx, "BookingService.CreateBooking",
		attribute.Int64("user_id", userID),
		attribute.Int64("event_id", eventID),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	var clientSecret string
	booking, event, err := s.bookings.Book(ctx, repository.BookParams{
		UserID:  userID,
		EventID: eventID,
		Reserve: func(ctx context.Context, event *model.Event) error {
			if event.IsFree() {
				return nil
			}
			intent, err := s.gateway.CreatePaymentIntent(ctx, &payment.IntentRequest{
				AmountMinorUnits: event.AmountMinorUnits(),
				Currency:         s.payment.Currency,
				Description:      event.Title,
				Metadata: map[string]string{
					"event_id": strconv.FormatInt(event.ID, 10),
					"user_id":  strconv.FormatInt(userID, 10),
				},
			})
			if err != nil {
				return model.Wrap(model.KindUpstreamPayment, err, "payment provider could not create a payment intent")
			}
			clientSecret = intent.ClientSecret
			return nil
		},
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, model.NotFound("event %d not found", eventID)
		case errors.Is(err, repository.ErrAlreadyBooked):
			return nil, model.Conflict("you already booked this event")
		case errors.Is(err, repository.ErrPrivateEvent):
			return nil, model.Forbidden("this is a private event and its author is not your friend")
		case errors.Is(err, repository.ErrEventFull):
			return nil, model.NewError(model.KindCapacityExceeded, "no seats available for this event")
		}
		return nil, passOrWrap(err, "book event")
	}

	// The booking is committed; the job must not be lost if the caller hangs up.
	err = s.jobs.Enqueue(context.WithoutCancel(ctx), jobs.TypePaymentConfirmation, jobs.PaymentConfirmationPayload{
		UserID:    userID,
		EventID:   event.ID,
		BookingID: booking.ID,
	})
	if err != nil {
		s.log.Warn("payment confirmation not enqueued",
			zap.Int64("booking_id", booking.ID),
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}

	return &BookingResult{BookedEvent: booking, ClientSecret: clientSecret}, nil
}

// ListBookings returns the caller's own bookings.
func (s *BookingService) ListBookings(ctx context.Context, userID int64) ([]model.BookedEvent, error) {
	if err := Authenticate(OpListBookings, userID); err != nil {
		return nil, err
	}
	bookings, err := s.bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

// GetBooking returns one of the caller's bookings.
func (s *BookingService) GetBooking(ctx context.Context, userID, id int64) (*model.BookedEvent, error) {
	return s.ownedBooking(ctx, OpGetBooking, userID, id)
}

// UpdateBooking changes the status of one of the caller's bookings.
//
// A partial update must carry status and must not carry event or user. A
// full update must carry status and may echo event and user, but only with
// their current values.
func (s *BookingService) UpdateBooking(ctx context.Context, userID, id int64, p model.Payload, partial bool) (*BookingUpdate, error) {
	if err := Authenticate(OpUpdateBooking, userID); err != nil {
		return nil, err
	}
	if !p.Has("status") {
		return nil, model.Validation("status is required")
	}
	if partial {
		if p.Has("event") {
			return nil, model.Validation("event cannot be updated")
		}
		if p.Has("user") {
			return nil, model.Validation("user cannot be updated")
		}
	}
	if extra := p.UnknownKeys("id", "event", "user", "status", "created_at"); len(extra) > 0 {
		return nil, model.Validation("invalid data: unknown fields %s", strings.Join(extra, ", "))
	}
	raw, ok := p.String("status")
	target := model.BookingStatus(raw)
	if !ok || !target.IsValid() {
		return nil, model.Validation("status must be one of registered, participated, unregistered")
	}

	booking, err := s.ownedBooking(ctx, OpUpdateBooking, userID, id)
	if err != nil {
		return nil, err
	}

	if !partial {
		if p.Has("event") {
			if eventID, ok := p.ID("event"); !ok || eventID != booking.EventID {
				return nil, model.Validation("event cannot be updated")
			}
		}
		if p.Has("user") {
			if uid, ok := p.ID("user"); !ok || uid != booking.UserID {
				return nil, model.Validation("user cannot be updated")
			}
		}
	}

	if booking.Status == model.BookingUnregistered {
		if err := s.bookings.Delete(ctx, booking.ID, userID, model.BookingUnregistered); err != nil {
			return nil, s.transitionError(err)
		}
		return &BookingUpdate{Message: unregisteredMessage}, nil
	}
	if !booking.CanUpdate() {
		return nil, model.Conflict("you can update only a registered booking")
	}

	switch target {
	case model.BookingRegistered:
		return &BookingUpdate{BookedEvent: booking}, nil
	case model.BookingUnregistered:
		// Leaving an event releases the seat straight away.
		if err := s.bookings.Delete(ctx, booking.ID, userID, model.BookingRegistered); err != nil {
			return nil, s.transitionError(err)
		}
		return &BookingUpdate{Message: unregisteredMessage}, nil
	default:
		updated, err := s.bookings.Transition(ctx, booking.ID, userID, booking.Status, target)
		if err != nil {
			return nil, s.transitionError(err)
		}
		return &BookingUpdate{BookedEvent: updated}, nil
	}
}

func (s *BookingService) ownedBooking(ctx context.Context, op Operation, userID, id int64) (*model.BookedEvent, error) {
	if err := Authenticate(op, userID); err != nil {
		return nil, err
	}
	booking, err := s.bookings.GetForUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, model.NotFound("booking %d not found", id)
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if err := Authorize(op, userID, booking.UserID); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *BookingService) transitionError(err error) error {
	if errors.Is(err, repository.ErrStaleBooking) {
		return model.Conflict("the booking was changed by another request, reload and try again")
	}
	return fmt.Errorf("update booking: %w", err)
}
