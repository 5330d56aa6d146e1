package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/letsgo/internal/config"
	"github.com/Shivanand-hulikatti/letsgo/internal/jobs"
	"github.com/Shivanand-hulikatti/letsgo/internal/logger"
	"github.com/Shivanand-hulikatti/letsgo/internal/model"
	"github.com/Shivanand-hulikatti/letsgo/internal/payment"
	"github.com/Shivanand-hulikatti/letsgo/internal/repository"
)

type bookingFixture struct {
	store    *MockBookingStore
	gateway  *MockGateway
	enqueuer *MockEnqueuer
	svc      *BookingService
}

func newBookingFixture() *bookingFixture {
	f := &bookingFixture{
		store:    new(MockBookingStore),
		gateway:  new(MockGateway),
		enqueuer: new(MockEnqueuer),
	}
	f.svc = NewBookingService(f.store, f.gateway, f.enqueuer,
		config.PaymentConfig{Gateway: "mock", Currency: "usd"}, logger.Nop())
	return f
}

func payload(t *testing.T, raw string) model.Payload {
	t.Helper()
	var p model.Payload
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	return p
}

// matchBook matches BookParams by ids, ignoring the Reserve hook.
func matchBook(userID, eventID int64) any {
	return mock.MatchedBy(func(p repository.BookParams) bool {
		return p.UserID == userID && p.EventID == eventID
	})
}

func TestBookingService_CreateBooking_PayloadValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing event", `{}`},
		{"extra field", `{"event": 1, "status": "participated"}`},
		{"non numeric", `{"event": "abc"}`},
		{"negative", `{"event": -4}`},
		{"fraction", `{"event": 1.5}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBookingFixture()

			_, err := f.svc.CreateBooking(context.Background(), 1, payload(t, tt.body))
			assert.True(t, model.IsKind(err, model.KindValidation), "got %v", err)

			f.store.AssertNotCalled(t, "Book", mock.Anything, mock.Anything)
			f.gateway.AssertNotCalled(t, "CreatePaymentIntent", mock.Anything, mock.Anything)
			f.enqueuer.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestBookingService_CreateBooking_Unauthenticated(t *testing.T) {
	f := newBookingFixture()
	_, err := f.svc.CreateBooking(context.Background(), 0, payload(t, `{"event": 1}`))
	assert.True(t, model.IsKind(err, model.KindUnauthenticated))
}

func TestBookingService_CreateBooking_FreeEvent(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()

	booking := &model.BookedEvent{ID: 10, EventID: 7, UserID: 3, Status: model.BookingRegistered}
	event := &model.Event{ID: 7, Price: 0, Seats: 1}
	f.store.On("Book", mock.Anything, matchBook(3, 7)).Return(booking, event, nil)
	f.enqueuer.On("Enqueue", mock.Anything, jobs.TypePaymentConfirmation,
		jobs.PaymentConfirmationPayload{UserID: 3, EventID: 7, BookingID: 10}).Return(nil)

	res, err := f.svc.CreateBooking(ctx, 3, payload(t, `{"event": "7"}`))
	require.NoError(t, err)
	assert.Equal(t, booking, res.BookedEvent)
	assert.Empty(t, res.ClientSecret)

	f.gateway.AssertNotCalled(t, "CreatePaymentIntent", mock.Anything, mock.Anything)
	f.enqueuer.AssertExpectations(t)
}

func TestBookingService_CreateBooking_PaidEvent(t *testing.T) {
	f := newBookingFixture()

	booking := &model.BookedEvent{ID: 11, EventID: 8, UserID: 3, Status: model.BookingRegistered}
	event := &model.Event{ID: 8, Title: "Concert", Price: 25, Seats: 10}
	f.store.On("Book", mock.Anything, matchBook(3, 8)).Return(booking, event, nil)
	f.gateway.On("CreatePaymentIntent", mock.Anything, mock.MatchedBy(func(req *payment.IntentRequest) bool {
		return req.AmountMinorUnits == 2500 &&
			req.Currency == "usd" &&
			req.Metadata["event_id"] == "8" &&
			req.Metadata["user_id"] == "3"
	})).Return(&payment.Intent{ID: "pi_1", ClientSecret: "pi_1_secret"}, nil)
	f.enqueuer.On("Enqueue", mock.Anything, jobs.TypePaymentConfirmation, mock.Anything).Return(nil)

	res, err := f.svc.CreateBooking(context.Background(), 3, payload(t, `{"event": 8}`))
	require.NoError(t, err)
	assert.Equal(t, "pi_1_secret", res.ClientSecret)
	f.gateway.AssertExpectations(t)
}

func TestBookingService_CreateBooking_GatewayFailureAborts(t *testing.T) {
	f := newBookingFixture()

	event := &model.Event{ID: 8, Price: 25, Seats: 10}
	f.store.On("Book", mock.Anything, matchBook(3, 8)).Return(&model.BookedEvent{}, event, nil)
	f.gateway.On("CreatePaymentIntent", mock.Anything, mock.Anything).Return(nil, errors.New("card network down"))

	res, err := f.svc.CreateBooking(context.Background(), 3, payload(t, `{"event": 8}`))
	assert.Nil(t, res)
	assert.True(t, model.IsKind(err, model.KindUpstreamPayment), "got %v", err)
	f.enqueuer.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything, mock.Anything)
}

func TestBookingService_CreateBooking_RepositoryErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind model.ErrorKind
	}{
		{"unknown event", repository.ErrNotFound, model.KindNotFound},
		{"already booked", repository.ErrAlreadyBooked, model.KindConflict},
		{"private event", repository.ErrPrivateEvent, model.KindForbidden},
		{"full", repository.ErrEventFull, model.KindCapacityExceeded},
		{"store down", errors.New("connection refused"), model.KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBookingFixture()
			f.store.On("Book", mock.Anything, matchBook(3, 9)).Return(nil, nil, tt.err)

			_, err := f.svc.CreateBooking(context.Background(), 3, payload(t, `{"event": 9}`))
			assert.Equal(t, tt.kind, model.KindOf(err))
			f.enqueuer.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestBookingService_CreateBooking_EnqueueFailureKeepsBooking(t *testing.T) {
	f := newBookingFixture()

	booking := &model.BookedEvent{ID: 12, EventID: 7, UserID: 3, Status: model.BookingRegistered}
	f.store.On("Book", mock.Anything, matchBook(3, 7)).Return(booking, &model.Event{ID: 7}, nil)
	f.enqueuer.On("Enqueue", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis unavailable"))

	res, err := f.svc.CreateBooking(context.Background(), 3, payload(t, `{"event": 7}`))
	require.NoError(t, err)
	assert.Equal(t, booking, res.BookedEvent)
}

func TestBookingService_CreateBooking_EnqueueOutlivesCaller(t *testing.T) {
	f := newBookingFixture()
	ctx, cancel := context.WithCancel(context.Background())

	booking := &model.BookedEvent{ID: 13, EventID: 7, UserID: 3, Status: model.BookingRegistered}
	f.store.On("Book", mock.Anything, matchBook(3, 7)).
		Run(func(mock.Arguments) { cancel() }).
		Return(booking, &model.Event{ID: 7}, nil)
	f.enqueuer.On("Enqueue", mock.MatchedBy(func(ctx context.Context) bool {
		return ctx.Err() == nil
	}), jobs.TypePaymentConfirmation, mock.Anything).Return(nil).Once()

	_, err := f.svc.CreateBooking(ctx, 3, payload(t, `{"event": 7}`))
	require.NoError(t, err)
	f.enqueuer.AssertExpectations(t)
}

func TestBookingService_UpdateBooking_PartialPayloadRules(t *testing.T) {
	tests := []struct {
		name string
		body string
		msg  string
	}{
		{"missing status", `{}`, "status is required"},
		{"event supplied", `{"status": "participated", "event": 1}`, "event cannot be updated"},
		{"user supplied", `{"status": "participated", "user": 1}`, "user cannot be updated"},
		{"bad status", `{"status": "cancelled"}`, "status must be one of"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBookingFixture()

			_, err := f.svc.UpdateBooking(context.Background(), 3, 10, payload(t, tt.body), true)
			require.True(t, model.IsKind(err, model.KindValidation), "got %v", err)
			assert.Contains(t, err.Error(), tt.msg)
			f.store.AssertNotCalled(t, "GetForUser", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestBookingService_UpdateBooking_RegisteredToParticipated(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()

	registered := &model.BookedEvent{ID: 10, EventID: 7, UserID: 3, Status: model.BookingRegistered}
	participated := &model.BookedEvent{ID: 10, EventID: 7, UserID: 3, Status: model.BookingParticipated}
	f.store.On("GetForUser", mock.Anything, int64(10), int64(3)).Return(registered, nil).Once()
	f.store.On("Transition", mock.Anything, int64(10), int64(3), model.BookingRegistered, model.BookingParticipated).
		Return(participated, nil).Once()

	res, err := f.svc.UpdateBooking(ctx, 3, 10, payload(t, `{"status": "participated"}`), true)
	require.NoError(t, err)
	assert.Equal(t, model.BookingParticipated, res.BookedEvent.Status)

	// Any later update of a participated booking is rejected.
	f.store.On("GetForUser", mock.Anything, int64(10), int64(3)).Return(participated, nil)
	for _, status := range []string{"registered", "participated", "unregistered"} {
		_, err = f.svc.UpdateBooking(ctx, 3, 10, payload(t, `{"status": "`+status+`"}`), true)
		assert.True(t, model.IsKind(err, model.KindConflict), "status %s: got %v", status, err)
		_, err = f.svc.UpdateBooking(ctx, 3, 10, payload(t, `{"status": "`+status+`"}`), false)
		assert.True(t, model.IsKind(err, model.KindConflict), "status %s: got %v", status, err)
	}
	f.store.AssertNumberOfCalls(t, "Transition", 1)
}

func TestBookingService_UpdateBooking_UnregisterDeletes(t *testing.T) {
	f := newBookingFixture()

	registered := &model.BookedEvent{ID: 10, EventID: 7, UserID: 3, Status: model.BookingRegistered}
	f.store.On("GetForUser", mock.Anything, int64(10), int64(3)).Return(registered, nil)
	f.store.On("Delete", mock.Anything, int64(10), int64(3), model.BookingRegistered).Return(nil)

	res, err := f.svc.UpdateBooking(context.Background(), 3, 10, payload(t, `{"status": "unregistered"}`), true)
	require.NoError(t, err)
	assert.Nil(t, res.BookedEvent)
	assert.Equal(t, unregisteredMessage, res.Message)
}

func TestBookingService_UpdateBooking_AlreadyUnregistered(t *testing.T) {
	f := newBookingFixture()

	b := &model.BookedEvent{ID: 10, EventID: 7, UserID: 3, Status: model.BookingUnregistered}
	f.store.On("GetForUser", mock.Anything, int64(10), int64(3)).Return(b, nil)
	f.store.On("Delete", mock.Anything, int64(10), int64(3), model.BookingUnregistered).Return(nil)

	res, err := f.svc.UpdateBooking(context.Background(), 3, 10, payload(t, `{"status": "registered"}`), false)
	require.NoError(t, err)
	assert.Equal(t, unregisteredMessage, res.Message)
}

func TestBookingService_UpdateBooking_FullEchoesMustMatch(t *testing.T) {
	f := newBookingFixture()

	registered := &model.BookedEvent{ID: 10, EventID: 7, UserID: 3, Status: model.BookingRegistered}
	f.store.On("GetForUser", mock.Anything, int64(10), int64(3)).Return(registered, nil)
	f.store.On("Transition", mock.Anything, int64(10), int64(3), model.BookingRegistered, model.BookingParticipated).
		Return(&model.BookedEvent{ID: 10, Status: model.BookingParticipated}, nil)

	_, err := f.svc.UpdateBooking(context.Background(), 3, 10, payload(t, `{"status": "participated", "event": 8}`), false)
	assert.True(t, model.IsKind(err, model.KindValidation))

	res, err := f.svc.UpdateBooking(context.Background(), 3, 10, payload(t, `{"status": "participated", "event": 7, "user": 3}`), false)
	require.NoError(t, err)
	assert.Equal(t, model.BookingParticipated, res.BookedEvent.Status)
}

func TestBookingService_UpdateBooking_OtherUsersBooking(t *testing.T) {
	f := newBookingFixture()
	f.store.On("GetForUser", mock.Anything, int64(10), int64(4)).Return(nil, repository.ErrNotFound)

	_, err := f.svc.UpdateBooking(context.Background(), 4, 10, payload(t, `{"status": "participated"}`), true)
	assert.True(t, model.IsKind(err, model.KindNotFound))
}

func TestBookingService_UpdateBooking_ConcurrentChange(t *testing.T) {
	f := newBookingFixture()

	registered := &model.BookedEvent{ID: 10, UserID: 3, Status: model.BookingRegistered}
	f.store.On("GetForUser", mock.Anything, int64(10), int64(3)).Return(registered, nil)
	f.store.On("Transition", mock.Anything, int64(10), int64(3), model.BookingRegistered, model.BookingParticipated).
		Return(nil, repository.ErrStaleBooking)

	_, err := f.svc.UpdateBooking(context.Background(), 3, 10, payload(t, `{"status": "participated"}`), true)
	assert.True(t, model.IsKind(err, model.KindConflict))
}

func TestBookingService_ListAndGet(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()

	f.store.On("ListByUser", mock.Anything, int64(3)).Return([]model.BookedEvent{{ID: 1, UserID: 3}}, nil)
	f.store.On("GetForUser", mock.Anything, int64(1), int64(3)).Return(&model.BookedEvent{ID: 1, UserID: 3}, nil)

	list, err := f.svc.ListBookings(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	b, err := f.svc.GetBooking(ctx, 3, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), b.ID)

	_, err = f.svc.ListBookings(ctx, 0)
	assert.True(t, model.IsKind(err, model.KindUnauthenticated))
}
