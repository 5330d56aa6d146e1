package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Shivanand-hulikatti/letsgo/internal/model"
	"github.com/Shivanand-hulikatti/letsgo/internal/payment"
	"github.com/Shivanand-hulikatti/letsgo/internal/repository"
)

type MockEventStore struct {
	mock.Mock
}

func (m *MockEventStore) List(ctx context.Context, viewerID int64, filter model.EventFilter) ([]model.Event, error) {
	args := m.Called(ctx, viewerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Event), args.Error(1)
}

func (m *MockEventStore) GetVisible(ctx context.Context, viewerID, id int64) (*model.Event, error) {
	args := m.Called(ctx, viewerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *MockEventStore) GetByID(ctx context.Context, id int64) (*model.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *MockEventStore) Create(ctx context.Context, e *model.Event) (*model.Event, error) {
	args := m.Called(ctx, e)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *MockEventStore) Update(ctx context.Context, e *model.Event, replaceCats bool) (*model.Event, error) {
	args := m.Called(ctx, e, replaceCats)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *MockEventStore) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCategoryStore struct {
	mock.Mock
}

func (m *MockCategoryStore) List(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Category), args.Error(1)
}

func (m *MockCategoryStore) GetByID(ctx context.Context, id int64) (*model.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

type MockBookingStore struct {
	mock.Mock
}

// Book runs the Reserve hook against the stubbed event, the way the
// repository does before inserting.
func (m *MockBookingStore) Book(ctx context.Context, p repository.BookParams) (*model.BookedEvent, *model.Event, error) {
	args := m.Called(ctx, p)
	if err := args.Error(2); err != nil {
		return nil, nil, err
	}
	b := args.Get(0).(*model.BookedEvent)
	e := args.Get(1).(*model.Event)
	if p.Reserve != nil {
		if err := p.Reserve(ctx, e); err != nil {
			return nil, nil, err
		}
	}
	return b, e, nil
}

func (m *MockBookingStore) ListByUser(ctx context.Context, userID int64) ([]model.BookedEvent, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.BookedEvent), args.Error(1)
}

func (m *MockBookingStore) GetForUser(ctx context.Context, id, userID int64) (*model.BookedEvent, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BookedEvent), args.Error(1)
}

func (m *MockBookingStore) HasBooked(ctx context.Context, userID, eventID int64) (bool, error) {
	args := m.Called(ctx, userID, eventID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingStore) Transition(ctx context.Context, id, userID int64, from, to model.BookingStatus) (*model.BookedEvent, error) {
	args := m.Called(ctx, id, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BookedEvent), args.Error(1)
}

func (m *MockBookingStore) Delete(ctx context.Context, id, userID int64, from model.BookingStatus) error {
	args := m.Called(ctx, id, userID, from)
	return args.Error(0)
}

type MockRatingStore struct {
	mock.Mock
}

func (m *MockRatingStore) Exists(ctx context.Context, userID, eventID int64) (bool, error) {
	args := m.Called(ctx, userID, eventID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRatingStore) Create(ctx context.Context, r *model.Rating) (*model.Rating, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Rating), args.Error(1)
}

func (m *MockRatingStore) List(ctx context.Context, eventID int64) ([]model.Rating, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Rating), args.Error(1)
}

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserStore) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserStore) AreFriends(ctx context.Context, a, b int64) (bool, error) {
	args := m.Called(ctx, a, b)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserStore) ListFriends(ctx context.Context, userID int64) ([]model.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

type MockFriendRequestStore struct {
	mock.Mock
}

func (m *MockFriendRequestStore) PendingBetween(ctx context.Context, a, b int64) (bool, error) {
	args := m.Called(ctx, a, b)
	return args.Bool(0), args.Error(1)
}

func (m *MockFriendRequestStore) Create(ctx context.Context, senderID, receiverID int64) (*model.FriendRequest, error) {
	args := m.Called(ctx, senderID, receiverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FriendRequest), args.Error(1)
}

func (m *MockFriendRequestStore) GetByID(ctx context.Context, id int64) (*model.FriendRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FriendRequest), args.Error(1)
}

func (m *MockFriendRequestStore) List(ctx context.Context, userID int64, section model.RequestSection) ([]model.FriendRequest, error) {
	args := m.Called(ctx, userID, section)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.FriendRequest), args.Error(1)
}

func (m *MockFriendRequestStore) Resolve(ctx context.Context, id int64, decision model.FriendRequestStatus) error {
	args := m.Called(ctx, id, decision)
	return args.Error(0)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreatePaymentIntent(ctx context.Context, req *payment.IntentRequest) (*payment.Intent, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Intent), args.Error(1)
}

func (m *MockGateway) Name() string {
	return "mock"
}

type MockEnqueuer struct {
	mock.Mock
}

func (m *MockEnqueuer) Enqueue(ctx context.Context, jobName string, payload any) error {
	args := m.Called(ctx, jobName, payload)
	return args.Error(0)
}
