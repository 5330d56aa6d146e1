package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/letsgo/internal/model"
)

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name    string
		op      Operation
		userID  int64
		ownerID int64
		kind    model.ErrorKind // empty means allowed
	}{
		{"public list anonymous", OpListEvents, 0, 0, ""},
		{"detail needs identity", OpGetEvent, 0, 0, model.KindUnauthenticated},
		{"detail authenticated", OpGetEvent, 1, 0, ""},
		{"owner updates", OpUpdateEvent, 1, 1, ""},
		{"non owner updates", OpUpdateEvent, 2, 1, model.KindForbidden},
		{"anonymous deletes", OpDeleteEvent, 0, 1, model.KindUnauthenticated},
		{"booking owner", OpUpdateBooking, 3, 3, ""},
		{"booking of another", OpGetBooking, 4, 3, model.KindForbidden},
		{"receiver resolves", OpResolveFriendRequest, 2, 2, ""},
		{"sender resolves", OpResolveFriendRequest, 1, 2, model.KindForbidden},
		{"unknown operation", Operation("events.archive"), 1, 1, model.KindForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.op, tt.userID, tt.ownerID)
			if tt.kind == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.kind, model.KindOf(err))
		})
	}
}

func TestEveryOperationHasACapability(t *testing.T) {
	ops := []Operation{
		OpListEvents, OpGetEvent, OpCreateEvent, OpUpdateEvent, OpDeleteEvent,
		OpCreateBooking, OpListBookings, OpGetBooking, OpUpdateBooking,
		OpCreateRating, OpListRatings,
		OpSendFriendRequest, OpListFriendRequests, OpResolveFriendRequest, OpListFriends,
	}
	for _, op := range ops {
		_, ok := RequiredCapability(op)
		require.True(t, ok, "operation %s has no capability", op)
	}
}
