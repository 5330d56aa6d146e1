package service

import (
	"github.com/Shivanand-hulikatti/letsgo/internal/model"
)

// Operation names an action exposed by the services.
type Operation string

const (
	OpListEvents           Operation = "events.list"
	OpGetEvent             Operation = "events.get"
	OpCreateEvent          Operation = "events.create"
	OpUpdateEvent          Operation = "events.update"
	OpDeleteEvent          Operation = "events.delete"
	OpCreateBooking        Operation = "bookings.create"
	OpListBookings         Operation = "bookings.list"
	OpGetBooking           Operation = "bookings.get"
	OpUpdateBooking        Operation = "bookings.update"
	OpCreateRating         Operation = "ratings.create"
	OpListRatings          Operation = "ratings.list"
	OpSendFriendRequest    Operation = "friend_requests.create"
	OpListFriendRequests   Operation = "friend_requests.list"
	OpResolveFriendRequest Operation = "friend_requests.resolve"
	OpListFriends          Operation = "friends.list"
)

// Capability is what the caller must hold to perform an operation.
type Capability int

const (
	// CapPublic needs no identity.
	CapPublic Capability = iota
	// CapAuthenticated needs any identity.
	CapAuthenticated
	// CapEventOwner needs the identity that created the event.
	CapEventOwner
	// CapBookingOwner needs the identity that holds the booking.
	CapBookingOwner
	// CapRequestReceiver needs the identity a friend request is addressed to.
	CapRequestReceiver
)

var requiredCapability = map[Operation]Capability{
	OpListEvents:           CapPublic,
	OpGetEvent:             CapAuthenticated,
	OpCreateEvent:          CapAuthenticated,
	OpUpdateEvent:          CapEventOwner,
	OpDeleteEvent:          CapEventOwner,
	OpCreateBooking:        CapAuthenticated,
	OpListBookings:         CapAuthenticated,
	OpGetBooking:           CapBookingOwner,
	OpUpdateBooking:        CapBookingOwner,
	OpCreateRating:         CapAuthenticated,
	OpListRatings:          CapAuthenticated,
	OpSendFriendRequest:    CapAuthenticated,
	OpListFriendRequests:   CapAuthenticated,
	OpResolveFriendRequest: CapRequestReceiver,
	OpListFriends:          CapAuthenticated,
}

// RequiredCapability returns the capability op needs. Unknown operations
// report false and are always denied.
func RequiredCapability(op Operation) (Capability, bool) {
	c, ok := requiredCapability[op]
	return c, ok
}

// Authenticate checks the identity half of op's capability. Owner-scoped
// operations call it before loading the target and Authorize afterwards.
func Authenticate(op Operation, userID int64) error {
	c, ok := requiredCapability[op]
	if !ok {
		return model.Forbidden("operation %s is not permitted", op)
	}
	if c != CapPublic && userID == 0 {
		return model.Unauthenticated("authentication credentials were not provided")
	}
	return nil
}

// Authorize decides whether userID may perform op on a resource owned by
// ownerID. ownerID is ignored for capabilities that are not owner-scoped.
func Authorize(op Operation, userID, ownerID int64) error {
	if err := Authenticate(op, userID); err != nil {
		return err
	}
	switch requiredCapability[op] {
	case CapEventOwner:
		if userID != ownerID {
			return model.Forbidden("only the event owner may do this")
		}
	case CapBookingOwner:
		if userID != ownerID {
			return model.Forbidden("this booking belongs to another user")
		}
	case CapRequestReceiver:
		if userID != ownerID {
			return model.Forbidden("only the receiver may resolve a friend request")
		}
	}
	return nil
}
