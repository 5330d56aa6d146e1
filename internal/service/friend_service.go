package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Shivanand-hulikatti/letsgo/internal/model"
	"github.com/Shivanand-hulikatti/letsgo/internal/repository"
)

// FriendService manages friend requests and the friends relation.
type FriendService struct {
	users    UserStore
	requests FriendRequestStore
}

// NewFriendService constructs a FriendService.
func NewFriendService(users UserStore, requests FriendRequestStore) *FriendService {
	return &FriendService{users: users, requests: requests}
}

// SendFriendRequest creates a pending request from userID to the receiver in
// the payload.
func (s *FriendService) SendFriendRequest(ctx context.Context, userID int64, p model.Payload) (*model.FriendRequest, error) {
	if err := Authenticate(OpSendFriendRequest, userID); err != nil {
		return nil, err
	}
	if extra := p.UnknownKeys("receiver"); len(extra) > 0 {
		return nil, model.Validation("invalid data: unknown fields %s", strings.Join(extra, ", "))
	}
	receiverID, ok := p.ID("receiver")
	if !ok {
		return nil, model.Validation("receiver must be an integer id")
	}
	if receiverID == userID {
		return nil, model.Conflict("you cannot send a friend request to yourself")
	}

	exists, err := s.users.Exists(ctx, receiverID)
	if err != nil {
		return nil, fmt.Errorf("check receiver: %w", err)
	}
	if !exists {
		return nil, model.NotFound("user %d not found", receiverID)
	}

	friends, err := s.users.AreFriends(ctx, userID, receiverID)
	if err != nil {
		return nil, fmt.Errorf("check friendship: %w", err)
	}
	if friends {
		return nil, model.Conflict("you are already friends")
	}

	pending, err := s.requests.PendingBetween(ctx, userID, receiverID)
	if err != nil {
		return nil, fmt.Errorf("check pending request: %w", err)
	}
	if pending {
		return nil, model.Conflict("a friend request between you is already pending")
	}

	fr, err := s.requests.Create(ctx, userID, receiverID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateFriendRequest):
			return nil, model.Conflict("a friend request between you is already pending")
		case errors.Is(err, repository.ErrAlreadyFriends):
			return nil, model.Conflict("you are already friends")
		case errors.Is(err, repository.ErrNotFound):
			return nil, model.NotFound("user %d not found", receiverID)
		}
		return nil, fmt.Errorf("create friend request: %w", err)
	}
	return fr, nil
}

// ListFriendRequests returns the requests addressed to userID, or the ones
// userID sent when section is "sender".
func (s *FriendService) ListFriendRequests(ctx context.Context, userID int64, section string) ([]model.FriendRequest, error) {
	if err := Authenticate(OpListFriendRequests, userID); err != nil {
		return nil, err
	}
	sec := model.RequestSection(section)
	switch sec {
	case "":
		sec = model.SectionReceiver
	case model.SectionSender, model.SectionReceiver:
	default:
		return nil, model.Validation("section must be one of sender, receiver")
	}

	requests, err := s.requests.List(ctx, userID, sec)
	if err != nil {
		return nil, fmt.Errorf("list friend requests: %w", err)
	}
	return requests, nil
}

// ResolveFriendRequest accepts or declines a request addressed to userID.
// The request is consumed either way; the returned value reflects the
// decision taken.
func (s *FriendService) ResolveFriendRequest(ctx context.Context, userID, id int64, p model.Payload) (*model.FriendRequest, error) {
	if err := Authenticate(OpResolveFriendRequest, userID); err != nil {
		return nil, err
	}
	if !p.Has("status") {
		return nil, model.Validation("status is required")
	}
	if extra := p.UnknownKeys("status"); len(extra) > 0 {
		return nil, model.Validation("invalid data: unknown fields %s", strings.Join(extra, ", "))
	}
	raw, ok := p.String("status")
	decision := model.FriendRequestStatus(raw)
	if !ok || !decision.IsResolution() {
		return nil, model.Validation("status must be one of accepted, declined")
	}

	fr, err := s.requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, model.NotFound("friend request %d not found", id)
		}
		return nil, fmt.Errorf("get friend request: %w", err)
	}
	if err := Authorize(OpResolveFriendRequest, userID, fr.ReceiverID); err != nil {
		return nil, err
	}

	if err := s.requests.Resolve(ctx, id, decision); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, model.NotFound("friend request %d not found", id)
		}
		return nil, fmt.Errorf("resolve friend request: %w", err)
	}
	fr.Status = decision
	return fr, nil
}

// ListFriends returns the friends of userID, or of another user when ofUser
// is set. An ofUser that does not name an existing user is not found.
func (s *FriendService) ListFriends(ctx context.Context, userID int64, ofUser string) ([]model.User, error) {
	if err := Authenticate(OpListFriends, userID); err != nil {
		return nil, err
	}
	target := userID
	if ofUser != "" {
		id, ok := model.ParseID(ofUser)
		if !ok {
			return nil, model.NotFound("user %q not found", ofUser)
		}
		u, err := s.users.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, model.NotFound("user %d not found", id)
			}
			return nil, fmt.Errorf("get user: %w", err)
		}
		target = u.ID
	}

	friends, err := s.users.ListFriends(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("list friends: %w", err)
	}
	return friends, nil
}
