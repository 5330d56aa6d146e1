package handler

import (
	"net/http"

	"github.com/Shivanand-hulikatti/letsgo/internal/model"
)

// RatingHandler serves /ratings.
type RatingHandler struct {
	svc RatingService
}

func NewRatingHandler(svc RatingService) *RatingHandler {
	return &RatingHandler{svc: svc}
}

// CreateRating handles POST /ratings
// Body: {"event": <id>, "score": 1..5}
func (h *RatingHandler) CreateRating(w http.ResponseWriter, r *http.Request) {
	p, err := decodePayload(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rating, err := h.svc.CreateRating(r.Context(), UserIDFrom(r.Context()), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rating)
}

// ListRatings handles GET /ratings[?event=<id>]
func (h *RatingHandler) ListRatings(w http.ResponseWriter, r *http.Request) {
	var eventID int64
	if raw := r.URL.Query().Get("event"); raw != "" {
		id, ok := model.ParseID(raw)
		if !ok {
			writeError(w, r, model.Validation("event must be an integer id"))
			return
		}
		eventID = id
	}
	ratings, err := h.svc.ListRatings(r.Context(), UserIDFrom(r.Context()), eventID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if ratings == nil {
		ratings = []model.Rating{}
	}
	writeJSON(w, http.StatusOK, ratings)
}

// FriendHandler serves /friend_requests and /friends.
type FriendHandler struct {
	svc FriendService
}

func NewFriendHandler(svc FriendService) *FriendHandler {
	return &FriendHandler{svc: svc}
}

// SendFriendRequest handles POST /friend_requests
// Body: {"receiver": <user id>}
func (h *FriendHandler) SendFriendRequest(w http.ResponseWriter, r *http.Request) {
	p, err := decodePayload(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	fr, err := h.svc.SendFriendRequest(r.Context(), UserIDFrom(r.Context()), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, fr)
}

// ListFriendRequests handles GET /friend_requests[?section=sender|receiver]
func (h *FriendHandler) ListFriendRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.svc.ListFriendRequests(r.Context(), UserIDFrom(r.Context()), r.URL.Query().Get("section"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if requests == nil {
		requests = []model.FriendRequest{}
	}
	writeJSON(w, http.StatusOK, requests)
}

// ResolveFriendRequest handles PATCH /friend_requests/{id}
// Body: {"status": "accepted" | "declined"}
func (h *FriendHandler) ResolveFriendRequest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := decodePayload(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	fr, err := h.svc.ResolveFriendRequest(r.Context(), UserIDFrom(r.Context()), id, p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fr)
}

// ListFriends handles GET /friends[?id=<user id>]
func (h *FriendHandler) ListFriends(w http.ResponseWriter, r *http.Request) {
	friends, err := h.svc.ListFriends(r.Context(), UserIDFrom(r.Context()), r.URL.Query().Get("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if friends == nil {
		friends = []model.User{}
	}
	writeJSON(w, http.StatusOK, friends)
}
