package handler

import (
	"net/http"

	"github.com/Shivanand-hulikatti/letsgo/internal/model"
)

// BookingHandler serves /booked_events. Bookings cannot be deleted through
// the API; unregistering goes through an update.
type BookingHandler struct {
	svc BookingService
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(svc BookingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

// CreateBooking handles POST /booked_events
// Body: {"event": <id>}. Responds with the booking and, for paid events, the
// payment intent client secret.
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	p, err := decodePayload(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	result, err := h.svc.CreateBooking(r.Context(), UserIDFrom(r.Context()), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// ListBookings handles GET /booked_events
// Only the caller's bookings are returned.
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.svc.ListBookings(r.Context(), UserIDFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if bookings == nil {
		bookings = []model.BookedEvent{}
	}
	writeJSON(w, http.StatusOK, bookings)
}

// GetBooking handles GET /booked_events/{id}
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	booking, err := h.svc.GetBooking(r.Context(), UserIDFrom(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// UpdateBooking handles PUT and PATCH /booked_events/{id}
// A booking removed by the transition is answered with a message instead
// of the record.
func (h *BookingHandler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
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
	partial := r.Method == http.MethodPatch
	update, err := h.svc.UpdateBooking(r.Context(), UserIDFrom(r.Context()), id, p, partial)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if update.BookedEvent == nil {
		writeJSON(w, http.StatusOK, map[string]string{"message": update.Message})
		return
	}
	writeJSON(w, http.StatusOK, update.BookedEvent)
}
