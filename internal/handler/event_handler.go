package handler

import (
	"net/http"
	"strings"

	"github.com/Shivanand-hulikatti/letsgo/internal/model"
)

// EventHandler serves /events.
type EventHandler struct {
	svc EventService
}

// NewEventHandler constructs an EventHandler.
func NewEventHandler(svc EventService) *EventHandler {
	return &EventHandler{svc: svc}
}

// ListEvents handles GET /events
// Query parameters: search, event_type, sort, categories (repeatable), relation.
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	categories, err := queryIDs(r, "categories")
	if err != nil {
		writeError(w, r, err)
		return
	}
	filter := model.EventFilter{
		Search:     strings.TrimSpace(q.Get("search")),
		EventType:  model.EventType(q.Get("event_type")),
		Categories: categories,
		Relation:   model.Relation(q.Get("relation")),
		Sort:       model.SortOrder(q.Get("sort")),
	}

	events, err := h.svc.ListEvents(r.Context(), UserIDFrom(r.Context()), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if events == nil {
		events = []model.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

// GetEvent handles GET /events/{id}
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	event, err := h.svc.GetEvent(r.Context(), UserIDFrom(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// CreateEvent handles POST /events
// The caller becomes the owner.
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	p, err := decodePayload(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	event, err := h.svc.CreateEvent(r.Context(), UserIDFrom(r.Context()), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

// UpdateEvent handles PUT and PATCH /events/{id}
func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
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
	event, err := h.svc.UpdateEvent(r.Context(), UserIDFrom(r.Context()), id, p, partial)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// DeleteEvent handles DELETE /events/{id}
func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.DeleteEvent(r.Context(), UserIDFrom(r.Context()), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CategoryHandler serves the read-only /categories resource.
type CategoryHandler struct {
	svc CategoryService
}

func NewCategoryHandler(svc CategoryService) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

// ListCategories handles GET /categories
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.ListCategories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if categories == nil {
		categories = []model.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}

// GetCategory handles GET /categories/{id}
func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	category, err := h.svc.GetCategory(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}
