package model

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Payload is a decoded JSON object body. Keys are kept so that operations can
// reject fields they do not declare.
type Payload map[string]json.RawMessage

// Has reports whether key was supplied.
func (p Payload) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// UnknownKeys returns the supplied keys not present in allowed, sorted.
func (p Payload) UnknownKeys(allowed ...string) []string {
	set := make(map[string]struct{}, len(allowed))
	for _, k := range allowed {
		set[k] = struct{}{}
	}
	var unknown []string
	for k := range p {
		if _, ok := set[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	return unknown
}

// ID parses key as a positive integer id. Both JSON numbers and digit-only
// strings are accepted.
func (p Payload) ID(key string) (int64, bool) {
	raw, ok := p[key]
	if !ok {
		return 0, false
	}
	return ParseID(strings.Trim(strings.TrimSpace(string(raw)), `"`))
}

// String decodes key as a JSON string.
func (p Payload) String(key string) (string, bool) {
	var s string
	if err := json.Unmarshal(p[key], &s); err != nil {
		return "", false
	}
	return s, true
}

// Int decodes key as a JSON integer.
func (p Payload) Int(key string) (int64, bool) {
	var n int64
	if err := json.Unmarshal(p[key], &n); err != nil {
		return 0, false
	}
	return n, true
}

// ParseID parses a digit-only string as a positive id.
func ParseID(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Upper bounds for numeric event fields. seats is stored as a 32-bit column
// and price is charged in minor units (price*100).
const (
	MaxSeats = math.MaxInt32
	MaxPrice = math.MaxInt64 / 100
)

// EventFields are the keys an event payload may carry. id, created_by and
// rating are read-only and ignored on write.
var EventFields = []string{
	"id", "title", "description", "price", "start_time",
	"created_by", "event_type", "rating", "seats", "categories",
}

// EventInput holds the writable event fields that were supplied.
type EventInput struct {
	Title       *string
	Description *string
	Price       *int64
	StartTime   *time.Time
	EventType   *EventType
	Seats       *int
	Categories  []int64
	// HasCategories distinguishes an omitted list from an empty one.
	HasCategories bool
}

// ParseEventInput validates the shape of an event payload. Unknown keys are
// rejected rather than ignored.
func ParseEventInput(p Payload) (*EventInput, error) {
	if unknown := p.UnknownKeys(EventFields...); len(unknown) > 0 {
		return nil, Validation("invalid data: unknown fields %s", strings.Join(unknown, ", "))
	}

	in := &EventInput{}
	if p.Has("title") {
		s, ok := p.String("title")
		if !ok || strings.TrimSpace(s) == "" {
			return nil, Validation("title must be a non-empty string")
		}
		s = strings.TrimSpace(s)
		in.Title = &s
	}
	if p.Has("description") {
		s, ok := p.String("description")
		if !ok {
			return nil, Validation("description must be a string")
		}
		in.Description = &s
	}
	if p.Has("price") {
		n, ok := p.Int("price")
		if !ok || n < 0 {
			return nil, Validation("price must be a non-negative integer")
		}
		if n > MaxPrice {
			return nil, Validation("price must not exceed %d", int64(MaxPrice))
		}
		in.Price = &n
	}
	if p.Has("start_time") {
		s, ok := p.String("start_time")
		if !ok {
			return nil, Validation("start_time must be an RFC 3339 timestamp")
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, Validation("start_time must be an RFC 3339 timestamp")
		}
		in.StartTime = &t
	}
	if p.Has("event_type") {
		s, ok := p.String("event_type")
		et := EventType(s)
		if !ok || !et.IsValid() {
			return nil, Validation("event_type must be one of public, private")
		}
		in.EventType = &et
	}
	if p.Has("seats") {
		n, ok := p.Int("seats")
		if !ok || n < 0 {
			return nil, Validation("seats must be a non-negative integer")
		}
		if n > MaxSeats {
			return nil, Validation("seats must not exceed %d", MaxSeats)
		}
		seats := int(n)
		in.Seats = &seats
	}
	if p.Has("categories") {
		var ids []int64
		if err := json.Unmarshal(p["categories"], &ids); err != nil {
			return nil, Validation("categories must be a list of ids")
		}
		in.Categories = ids
		in.HasCategories = true
	}
	return in, nil
}

// Apply copies supplied fields onto e.
func (in *EventInput) Apply(e *Event) {
	if in.Title != nil {
		e.Title = *in.Title
	}
	if in.Description != nil {
		e.Description = *in.Description
	}
	if in.Price != nil {
		e.Price = *in.Price
	}
	if in.StartTime != nil {
		e.StartTime = *in.StartTime
	}
	if in.EventType != nil {
		e.EventType = *in.EventType
	}
	if in.Seats != nil {
		e.Seats = *in.Seats
	}
	if in.HasCategories {
		e.Categories = in.Categories
	}
}

// Relation narrows an event listing to events referenced by bookings.
type Relation string

const (
	RelationAll     Relation = "all"
	RelationUser    Relation = "user"
	RelationFriends Relation = "friends"
)

// SortOrder orders an event listing by price.
type SortOrder string

const (
	SortAscending  SortOrder = "ascending"
	SortDescending SortOrder = "descending"
)

// EventFilter is the set of optional listing filters.
type EventFilter struct {
	Search     string
	EventType  EventType
	Categories []int64
	Relation   Relation
	Sort       SortOrder
}

// RequestSection scopes a friend request listing.
type RequestSection string

const (
	SectionSender   RequestSection = "sender"
	SectionReceiver RequestSection = "receiver"
)
