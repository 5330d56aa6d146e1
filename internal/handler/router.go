package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/Shivanand-hulikatti/letsgo/internal/logger"
)

// RouterDeps are the collaborators the HTTP surface is built from.
type RouterDeps struct {
	Events     EventService
	Categories CategoryService
	Bookings   BookingService
	Ratings    RatingService
	Friends    FriendService

	JWTSecret string
	JWTIssuer string

	// Redis backs idempotent booking creation. When nil the
	// X-Idempotency-Key header is ignored.
	Redis          RedisClient
	IdempotencyTTL time.Duration

	Health map[string]Pinger
	Log    *logger.Logger
}

// NewRouter builds the chi router with the global middleware stack.
func NewRouter(d RouterDeps) http.Handler {
	log := d.Log
	if log == nil {
		log = logger.Get()
	}

	events := NewEventHandler(d.Events)
	categories := NewCategoryHandler(d.Categories)
	bookings := NewBookingHandler(d.Bookings)
	ratings := NewRatingHandler(d.Ratings)
	friends := NewFriendHandler(d.Friends)

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(RequestID)
	r.Use(Logger(log))
	r.Use(CORS)

	r.NotFound(NotFound)
	r.MethodNotAllowed(MethodNotAllowed)

	r.Get("/health", HealthCheck(d.Health))

	r.Group(func(r chi.Router) {
		r.Use(Auth(d.JWTSecret, d.JWTIssuer))

		r.Route("/events", func(r chi.Router) {
			r.Get("/", events.ListEvents)
			r.Post("/", events.CreateEvent)
			r.Get("/{id}", events.GetEvent)
			r.Put("/{id}", events.UpdateEvent)
			r.Patch("/{id}", events.UpdateEvent)
			r.Delete("/{id}", events.DeleteEvent)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categories.ListCategories)
			r.Get("/{id}", categories.GetCategory)
		})

		r.Route("/booked_events", func(r chi.Router) {
			create := http.Handler(http.HandlerFunc(bookings.CreateBooking))
			if d.Redis != nil {
				create = Idempotency(d.Redis, d.IdempotencyTTL, log)(create)
			}
			r.Method(http.MethodPost, "/", create)
			r.Get("/", bookings.ListBookings)
			r.Get("/{id}", bookings.GetBooking)
			r.Put("/{id}", bookings.UpdateBooking)
			r.Patch("/{id}", bookings.UpdateBooking)
		})

		r.Route("/ratings", func(r chi.Router) {
			r.Get("/", ratings.ListRatings)
			r.Post("/", ratings.CreateRating)
		})

		r.Route("/friend_requests", func(r chi.Router) {
			r.Get("/", friends.ListFriendRequests)
			r.Post("/", friends.SendFriendRequest)
			r.Patch("/{id}", friends.ResolveFriendRequest)
		})

		r.Get("/friends", friends.ListFriends)
	})

	return r
}
