// Package router binds protocol command names to their handlers.  The
// command set is the contract with the deployed desktop client, so names
// registered here must never change meaning without a client release.
package router

import (
	"context"
	"encoding/json"
	"time"

	"github.com/icearena/booking-server/internal/handler"
)

// Handlers collects every handler the registry needs.
type Handlers struct {
	Auth     *handler.AuthHandler
	Schedule *handler.ScheduleHandler
	Booking  *handler.BookingHandler
	Review   *handler.ReviewHandler
	User     *handler.UserHandler
	Metrics  *handler.MetricsHandler
	Support  *handler.SupportHandler
}

// Register wires all command names into the registry.
func Register(r *handler.Registry, h Handlers) {
	r.Register("login", h.Auth.Login)
	r.Register("register", h.Auth.Register)

	r.Register("get_schedule", h.Schedule.GetSchedule)
	r.Register("decrease_available_seats", h.Schedule.DecreaseSeats)
	r.Register("increase_available_seats", h.Schedule.IncreaseSeats)

	r.Register("book_session", h.Booking.BookSession)
	r.Register("create_booking", h.Booking.CreateBooking)
	r.Register("cancel_booking", h.Booking.CancelBooking)
	r.Register("create_tickets", h.Booking.CreateTickets)
	r.Register("create_rental", h.Booking.CreateRental)
	r.Register("get_user_bookings", h.Booking.GetUserBookings)
	r.Register("get_user_bookings_with_tickets", h.Booking.GetUserBookingsWithTickets)

	r.Register("get_reviews", h.Review.GetReviews)
	r.Register("add_review", h.Review.AddReview)
	r.Register("get_user_reviews", h.Review.GetUserReviews)

	// Two names for one lookup; older client builds send get_user_info
	// and newer ones get_user_profile.
	r.Register("get_user_info", h.User.GetUserInfo)
	r.Register("get_user_profile", h.User.GetUserInfo)

	r.Register("get_arena_metrics", h.Metrics.GetArenaMetrics)

	r.Register("send_support_message", h.Support.SendMessage)
	r.Register("send_support_message_as_admin", h.Support.SendMessageAsAdmin)
	r.Register("get_support_chat", h.Support.GetChat)
	r.Register("get_chat_history", h.Support.GetChatHistory)
	r.Register("get_active_support_chats", h.Support.GetActiveChats)

	r.Register("test", ping)
}

// ping is the liveness echo used by the client's connection check.
func ping(ctx context.Context, raw json.RawMessage) any {
	return handler.M{
		"Success":   true,
		"Message":   "server is running",
		"Timestamp": time.Now().Format("2006-01-02 15:04:05"),
	}
}
