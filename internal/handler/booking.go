package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/icearena/booking-server/internal/model"
	"github.com/icearena/booking-server/internal/queue"
	"github.com/icearena/booking-server/internal/repository"
)

// BookingHandler serves every booking lifecycle command.  The seat
// arithmetic itself lives in the repository's transactions; this layer
// validates requests, translates domain errors into client-facing text,
// invalidates the schedule cache and emits broker events after commits.
type BookingHandler struct {
	Bookings *repository.BookingRepo
	Cache    ScheduleCache
	Events   *queue.Publisher
	Log      *zap.SugaredLogger
}

func NewBookingHandler(bookings *repository.BookingRepo, c ScheduleCache, events *queue.Publisher, log *zap.SugaredLogger) *BookingHandler {
	return &BookingHandler{Bookings: bookings, Cache: c, Events: events, Log: log}
}

type bookSessionReq struct {
	UserID     int64 `json:"UserId" validate:"required"`
	ScheduleID int64 `json:"ScheduleId" validate:"required"`
}

// BookSession books a single seat on a slot.
func (h *BookingHandler) BookSession(ctx context.Context, raw json.RawMessage) any {
	var req bookSessionReq
	if err := bind(raw, &req); err != nil {
		return Fail(err.Error())
	}
	return h.book(ctx, req.UserID, req.ScheduleID, 1, "no free seats for this session")
}

type createBookingReq struct {
	UserID       int64 `json:"UserId" validate:"required"`
	ScheduleID   int64 `json:"ScheduleId" validate:"required"`
	TicketsCount int   `json:"TicketsCount" validate:"required,min=1"`
}

// CreateBooking books TicketsCount seats on a slot.  The capacity error
// names the available and requested counts so the client can re-render its
// seat picker.
func (h *BookingHandler) CreateBooking(ctx context.Context, raw json.RawMessage) any {
	var req createBookingReq
	if err := bind(raw, &req); err != nil {
		return Fail(err.Error())
	}
	return h.book(ctx, req.UserID, req.ScheduleID, req.TicketsCount, "")
}

// book runs the shared create path.  noSeatsMsg overrides the default
// capacity error text for the single-seat command.
func (h *BookingHandler) book(ctx context.Context, userID, scheduleID int64, seats int, noSeatsMsg string) any {
	bookingID, err := h.Bookings.Book(ctx, userID, scheduleID, seats)
	if err != nil {
		var ins *repository.InsufficientSeatsError
		switch {
		case errors.Is(err, repository.ErrSlotNotFound):
			return Fail("session not found")
		case errors.As(err, &ins):
			if noSeatsMsg != "" {
				return Fail(noSeatsMsg)
			}
			return Fail(fmt.Sprintf("not enough available seats. Available: %d, requested: %d", ins.Available, ins.Requested))
		default:
			h.Log.Errorw("booking failed", "error", err, "user_id", userID, "schedule_id", scheduleID)
			return Fail("booking failed")
		}
	}

	h.Cache.Invalidate(ctx)
	h.Events.BookingCreated(ctx, queue.BookingCreatedEvent{
		BookingID:  bookingID,
		UserID:     userID,
		ScheduleID: scheduleID,
		Seats:      seats,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	})
	h.Log.Infow("booking created", "booking_id", bookingID, "user_id", userID, "schedule_id", scheduleID, "seats", seats)
	return M{"Success": true, "Message": "booking created", "BookingId": bookingID}
}

type cancelBookingReq struct {
	BookingID int64 `json:"BookingId" validate:"required"`
}

// CancelBooking cancels a booking and restores its slot's seat counter.
func (h *BookingHandler) CancelBooking(ctx context.Context, raw json.RawMessage) any {
	var req cancelBookingReq
	if err := bind(raw, &req); err != nil {
		return Fail(err.Error())
	}
	if err := h.Bookings.Cancel(ctx, req.BookingID); err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return Fail("booking not found")
		}
		if errors.Is(err, repository.ErrAlreadyCancelled) {
			return Fail("booking already cancelled")
		}
		h.Log.Errorw("cancel failed", "error", err, "booking_id", req.BookingID)
		return Fail("failed to cancel booking")
	}

	h.Cache.Invalidate(ctx)
	h.Events.BookingCancelled(ctx, queue.BookingCancelledEvent{
		BookingID:   req.BookingID,
		CancelledAt: time.Now().UTC().Format(time.RFC3339),
	})
	h.Log.Infow("booking cancelled", "booking_id", req.BookingID)
	return M{"Success": true, "Message": "booking cancelled"}
}

type createTicketsReq struct {
	BookingID int64 `json:"BookingId" validate:"required"`
	Tickets   []struct {
		Type     string  `json:"Type" validate:"required"`
		Quantity int     `json:"Quantity" validate:"required,min=1"`
		Price    float64 `json:"Price" validate:"min=0"`
	} `json:"Tickets" validate:"required,min=1,dive"`
}

// CreateTickets records the ticket composition of a booking and echoes the
// generated ids back in input order.
func (h *BookingHandler) CreateTickets(ctx context.Context, raw json.RawMessage) any {
	var req createTicketsReq
	if err := bind(raw, &req); err != nil {
		return Fail(err.Error())
	}
	tickets := make([]model.Ticket, 0, len(req.Tickets))
	for _, t := range req.Tickets {
		tickets = append(tickets, model.Ticket{Type: t.Type, Quantity: t.Quantity, Price: t.Price})
	}
	refs, err := h.Bookings.CreateTickets(ctx, req.BookingID, tickets)
	if err != nil {
		h.Log.Errorw("create tickets failed", "error", err, "booking_id", req.BookingID)
		return Fail("failed to create tickets")
	}
	return M{"Success": true, "Tickets": refs}
}

type createRentalReq struct {
	TicketID  int64  `json:"TicketId" validate:"required"`
	SkateSize string `json:"SkateSize" validate:"required"`
	SkateType string `json:"SkateType" validate:"required"`
}

// CreateRental attaches a skate rental to a ticket.
func (h *BookingHandler) CreateRental(ctx context.Context, raw json.RawMessage) any {
	var req createRentalReq
	if err := bind(raw, &req); err != nil {
		return Fail(err.Error())
	}
	id, err := h.Bookings.CreateRental(ctx, req.TicketID, req.SkateSize, req.SkateType)
	if err != nil {
		h.Log.Errorw("create rental failed", "error", err, "ticket_id", req.TicketID)
		return Fail("failed to create rental")
	}
	return M{"Success": true, "RentalId": id}
}

type userBookingsReq struct {
	UserID int64 `json:"UserId" validate:"required"`
}

// GetUserBookings lists a user's bookings joined with slot details.
func (h *BookingHandler) GetUserBookings(ctx context.Context, raw json.RawMessage) any {
	var req userBookingsReq
	if err := bind(raw, &req); err != nil {
		return Fail(err.Error())
	}
	rows, err := h.Bookings.ListByUser(ctx, req.UserID)
	if err != nil {
		h.Log.Errorw("list bookings failed", "error", err, "user_id", req.UserID)
		return Fail("failed to load bookings")
	}
	return M{"Success": true, "Bookings": rows}
}

// GetUserBookingsWithTickets lists a user's bookings with their ticket
// composition, as rendered on the profile screen.
func (h *BookingHandler) GetUserBookingsWithTickets(ctx context.Context, raw json.RawMessage) any {
	var req userBookingsReq
	if err := bind(raw, &req); err != nil {
		return Fail(err.Error())
	}
	rows, err := h.Bookings.ListByUserWithTickets(ctx, req.UserID)
	if err != nil {
		h.Log.Errorw("list bookings failed", "error", err, "user_id", req.UserID)
		return Fail("failed to load bookings")
	}
	return M{"Success": true, "Bookings": rows}
}
