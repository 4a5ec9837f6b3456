package model

import "time"

// Booking is a user's reservation against one schedule slot.  Its tickets
// describe the composition (adult/child/senior counts and prices).
//
// Status lifecycle: Booked -> Cancelled via cancel_booking; Confirmed and
// Completed transitions are driven by external admin tooling.
type Booking struct {
	ID          int64     // bookings.id
	UserID      int64     // bookings.user_id
	ScheduleID  int64     // bookings.schedule_id
	Status      string    // bookings.status
	BookingDate time.Time // bookings.booking_date
	Tickets     []Ticket  // tickets rows for this booking
}

// Booking statuses stored in bookings.status.
const (
	BookingStatusBooked    = "Booked"
	BookingStatusConfirmed = "Confirmed"
	BookingStatusCancelled = "Cancelled"
	BookingStatusCompleted = "Completed"
)

// Ticket is a priced line item within a booking.
type Ticket struct {
	ID        int64   // tickets.id
	BookingID int64   // tickets.booking_id
	Type      string  // tickets.type ("Adult", "Child", "Senior")
	Quantity  int     // tickets.quantity
	Price     float64 // tickets.price
}

// Rental records skate rental attached to a single ticket.
type Rental struct {
	ID        int64  // rentals.id
	TicketID  int64  // rentals.ticket_id
	SkateSize string // rentals.skate_size
	SkateType string // rentals.skate_type
}
