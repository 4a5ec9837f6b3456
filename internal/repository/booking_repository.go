package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/icearena/booking-server/internal/model"
)

// BookingRepo owns every mutation of the seat inventory.  Each public
// operation runs inside one store transaction: the availability read and
// the seat-counter write are never separated, so correctness under
// concurrent bookings rests on the store's isolation level (read committed
// or stronger) rather than on in-process locks.
type BookingRepo struct{ DB *sql.DB }

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{DB: db} }

// Book reserves seats on a slot for a user and returns the new booking id.
//
// Transaction steps: read available_seats, reject with
// InsufficientSeatsError when the request exceeds it (nothing written),
// insert the booking with status Booked, decrement the counter, commit.
// Any failure mid-way rolls the whole transaction back.
func (r *BookingRepo) Book(ctx context.Context, userID, scheduleID int64, seats int) (int64, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var available int
	err = tx.QueryRowContext(ctx,
		"SELECT available_seats FROM schedule WHERE id = ?", scheduleID).Scan(&available)
	if err == sql.ErrNoRows {
		return 0, ErrSlotNotFound
	}
	if err != nil {
		return 0, err
	}
	if available < seats {
		return 0, &InsufficientSeatsError{Available: available, Requested: seats}
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO bookings (user_id, schedule_id, status, booking_date) VALUES (?, ?, ?, NOW())",
		userID, scheduleID, model.BookingStatusBooked)
	if err != nil {
		return 0, err
	}
	bookingID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE schedule SET available_seats = available_seats - ? WHERE id = ?",
		seats, scheduleID); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return bookingID, nil
}

// Cancel marks a booking Cancelled and returns one seat to its slot.
//
// The restoration is a fixed single seat regardless of how many tickets the
// booking holds; multi-ticket bookings therefore under-restore capacity.
// This mirrors the behaviour the deployed client was built against and must
// not be changed without coordinating a protocol revision (see DESIGN.md).
// The restore is clamped at capacity so cancelling while the counter is
// already full (seats handed back via increase_available_seats, or admin
// edits) cannot trip the schedule's seat check and strand the booking.
func (r *BookingRepo) Cancel(ctx context.Context, bookingID int64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var scheduleID int64
	var status string
	err = tx.QueryRowContext(ctx,
		"SELECT schedule_id, status FROM bookings WHERE id = ?", bookingID).Scan(&scheduleID, &status)
	if err == sql.ErrNoRows {
		return ErrBookingNotFound
	}
	if err != nil {
		return err
	}
	// Cancelling twice must not restore the seat twice.
	if status == model.BookingStatusCancelled {
		return ErrAlreadyCancelled
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE bookings SET status = ? WHERE id = ?",
		model.BookingStatusCancelled, bookingID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE schedule SET available_seats = LEAST(capacity, available_seats + 1) WHERE id = ?",
		scheduleID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// TicketRef echoes back the generated id for one inserted ticket line.
type TicketRef struct {
	TicketID int64 `json:"TicketId"`
	Quantity int   `json:"Quantity"`
}

// CreateTickets inserts the ticket lines composing a booking and returns
// their generated ids in input order.  All lines share one transaction so a
// booking never ends up with a partial composition.
func (r *BookingRepo) CreateTickets(ctx context.Context, bookingID int64, tickets []model.Ticket) ([]TicketRef, error) {
	if len(tickets) == 0 {
		return []TicketRef{}, nil
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	refs := make([]TicketRef, 0, len(tickets))
	for _, t := range tickets {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO tickets (booking_id, type, quantity, price) VALUES (?, ?, ?, ?)",
			bookingID, t.Type, t.Quantity, t.Price)
		if err != nil {
			return nil, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		refs = append(refs, TicketRef{TicketID: id, Quantity: t.Quantity})
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return refs, nil
}

// CreateRental attaches a skate rental to a ticket.
func (r *BookingRepo) CreateRental(ctx context.Context, ticketID int64, skateSize, skateType string) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO rentals (ticket_id, skate_size, skate_type) VALUES (?, ?, ?)",
		ticketID, skateSize, skateType)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// BookingRow is the joined booking+slot shape returned to the client for
// get_user_bookings.  Dates are pre-formatted strings because the desktop
// client parses them with fixed layouts.
type BookingRow struct {
	BookingID   int64  `json:"BookingId"`
	Date        string `json:"Date"`        // yyyy-MM-dd
	TimeSlot    string `json:"TimeSlot"`
	BreakSlot   string `json:"BreakSlot"`
	DayOfWeek   string `json:"DayOfWeek"`
	Status      string `json:"Status"`
	BookingDate string `json:"BookingDate"` // yyyy-MM-dd HH:mm
}

// ListByUser returns the user's bookings joined with their slot details,
// newest slot first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID int64) ([]BookingRow, error) {
	const q = `SELECT b.id, s.date, s.time_slot, s.break_slot, s.day_of_week, b.status, b.booking_date
	           FROM bookings b
	           JOIN schedule s ON b.schedule_id = s.id
	           WHERE b.user_id = ?
	           ORDER BY s.date DESC, s.time_slot`
	rows, err := r.DB.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]BookingRow, 0)
	for rows.Next() {
		var row BookingRow
		var date, bookingDate time.Time
		if err := rows.Scan(&row.BookingID, &date, &row.TimeSlot, &row.BreakSlot,
			&row.DayOfWeek, &row.Status, &bookingDate); err != nil {
			return nil, err
		}
		row.Date = date.Format("2006-01-02")
		row.BookingDate = bookingDate.Format("2006-01-02 15:04")
		out = append(out, row)
	}
	return out, rows.Err()
}

// BookingWithTickets extends BookingRow with the ticket lines, used by the
// profile screen to show per-type quantities and prices.
type BookingWithTickets struct {
	BookingRow
	Tickets []TicketLine `json:"Tickets"`
}

// TicketLine is one ticket row in a BookingWithTickets response.
type TicketLine struct {
	ID       int64   `json:"Id"`
	Type     string  `json:"Type"`
	Quantity int     `json:"Quantity"`
	Price    float64 `json:"Price"`
}

// ListByUserWithTickets returns the user's bookings with their ticket
// composition.  Tickets for all bookings are fetched in a second query and
// stitched in by booking id.
func (r *BookingRepo) ListByUserWithTickets(ctx context.Context, userID int64) ([]BookingWithTickets, error) {
	base, err := r.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]BookingWithTickets, 0, len(base))
	index := make(map[int64]int, len(base))
	for _, b := range base {
		index[b.BookingID] = len(out)
		out = append(out, BookingWithTickets{BookingRow: b, Tickets: []TicketLine{}})
	}
	if len(out) == 0 {
		return out, nil
	}

	const q = `SELECT t.id, t.booking_id, t.type, t.quantity, t.price
	           FROM tickets t
	           JOIN bookings b ON b.id = t.booking_id
	           WHERE b.user_id = ?
	           ORDER BY t.booking_id, t.id`
	rows, err := r.DB.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var line TicketLine
		var bookingID int64
		if err := rows.Scan(&line.ID, &bookingID, &line.Type, &line.Quantity, &line.Price); err != nil {
			return nil, err
		}
		if i, ok := index[bookingID]; ok {
			out[i].Tickets = append(out[i].Tickets, line)
		}
	}
	return out, rows.Err()
}
