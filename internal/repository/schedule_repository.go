package repository

import (
	"context"
	"database/sql"

	"github.com/icearena/booking-server/internal/model"
)

// ScheduleRepo reads and adjusts the arena schedule.  Slot rows are created
// and edited by external admin tooling; this server only lists them and
// moves the available_seats counter.
type ScheduleRepo struct{ DB *sql.DB }

func NewScheduleRepo(db *sql.DB) *ScheduleRepo { return &ScheduleRepo{DB: db} }

// Upcoming returns all slots dated today or later, ascending by date then
// time slot.  This is the exact ordering the desktop client renders.
func (r *ScheduleRepo) Upcoming(ctx context.Context) ([]model.ScheduleSlot, error) {
	const q = `SELECT id, date, time_slot, break_slot, day_of_week, capacity, available_seats, status
	           FROM schedule
	           WHERE date >= CURDATE()
	           ORDER BY date, time_slot`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	slots := make([]model.ScheduleSlot, 0)
	for rows.Next() {
		var s model.ScheduleSlot
		if err := rows.Scan(&s.ID, &s.Date, &s.TimeSlot, &s.BreakSlot, &s.DayOfWeek,
			&s.Capacity, &s.AvailableSeats, &s.Status); err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

// DecreaseSeats removes count seats from a slot.  The guard in the WHERE
// clause keeps available_seats from going negative under concurrent calls;
// zero affected rows means the slot is missing or too full to satisfy the
// request, which is reported as InsufficientSeatsError.
func (r *ScheduleRepo) DecreaseSeats(ctx context.Context, scheduleID int64, count int) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE schedule SET available_seats = available_seats - ? WHERE id = ? AND available_seats >= ?",
		count, scheduleID, count)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var avail int
		err := r.DB.QueryRowContext(ctx,
			"SELECT available_seats FROM schedule WHERE id = ?", scheduleID).Scan(&avail)
		if err == sql.ErrNoRows {
			return ErrSlotNotFound
		}
		if err != nil {
			return err
		}
		return &InsufficientSeatsError{Available: avail, Requested: count}
	}
	return nil
}

// IncreaseSeats returns count seats to a slot, clamped at capacity so a
// stray increase can never push the counter past the invariant.
func (r *ScheduleRepo) IncreaseSeats(ctx context.Context, scheduleID int64, count int) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE schedule SET available_seats = LEAST(capacity, available_seats + ?) WHERE id = ?",
		count, scheduleID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// MySQL reports zero affected rows both for a missing slot and for
		// a no-op update (already at capacity); only the former is an error.
		var one int
		err := r.DB.QueryRowContext(ctx,
			"SELECT 1 FROM schedule WHERE id = ?", scheduleID).Scan(&one)
		if err == sql.ErrNoRows {
			return ErrSlotNotFound
		}
		return err
	}
	return nil
}
