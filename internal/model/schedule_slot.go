package model

import "time"

// ScheduleSlot is one bookable interval on the arena schedule.  The pair
// (AvailableSeats, Capacity) carries the seat-inventory invariant:
// 0 <= AvailableSeats <= Capacity at all times.  Only the booking
// transaction manager mutates AvailableSeats.
type ScheduleSlot struct {
	ID             int64     // schedule.id
	Date           time.Time // schedule.date
	TimeSlot       string    // schedule.time_slot (e.g. "10:00-11:30")
	BreakSlot      string    // schedule.break_slot
	DayOfWeek      string    // schedule.day_of_week
	Capacity       int       // schedule.capacity
	AvailableSeats int       // schedule.available_seats
	Status         string    // schedule.status
}
