// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

// BookingCreatedEvent is published after a booking transaction commits.
// It carries enough for downstream consumers to log or notify without
// querying the primary database.
type BookingCreatedEvent struct {
	BookingID  int64  `json:"booking_id"`
	UserID     int64  `json:"user_id"`
	ScheduleID int64  `json:"schedule_id"`
	Seats      int    `json:"seats"`
	CreatedAt  string `json:"created_at"`
}

// BookingCancelledEvent is published after a cancellation commits.
type BookingCancelledEvent struct {
	BookingID   int64  `json:"booking_id"`
	CancelledAt string `json:"cancelled_at"`
}
