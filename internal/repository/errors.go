// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as the
// command handlers to distinguish between different failure scenarios
// without parsing error strings.
package repository

import (
	"errors"
	"fmt"
)

// ErrEmailExists is returned by UserRepo.Create when another account
// already uses the email, compared case-insensitively.
var ErrEmailExists = errors.New("email already exists")

// ErrSlotNotFound is returned when a schedule slot referenced by a booking
// operation does not exist.
var ErrSlotNotFound = errors.New("schedule slot not found")

// ErrBookingNotFound is returned by cancel when no booking carries the
// requested id.
var ErrBookingNotFound = errors.New("booking not found")

// ErrAlreadyCancelled is returned by cancel when the booking was cancelled
// before.  The seat counter is not touched a second time.
var ErrAlreadyCancelled = errors.New("booking already cancelled")

// InsufficientSeatsError reports a booking attempt that exceeds the slot's
// remaining capacity.  The transaction is rolled back before this error is
// returned, so no state has changed.
type InsufficientSeatsError struct {
	Available int
	Requested int
}

func (e *InsufficientSeatsError) Error() string {
	return fmt.Sprintf("not enough seats: %d available, %d requested", e.Available, e.Requested)
}
