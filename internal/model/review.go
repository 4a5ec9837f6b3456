package model

import "time"

// Review is a user's rating of the arena.  Reviews have an independent
// lifecycle: created once, approved by default, never edited through the
// command server.
type Review struct {
	ID         int64     // reviews.id
	UserID     int64     // reviews.user_id
	Rating     int       // reviews.rating (1..5)
	Text       string    // reviews.text
	Date       time.Time // reviews.date
	IsApproved bool      // reviews.is_approved
}
