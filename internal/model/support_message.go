package model

import "time"

// SupportMessage is one line of the support chat between a client and the
// arena admins.  IsFromUser distinguishes direction within a single thread
// keyed by UserID.
type SupportMessage struct {
	ID         int64     // support_messages.id
	UserID     int64     // support_messages.user_id
	Message    string    // support_messages.message
	IsFromUser bool      // support_messages.is_from_user
	Date       time.Time // support_messages.date
}
