package repository

import (
	"context"
	"database/sql"
	"time"
)

// SupportRepo stores the support chat.  A thread is the set of messages
// sharing one user_id; is_from_user separates the client's lines from the
// admins' replies.
type SupportRepo struct{ DB *sql.DB }

func NewSupportRepo(db *sql.DB) *SupportRepo { return &SupportRepo{DB: db} }

// MessageRow is one chat line as sent to either side of the conversation.
type MessageRow struct {
	ID         int64  `json:"Id"`
	Message    string `json:"Message"`
	IsFromUser bool   `json:"IsFromUser"`
	Date       string `json:"Date"`      // yyyy-MM-dd HH:mm
	Timestamp  string `json:"Timestamp"` // HH:mm, what the client chat bubble shows
}

// ChatUser identifies a client with at least one support message.
type ChatUser struct {
	ID    int64  `json:"Id"`
	Email string `json:"Email"`
}

// Insert appends one message to a thread.
func (r *SupportRepo) Insert(ctx context.Context, userID int64, message string, fromUser bool) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO support_messages (user_id, message, is_from_user, date) VALUES (?, ?, ?, NOW())",
		userID, message, fromUser)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Thread returns a user's full conversation, oldest first.
func (r *SupportRepo) Thread(ctx context.Context, userID int64) ([]MessageRow, error) {
	const q = `SELECT id, message, is_from_user, date
	           FROM support_messages
	           WHERE user_id = ?
	           ORDER BY date, id`
	rows, err := r.DB.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]MessageRow, 0)
	for rows.Next() {
		var m MessageRow
		var date time.Time
		if err := rows.Scan(&m.ID, &m.Message, &m.IsFromUser, &date); err != nil {
			return nil, err
		}
		m.Date = date.Format("2006-01-02 15:04")
		m.Timestamp = date.Format("15:04")
		out = append(out, m)
	}
	return out, rows.Err()
}

// ActiveUsers lists clients with an open thread, most recent activity first.
func (r *SupportRepo) ActiveUsers(ctx context.Context) ([]ChatUser, error) {
	const q = `SELECT u.id, u.email
	           FROM users u
	           JOIN support_messages m ON m.user_id = u.id
	           GROUP BY u.id, u.email
	           ORDER BY MAX(m.date) DESC`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ChatUser, 0)
	for rows.Next() {
		var c ChatUser
		if err := rows.Scan(&c.ID, &c.Email); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
