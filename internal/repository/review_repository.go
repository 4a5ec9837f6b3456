package repository

import (
	"context"
	"database/sql"
	"time"
)

type ReviewRepo struct{ DB *sql.DB }

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{DB: db} }

// ReviewRow is a review as sent to clients, with the author's email joined
// in and the date pre-formatted.
type ReviewRow struct {
	ID         int64  `json:"Id"`
	UserEmail  string `json:"UserEmail,omitempty"`
	UserID     int64  `json:"UserId,omitempty"`
	Rating     int    `json:"Rating"`
	Text       string `json:"Text"`
	Date       string `json:"Date"` // yyyy-MM-dd HH:mm
	IsApproved bool   `json:"IsApproved"`
}

// Approved returns all approved reviews with author emails, newest first.
func (r *ReviewRepo) Approved(ctx context.Context) ([]ReviewRow, error) {
	const q = `SELECT r.id, u.email, r.rating, r.text, r.date, r.is_approved
	           FROM reviews r
	           JOIN users u ON r.user_id = u.id
	           WHERE r.is_approved = 1
	           ORDER BY r.date DESC`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ReviewRow, 0)
	for rows.Next() {
		var rv ReviewRow
		var date time.Time
		if err := rows.Scan(&rv.ID, &rv.UserEmail, &rv.Rating, &rv.Text, &date, &rv.IsApproved); err != nil {
			return nil, err
		}
		rv.Date = date.Format("2006-01-02 15:04")
		out = append(out, rv)
	}
	return out, rows.Err()
}

// ByUser returns one user's reviews, approved or not, newest first.
func (r *ReviewRepo) ByUser(ctx context.Context, userID int64) ([]ReviewRow, error) {
	const q = `SELECT id, user_id, rating, text, date, is_approved
	           FROM reviews
	           WHERE user_id = ?
	           ORDER BY date DESC`
	rows, err := r.DB.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ReviewRow, 0)
	for rows.Next() {
		var rv ReviewRow
		var date time.Time
		if err := rows.Scan(&rv.ID, &rv.UserID, &rv.Rating, &rv.Text, &date, &rv.IsApproved); err != nil {
			return nil, err
		}
		rv.Date = date.Format("2006-01-02 15:04")
		out = append(out, rv)
	}
	return out, rows.Err()
}

// Create inserts a review and returns its id.  Reviews are auto-approved;
// moderation happens through external admin tooling.
func (r *ReviewRepo) Create(ctx context.Context, userID int64, rating int, text string) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO reviews (user_id, rating, text, date, is_approved) VALUES (?, ?, ?, NOW(), 1)",
		userID, rating, text)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
