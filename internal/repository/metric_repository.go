package repository

import (
	"context"
	"database/sql"
	"time"
)

type MetricRepo struct{ DB *sql.DB }

func NewMetricRepo(db *sql.DB) *MetricRepo { return &MetricRepo{DB: db} }

// MetricRow is one day of arena figures as sent to the admin dashboard.
type MetricRow struct {
	Date        string  `json:"Date"` // yyyy-MM-dd
	Income      float64 `json:"Income"`
	Attendance  int     `json:"Attendance"`
	Electricity float64 `json:"Electricity"`
	Notes       string  `json:"Notes"`
}

// Latest returns the most recent rows by date descending, capped at limit.
func (r *MetricRepo) Latest(ctx context.Context, limit int) ([]MetricRow, error) {
	const q = `SELECT date, income, attendance, electricity, notes
	           FROM arena_metrics
	           ORDER BY date DESC
	           LIMIT ?`
	rows, err := r.DB.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]MetricRow, 0)
	for rows.Next() {
		var m MetricRow
		var date time.Time
		var notes sql.NullString
		if err := rows.Scan(&date, &m.Income, &m.Attendance, &m.Electricity, &notes); err != nil {
			return nil, err
		}
		m.Date = date.Format("2006-01-02")
		if notes.Valid {
			m.Notes = notes.String
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
