package model

import "time"

// ArenaMetric is one day of operational figures, read-only for clients.
type ArenaMetric struct {
	Date        time.Time // arena_metrics.date
	Income      float64   // arena_metrics.income
	Attendance  int       // arena_metrics.attendance
	Electricity float64   // arena_metrics.electricity
	Notes       string    // arena_metrics.notes (empty when NULL)
}
