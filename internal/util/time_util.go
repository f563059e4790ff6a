package util

import (
	"time"
)

func NewDate(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// MonthKey collapses a date to its calendar month, for grouping
// daily bars into months.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}
