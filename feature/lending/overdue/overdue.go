// Package overdue holds the pure date arithmetic for overdue loans.
//
// Every function is a pure function of its arguments. There is no state and
// no clock access, so the package is safe to call concurrently and trivial
// to test: callers pass the reference time explicitly.
package overdue

import "time"

// IsOverdue reports whether a loan with the given due date is overdue as of
// now. A returned loan (non-nil returnAt) is never overdue.
func IsOverdue(dueAt time.Time, returnAt *time.Time, now time.Time) bool {
	if returnAt != nil {
		return false
	}
	return now.After(dueAt)
}

// Days returns the number of whole days the loan is overdue, or 0 if it is
// not overdue.
func Days(dueAt time.Time, returnAt *time.Time, now time.Time) int {
	if !IsOverdue(dueAt, returnAt, now) {
		return 0
	}
	return int(now.Sub(dueAt) / (24 * time.Hour))
}

// Fine computes the accrued fine for the given number of overdue days.
func Fine(daysOverdue int, ratePerDay float64) float64 {
	if daysOverdue <= 0 {
		return 0
	}
	return float64(daysOverdue) * ratePerDay
}
