// Package engine contains the accountability computations: streak
// derivation, discipline scoring, submission-window evaluation, warning
// detection, consequence escalation and weekly aggregation. Every
// function here is a pure transformation over snapshot inputs; callers
// own persistence and decide when to re-evaluate.
package engine

import "time"

// Status is the review state of a single attendance record.
type Status string

const (
	StatusApproved      Status = "approved"
	StatusRejected      Status = "rejected"
	StatusMissed        Status = "missed"
	StatusPendingReview Status = "pending_review"
)

// Record is a snapshot of one attendance record for a room+user on one
// calendar day. Quality is 0 when no rating was given (valid ratings
// are 1..5).
type Record struct {
	Date    time.Time
	Status  Status
	Quality int
	Note    string
}

// dayOf normalizes an instant to its calendar day, in UTC, so that day
// arithmetic is a plain division by 24h.
func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the number of whole calendar days from b to a.
func daysBetween(a, b time.Time) int {
	return int(dayOf(a).Sub(dayOf(b)) / (24 * time.Hour))
}
