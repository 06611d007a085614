package engine

import (
	"fmt"
	"time"

	"accountability-backend/internal/parse"
)

// TimeWindow is a recurring daily submission window. Bounds are
// "HH:MM" time-of-day strings; a window whose end is at or before its
// start is taken to cross midnight.
type TimeWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Urgency classifies how much time is left in an open window.
type Urgency string

const (
	UrgencyCritical Urgency = "critical" // <= 5 minutes left
	UrgencyHigh     Urgency = "high"     // <= 15 minutes left
	UrgencyMedium   Urgency = "medium"   // <= 30 minutes left
	UrgencyLow      Urgency = "low"
	UrgencyLocked   Urgency = "locked" // window closed
	UrgencyNone     Urgency = "none"   // no usable window configured
)

// WindowState is the evaluation of a TimeWindow at one instant. Raw
// seconds are included alongside the formatted countdown so a display
// caller can re-render every tick without re-deriving anything.
type WindowState struct {
	Enabled   bool      `json:"enabled"`
	Open      bool      `json:"open"`
	Seconds   int       `json:"seconds"`
	Countdown string    `json:"countdown"`
	Label     string    `json:"label"`
	Urgency   Urgency   `json:"urgency"`
	OpensAt   time.Time `json:"opensAt"`
	ClosesAt  time.Time `json:"closesAt"`
}

// EvaluateWindow computes open/closed state and countdown for a window
// at the given instant. Malformed or missing bounds yield a disabled
// state rather than an error.
func EvaluateWindow(w TimeWindow, now time.Time) WindowState {
	startClock, err := parse.Clock(w.Start)
	if err != nil {
		return WindowState{Urgency: UrgencyNone}
	}
	endClock, err := parse.Clock(w.End)
	if err != nil {
		return WindowState{Urgency: UrgencyNone}
	}

	start := startClock.On(now)
	end := endClock.On(now)

	if !end.After(start) {
		// Midnight-crossing window. An instant in the early-morning
		// tail belongs to the window opened the previous day.
		if now.Before(end) {
			start = start.AddDate(0, 0, -1)
		} else {
			end = end.AddDate(0, 0, 1)
		}
	}

	if !now.Before(start) && !now.After(end) {
		remaining := int(end.Sub(now).Seconds())
		return WindowState{
			Enabled:   true,
			Open:      true,
			Seconds:   remaining,
			Countdown: formatDuration(remaining),
			Label:     "closes in",
			Urgency:   openUrgency(remaining),
			OpensAt:   start,
			ClosesAt:  end,
		}
	}

	nextStart := start
	if now.After(end) {
		nextStart = nextStart.AddDate(0, 0, 1)
	}
	until := int(nextStart.Sub(now).Seconds())
	return WindowState{
		Enabled:   true,
		Open:      false,
		Seconds:   until,
		Countdown: formatDuration(until),
		Label:     "opens in",
		Urgency:   UrgencyLocked,
		OpensAt:   nextStart,
		ClosesAt:  end,
	}
}

func openUrgency(remaining int) Urgency {
	switch {
	case remaining <= 300:
		return UrgencyCritical
	case remaining <= 900:
		return UrgencyHigh
	case remaining <= 1800:
		return UrgencyMedium
	default:
		return UrgencyLow
	}
}

// formatDuration renders a second count as a compact countdown string.
func formatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %02dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm %02ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}
