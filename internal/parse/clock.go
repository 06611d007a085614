// Package parse handles the small input formats the backend accepts
// from admins, currently "HH:MM" time-of-day strings for room windows.
package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var clockRe = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// ClockTime is a time-of-day without a date.
type ClockTime struct {
	Hour   int
	Minute int
}

// Clock parses an "HH:MM" string. Hours run 0-23, minutes 0-59.
func Clock(raw string) (ClockTime, error) {
	s := strings.TrimSpace(raw)
	m := clockRe.FindStringSubmatch(s)
	if m == nil {
		return ClockTime{}, fmt.Errorf("unable to parse clock time: %q", raw)
	}

	hour, err := strconv.Atoi(m[1])
	if err != nil || hour > 23 {
		return ClockTime{}, fmt.Errorf("hour out of range in %q", raw)
	}
	minute, err := strconv.Atoi(m[2])
	if err != nil || minute > 59 {
		return ClockTime{}, fmt.Errorf("minute out of range in %q", raw)
	}

	return ClockTime{Hour: hour, Minute: minute}, nil
}

// On anchors the time-of-day to the calendar day of ref, in ref's
// location.
func (c ClockTime) On(ref time.Time) time.Time {
	y, m, d := ref.Date()
	return time.Date(y, m, d, c.Hour, c.Minute, 0, 0, ref.Location())
}

// String renders the time back in the accepted format.
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}
