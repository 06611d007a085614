package engine

import (
	"sort"
	"time"
)

// StreakState summarizes consecutive-day approval runs.
type StreakState struct {
	// Current is the length of the run ending today or yesterday, 0 if
	// the streak is broken.
	Current int `json:"current"`
	// Longest is the longest run found anywhere in the history.
	Longest int `json:"longest"`
	// LastStreak is the final length of the most recent run; only
	// meaningful when Current is 0.
	LastStreak int `json:"lastStreak"`
}

// ComputeStreak derives streak state from a record history. The input
// may be unordered; only approved records count. A streak is alive as
// long as the most recent approved day is today or yesterday, which
// gives the user a full day of grace before the streak goes cold.
func ComputeStreak(records []Record, today time.Time) StreakState {
	seen := make(map[time.Time]bool)
	var days []time.Time
	for _, r := range records {
		if r.Status != StatusApproved {
			continue
		}
		d := dayOf(r.Date)
		if !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}
	if len(days) == 0 {
		return StreakState{}
	}

	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	// Run lengths in newest-first order.
	var runs []int
	run := 1
	for i := 1; i < len(days); i++ {
		if daysBetween(days[i-1], days[i]) == 1 {
			run++
			continue
		}
		runs = append(runs, run)
		run = 1
	}
	runs = append(runs, run)

	longest := 0
	for _, r := range runs {
		if r > longest {
			longest = r
		}
	}

	state := StreakState{Longest: longest}
	if gap := daysBetween(today, days[0]); gap >= 0 && gap <= 1 {
		state.Current = runs[0]
	} else {
		state.LastStreak = runs[0]
	}
	return state
}
