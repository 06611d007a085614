package engine

import (
	"math"
	"sort"
	"time"
)

// WeekBucket accumulates one calendar week of records.
type WeekBucket struct {
	WeekStart  time.Time `json:"weekStart"`
	Total      int       `json:"total"`
	Approved   int       `json:"approved"`
	Rejected   int       `json:"rejected"`
	Missed     int       `json:"missed"`
	Rate       int       `json:"rate"`
	AvgQuality *float64  `json:"avgQuality,omitempty"`
}

// Trend compares the two most recent weekly rates.
type Trend struct {
	Direction string `json:"direction"` // improving, declining, stable
	Change    int    `json:"change"`
}

// trendTolerance is the rate delta, in percentage points, within which
// two weeks count as stable.
const trendTolerance = 5

// BucketByWeek groups records into calendar weeks starting on
// weekStartDay and returns the buckets newest-first. Rate is the
// percentage of approved records; AvgQuality is present only when the
// week has at least one rated record.
func BucketByWeek(records []Record, weekStartDay time.Weekday) []WeekBucket {
	type acc struct {
		bucket     WeekBucket
		qualitySum int
		qualityN   int
	}
	byWeek := make(map[time.Time]*acc)
	for _, r := range records {
		ws := weekStart(r.Date, weekStartDay)
		a := byWeek[ws]
		if a == nil {
			a = &acc{bucket: WeekBucket{WeekStart: ws}}
			byWeek[ws] = a
		}
		a.bucket.Total++
		switch r.Status {
		case StatusApproved:
			a.bucket.Approved++
		case StatusRejected:
			a.bucket.Rejected++
		case StatusMissed:
			a.bucket.Missed++
		}
		if r.Quality >= 1 && r.Quality <= 5 {
			a.qualitySum += r.Quality
			a.qualityN++
		}
	}

	buckets := make([]WeekBucket, 0, len(byWeek))
	for _, a := range byWeek {
		b := a.bucket
		b.Rate = int(math.Round(float64(b.Approved) / float64(b.Total) * 100))
		if a.qualityN > 0 {
			avg := math.Round(float64(a.qualitySum)/float64(a.qualityN)*10) / 10
			b.AvgQuality = &avg
		}
		buckets = append(buckets, b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].WeekStart.After(buckets[j].WeekStart)
	})
	return buckets
}

// ComputeTrend compares the most recent week's rate against the week
// before. Deltas within the tolerance count as stable, as do histories
// with fewer than two weeks.
func ComputeTrend(buckets []WeekBucket) Trend {
	if len(buckets) < 2 {
		return Trend{Direction: "stable"}
	}
	change := buckets[0].Rate - buckets[1].Rate
	switch {
	case change > trendTolerance:
		return Trend{Direction: "improving", Change: change}
	case change < -trendTolerance:
		return Trend{Direction: "declining", Change: change}
	default:
		return Trend{Direction: "stable", Change: change}
	}
}

// weekStart truncates a date to the start of its containing week.
func weekStart(t time.Time, startDay time.Weekday) time.Time {
	d := dayOf(t)
	offset := (int(d.Weekday()) - int(startDay) + 7) % 7
	return d.AddDate(0, 0, -offset)
}
