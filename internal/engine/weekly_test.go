package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBucketByWeek(t *testing.T) {
	// 2026-03-09 is a Monday.
	monday := day(2026, time.March, 9)
	prevMonday := monday.AddDate(0, 0, -7)

	records := []Record{
		// Current week: 2 approved (one rated), 1 missed.
		{Date: monday, Status: StatusApproved, Quality: 4},
		{Date: monday.AddDate(0, 0, 1), Status: StatusApproved},
		{Date: monday.AddDate(0, 0, 2), Status: StatusMissed},
		// Previous week: 1 approved, 1 rejected, both rated.
		{Date: prevMonday.AddDate(0, 0, 3), Status: StatusApproved, Quality: 3},
		{Date: prevMonday.AddDate(0, 0, 5), Status: StatusRejected, Quality: 2},
	}

	buckets := BucketByWeek(records, time.Monday)
	assert.Len(t, buckets, 2)

	assert.Equal(t, monday, buckets[0].WeekStart)
	assert.Equal(t, 3, buckets[0].Total)
	assert.Equal(t, 2, buckets[0].Approved)
	assert.Equal(t, 1, buckets[0].Missed)
	assert.Equal(t, 67, buckets[0].Rate)
	assert.NotNil(t, buckets[0].AvgQuality)
	assert.Equal(t, 4.0, *buckets[0].AvgQuality)

	assert.Equal(t, prevMonday, buckets[1].WeekStart)
	assert.Equal(t, 2, buckets[1].Total)
	assert.Equal(t, 1, buckets[1].Approved)
	assert.Equal(t, 1, buckets[1].Rejected)
	assert.Equal(t, 50, buckets[1].Rate)
	assert.Equal(t, 2.5, *buckets[1].AvgQuality)
}

func TestBucketByWeek_WeekStartDay(t *testing.T) {
	// A Sunday record lands in different weeks depending on the
	// configured start day.
	sunday := day(2026, time.March, 8)

	buckets := BucketByWeek([]Record{{Date: sunday, Status: StatusApproved}}, time.Monday)
	assert.Equal(t, day(2026, time.March, 2), buckets[0].WeekStart)

	buckets = BucketByWeek([]Record{{Date: sunday, Status: StatusApproved}}, time.Sunday)
	assert.Equal(t, sunday, buckets[0].WeekStart)
}

func TestBucketByWeek_Empty(t *testing.T) {
	assert.Empty(t, BucketByWeek(nil, time.Monday))
}

func TestBucketByWeek_RoundTrip(t *testing.T) {
	monday := day(2026, time.March, 9)
	records := []Record{
		{Date: monday, Status: StatusApproved, Quality: 5},
		{Date: monday.AddDate(0, 0, 3), Status: StatusMissed},
		{Date: monday.AddDate(0, 0, 6), Status: StatusRejected},
	}

	buckets := BucketByWeek(records, time.Monday)
	assert.Len(t, buckets, 1)

	// Feeding back only the records inside the bucket's boundaries must
	// reproduce the bucket exactly: no double counting, no omission.
	var filtered []Record
	for _, r := range records {
		if !r.Date.Before(buckets[0].WeekStart) && r.Date.Before(buckets[0].WeekStart.AddDate(0, 0, 7)) {
			filtered = append(filtered, r)
		}
	}
	again := BucketByWeek(filtered, time.Monday)
	assert.Equal(t, buckets, again)
}

func TestComputeTrend(t *testing.T) {
	week := func(rate int, weeksAgo int) WeekBucket {
		return WeekBucket{WeekStart: day(2026, time.March, 9).AddDate(0, 0, -7*weeksAgo), Rate: rate}
	}

	testCases := []struct {
		name     string
		buckets  []WeekBucket
		expected Trend
	}{
		{
			name:     "no weeks is stable",
			buckets:  nil,
			expected: Trend{Direction: "stable"},
		},
		{
			name:     "single week is stable",
			buckets:  []WeekBucket{week(80, 0)},
			expected: Trend{Direction: "stable"},
		},
		{
			name:     "drop from 70 to 40 is declining",
			buckets:  []WeekBucket{week(40, 0), week(70, 1)},
			expected: Trend{Direction: "declining", Change: -30},
		},
		{
			name:     "rise from 50 to 75 is improving",
			buckets:  []WeekBucket{week(75, 0), week(50, 1)},
			expected: Trend{Direction: "improving", Change: 25},
		},
		{
			name:     "small delta stays stable",
			buckets:  []WeekBucket{week(72, 0), week(70, 1)},
			expected: Trend{Direction: "stable", Change: 2},
		},
		{
			name:     "tolerance boundary is stable",
			buckets:  []WeekBucket{week(75, 0), week(70, 1)},
			expected: Trend{Direction: "stable", Change: 5},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ComputeTrend(tc.buckets))
		})
	}
}
