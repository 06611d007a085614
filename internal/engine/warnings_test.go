package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func findWarning(warnings []Warning, trigger string) *Warning {
	for i := range warnings {
		if warnings[i].Trigger == trigger {
			return &warnings[i]
		}
	}
	return nil
}

func TestDetectWarnings_ConsecutiveMisses(t *testing.T) {
	now := day(2026, time.March, 10)
	records := []Record{
		{Date: now.AddDate(0, 0, -1), Status: StatusMissed},
		{Date: now.AddDate(0, 0, -2), Status: StatusMissed},
		{Date: now.AddDate(0, 0, -3), Status: StatusMissed},
	}

	warnings := DetectWarnings(records, now, DefaultWarningThresholds())
	w := findWarning(warnings, TriggerConsecutiveMisses)
	assert.NotNil(t, w)
	assert.Equal(t, SeverityWarning, w.Severity)
	assert.Equal(t, float64(3), w.Value)

	// An approved record at the head resets the run.
	records = append([]Record{{Date: now, Status: StatusApproved}}, records...)
	warnings = DetectWarnings(records, now, DefaultWarningThresholds())
	assert.Nil(t, findWarning(warnings, TriggerConsecutiveMisses))
}

func TestDetectWarnings_LowAttendanceRate(t *testing.T) {
	now := day(2026, time.March, 10)

	// 2 approved out of 6 in the trailing window: 33%.
	var records []Record
	for i := 0; i < 6; i++ {
		status := StatusRejected
		if i < 2 {
			status = StatusApproved
		}
		records = append(records, Record{Date: now.AddDate(0, 0, -i), Status: status})
	}

	warnings := DetectWarnings(records, now, DefaultWarningThresholds())
	w := findWarning(warnings, TriggerLowAttendanceRate)
	assert.NotNil(t, w)
	assert.InDelta(t, 2.0/6.0, w.Value, 0.0001)

	// Too few records in the window: no signal.
	warnings = DetectWarnings(records[:4], now, DefaultWarningThresholds())
	assert.Nil(t, findWarning(warnings, TriggerLowAttendanceRate))

	// Records older than the window do not count against the rate.
	old := Record{Date: now.AddDate(0, 0, -20), Status: StatusRejected}
	warnings = DetectWarnings(append(records[:4], old), now, DefaultWarningThresholds())
	assert.Nil(t, findWarning(warnings, TriggerLowAttendanceRate))
}

func TestDetectWarnings_RepeatedRejections(t *testing.T) {
	now := day(2026, time.March, 10)
	records := []Record{
		{Date: now, Status: StatusRejected},
		{Date: now.AddDate(0, 0, -1), Status: StatusApproved},
		{Date: now.AddDate(0, 0, -2), Status: StatusRejected},
		{Date: now.AddDate(0, 0, -3), Status: StatusApproved},
		{Date: now.AddDate(0, 0, -4), Status: StatusRejected},
	}

	warnings := DetectWarnings(records, now, DefaultWarningThresholds())
	w := findWarning(warnings, TriggerRepeatedRejections)
	assert.NotNil(t, w)
	assert.Equal(t, SeverityStrike, w.Severity)
	assert.Equal(t, float64(3), w.Value)

	// A rejection outside the 7-record window does not count.
	records[0].Status = StatusApproved
	records = append(records,
		Record{Date: now.AddDate(0, 0, -5), Status: StatusApproved},
		Record{Date: now.AddDate(0, 0, -6), Status: StatusApproved},
		Record{Date: now.AddDate(0, 0, -7), Status: StatusRejected},
	)
	warnings = DetectWarnings(records, now, DefaultWarningThresholds())
	assert.Nil(t, findWarning(warnings, TriggerRepeatedRejections))
}

func TestDetectWarnings_LowQualityAverage(t *testing.T) {
	now := day(2026, time.March, 10)
	records := []Record{
		{Date: now, Status: StatusApproved, Quality: 1},
		{Date: now.AddDate(0, 0, -1), Status: StatusApproved, Quality: 2},
		{Date: now.AddDate(0, 0, -2), Status: StatusApproved}, // unrated
	}

	warnings := DetectWarnings(records, now, DefaultWarningThresholds())
	w := findWarning(warnings, TriggerLowQualityAverage)
	assert.NotNil(t, w)
	assert.InDelta(t, 1.5, w.Value, 0.0001)

	// No rated records in the window means no average and no warning.
	warnings = DetectWarnings(records[2:], now, DefaultWarningThresholds())
	assert.Nil(t, findWarning(warnings, TriggerLowQualityAverage))
}

func TestDetectWarnings_Inactivity(t *testing.T) {
	now := day(2026, time.March, 10)

	records := []Record{
		{Date: now.AddDate(0, 0, -1), Status: StatusMissed},
		{Date: now.AddDate(0, 0, -8), Status: StatusApproved},
	}
	warnings := DetectWarnings(records, now, DefaultWarningThresholds())
	w := findWarning(warnings, TriggerInactivity)
	assert.NotNil(t, w)
	assert.Equal(t, SeverityStrike, w.Severity)
	assert.Equal(t, float64(8), w.Value)

	// Recent non-missed activity clears the rule.
	records = append(records, Record{Date: now.AddDate(0, 0, -2), Status: StatusRejected})
	warnings = DetectWarnings(records, now, DefaultWarningThresholds())
	assert.Nil(t, findWarning(warnings, TriggerInactivity))
}

func TestDetectWarnings_EmptyAndIndependent(t *testing.T) {
	now := day(2026, time.March, 10)

	assert.Empty(t, DetectWarnings(nil, now, DefaultWarningThresholds()))

	// A history bad enough to trip several rules at once.
	var records []Record
	for i := 0; i < 3; i++ {
		records = append(records, Record{Date: now.AddDate(0, 0, -i), Status: StatusMissed})
	}
	for i := 3; i < 6; i++ {
		records = append(records, Record{Date: now.AddDate(0, 0, -i), Status: StatusRejected, Quality: 1})
	}

	warnings := DetectWarnings(records, now, DefaultWarningThresholds())
	assert.NotNil(t, findWarning(warnings, TriggerConsecutiveMisses))
	assert.NotNil(t, findWarning(warnings, TriggerLowAttendanceRate))
	assert.NotNil(t, findWarning(warnings, TriggerRepeatedRejections))
	assert.NotNil(t, findWarning(warnings, TriggerLowQualityAverage))
	assert.Len(t, warnings, 4)
}
