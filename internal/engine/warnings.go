package engine

import (
	"fmt"
	"sort"
	"time"
)

// Severity grades a detected warning.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityStrike  Severity = "strike"
)

// Warning trigger identifiers, one per detection rule.
const (
	TriggerConsecutiveMisses  = "consecutive_misses"
	TriggerLowAttendanceRate  = "low_attendance_rate"
	TriggerRepeatedRejections = "repeated_rejections"
	TriggerLowQualityAverage  = "low_quality_average"
	TriggerInactivity         = "prolonged_inactivity"
)

// Warning is a derived behavioral flag. Warnings are recomputed on
// every evaluation and never stored by the engine; they inform the
// operator who decides whether to escalate.
type Warning struct {
	Trigger  string   `json:"triggerId"`
	Severity Severity `json:"severity"`
	Value    float64  `json:"value"`
	Message  string   `json:"message"`
}

// WarningThresholds holds the detection rule boundaries. Values are
// fixed per deployment, not per room.
type WarningThresholds struct {
	// ConsecutiveMisses fires on a leading run of at least this many
	// missed records.
	ConsecutiveMisses int `yaml:"consecutive_misses"`
	// AttendanceWindowDays is the trailing window for the attendance
	// rate and quality average rules.
	AttendanceWindowDays int `yaml:"attendance_window_days"`
	// AttendanceMinRecords is the minimum sample size before the
	// attendance rate rule applies.
	AttendanceMinRecords int `yaml:"attendance_min_records"`
	// AttendanceMinRate is the approval rate below which the rule fires.
	AttendanceMinRate float64 `yaml:"attendance_min_rate"`
	// RejectionWindow is how many recent records the rejection rule
	// inspects.
	RejectionWindow int `yaml:"rejection_window"`
	// RejectionCount is the rejection count that fires the rule.
	RejectionCount int `yaml:"rejection_count"`
	// QualityFloor is the quality average below which the rule fires.
	QualityFloor float64 `yaml:"quality_floor"`
	// InactivityDays is the day count since the last non-missed record
	// that fires the inactivity rule.
	InactivityDays int `yaml:"inactivity_days"`
}

// DefaultWarningThresholds returns the standard rule boundaries.
func DefaultWarningThresholds() WarningThresholds {
	return WarningThresholds{
		ConsecutiveMisses:    3,
		AttendanceWindowDays: 14,
		AttendanceMinRecords: 5,
		AttendanceMinRate:    0.5,
		RejectionWindow:      7,
		RejectionCount:       3,
		QualityFloor:         2,
		InactivityDays:       7,
	}
}

// DetectWarnings runs the five detection rules against a record
// history. The rules are independent; a single run can return zero to
// five warnings.
func DetectWarnings(records []Record, now time.Time, th WarningThresholds) []Warning {
	sorted := make([]Record, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.After(sorted[j].Date) })

	var warnings []Warning
	if w, ok := detectConsecutiveMisses(sorted, th); ok {
		warnings = append(warnings, w)
	}
	if w, ok := detectLowAttendance(sorted, now, th); ok {
		warnings = append(warnings, w)
	}
	if w, ok := detectRepeatedRejections(sorted, th); ok {
		warnings = append(warnings, w)
	}
	if w, ok := detectLowQuality(sorted, now, th); ok {
		warnings = append(warnings, w)
	}
	if w, ok := detectInactivity(sorted, now, th); ok {
		warnings = append(warnings, w)
	}
	return warnings
}

func detectConsecutiveMisses(sorted []Record, th WarningThresholds) (Warning, bool) {
	run := 0
	for _, r := range sorted {
		if r.Status != StatusMissed {
			break
		}
		run++
	}
	if run < th.ConsecutiveMisses {
		return Warning{}, false
	}
	return Warning{
		Trigger:  TriggerConsecutiveMisses,
		Severity: SeverityWarning,
		Value:    float64(run),
		Message:  fmt.Sprintf("%d consecutive missed check-ins", run),
	}, true
}

func detectLowAttendance(sorted []Record, now time.Time, th WarningThresholds) (Warning, bool) {
	approved, total := 0, 0
	for _, r := range sorted {
		if daysBetween(now, r.Date) > th.AttendanceWindowDays {
			break
		}
		total++
		if r.Status == StatusApproved {
			approved++
		}
	}
	if total < th.AttendanceMinRecords {
		return Warning{}, false
	}
	rate := float64(approved) / float64(total)
	if rate >= th.AttendanceMinRate {
		return Warning{}, false
	}
	return Warning{
		Trigger:  TriggerLowAttendanceRate,
		Severity: SeverityWarning,
		Value:    rate,
		Message:  fmt.Sprintf("attendance rate %.0f%% over the last %d days", rate*100, th.AttendanceWindowDays),
	}, true
}

func detectRepeatedRejections(sorted []Record, th WarningThresholds) (Warning, bool) {
	rejected := 0
	for i, r := range sorted {
		if i >= th.RejectionWindow {
			break
		}
		if r.Status == StatusRejected {
			rejected++
		}
	}
	if rejected < th.RejectionCount {
		return Warning{}, false
	}
	return Warning{
		Trigger:  TriggerRepeatedRejections,
		Severity: SeverityStrike,
		Value:    float64(rejected),
		Message:  fmt.Sprintf("%d rejected submissions among the last %d records", rejected, th.RejectionWindow),
	}, true
}

func detectLowQuality(sorted []Record, now time.Time, th WarningThresholds) (Warning, bool) {
	var recent []Record
	for _, r := range sorted {
		if daysBetween(now, r.Date) > th.AttendanceWindowDays {
			break
		}
		recent = append(recent, r)
	}
	avg, ok := AverageQuality(recent)
	if !ok || avg >= th.QualityFloor {
		return Warning{}, false
	}
	return Warning{
		Trigger:  TriggerLowQualityAverage,
		Severity: SeverityWarning,
		Value:    avg,
		Message:  fmt.Sprintf("average proof quality %.1f over the last %d days", avg, th.AttendanceWindowDays),
	}, true
}

func detectInactivity(sorted []Record, now time.Time, th WarningThresholds) (Warning, bool) {
	for _, r := range sorted {
		if r.Status == StatusMissed {
			continue
		}
		days := daysBetween(now, r.Date)
		if days < th.InactivityDays {
			return Warning{}, false
		}
		return Warning{
			Trigger:  TriggerInactivity,
			Severity: SeverityStrike,
			Value:    float64(days),
			Message:  fmt.Sprintf("no activity for %d days", days),
		}, true
	}
	// All-missed or empty histories carry no activity signal; the
	// consecutive-miss rule covers the former.
	return Warning{}, false
}
