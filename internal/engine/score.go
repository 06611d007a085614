package engine

// Point values per record. A missed record with a note long enough to
// count as a reflection earns the reflection credit on top of the miss
// penalty, it does not replace it.
const (
	pointsApproved   = 10
	pointsMissed     = -15
	pointsRejected   = -5
	pointsReflection = 5
	streakBonusRate  = 2

	// ReflectionMinNoteLen is the minimum note length for a missed
	// record to count as a reflection.
	ReflectionMinNoteLen = 20
)

// PointsBreakdown itemizes the contributions to a discipline total so
// callers can render an explanation. Negative entries stay negative
// here; only the total is clamped.
type PointsBreakdown struct {
	Approved    int `json:"approved"`
	StreakBonus int `json:"streakBonus"`
	Missed      int `json:"missed"`
	Rejected    int `json:"rejected"`
	Reflections int `json:"reflections"`
}

// Discipline is a bounded point total with its level.
type Discipline struct {
	Total     int             `json:"total"`
	Breakdown PointsBreakdown `json:"breakdown"`
	Level     int             `json:"level"`
	Title     string          `json:"title"`
}

// disciplineLevels maps minimum totals to levels, highest first.
var disciplineLevels = []struct {
	Min   int
	Level int
	Title string
}{
	{500, 5, "Iron Will"},
	{300, 4, "Disciplined"},
	{150, 3, "Committed"},
	{50, 2, "Consistent"},
	{10, 1, "Beginner"},
	{0, 0, "Unranked"},
}

// ComputeDiscipline converts a record history and the caller-supplied
// current streak into a point total. The streak bonus is recomputed
// from scratch each call, never compounded.
func ComputeDiscipline(records []Record, currentStreak int) Discipline {
	if currentStreak < 0 {
		currentStreak = 0
	}
	var b PointsBreakdown
	for _, r := range records {
		switch r.Status {
		case StatusApproved:
			b.Approved += pointsApproved
		case StatusMissed:
			b.Missed += pointsMissed
			if len(r.Note) >= ReflectionMinNoteLen {
				b.Reflections += pointsReflection
			}
		case StatusRejected:
			b.Rejected += pointsRejected
		}
	}
	b.StreakBonus = currentStreak * streakBonusRate

	total := b.Approved + b.StreakBonus + b.Missed + b.Rejected + b.Reflections
	if total < 0 {
		total = 0
	}

	d := Discipline{Total: total, Breakdown: b}
	for _, lvl := range disciplineLevels {
		if total >= lvl.Min {
			d.Level = lvl.Level
			d.Title = lvl.Title
			break
		}
	}
	return d
}

// AverageQuality returns the mean quality rating over records that
// carry one. The second return is false when no record has a rating.
func AverageQuality(records []Record) (float64, bool) {
	sum, n := 0, 0
	for _, r := range records {
		if r.Quality >= 1 && r.Quality <= 5 {
			sum += r.Quality
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return float64(sum) / float64(n), true
}
