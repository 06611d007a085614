package engine

import "time"

// ConsequenceLevel is one tier of the escalation scale. The five tiers
// are totally ordered from warning up to removal.
type ConsequenceLevel string

const (
	LevelWarning      ConsequenceLevel = "warning"
	LevelStrike       ConsequenceLevel = "strike"
	LevelProbation    ConsequenceLevel = "probation"
	LevelFinalWarning ConsequenceLevel = "final_warning"
	LevelRemoval      ConsequenceLevel = "removal"
)

// levelOrder lists tiers from least to most severe.
var levelOrder = []ConsequenceLevel{
	LevelWarning,
	LevelStrike,
	LevelProbation,
	LevelFinalWarning,
	LevelRemoval,
}

// ValidLevel reports whether s names one of the five tiers.
func ValidLevel(s string) bool {
	for _, l := range levelOrder {
		if string(l) == s {
			return true
		}
	}
	return false
}

func levelIndex(l ConsequenceLevel) int {
	for i, v := range levelOrder {
		if v == l {
			return i
		}
	}
	return -1
}

// Consequence is a snapshot of an operator-issued sanction. The engine
// only reads these; issuing and resolving are operator actions.
type Consequence struct {
	ID        int64            `json:"id"`
	Level     ConsequenceLevel `json:"level"`
	Reason    string           `json:"reason"`
	Active    bool             `json:"active"`
	CreatedAt time.Time        `json:"createdAt"`
	ExpiresAt *time.Time       `json:"expiresAt,omitempty"`
}

// NextLevel suggests the tier for the next consequence: one tier past
// the highest active one, saturating at removal. With no active
// consequence the scale starts over at warning. Advisory only.
func NextLevel(consequences []Consequence) ConsequenceLevel {
	highest := -1
	for _, c := range consequences {
		if !c.Active {
			continue
		}
		if i := levelIndex(c.Level); i > highest {
			highest = i
		}
	}
	if highest < 0 {
		return levelOrder[0]
	}
	next := highest + 1
	if next >= len(levelOrder) {
		next = len(levelOrder) - 1
	}
	return levelOrder[next]
}

// EscalationSummary partitions a consequence history and highlights
// the most severe active entry.
type EscalationSummary struct {
	Active   []Consequence `json:"active"`
	Resolved []Consequence `json:"resolved"`
	Highest  *Consequence  `json:"highest,omitempty"`
}

// Summarize splits consequences into active and resolved and reports
// the single highest-severity active one, if any.
func Summarize(consequences []Consequence) EscalationSummary {
	var s EscalationSummary
	for _, c := range consequences {
		if c.Active {
			s.Active = append(s.Active, c)
		} else {
			s.Resolved = append(s.Resolved, c)
		}
	}
	for i := range s.Active {
		if s.Highest == nil || levelIndex(s.Active[i].Level) > levelIndex(s.Highest.Level) {
			s.Highest = &s.Active[i]
		}
	}
	return s
}
