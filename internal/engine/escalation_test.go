package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextLevel(t *testing.T) {
	testCases := []struct {
		name         string
		consequences []Consequence
		expected     ConsequenceLevel
	}{
		{
			name:         "no history starts at warning",
			consequences: nil,
			expected:     LevelWarning,
		},
		{
			name: "only resolved history starts over at warning",
			consequences: []Consequence{
				{Level: LevelProbation, Active: false},
			},
			expected: LevelWarning,
		},
		{
			name: "active warning escalates to strike",
			consequences: []Consequence{
				{Level: LevelWarning, Active: true},
			},
			expected: LevelStrike,
		},
		{
			name: "active probation escalates to final warning",
			consequences: []Consequence{
				{Level: LevelProbation, Active: true},
			},
			expected: LevelFinalWarning,
		},
		{
			name: "escalates past the highest active tier",
			consequences: []Consequence{
				{Level: LevelStrike, Active: true},
				{Level: LevelWarning, Active: true},
				{Level: LevelFinalWarning, Active: false},
			},
			expected: LevelProbation,
		},
		{
			name: "saturates at removal",
			consequences: []Consequence{
				{Level: LevelRemoval, Active: true},
			},
			expected: LevelRemoval,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NextLevel(tc.consequences))
		})
	}
}

func TestSummarize(t *testing.T) {
	created := time.Date(2026, time.February, 1, 12, 0, 0, 0, time.UTC)
	consequences := []Consequence{
		{ID: 1, Level: LevelWarning, Active: true, CreatedAt: created},
		{ID: 2, Level: LevelProbation, Active: true, CreatedAt: created.AddDate(0, 0, 3)},
		{ID: 3, Level: LevelStrike, Active: false, CreatedAt: created.AddDate(0, 0, 1)},
	}

	s := Summarize(consequences)
	assert.Len(t, s.Active, 2)
	assert.Len(t, s.Resolved, 1)
	assert.NotNil(t, s.Highest)
	assert.Equal(t, int64(2), s.Highest.ID)
	assert.Equal(t, LevelProbation, s.Highest.Level)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.Empty(t, s.Active)
	assert.Empty(t, s.Resolved)
	assert.Nil(t, s.Highest)
}

func TestValidLevel(t *testing.T) {
	assert.True(t, ValidLevel("warning"))
	assert.True(t, ValidLevel("removal"))
	assert.False(t, ValidLevel("ban"))
	assert.False(t, ValidLevel(""))
}
