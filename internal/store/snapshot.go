package store

import (
	"accountability-backend/internal/engine"
	"accountability-backend/internal/model"
)

// RecordSnapshots converts stored rows into the immutable snapshots
// the engine consumes.
func RecordSnapshots(records []model.AttendanceRecord) []engine.Record {
	snapshots := make([]engine.Record, 0, len(records))
	for _, r := range records {
		quality := 0
		if r.Quality != nil {
			quality = *r.Quality
		}
		snapshots = append(snapshots, engine.Record{
			Date:    r.Date,
			Status:  engine.Status(r.Status),
			Quality: quality,
			Note:    r.Note,
		})
	}
	return snapshots
}

// ConsequenceSnapshots converts stored consequence rows for the
// escalation state machine.
func ConsequenceSnapshots(consequences []model.Consequence) []engine.Consequence {
	snapshots := make([]engine.Consequence, 0, len(consequences))
	for _, c := range consequences {
		snapshots = append(snapshots, engine.Consequence{
			ID:        c.ID,
			Level:     engine.ConsequenceLevel(c.Level),
			Reason:    c.Reason,
			Active:    c.Active,
			CreatedAt: c.CreatedAt,
			ExpiresAt: c.ExpiresAt,
		})
	}
	return snapshots
}
