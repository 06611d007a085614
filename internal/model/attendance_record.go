package model

import "time"

// Record statuses. A submission enters as pending_review and is moved
// to approved or rejected by a reviewer; missed records are created
// when a window closes without a submission.
const (
	RecordApproved      = "approved"
	RecordRejected      = "rejected"
	RecordMissed        = "missed"
	RecordPendingReview = "pending_review"
)

// AttendanceRecord is one entry per room, user and calendar day.
// Re-submission for the same day upserts the existing row rather than
// adding a second one.
type AttendanceRecord struct {
	ID        int64     `gorm:"autoIncrement;primaryKey" json:"id"`
	RoomID    int64     `gorm:"not null;uniqueIndex:idx_room_user_date" json:"roomId"`
	UserID    string    `gorm:"size:64;not null;uniqueIndex:idx_room_user_date" json:"userId"`
	Date      time.Time `gorm:"not null;uniqueIndex:idx_room_user_date" json:"date"`
	Status    string    `gorm:"size:16;not null" json:"status"`
	Quality   *int      `json:"qualityRating,omitempty"`
	Note      string    `gorm:"size:2048" json:"note,omitempty"`
	CreatedAt time.Time `gorm:"not null" json:"-"`
	UpdatedAt time.Time `gorm:"not null" json:"-"`

	// Associations
	Room Room `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
