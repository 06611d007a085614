package model

import "time"

// Room is a recurring daily activity members check into during its
// submission window. Window bounds are "HH:MM" time-of-day strings in
// the room's timezone; a window whose end is at or before its start
// crosses midnight.
type Room struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:128;not null" json:"name"`
	WindowStart string    `gorm:"size:8" json:"windowStart"`
	WindowEnd   string    `gorm:"size:8" json:"windowEnd"`
	Timezone    string    `gorm:"size:64" json:"timezone"`
	CreatedAt   time.Time `gorm:"not null" json:"-"`
	UpdatedAt   time.Time `gorm:"not null" json:"-"`

	// Associations
	Records []AttendanceRecord `gorm:"foreignKey:RoomID" json:"-"`
}
