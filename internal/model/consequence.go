package model

import "time"

// Consequence is an operator-issued sanction at one of five escalating
// tiers. Consequences are deactivated, never deleted; the full history
// is the audit trail.
type Consequence struct {
	ID         int64      `gorm:"autoIncrement;primaryKey" json:"id"`
	RoomID     int64      `gorm:"not null;index" json:"roomId"`
	UserID     string     `gorm:"size:64;not null;index" json:"userId"`
	Level      string     `gorm:"size:16;not null" json:"level"`
	Reason     string     `gorm:"size:512" json:"reason"`
	Active     bool       `gorm:"not null" json:"active"`
	CreatedAt  time.Time  `gorm:"not null" json:"createdAt"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
	ResolvedAt *time.Time `json:"resolvedAt,omitempty"`

	// Associations
	Room Room `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
