package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"accountability-backend/internal/model"
)

// Store defines the persistence operations the engine's collaborators
// need: point-in-time record and consequence histories per room+user,
// upsert-by-date submissions, and the consequence lifecycle.
type Store interface {
	DB() *gorm.DB

	ListRooms(ctx context.Context) ([]model.Room, error)
	GetRoom(ctx context.Context, id int64) (model.Room, error)

	ListRecords(ctx context.Context, roomID int64, userID string) ([]model.AttendanceRecord, error)
	UpsertRecord(ctx context.Context, record model.AttendanceRecord) error
	ReviewRecord(ctx context.Context, roomID int64, userID string, date time.Time, status string, quality *int) error
	MarkMissed(ctx context.Context, roomID int64, day time.Time) (int64, error)

	ListConsequences(ctx context.Context, roomID int64, userID string) ([]model.Consequence, error)
	CreateConsequence(ctx context.Context, c *model.Consequence) error
	ResolveConsequence(ctx context.Context, id int64, at time.Time) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

func (s *gormStore) ListRooms(ctx context.Context) ([]model.Room, error) {
	var rooms []model.Room
	if err := s.db.WithContext(ctx).Order("id").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

func (s *gormStore) GetRoom(ctx context.Context, id int64) (model.Room, error) {
	var room model.Room
	if err := s.db.WithContext(ctx).First(&room, id).Error; err != nil {
		return model.Room{}, err
	}
	return room, nil
}

// ListRecords returns the full record history for a room+user, newest
// first. Callers feed the result straight into the engine.
func (s *gormStore) ListRecords(ctx context.Context, roomID int64, userID string) ([]model.AttendanceRecord, error) {
	var records []model.AttendanceRecord
	err := s.db.WithContext(ctx).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Order("date DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list records for room %d user %s: %w", roomID, userID, err)
	}
	return records, nil
}

// UpsertRecord writes a record, replacing any existing row for the
// same room, user and calendar day. Re-submission supersedes the prior
// entry rather than duplicating it.
func (s *gormStore) UpsertRecord(ctx context.Context, record model.AttendanceRecord) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "room_id"}, {Name: "user_id"}, {Name: "date"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"status", "quality", "note", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("failed to upsert record for room %d user %s: %w", record.RoomID, record.UserID, err)
	}
	return nil
}

// ReviewRecord transitions a pending record to approved or rejected,
// optionally attaching a quality rating. Only pending records can be
// reviewed; anything else leaves the rows untouched and reports
// gorm.ErrRecordNotFound.
func (s *gormStore) ReviewRecord(ctx context.Context, roomID int64, userID string, date time.Time, status string, quality *int) error {
	result := s.db.WithContext(ctx).
		Model(&model.AttendanceRecord{}).
		Where("room_id = ? AND user_id = ? AND date = ? AND status = ?",
			roomID, userID, date, model.RecordPendingReview).
		Updates(map[string]any{"status": status, "quality": quality})
	if result.Error != nil {
		return fmt.Errorf("failed to review record for room %d user %s: %w", roomID, userID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkMissed inserts a missed record for the given day for every
// member of the room who has submitted before but has no record for
// that day. Members with no history at all are never marked; they are
// onboarding, not lapsing. Returns the number of records created.
func (s *gormStore) MarkMissed(ctx context.Context, roomID int64, day time.Time) (int64, error) {
	var userIDs []string
	err := s.db.WithContext(ctx).
		Model(&model.AttendanceRecord{}).
		Distinct().
		Where("room_id = ?", roomID).
		Where("user_id NOT IN (?)", s.db.
			Model(&model.AttendanceRecord{}).
			Select("user_id").
			Where("room_id = ? AND date = ?", roomID, day)).
		Pluck("user_id", &userIDs).Error
	if err != nil {
		return 0, fmt.Errorf("failed to find absent members for room %d: %w", roomID, err)
	}
	if len(userIDs) == 0 {
		return 0, nil
	}

	records := make([]model.AttendanceRecord, 0, len(userIDs))
	for _, userID := range userIDs {
		records = append(records, model.AttendanceRecord{
			RoomID: roomID,
			UserID: userID,
			Date:   day,
			Status: model.RecordMissed,
		})
	}
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&records)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark misses for room %d: %w", roomID, result.Error)
	}
	return result.RowsAffected, nil
}

func (s *gormStore) ListConsequences(ctx context.Context, roomID int64, userID string) ([]model.Consequence, error) {
	var consequences []model.Consequence
	err := s.db.WithContext(ctx).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Order("created_at DESC").
		Find(&consequences).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list consequences for room %d user %s: %w", roomID, userID, err)
	}
	return consequences, nil
}

func (s *gormStore) CreateConsequence(ctx context.Context, c *model.Consequence) error {
	c.Active = true
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("failed to create consequence for room %d user %s: %w", c.RoomID, c.UserID, err)
	}
	return nil
}

// ResolveConsequence deactivates a consequence. The transition is
// one-way; the row stays as audit history and re-offense creates a
// fresh consequence instead of reactivating this one.
func (s *gormStore) ResolveConsequence(ctx context.Context, id int64, at time.Time) error {
	result := s.db.WithContext(ctx).
		Model(&model.Consequence{}).
		Where("id = ? AND active = ?", id, true).
		Updates(map[string]any{"active": false, "resolved_at": at})
	if result.Error != nil {
		return fmt.Errorf("failed to resolve consequence %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
