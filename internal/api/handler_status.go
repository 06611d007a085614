package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"accountability-backend/internal/engine"
	"accountability-backend/internal/model"
	"accountability-backend/internal/store"
)

// memberStatusResponse bundles one full engine evaluation for a
// room+user at a single instant.
type memberStatusResponse struct {
	Streak      engine.StreakState  `json:"streak"`
	Discipline  engine.Discipline   `json:"discipline"`
	Window      engine.WindowState  `json:"window"`
	Warnings    []engine.Warning    `json:"warnings"`
	Weekly      []engine.WeekBucket `json:"weekly"`
	Trend       engine.Trend        `json:"trend"`
	EvaluatedAt time.Time           `json:"evaluatedAt"`
}

// GetMemberStatus handles
// GET /api/rooms/{room_id}/members/{user_id}/status. The optional
// `at` query parameter (RFC3339) overrides the evaluation instant so
// callers can replay past states; it defaults to now.
func (h *Handler) GetMemberStatus(c *gin.Context) {
	roomID, err := strconv.ParseInt(c.Param("room_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid room ID"})
		return
	}
	userID := c.Param("user_id")

	room, err := h.store.GetRoom(c.Request.Context(), roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		} else {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve room"})
		}
		return
	}

	now := time.Now()
	if atParam := c.Query("at"); atParam != "" {
		at, err := time.Parse(time.RFC3339, atParam)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid 'at' timestamp format. Use RFC3339."})
			return
		}
		now = at
	}
	now = now.In(roomLocation(room))

	rows, err := h.store.ListRecords(c.Request.Context(), roomID, userID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve records"})
		return
	}
	records := store.RecordSnapshots(rows)

	streak := engine.ComputeStreak(records, now)
	weekly := engine.BucketByWeek(records, h.weekStartDay)
	c.JSON(http.StatusOK, memberStatusResponse{
		Streak:     streak,
		Discipline: engine.ComputeDiscipline(records, streak.Current),
		Window: engine.EvaluateWindow(
			engine.TimeWindow{Start: room.WindowStart, End: room.WindowEnd}, now),
		Warnings:    engine.DetectWarnings(records, now, h.thresholds),
		Weekly:      weekly,
		Trend:       engine.ComputeTrend(weekly),
		EvaluatedAt: now,
	})
}

// roomLocation resolves a room's timezone, defaulting to UTC.
func roomLocation(room model.Room) *time.Location {
	if room.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(room.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
