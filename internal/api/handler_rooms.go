package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"accountability-backend/internal/model"
)

// RoomResponse represents the API response for a single room.
type RoomResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	WindowStart  string `json:"windowStart"`
	WindowEnd    string `json:"windowEnd"`
	Timezone     string `json:"timezone"`
	MemberCount  int64  `json:"memberCount"`
	TotalRecords int64  `json:"totalRecords"`
}

// GetRooms handles the GET /api/rooms request.
func GetRooms(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var rooms []model.Room
		if err := db.Find(&rooms).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve rooms"})
			return
		}

		type AggRow struct {
			RoomID       int64
			MemberCount  int64
			TotalRecords int64
		}
		var aggs []AggRow
		if err := db.
			Model(&model.AttendanceRecord{}).
			Select("room_id as room_id, COUNT(DISTINCT user_id) as member_count, COUNT(*) as total_records").
			Group("room_id").
			Scan(&aggs).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate records"})
			return
		}

		aggMap := make(map[int64]AggRow, len(aggs))
		for _, a := range aggs {
			aggMap[a.RoomID] = a
		}

		responses := make([]RoomResponse, 0, len(rooms))
		for _, room := range rooms {
			a := aggMap[room.ID]
			responses = append(responses, RoomResponse{
				ID:           room.ID,
				Name:         room.Name,
				WindowStart:  room.WindowStart,
				WindowEnd:    room.WindowEnd,
				Timezone:     room.Timezone,
				MemberCount:  a.MemberCount,
				TotalRecords: a.TotalRecords,
			})
		}
		c.JSON(http.StatusOK, responses)
	}
}
