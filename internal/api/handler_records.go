package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"accountability-backend/internal/model"
)

const dateLayout = "2006-01-02"

type putRecordRequest struct {
	Date string `json:"date" binding:"required"`
	Note string `json:"note"`
}

// PutRecord handles proof submission:
// PUT /api/rooms/{room_id}/members/{user_id}/records. The record for
// that calendar day is created or replaced as pending_review;
// re-submission supersedes the earlier entry.
func (h *Handler) PutRecord(c *gin.Context) {
	roomID, err := strconv.ParseInt(c.Param("room_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid room ID"})
		return
	}

	var req putRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := time.ParseInLocation(dateLayout, req.Date, time.UTC)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD."})
		return
	}

	record := model.AttendanceRecord{
		RoomID: roomID,
		UserID: c.Param("user_id"),
		Date:   date,
		Status: model.RecordPendingReview,
		Note:   req.Note,
	}
	if err := h.store.UpsertRecord(c.Request.Context(), record); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusCreated)
}

type reviewRecordRequest struct {
	Date    string `json:"date" binding:"required"`
	Status  string `json:"status" binding:"required"`
	Quality *int   `json:"quality"`
}

// ReviewRecord handles the reviewer verdict:
// POST /api/rooms/{room_id}/members/{user_id}/records/review. Only
// pending records can be reviewed.
func (h *Handler) ReviewRecord(c *gin.Context) {
	roomID, err := strconv.ParseInt(c.Param("room_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid room ID"})
		return
	}

	var req reviewRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Status != model.RecordApproved && req.Status != model.RecordRejected {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be approved or rejected"})
		return
	}
	if req.Quality != nil && (*req.Quality < 1 || *req.Quality > 5) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quality rating must be between 1 and 5"})
		return
	}

	date, err := time.ParseInLocation(dateLayout, req.Date, time.UTC)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD."})
		return
	}

	err = h.store.ReviewRecord(c.Request.Context(), roomID, c.Param("user_id"), date, req.Status, req.Quality)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No pending record for that date"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
