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

// escalationResponse reports the consequence history partitioned by
// state plus the engine's suggested next tier.
type escalationResponse struct {
	engine.EscalationSummary
	NextLevel engine.ConsequenceLevel `json:"nextLevel"`
}

// GetEscalation handles
// GET /api/rooms/{room_id}/members/{user_id}/escalation.
func (h *Handler) GetEscalation(c *gin.Context) {
	roomID, err := strconv.ParseInt(c.Param("room_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid room ID"})
		return
	}

	rows, err := h.store.ListConsequences(c.Request.Context(), roomID, c.Param("user_id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve consequences"})
		return
	}

	consequences := store.ConsequenceSnapshots(rows)
	c.JSON(http.StatusOK, escalationResponse{
		EscalationSummary: engine.Summarize(consequences),
		NextLevel:         engine.NextLevel(consequences),
	})
}

type postConsequenceRequest struct {
	Reason    string     `json:"reason" binding:"required"`
	Level     string     `json:"level"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

// PostConsequence handles the operator issuing a sanction:
// POST /api/rooms/{room_id}/members/{user_id}/consequences. The level
// defaults to the engine's suggestion but an operator may override it
// with any valid tier.
func (h *Handler) PostConsequence(c *gin.Context) {
	roomID, err := strconv.ParseInt(c.Param("room_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid room ID"})
		return
	}
	userID := c.Param("user_id")

	var req postConsequenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	level := req.Level
	if level == "" {
		rows, err := h.store.ListConsequences(c.Request.Context(), roomID, userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve consequences"})
			return
		}
		level = string(engine.NextLevel(store.ConsequenceSnapshots(rows)))
	} else if !engine.ValidLevel(level) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown consequence level"})
		return
	}

	consequence := model.Consequence{
		RoomID:    roomID,
		UserID:    userID,
		Level:     level,
		Reason:    req.Reason,
		ExpiresAt: req.ExpiresAt,
	}
	if err := h.store.CreateConsequence(c.Request.Context(), &consequence); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, consequence)
}

// ResolveConsequence handles POST /api/consequences/{id}/resolve. The
// transition is one-way; resolving twice reports 404.
func (h *Handler) ResolveConsequence(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid consequence ID"})
		return
	}

	err = h.store.ResolveConsequence(c.Request.Context(), id, time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No active consequence with that ID"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
