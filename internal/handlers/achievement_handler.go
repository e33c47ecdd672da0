package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"foodtracker/internal/services"
)

// AchievementHandler serves achievement progress of a pantry.
type AchievementHandler struct {
	progressService services.ProgressServicer
}

// NewAchievementHandler creates a new AchievementHandler.
func NewAchievementHandler(progressService services.ProgressServicer) *AchievementHandler {
	return &AchievementHandler{progressService: progressService}
}

// GetAchievements returns every achievement with its progress
// @Summary     List achievements
// @Description Get all achievements of a pantry with achieved flag and progress
// @Tags        achievements
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Pantry ID"
// @Success     200 {array}  achievements.Status "Achievements"
// @Failure     404 {object} ErrorResponse "Pantry not found"
// @Router      /pantries/{id}/achievements [get]
func (h *AchievementHandler) GetAchievements(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	pantryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	statuses, err := h.progressService.Achievements(userID, pantryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"achievements": statuses})
}
