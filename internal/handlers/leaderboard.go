package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/culturallm/culturallm-backend/internal/requestdata"
	"github.com/culturallm/culturallm-backend/internal/services"
)

type LeaderboardHandler struct {
	leaderboardService services.LeaderboardService
}

func NewLeaderboardHandler(leaderboardService services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardService: leaderboardService}
}

func (lh *LeaderboardHandler) Leaderboard(c *gin.Context) {
	entries, err := lh.leaderboardService.Leaderboard(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (lh *LeaderboardHandler) UserPosition(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	entry, err := lh.leaderboardService.Position(c.Request.Context(), *userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	level := lh.leaderboardService.LevelInfo(entry.Score)
	c.JSON(http.StatusOK, gin.H{
		"username":       entry.Username,
		"score":          entry.Score,
		"position":       entry.Position,
		"level":          level.Level,
		"next_threshold": level.NextThreshold,
	})
}
