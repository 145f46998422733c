package handlers

import (
	"net/http"

	"github.com/Abiraj-Jatheeskumar/Questify-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type LeaderboardHandler struct {
	leaderboard *services.LeaderboardService
}

func NewLeaderboardHandler(leaderboard *services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboard: leaderboard}
}

// GetLeaderboard godoc
// @Summary      Leaderboard across a class or the whole platform
// @Description  Ranks students by total score, breaking ties with average response time. Students only see quizzes they attempted themselves.
// @Tags         leaderboard
// @Produce      json
// @Security     BearerAuth
// @Param        class_id query int false "Class filter"
// @Success      200 {array} services.LeaderboardEntry
// @Router       /api/v1/leaderboard [get]
func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	classID := queryID(c, "class_id")
	entries, err := h.leaderboard.GetLeaderboard(classID, c.GetUint("user_id"), c.GetString("role"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
