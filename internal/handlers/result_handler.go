package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/hackathon-api/internal/logger"
	"github.com/gravadigital/hackathon-api/internal/response"
	"github.com/gravadigital/hackathon-api/internal/services"
)

// ResultHandler serves the winners across events
type ResultHandler struct {
	results *services.ResultService
	log     *log.Logger
}

func NewResultHandler(results *services.ResultService) *ResultHandler {
	return &ResultHandler{
		results: results,
		log:     logger.Handler("result_handler"),
	}
}

// GetLeaderboard handles GET /api/leaderboard?limit=
func (h *ResultHandler) GetLeaderboard(c *gin.Context) {
	limit, ok := queryInt(c, "limit", services.DefaultLeaderboardSize)
	if !ok {
		return
	}

	standings, err := h.results.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		fail(c, h.log, "Failed to get leaderboard", err, "limit", limit)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Leaderboard retrieved successfully", gin.H{
		"leaderboard": standings,
		"count":       len(standings),
	})
}

// GetUserWins handles GET /api/users/:email/wins
func (h *ResultHandler) GetUserWins(c *gin.Context) {
	email := c.Param("email")

	wins, err := h.results.UserWins(c.Request.Context(), email)
	if err != nil {
		fail(c, h.log, "Failed to get user wins", err, "email", email)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Wins retrieved successfully", gin.H{
		"email": email,
		"wins":  wins,
		"count": len(wins),
	})
}
