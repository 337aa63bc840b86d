package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/hackathon-api/internal/domain/common"
	"github.com/gravadigital/hackathon-api/internal/logger"
	"github.com/gravadigital/hackathon-api/internal/response"
	"github.com/gravadigital/hackathon-api/internal/services"
)

// VoteHandler handles category votes and ratings
type VoteHandler struct {
	voting  *services.VotingService
	results *services.ResultService
	log     *log.Logger
}

// NewVoteHandler creates a new vote handler
func NewVoteHandler(voting *services.VotingService, results *services.ResultService) *VoteHandler {
	return &VoteHandler{
		voting:  voting,
		results: results,
		log:     logger.Handler("vote_handler"),
	}
}

// CategoryVoteRequest represents the request payload for a category vote
type CategoryVoteRequest struct {
	EventID  uint   `json:"event_id" binding:"required"`
	IdeaID   uint   `json:"idea_id" binding:"required"`
	Category string `json:"category" binding:"required"`
}

// RatingRequest represents the request payload for rating an idea
type RatingRequest struct {
	IdeaID uint `json:"idea_id" binding:"required"`
	Rating int  `json:"rating" binding:"required"`
}

// SubmitCategoryVote handles POST /api/votes/category
func (h *VoteHandler) SubmitCategoryVote(c *gin.Context) {
	var req CategoryVoteRequest
	if !bindJSON(c, &req) {
		return
	}

	h.log.Debug("Processing category vote", "event_id", req.EventID, "idea_id", req.IdeaID, "category", req.Category)

	v, err := h.voting.CastCategoryVote(c.Request.Context(), caller(c), services.CategoryVoteInput{
		EventID:  req.EventID,
		IdeaID:   req.IdeaID,
		Category: req.Category,
	})
	if err != nil {
		fail(c, h.log, "Failed to submit vote", err, "event_id", req.EventID, "idea_id", req.IdeaID, "category", req.Category)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "Vote submitted successfully", v)
}

// RemoveCategoryVote handles DELETE /api/votes/category?event_id=&category=
func (h *VoteHandler) RemoveCategoryVote(c *gin.Context) {
	eventID, err := common.ParseID(c.Query("event_id"), "event_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	category := c.Query("category")

	if err := h.voting.RemoveCategoryVote(c.Request.Context(), caller(c), eventID, category); err != nil {
		fail(c, h.log, "Failed to remove vote", err, "event_id", eventID, "category", category)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "Vote removed successfully", gin.H{
		"event_id": eventID,
		"category": category,
	})
}

// SubmitRating handles POST /api/votes/rating
func (h *VoteHandler) SubmitRating(c *gin.Context) {
	var req RatingRequest
	if !bindJSON(c, &req) {
		return
	}

	r, err := h.voting.Rate(c.Request.Context(), caller(c), req.IdeaID, req.Rating)
	if err != nil {
		fail(c, h.log, "Failed to submit rating", err, "idea_id", req.IdeaID, "rating", req.Rating)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "Rating submitted successfully", r)
}

// GetIdeaRatings handles GET /api/votes/idea/:id
func (h *VoteHandler) GetIdeaRatings(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	summary, err := h.voting.IdeaRatings(c.Request.Context(), id)
	if err != nil {
		fail(c, h.log, "Failed to get idea ratings", err, "idea_id", id)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "Ratings retrieved successfully", summary)
}

// GetUserRatings handles GET /api/votes/user/:email
func (h *VoteHandler) GetUserRatings(c *gin.Context) {
	email := c.Param("email")

	ratings, err := h.voting.UserRatings(c.Request.Context(), email)
	if err != nil {
		fail(c, h.log, "Failed to get user ratings", err, "email", email)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "Ratings retrieved successfully", gin.H{
		"ratings": ratings,
		"count":   len(ratings),
	})
}

// RecomputeAverageScores handles POST /api/votes/average-scores
func (h *VoteHandler) RecomputeAverageScores(c *gin.Context) {
	scored, err := h.results.RecomputeAverageScores(c.Request.Context(), caller(c))
	if err != nil {
		fail(c, h.log, "Failed to recompute average scores", err)
		return
	}

	h.log.Info("Average scores recomputed", "scored_ideas", scored)
	response.SuccessResponse(c, http.StatusOK, "Average scores recomputed successfully", gin.H{
		"scored_ideas": scored,
	})
}
