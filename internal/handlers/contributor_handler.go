package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/hackathon-api/internal/logger"
	"github.com/gravadigital/hackathon-api/internal/response"
	"github.com/gravadigital/hackathon-api/internal/services"
)

type ContributorHandler struct {
	contributors *services.ContributorService
	log          *log.Logger
}

func NewContributorHandler(contributors *services.ContributorService) *ContributorHandler {
	return &ContributorHandler{
		contributors: contributors,
		log:          logger.Handler("contributor_handler"),
	}
}

type ContributorRequestPayload struct {
	IdeaID  uint   `json:"idea_id" binding:"required"`
	EventID uint   `json:"event_id" binding:"required"`
	Message string `json:"message"`
}

// CreateRequest handles POST /api/contributor-requests
func (h *ContributorHandler) CreateRequest(c *gin.Context) {
	var req ContributorRequestPayload
	if !bindJSON(c, &req) {
		return
	}

	created, err := h.contributors.Create(c.Request.Context(), caller(c), services.CreateRequestInput{
		IdeaID:  req.IdeaID,
		EventID: req.EventID,
		Message: req.Message,
	})
	if err != nil {
		fail(c, h.log, "Failed to create contributor request", err, "idea_id", req.IdeaID, "event_id", req.EventID)
		return
	}
	response.SuccessResponse(c, http.StatusCreated, "Contributor request sent successfully", created)
}

// GetPending handles GET /api/contributor-requests/pending/:ideaId/:eventId
func (h *ContributorHandler) GetPending(c *gin.Context) {
	ideaID, ok := idParam(c, "ideaId")
	if !ok {
		return
	}
	eventID, ok := idParam(c, "eventId")
	if !ok {
		return
	}

	requests, err := h.contributors.Pending(c.Request.Context(), ideaID, eventID)
	if err != nil {
		fail(c, h.log, "Failed to list pending requests", err, "idea_id", ideaID, "event_id", eventID)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Pending requests retrieved successfully", gin.H{"requests": requests, "count": len(requests)})
}

// GetMine handles GET /api/contributor-requests/mine
func (h *ContributorHandler) GetMine(c *gin.Context) {
	requests, err := h.contributors.Mine(c.Request.Context(), caller(c))
	if err != nil {
		fail(c, h.log, "Failed to list own requests", err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Requests retrieved successfully", gin.H{"requests": requests, "count": len(requests)})
}

// GetForMyProjects handles GET /api/contributor-requests/projects
func (h *ContributorHandler) GetForMyProjects(c *gin.Context) {
	requests, err := h.contributors.ForMyProjects(c.Request.Context(), caller(c))
	if err != nil {
		fail(c, h.log, "Failed to list project requests", err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Requests retrieved successfully", gin.H{"requests": requests, "count": len(requests)})
}

// GetPendingCount handles GET /api/contributor-requests/count
func (h *ContributorHandler) GetPendingCount(c *gin.Context) {
	count, err := h.contributors.PendingCount(c.Request.Context(), caller(c))
	if err != nil {
		fail(c, h.log, "Failed to count pending requests", err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Pending requests counted successfully", gin.H{"count": count})
}

// AcceptRequest handles PUT /api/contributor-requests/:id/accept
func (h *ContributorHandler) AcceptRequest(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	req, err := h.contributors.Accept(c.Request.Context(), caller(c), id)
	if err != nil {
		fail(c, h.log, "Failed to accept request", err, "request_id", id)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Request accepted successfully", req)
}

// DeclineRequest handles PUT /api/contributor-requests/:id/decline
func (h *ContributorHandler) DeclineRequest(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	req, err := h.contributors.Decline(c.Request.Context(), caller(c), id)
	if err != nil {
		fail(c, h.log, "Failed to decline request", err, "request_id", id)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Request declined successfully", req)
}
