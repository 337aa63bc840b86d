package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/hackathon-api/internal/domain/common"
	"github.com/gravadigital/hackathon-api/internal/domain/idea"
	"github.com/gravadigital/hackathon-api/internal/logger"
	"github.com/gravadigital/hackathon-api/internal/response"
	"github.com/gravadigital/hackathon-api/internal/services"
)

type IdeaHandler struct {
	ideas  *services.IdeaService
	voting *services.VotingService
	log    *log.Logger
}

func NewIdeaHandler(ideas *services.IdeaService, voting *services.VotingService) *IdeaHandler {
	return &IdeaHandler{
		ideas:  ideas,
		voting: voting,
		log:    logger.Handler("idea_handler"),
	}
}

type CreateIdeaRequest struct {
	Title        string   `json:"title" binding:"required"`
	Description  string   `json:"description" binding:"required"`
	Technologies []string `json:"technologies"`
	EventID      uint     `json:"event_id" binding:"required"`
	IsBuilt      bool     `json:"is_built"`
	Contributors []string `json:"contributors"`
	ImageURL     string   `json:"image_url"`
}

// UpdateIdeaRequest only changes the fields present in the body
type UpdateIdeaRequest struct {
	EventID      uint      `json:"event_id"`
	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	Technologies *[]string `json:"technologies"`
	Contributors *[]string `json:"contributors"`
	IsBuilt      *bool     `json:"is_built"`
	ImageURL     *string   `json:"image_url"`
}

type AddEventRequest struct {
	EventID      uint     `json:"event_id" binding:"required"`
	Description  string   `json:"description" binding:"required"`
	Technologies []string `json:"technologies"`
	Contributors []string `json:"contributors"`
	IsBuilt      bool     `json:"is_built"`
	ImageURL     string   `json:"image_url"`
}

type AddContributorRequest struct {
	EventID uint   `json:"event_id"`
	Email   string `json:"email" binding:"required"`
}

// GetAllIdeas handles GET /api/ideas
func (h *IdeaHandler) GetAllIdeas(c *gin.Context) {
	ideas, err := h.ideas.List(c.Request.Context())
	if err != nil {
		fail(c, h.log, "Failed to list ideas", err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Ideas retrieved successfully", gin.H{
		"ideas": ideas,
		"count": len(ideas),
	})
}

// CreateIdea handles POST /api/ideas
func (h *IdeaHandler) CreateIdea(c *gin.Context) {
	var req CreateIdeaRequest
	if !bindJSON(c, &req) {
		return
	}

	i, err := h.ideas.Submit(c.Request.Context(), caller(c), idea.Draft{
		Title:        req.Title,
		Description:  req.Description,
		Technologies: req.Technologies,
		EventID:      req.EventID,
		IsBuilt:      req.IsBuilt,
		Contributors: req.Contributors,
		ImageURL:     req.ImageURL,
	})
	if err != nil {
		fail(c, h.log, "Failed to submit idea", err, "event_id", req.EventID)
		return
	}
	response.SuccessResponse(c, http.StatusCreated, "Idea submitted successfully", i)
}

// GetIdea handles GET /api/ideas/:id
func (h *IdeaHandler) GetIdea(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.ideas.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, h.log, "Failed to get idea", err, "idea_id", id)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Idea retrieved successfully", detail)
}

// UpdateIdea handles PUT /api/ideas/:id
func (h *IdeaHandler) UpdateIdea(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdateIdeaRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.ideas.Update(c.Request.Context(), caller(c), id, services.UpdateIdeaInput{
		EventID:      req.EventID,
		Title:        req.Title,
		Description:  req.Description,
		Technologies: req.Technologies,
		Contributors: req.Contributors,
		IsBuilt:      req.IsBuilt,
		ImageURL:     req.ImageURL,
	})
	if err != nil {
		fail(c, h.log, "Failed to update idea", err, "idea_id", id)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Idea updated successfully", view)
}

// DeleteIdea handles DELETE /api/ideas/:id
func (h *IdeaHandler) DeleteIdea(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.ideas.Delete(c.Request.Context(), caller(c), id); err != nil {
		fail(c, h.log, "Failed to delete idea", err, "idea_id", id)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Idea deleted successfully", gin.H{"id": id})
}

// GetIdeaForEvent handles GET /api/ideas/:id/events/:eventId
func (h *IdeaHandler) GetIdeaForEvent(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	eventID, ok := idParam(c, "eventId")
	if !ok {
		return
	}

	view, err := h.ideas.ViewForEvent(c.Request.Context(), id, eventID)
	if err != nil {
		fail(c, h.log, "Failed to resolve idea for event", err, "idea_id", id, "event_id", eventID)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Idea retrieved successfully", view)
}

// AddEvent handles POST /api/ideas/:id/events
func (h *IdeaHandler) AddEvent(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req AddEventRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.ideas.AddEvent(c.Request.Context(), caller(c), id, req.EventID, idea.Override{
		Description:  req.Description,
		Technologies: req.Technologies,
		Contributors: req.Contributors,
		IsBuilt:      req.IsBuilt,
		ImageURL:     req.ImageURL,
	})
	if err != nil {
		fail(c, h.log, "Failed to add idea to event", err, "idea_id", id, "event_id", req.EventID)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Idea added to event successfully", view)
}

// RemoveEvent handles DELETE /api/ideas/:id/events/:eventId
func (h *IdeaHandler) RemoveEvent(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	eventID, ok := idParam(c, "eventId")
	if !ok {
		return
	}

	deleted, err := h.ideas.RemoveEvent(c.Request.Context(), caller(c), id, eventID)
	if err != nil {
		fail(c, h.log, "Failed to remove idea from event", err, "idea_id", id, "event_id", eventID)
		return
	}

	message := "Idea removed from event successfully"
	if deleted {
		message = "Idea removed from its last event and deleted"
	}
	response.SuccessResponse(c, http.StatusOK, message, gin.H{
		"id":           id,
		"event_id":     eventID,
		"idea_deleted": deleted,
	})
}

// AddContributor handles PUT /api/ideas/:id/contributors
func (h *IdeaHandler) AddContributor(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req AddContributorRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.ideas.AddContributor(c.Request.Context(), caller(c), id, req.EventID, req.Email)
	if err != nil {
		fail(c, h.log, "Failed to add contributor", err, "idea_id", id)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Contributor added successfully", view)
}

// LikeIdea handles POST /api/ideas/:id/like
func (h *IdeaHandler) LikeIdea(c *gin.Context) {
	h.changeLike(c, true)
}

// UnlikeIdea handles DELETE /api/ideas/:id/like
func (h *IdeaHandler) UnlikeIdea(c *gin.Context) {
	h.changeLike(c, false)
}

func (h *IdeaHandler) changeLike(c *gin.Context, like bool) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	change, message := h.voting.Like, "Idea liked successfully"
	if !like {
		change, message = h.voting.Unlike, "Like removed successfully"
	}

	i, err := change(c.Request.Context(), caller(c), id)
	if err != nil {
		fail(c, h.log, "Failed to change like", err, "idea_id", id, "like", like)
		return
	}
	response.SuccessResponse(c, http.StatusOK, message, gin.H{
		"id":    i.ID,
		"likes": i.Likes,
	})
}

// UploadImage handles POST /api/ideas/:id/image (multipart field "image", optional "event_id")
func (h *IdeaHandler) UploadImage(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var eventID uint
	if raw := c.PostForm("event_id"); raw != "" {
		parsed, err := common.ParseID(raw, "event_id")
		if err != nil {
			response.Error(c, err)
			return
		}
		eventID = parsed
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		response.BadRequestError(c, "No image provided")
		return
	}
	defer file.Close()

	view, err := h.ideas.UploadImage(c.Request.Context(), caller(c), id, services.ImageUpload{
		EventID:     eventID,
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		fail(c, h.log, "Failed to upload image", err, "idea_id", id, "filename", header.Filename)
		return
	}

	h.log.Info("Image uploaded", "idea_id", id, "event_id", view.EventID, "url", view.ImageURL)
	response.SuccessResponse(c, http.StatusOK, "Image uploaded successfully", view)
}

// GetIdeasByOwner handles GET /api/ideas/owner/:email
func (h *IdeaHandler) GetIdeasByOwner(c *gin.Context) {
	ideas, err := h.ideas.ListByOwner(c.Request.Context(), c.Param("email"))
	if err != nil {
		fail(c, h.log, "Failed to list ideas by owner", err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Ideas retrieved successfully", gin.H{"ideas": ideas, "count": len(ideas)})
}

// GetIdeasByContributor handles GET /api/ideas/contributed/:email
func (h *IdeaHandler) GetIdeasByContributor(c *gin.Context) {
	ideas, err := h.ideas.ListByContributor(c.Request.Context(), c.Param("email"))
	if err != nil {
		fail(c, h.log, "Failed to list ideas by contributor", err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Ideas retrieved successfully", gin.H{"ideas": ideas, "count": len(ideas)})
}

// GetLikedIdeas handles GET /api/ideas/liked/:email
func (h *IdeaHandler) GetLikedIdeas(c *gin.Context) {
	ideas, err := h.voting.LikedIdeas(c.Request.Context(), c.Param("email"))
	if err != nil {
		fail(c, h.log, "Failed to list liked ideas", err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Liked ideas retrieved successfully", gin.H{"ideas": ideas, "count": len(ideas)})
}
