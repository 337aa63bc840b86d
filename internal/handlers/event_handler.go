package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/hackathon-api/internal/domain/event"
	"github.com/gravadigital/hackathon-api/internal/logger"
	"github.com/gravadigital/hackathon-api/internal/response"
	"github.com/gravadigital/hackathon-api/internal/services"
)

type EventHandler struct {
	events  *services.EventService
	results *services.ResultService
	voting  *services.VotingService
	log     *log.Logger
}

func NewEventHandler(events *services.EventService, results *services.ResultService, voting *services.VotingService) *EventHandler {
	return &EventHandler{
		events:  events,
		results: results,
		voting:  voting,
		log:     logger.Handler("event_handler"),
	}
}

type CreateEventRequest struct {
	Title     string `json:"title" binding:"required"`
	EventDate string `json:"event_date" binding:"required"`
	Link      string `json:"link"`
	ImageURL  string `json:"image_url"`
}

// UpdateStageRequest accepts the stage as a number (1-3) or a name ("voting")
type UpdateStageRequest struct {
	Stage    json.RawMessage `json:"stage" binding:"required"`
	SubStage *int            `json:"sub_stage"`
}

type UpdateSubStageRequest struct {
	SubStage int `json:"sub_stage" binding:"required"`
}

// parseEventDate accepts a plain date or a full RFC 3339 timestamp
func parseEventDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), true
	}
	return time.Time{}, false
}

// GetAllEvents handles GET /api/events
func (h *EventHandler) GetAllEvents(c *gin.Context) {
	events, err := h.events.List(c.Request.Context())
	if err != nil {
		fail(c, h.log, "Failed to list events", err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "Events retrieved successfully", gin.H{
		"events": events,
		"count":  len(events),
	})
}

// CreateEvent handles POST /api/events
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req CreateEventRequest
	if !bindJSON(c, &req) {
		return
	}

	eventDate, ok := parseEventDate(req.EventDate)
	if !ok {
		response.BadRequestError(c, "Invalid event_date format, expected YYYY-MM-DD")
		return
	}

	e, err := h.events.Create(c.Request.Context(), caller(c), services.CreateEventInput{
		Title:     req.Title,
		EventDate: eventDate,
		Link:      req.Link,
		ImageURL:  req.ImageURL,
	})
	if err != nil {
		fail(c, h.log, "Failed to create event", err, "title", req.Title)
		return
	}

	response.SuccessResponse(c, http.StatusCreated, "Event created successfully", e)
}

// GetEvent handles GET /api/events/:id
func (h *EventHandler) GetEvent(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	e, err := h.events.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, h.log, "Failed to get event", err, "event_id", id)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Event retrieved successfully", e)
}

// DeleteEvent handles DELETE /api/events/:id
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.events.Delete(c.Request.Context(), caller(c), id); err != nil {
		fail(c, h.log, "Failed to delete event", err, "event_id", id)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Event deleted successfully", gin.H{"id": id})
}

// GetEventIdeas handles GET /api/events/:id/ideas
func (h *EventHandler) GetEventIdeas(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	ideas, err := h.events.Ideas(c.Request.Context(), id)
	if err != nil {
		fail(c, h.log, "Failed to list event ideas", err, "event_id", id)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Event ideas retrieved successfully", gin.H{
		"ideas": ideas,
		"count": len(ideas),
	})
}

// UpdateEventStage handles PUT /api/events/:id/stage
func (h *EventHandler) UpdateEventStage(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdateStageRequest
	if !bindJSON(c, &req) {
		return
	}
	stage, ok := event.StageFromString(strings.Trim(string(req.Stage), `"`))
	if !ok {
		response.BadRequestError(c, "Invalid stage. Must be 1 (submission), 2 (voting) or 3 (results)")
		return
	}

	e, err := h.events.SetStage(c.Request.Context(), caller(c), id, stage, req.SubStage)
	if err != nil {
		fail(c, h.log, "Failed to update event stage", err, "event_id", id, "stage", stage)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "Event stage updated successfully", e)
}

// UpdateEventSubStage handles PUT /api/events/:id/sub-stage
func (h *EventHandler) UpdateEventSubStage(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdateSubStageRequest
	if !bindJSON(c, &req) {
		return
	}

	e, err := h.events.SetSubStage(c.Request.Context(), caller(c), id, req.SubStage)
	if err != nil {
		fail(c, h.log, "Failed to update event sub-stage", err, "event_id", id, "sub_stage", req.SubStage)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Event sub-stage updated successfully", e)
}

// SetResultsTime handles POST /api/events/:id/results-time
func (h *EventHandler) SetResultsTime(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	e, results, err := h.events.SetResultsTime(c.Request.Context(), caller(c), id)
	if err != nil {
		fail(c, h.log, "Failed to publish results", err, "event_id", id)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "Results published successfully", gin.H{
		"event":   e,
		"results": results,
	})
}

// ComputeWinners handles POST /api/events/:id/winners
func (h *EventHandler) ComputeWinners(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	results, err := h.results.ComputeWinners(c.Request.Context(), caller(c), id)
	if err != nil {
		fail(c, h.log, "Failed to compute winners", err, "event_id", id)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Winners computed successfully", gin.H{
		"results": results,
		"count":   len(results),
	})
}

// GetEventResults handles GET /api/events/:id/results
func (h *EventHandler) GetEventResults(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	results, err := h.results.EventResults(c.Request.Context(), id)
	if err != nil {
		fail(c, h.log, "Failed to get event results", err, "event_id", id)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Event results retrieved successfully", gin.H{
		"event_id": id,
		"results":  results,
	})
}

// GetMyVotes handles GET /api/events/:id/my-votes
func (h *EventHandler) GetMyVotes(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	votes, err := h.voting.MyVotes(c.Request.Context(), caller(c), id)
	if err != nil {
		fail(c, h.log, "Failed to get votes", err, "event_id", id)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Votes retrieved successfully", gin.H{
		"event_id": id,
		"votes":    votes,
	})
}
