package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/hackathon-api/internal/logger"
	"github.com/gravadigital/hackathon-api/internal/response"
	"github.com/gravadigital/hackathon-api/internal/services"
)

type UserHandler struct {
	users *services.UserService
	log   *log.Logger
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{
		users: users,
		log:   logger.Handler("user_handler"),
	}
}

type SaveProfileRequest struct {
	Name           string `json:"name" binding:"required"`
	ProfilePicture string `json:"profile_picture"`
}

// SaveProfile handles POST /api/users
func (h *UserHandler) SaveProfile(c *gin.Context) {
	var req SaveProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	u, err := h.users.SaveProfile(c.Request.Context(), caller(c), req.Name, req.ProfilePicture)
	if err != nil {
		fail(c, h.log, "Failed to save profile", err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Profile saved successfully", u)
}

// GetUsers handles GET /api/users
func (h *UserHandler) GetUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		fail(c, h.log, "Failed to list users", err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Users retrieved successfully", gin.H{"users": users, "count": len(users)})
}

// CheckAdmin handles GET /api/users/me/admin
func (h *UserHandler) CheckAdmin(c *gin.Context) {
	email := caller(c)
	admin, err := h.users.IsAdmin(c.Request.Context(), email)
	if err != nil {
		fail(c, h.log, "Failed to check admin status", err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Admin status retrieved successfully", gin.H{
		"email":    email,
		"is_admin": admin,
	})
}
