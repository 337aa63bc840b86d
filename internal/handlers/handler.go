// Package handlers exposes the services over gin.
package handlers

import (
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/hackathon-api/internal/domain/common"
	"github.com/gravadigital/hackathon-api/internal/middleware/auth"
	"github.com/gravadigital/hackathon-api/internal/response"
)

// idParam parses a positive numeric path parameter, writing a 400 when it is not one
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := common.ParseID(c.Param(name), name)
	if err != nil {
		response.Error(c, err)
		return 0, false
	}
	return id, true
}

// bindJSON decodes the body into dst, writing a 400 on failure
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.BadRequestError(c, "Invalid request payload: "+err.Error())
		return false
	}
	return true
}

// fail logs err at a level matching its status and writes the error response
func fail(c *gin.Context, l *log.Logger, message string, err error, keyvals ...any) {
	keyvals = append(keyvals, "error", err, "path", c.Request.URL.Path)
	if response.StatusFor(err) >= 500 {
		l.Error(message, keyvals...)
	} else {
		l.Warn(message, keyvals...)
	}
	response.Error(c, err)
}

// caller is the email of the authenticated user, empty on public routes
func caller(c *gin.Context) string {
	return auth.UserEmail(c)
}

// queryInt reads an integer query parameter, returning def when it is absent
func queryInt(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		response.BadRequestError(c, "Invalid "+name+": must be an integer")
		return 0, false
	}
	return n, true
}
