package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gravadigital/hackathon-api/internal/domain/common"
)

// Response representa la estructura estándar de respuesta de la API
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ErrorResponse representa una respuesta de error
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Debug   string `json:"debug,omitempty"`
}

// SuccessResponse envía una respuesta exitosa
func SuccessResponse(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponseWithMessage envía una respuesta de error con mensaje personalizado
func ErrorResponseWithMessage(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{
		Success: false,
		Error:   message,
		Code:    status,
	})
}

// BadRequestError envía un error 400
func BadRequestError(c *gin.Context, message string) {
	ErrorResponseWithMessage(c, http.StatusBadRequest, message)
}

// NotFoundError envía un error 404
func NotFoundError(c *gin.Context, message string) {
	ErrorResponseWithMessage(c, http.StatusNotFound, message)
}

// InternalServerError envía un error 500
func InternalServerError(c *gin.Context, message string) {
	ErrorResponseWithMessage(c, http.StatusInternalServerError, message)
}

// UnauthorizedError envía un error 401
func UnauthorizedError(c *gin.Context, message string) {
	ErrorResponseWithMessage(c, http.StatusUnauthorized, message)
}

// ForbiddenError envía un error 403
func ForbiddenError(c *gin.Context, message string) {
	ErrorResponseWithMessage(c, http.StatusForbidden, message)
}

// ServiceUnavailableError envía un error 503
func ServiceUnavailableError(c *gin.Context, message string) {
	ErrorResponseWithMessage(c, http.StatusServiceUnavailable, message)
}

// StatusFor maps a domain error kind to its HTTP status
func StatusFor(err error) int {
	switch common.KindOf(err) {
	case common.KindValidation, common.KindConflict:
		return http.StatusBadRequest
	case common.KindNotFound:
		return http.StatusNotFound
	case common.KindForbidden:
		return http.StatusForbidden
	case common.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err using the status of its kind. Internal failures get a generic
// message; the raw error is only attached in gin debug mode.
func Error(c *gin.Context, err error) {
	status := StatusFor(err)

	message := common.MessageOf(err)
	switch {
	case status == http.StatusInternalServerError:
		message = "Internal server error"
	case status == http.StatusServiceUnavailable && message == "":
		message = "Service temporarily unavailable"
	}

	body := ErrorResponse{
		Success: false,
		Error:   message,
		Code:    status,
	}
	if gin.IsDebugging() {
		body.Debug = err.Error()
	}
	c.JSON(status, body)
}
