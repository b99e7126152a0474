// Package httpkit provides HTTP response utilities.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"errors"
	"net/http"

	"lead_crm_backend/platform/apperr"
	"lead_crm_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

const msgInternalError = "internal server error"

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// MessageResponse is a body carrying a single confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// JSON sends a JSON response with the given status code.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// Error sends an error response with the given status code and message.
func Error(c *gin.Context, status int, message string, details interface{}) {
	c.JSON(status, ErrorResponse{Error: message, Details: details})
}

// OK sends a 200 OK response with the given payload.
func OK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

// Message sends a 200 OK response with a confirmation message.
func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, MessageResponse{Message: message})
}

// HandleError maps domain errors to HTTP responses.
// A typed *apperr.Error anywhere in the chain decides the status code. Internal
// kinds and untyped errors answer 500 with a generic message, and the cause is
// logged instead of returned. Returns true if an error was handled.
func HandleError(c *gin.Context, err error, log *logger.Logger) bool {
	if err == nil {
		return false
	}

	var domainErr *apperr.Error
	if errors.As(err, &domainErr) && domainErr.HTTPStatus() < http.StatusInternalServerError {
		c.JSON(domainErr.HTTPStatus(), ErrorResponse{
			Error:   domainErr.Message,
			Details: domainErr.Details,
		})
		return true
	}

	if log != nil {
		log.WithContext(c.Request.Context()).HTTPError(c.Request.Method, c.Request.URL.Path, http.StatusInternalServerError, err, c.ClientIP())
	}
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: msgInternalError})
	return true
}
