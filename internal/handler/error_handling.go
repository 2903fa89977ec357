package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storyforge/internal/models"
)

// handleServiceError maps sentinel errors onto HTTP statuses and writes the
// standard JSON error body.
func handleServiceError(c *gin.Context, err error) {
	var statusCode int
	var message string

	switch {
	case errors.Is(err, models.ErrInvalidCredentials):
		statusCode = http.StatusUnauthorized
		message = "Invalid email or password"
	case errors.Is(err, models.ErrEmailTaken):
		statusCode = http.StatusConflict
		message = "Email already exists"
	case errors.Is(err, models.ErrNicknameTaken):
		statusCode = http.StatusConflict
		message = "Nickname already exists"
	case errors.Is(err, models.ErrAccountNotFound):
		statusCode = http.StatusNotFound
		message = "Account not found"
	case errors.Is(err, models.ErrStoryNotFound):
		statusCode = http.StatusNotFound
		message = "Story not found"
	case errors.Is(err, models.ErrChapterNotFound):
		statusCode = http.StatusNotFound
		message = "Chapter not found"
	case errors.Is(err, models.ErrNotFound):
		statusCode = http.StatusNotFound
		message = "Resource not found"
	case errors.Is(err, models.ErrChapterStoryMismatch):
		statusCode = http.StatusBadRequest
		message = "Source and target chapters must belong to the same story"
	case errors.Is(err, models.ErrReferencedRowNotFound):
		statusCode = http.StatusBadRequest
		message = "Referenced record does not exist"
	case errors.Is(err, models.ErrForbidden):
		statusCode = http.StatusForbidden
		message = "You do not have permission to perform this action"
	case errors.Is(err, models.ErrTokenInvalid), errors.Is(err, models.ErrTokenMalformed):
		statusCode = http.StatusUnauthorized
		message = "Token is invalid or malformed"
	case errors.Is(err, models.ErrTokenExpired):
		statusCode = http.StatusUnauthorized
		message = "Token has expired"
	case errors.Is(err, models.ErrTokenNotFound):
		statusCode = http.StatusUnauthorized
		message = "Provided token is invalid (possibly revoked or expired)"
	case errors.Is(err, models.ErrUnauthorized):
		statusCode = http.StatusUnauthorized
		message = "Authentication required"
	case errors.Is(err, models.ErrInvalidInput), errors.Is(err, models.ErrBadRequest):
		statusCode = http.StatusBadRequest
		message = err.Error()
	default:
		zap.L().Error("Unhandled internal error in handleServiceError", zap.Error(err))
		statusCode = http.StatusInternalServerError
		message = "An unexpected internal error occurred"
	}

	c.AbortWithStatusJSON(statusCode, models.ErrorResponse{Error: message})
}
