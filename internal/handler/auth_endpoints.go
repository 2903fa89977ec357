package handler

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storyforge/internal/models"
)

const (
	minNicknameLength = 3
	maxNicknameLength = 30
	minPasswordLength = 8
	maxPasswordLength = 72 // bcrypt input limit
)

var nicknameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// register creates a new account from email, nickname and password.
// The password is never echoed back.
func (h *AuthHandler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request data: " + err.Error()})
		return
	}

	if len(req.Nickname) < minNicknameLength || len(req.Nickname) > maxNicknameLength {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{
			Error: fmt.Sprintf("Nickname length must be between %d and %d characters", minNicknameLength, maxNicknameLength),
		})
		return
	}
	if !nicknameRegex.MatchString(req.Nickname) {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "Nickname can only contain letters, numbers, underscores, and hyphens",
		})
		return
	}
	if len(req.Password) < minPasswordLength || len(req.Password) > maxPasswordLength {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{
			Error: fmt.Sprintf("Password length must be between %d and %d characters", minPasswordLength, maxPasswordLength),
		})
		return
	}

	account, err := h.authService.Register(c.Request.Context(), req.Email, req.Nickname, req.Password)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	registrationsTotal.Inc()
	c.JSON(http.StatusCreated, gin.H{
		"id":       account.ID,
		"email":    account.Email,
		"nickname": account.Nickname,
	})
}

// login authenticates by email and returns an access/refresh token pair.
func (h *AuthHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	tokens, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokens)
}

// refresh rotates an access/refresh token pair.
func (h *AuthHandler) refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Error: "Missing or invalid refresh_token in request body: " + err.Error()})
		return
	}

	tokens, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	refreshesTotal.Inc()
	c.JSON(http.StatusOK, tokens)
}

// logout revokes the caller's token pair.
func (h *AuthHandler) logout(c *gin.Context) {
	accessUUIDRaw, exists := c.Get(contextKeyAccessUUID)
	if !exists {
		zap.L().Error("Access UUID missing in context during logout")
		handleServiceError(c, errors.New("internal server error: context missing access uuid"))
		return
	}
	accessUUID, ok := accessUUIDRaw.(string)
	if !ok || accessUUID == "" {
		zap.L().Error("Invalid or empty access UUID in context during logout", zap.Any("uuid_raw", accessUUIDRaw))
		handleServiceError(c, errors.New("internal server error: invalid access uuid in context"))
		return
	}

	var req logoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Error: "Missing or invalid refresh_token in request body: " + err.Error()})
		return
	}

	// Extract the refresh UUID so both halves of the pair get revoked.
	refreshUUID := ""
	if claims, err := h.authService.ParseToken(req.RefreshToken); err == nil {
		refreshUUID = claims.ID
	}

	if err := h.authService.Logout(c.Request.Context(), accessUUID, refreshUUID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}
