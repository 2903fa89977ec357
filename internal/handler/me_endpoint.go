package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getMe returns the profile of the authenticated account.
func (h *AuthHandler) getMe(c *gin.Context) {
	accountID, ok := getAccountIDFromContext(c)
	if !ok {
		return
	}

	account, err := h.accountRepo.GetByID(c.Request.Context(), accountID)
	if err != nil {
		zap.L().Error("Failed to load account for /me", zap.Error(err), zap.Int64("accountID", accountID))
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, meResponse{
		ID:       account.ID,
		Email:    account.Email,
		Nickname: account.Nickname,
	})
}
