package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storyforge/internal/models"
	"storyforge/internal/service"
)

const (
	contextKeyAccountID  = "account_id"
	contextKeyAccessUUID = "access_uuid"
)

// AuthMiddleware verifies the Bearer access token and stores the account ID
// and access token UUID in the request context. Requests without a valid
// token are rejected.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			zap.L().Warn("Authorization header missing")
			handleServiceError(c, models.ErrTokenInvalid)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			zap.L().Warn("Invalid Authorization header format")
			handleServiceError(c, models.ErrTokenInvalid)
			return
		}

		claims, err := authService.VerifyAccessToken(c.Request.Context(), parts[1])
		if err != nil {
			zap.L().Warn("Access token verification failed", zap.Error(err))
			handleServiceError(c, err)
			return
		}

		c.Set(contextKeyAccountID, claims.AccountID)
		c.Set(contextKeyAccessUUID, claims.ID)
		zap.L().Debug("Access token verified successfully",
			zap.Int64("accountID", claims.AccountID),
			zap.String("accessUUID", claims.ID),
		)
		c.Next()
	}
}

// getAccountIDFromContext extracts the authenticated account's ID placed in
// the context by AuthMiddleware. It aborts the request when missing.
func getAccountIDFromContext(c *gin.Context) (int64, bool) {
	raw, exists := c.Get(contextKeyAccountID)
	if !exists {
		zap.L().Error("Account ID missing in context; AuthMiddleware not applied?")
		c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return 0, false
	}
	accountID, ok := raw.(int64)
	if !ok {
		zap.L().Error("Invalid account ID type in context", zap.Any("raw", raw))
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{Error: "An unexpected internal error occurred"})
		return 0, false
	}
	return accountID, true
}
