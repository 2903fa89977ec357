package handler

import (
	"github.com/gin-gonic/gin"

	"storyforge/internal/interfaces"
	"storyforge/internal/service"
)

// AuthHandler serves registration, login and the current-account profile.
type AuthHandler struct {
	authService service.AuthService
	accountRepo interfaces.AccountRepository
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService, accountRepo interfaces.AccountRepository) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		accountRepo: accountRepo,
	}
}

// RegisterRoutes mounts the auth endpoints on the router.
func (h *AuthHandler) RegisterRoutes(router *gin.Engine) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", h.register)
		authGroup.POST("/login", h.login)
		authGroup.POST("/refresh", h.refresh)
		authGroup.POST("/logout", AuthMiddleware(h.authService), h.logout)
	}

	protected := router.Group("/api")
	protected.Use(AuthMiddleware(h.authService))
	{
		protected.GET("/me", h.getMe)
	}
}
