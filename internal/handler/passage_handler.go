package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storyforge/internal/interfaces"
	"storyforge/internal/models"
	"storyforge/internal/service"
)

// PassageHandler serves reading records. A passage is written once when a
// reader finishes a playthrough and can afterwards only be fetched; there is
// no update or delete surface.
type PassageHandler struct {
	passageRepo interfaces.PassageRepository
	authService service.AuthService
	logger      *zap.Logger
}

// NewPassageHandler creates a new PassageHandler.
func NewPassageHandler(passageRepo interfaces.PassageRepository, authService service.AuthService, logger *zap.Logger) *PassageHandler {
	return &PassageHandler{
		passageRepo: passageRepo,
		authService: authService,
		logger:      logger.Named("PassageHandler"),
	}
}

// RegisterRoutes mounts the passage endpoints on the router.
func (h *PassageHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/api/passages/:id", h.getPassage)

	protected := router.Group("/api")
	protected.Use(AuthMiddleware(h.authService))
	{
		protected.POST("/passages", h.createPassage)
	}
}

// createPassage records a finished playthrough for the authenticated account.
// The path is stored verbatim; the reading client defines its shape.
func (h *PassageHandler) createPassage(c *gin.Context) {
	accountID, ok := getAccountIDFromContext(c)
	if !ok {
		return
	}

	var req passageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request data: " + err.Error()})
		return
	}
	if !json.Valid(req.Path) {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Error: "Path must be valid JSON"})
		return
	}

	passage := &models.Passage{
		StoryID:   req.StoryID,
		AccountID: accountID,
		Path:      req.Path,
	}

	if err := h.passageRepo.Create(c.Request.Context(), passage); err != nil {
		h.logger.Error("Failed to create passage", zap.Error(err), zap.Int64("storyID", req.StoryID), zap.Int64("accountID", accountID))
		handleServiceError(c, err)
		return
	}

	passagesRecordedTotal.Inc()
	h.logger.Info("Passage recorded", zap.Int64("passageID", passage.ID), zap.Int64("storyID", passage.StoryID), zap.Int64("accountID", accountID))

	// Re-read so the response carries the resolved story title and nickname.
	created, err := h.passageRepo.GetByID(c.Request.Context(), passage.ID)
	if err != nil {
		c.JSON(http.StatusCreated, passage)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// getPassage returns a recorded passage with its story title and reader
// nickname resolved.
func (h *PassageHandler) getPassage(c *gin.Context) {
	passageID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	passage, err := h.passageRepo.GetByID(c.Request.Context(), passageID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, passage)
}
