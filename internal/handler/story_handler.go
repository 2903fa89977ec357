package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storyforge/internal/interfaces"
	"storyforge/internal/models"
	"storyforge/internal/service"
)

// StoryEditorHandler serves the authoring and browsing surface: stories,
// chapters, characters and actions. Reads are public; every mutation requires
// the caller to own the story it touches.
type StoryEditorHandler struct {
	storyRepo     interfaces.StoryRepository
	chapterRepo   interfaces.ChapterRepository
	characterRepo interfaces.CharacterRepository
	actionRepo    interfaces.ActionRepository
	authService   service.AuthService
	ownership     *service.OwnershipService
	logger        *zap.Logger
}

// NewStoryEditorHandler creates a new StoryEditorHandler.
func NewStoryEditorHandler(
	storyRepo interfaces.StoryRepository,
	chapterRepo interfaces.ChapterRepository,
	characterRepo interfaces.CharacterRepository,
	actionRepo interfaces.ActionRepository,
	authService service.AuthService,
	ownership *service.OwnershipService,
	logger *zap.Logger,
) *StoryEditorHandler {
	return &StoryEditorHandler{
		storyRepo:     storyRepo,
		chapterRepo:   chapterRepo,
		characterRepo: characterRepo,
		actionRepo:    actionRepo,
		authService:   authService,
		ownership:     ownership,
		logger:        logger.Named("StoryEditorHandler"),
	}
}

// RegisterRoutes mounts the editor endpoints on the router.
func (h *StoryEditorHandler) RegisterRoutes(router *gin.Engine) {
	// Public browsing surface. Anyone may read stories and their graphs.
	public := router.Group("/api")
	{
		public.GET("/browse-stories", h.browseStories)
		public.GET("/browse-stories/:id", h.browseStoryByID)
		public.GET("/chapters", h.listChapters)
		public.GET("/chapters/:id", h.getChapter)
		public.GET("/characters", h.listCharacters)
		public.GET("/characters/:id", h.getCharacter)
		public.GET("/actions", h.listActions)
		public.GET("/actions/:id", h.getAction)
	}

	// Authoring surface. The stories collection is scoped to the caller.
	protected := router.Group("/api")
	protected.Use(AuthMiddleware(h.authService))
	{
		protected.GET("/stories", h.listMyStories)
		protected.POST("/stories", h.createStory)
		protected.GET("/stories/:id", h.getMyStory)
		protected.PUT("/stories/:id", h.updateStory)
		protected.DELETE("/stories/:id", h.deleteStory)

		protected.POST("/chapters", h.createChapter)
		protected.PUT("/chapters/:id", h.updateChapter)
		protected.DELETE("/chapters/:id", h.deleteChapter)

		protected.POST("/characters", h.createCharacter)
		protected.PUT("/characters/:id", h.updateCharacter)
		protected.DELETE("/characters/:id", h.deleteCharacter)

		protected.POST("/actions", h.createAction)
		protected.PUT("/actions/:id", h.updateAction)
		protected.DELETE("/actions/:id", h.deleteAction)
	}
}

// parseIDParam reads an int64 path parameter. It aborts the request with 400
// on failure.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid " + name + " parameter"})
		return 0, false
	}
	return id, true
}

// parseOptionalIDQuery reads an optional int64 query parameter, returning nil
// when absent. It aborts the request with 400 on a malformed value.
func parseOptionalIDQuery(c *gin.Context, name string) (*int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid " + name + " query parameter"})
		return nil, false
	}
	return &id, true
}
