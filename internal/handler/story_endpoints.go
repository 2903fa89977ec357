package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storyforge/internal/interfaces"
	"storyforge/internal/models"
)

// browseStories lists every story, newest-updated first, optionally filtered
// by ?genre= (case-insensitive exact match) and ?search= (substring match
// across title, description, genre and author nickname).
func (h *StoryEditorHandler) browseStories(c *gin.Context) {
	filter := interfaces.StoryFilter{
		Genre:  c.Query("genre"),
		Search: c.Query("search"),
	}

	stories, err := h.storyRepo.ListPublic(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list public stories", zap.Error(err))
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stories)
}

// browseStoryByID returns any story by ID, regardless of owner.
func (h *StoryEditorHandler) browseStoryByID(c *gin.Context) {
	storyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	story, err := h.storyRepo.GetByID(c.Request.Context(), storyID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, story)
}

// listMyStories lists the authenticated account's own stories.
func (h *StoryEditorHandler) listMyStories(c *gin.Context) {
	accountID, ok := getAccountIDFromContext(c)
	if !ok {
		return
	}

	stories, err := h.storyRepo.ListByAuthor(c.Request.Context(), accountID)
	if err != nil {
		h.logger.Error("Failed to list stories by author", zap.Error(err), zap.Int64("accountID", accountID))
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stories)
}

// createStory creates a story owned by the authenticated account.
func (h *StoryEditorHandler) createStory(c *gin.Context) {
	accountID, ok := getAccountIDFromContext(c)
	if !ok {
		return
	}

	var req storyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request data: " + err.Error()})
		return
	}

	story := &models.Story{
		AuthorID:      accountID,
		Title:         req.Title,
		Description:   req.Description,
		Genre:         req.Genre,
		CoverImageURL: req.CoverImageURL,
	}

	if err := h.storyRepo.Create(c.Request.Context(), story); err != nil {
		h.logger.Error("Failed to create story", zap.Error(err), zap.Int64("accountID", accountID))
		handleServiceError(c, err)
		return
	}

	storiesCreatedTotal.Inc()
	h.logger.Info("Story created", zap.Int64("storyID", story.ID), zap.Int64("accountID", accountID))
	c.JSON(http.StatusCreated, story)
}

// getMyStory returns one of the caller's own stories.
func (h *StoryEditorHandler) getMyStory(c *gin.Context) {
	accountID, ok := getAccountIDFromContext(c)
	if !ok {
		return
	}
	storyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	story, err := h.ownership.AuthorizeStory(c.Request.Context(), accountID, storyID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, story)
}

// updateStory replaces the mutable fields of one of the caller's stories.
func (h *StoryEditorHandler) updateStory(c *gin.Context) {
	accountID, ok := getAccountIDFromContext(c)
	if !ok {
		return
	}
	storyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req storyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request data: " + err.Error()})
		return
	}

	story, err := h.ownership.AuthorizeStory(c.Request.Context(), accountID, storyID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	story.Title = req.Title
	story.Description = req.Description
	story.Genre = req.Genre
	story.CoverImageURL = req.CoverImageURL

	if err := h.storyRepo.Update(c.Request.Context(), story); err != nil {
		h.logger.Error("Failed to update story", zap.Error(err), zap.Int64("storyID", storyID))
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, story)
}

// deleteStory removes one of the caller's stories along with its chapters,
// characters, actions and passages.
func (h *StoryEditorHandler) deleteStory(c *gin.Context) {
	accountID, ok := getAccountIDFromContext(c)
	if !ok {
		return
	}
	storyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := h.ownership.AuthorizeStory(c.Request.Context(), accountID, storyID); err != nil {
		handleServiceError(c, err)
		return
	}

	if err := h.storyRepo.Delete(c.Request.Context(), storyID); err != nil {
		h.logger.Error("Failed to delete story", zap.Error(err), zap.Int64("storyID", storyID))
		handleServiceError(c, err)
		return
	}

	h.logger.Info("Story deleted", zap.Int64("storyID", storyID), zap.Int64("accountID", accountID))
	c.Status(http.StatusNoContent)
}
