package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storyforge/internal/models"
)

// listChapters lists chapters, optionally restricted to one story with
// ?story_id=.
func (h *StoryEditorHandler) listChapters(c *gin.Context) {
	storyID, ok := parseOptionalIDQuery(c, "story_id")
	if !ok {
		return
	}

	chapters, err := h.chapterRepo.List(c.Request.Context(), storyID)
	if err != nil {
		h.logger.Error("Failed to list chapters", zap.Error(err), zap.Int64p("storyID", storyID))
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, chapters)
}

// getChapter returns a chapter by ID.
func (h *StoryEditorHandler) getChapter(c *gin.Context) {
	chapterID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	chapter, err := h.chapterRepo.GetByID(c.Request.Context(), chapterID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, chapter)
}

// createChapter adds a chapter to a story the caller owns.
func (h *StoryEditorHandler) createChapter(c *gin.Context) {
	accountID, ok := getAccountIDFromContext(c)
	if !ok {
		return
	}

	var req chapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request data: " + err.Error()})
		return
	}

	if _, err := h.ownership.AuthorizeStory(c.Request.Context(), accountID, req.StoryID); err != nil {
		handleServiceError(c, err)
		return
	}

	chapter := &models.Chapter{
		StoryID: req.StoryID,
		Title:   req.Title,
		Content: req.Content,
	}

	if err := h.chapterRepo.Create(c.Request.Context(), chapter); err != nil {
		h.logger.Error("Failed to create chapter", zap.Error(err), zap.Int64("storyID", req.StoryID))
		handleServiceError(c, err)
		return
	}

	h.logger.Info("Chapter created", zap.Int64("chapterID", chapter.ID), zap.Int64("storyID", chapter.StoryID))
	c.JSON(http.StatusCreated, chapter)
}

// updateChapter replaces the mutable fields of a chapter in a story the
// caller owns. Chapters cannot be moved between stories.
func (h *StoryEditorHandler) updateChapter(c *gin.Context) {
	accountID, ok := getAccountIDFromContext(c)
	if !ok {
		return
	}
	chapterID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req chapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request data: " + err.Error()})
		return
	}

	chapter, err := h.ownership.AuthorizeChapter(c.Request.Context(), accountID, chapterID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if req.StoryID != chapter.StoryID {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Error: "A chapter cannot be moved to another story"})
		return
	}

	chapter.Title = req.Title
	chapter.Content = req.Content

	if err := h.chapterRepo.Update(c.Request.Context(), chapter); err != nil {
		h.logger.Error("Failed to update chapter", zap.Error(err), zap.Int64("chapterID", chapterID))
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, chapter)
}

// deleteChapter removes a chapter from a story the caller owns. Actions
// leading out of the chapter are deleted; actions pointing at it become
// endings.
func (h *StoryEditorHandler) deleteChapter(c *gin.Context) {
	accountID, ok := getAccountIDFromContext(c)
	if !ok {
		return
	}
	chapterID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := h.ownership.AuthorizeChapter(c.Request.Context(), accountID, chapterID); err != nil {
		handleServiceError(c, err)
		return
	}

	if err := h.chapterRepo.Delete(c.Request.Context(), chapterID); err != nil {
		h.logger.Error("Failed to delete chapter", zap.Error(err), zap.Int64("chapterID", chapterID))
		handleServiceError(c, err)
		return
	}

	h.logger.Info("Chapter deleted", zap.Int64("chapterID", chapterID))
	c.Status(http.StatusNoContent)
}
