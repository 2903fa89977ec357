package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storyforge/internal/models"
)

// listActions lists actions, optionally restricted to one source chapter with
// ?source_chapter_id=.
func (h *StoryEditorHandler) listActions(c *gin.Context) {
	sourceChapterID, ok := parseOptionalIDQuery(c, "source_chapter_id")
	if !ok {
		return
	}

	actions, err := h.actionRepo.List(c.Request.Context(), sourceChapterID)
	if err != nil {
		h.logger.Error("Failed to list actions", zap.Error(err), zap.Int64p("sourceChapterID", sourceChapterID))
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, actions)
}

// getAction returns an action by ID.
func (h *StoryEditorHandler) getAction(c *gin.Context) {
	actionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	action, err := h.actionRepo.GetByID(c.Request.Context(), actionID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, action)
}

// validateActionTarget ensures the target chapter, when set, belongs to the
// same story as the source chapter. A nil target marks the action as an
// ending.
func (h *StoryEditorHandler) validateActionTarget(c *gin.Context, sourceStoryID int64, targetChapterID *int64) bool {
	if targetChapterID == nil {
		return true
	}
	target, err := h.chapterRepo.GetByID(c.Request.Context(), *targetChapterID)
	if err != nil {
		handleServiceError(c, err)
		return false
	}
	if target.StoryID != sourceStoryID {
		handleServiceError(c, models.ErrChapterStoryMismatch)
		return false
	}
	return true
}

// createAction adds a choice leading out of a chapter the caller owns.
func (h *StoryEditorHandler) createAction(c *gin.Context) {
	accountID, ok := getAccountIDFromContext(c)
	if !ok {
		return
	}

	var req actionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request data: " + err.Error()})
		return
	}

	source, err := h.ownership.AuthorizeChapter(c.Request.Context(), accountID, req.SourceChapterID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if !h.validateActionTarget(c, source.StoryID, req.TargetChapterID) {
		return
	}

	action := &models.Action{
		Text:            req.Text,
		SourceChapterID: req.SourceChapterID,
		TargetChapterID: req.TargetChapterID,
	}

	if err := h.actionRepo.Create(c.Request.Context(), action); err != nil {
		h.logger.Error("Failed to create action", zap.Error(err), zap.Int64("sourceChapterID", req.SourceChapterID))
		handleServiceError(c, err)
		return
	}

	h.logger.Info("Action created", zap.Int64("actionID", action.ID), zap.Int64("sourceChapterID", action.SourceChapterID))
	c.JSON(http.StatusCreated, action)
}

// updateAction replaces the mutable fields of an action. The caller must own
// the story of the current source chapter and, when the source changes, the
// story of the new one as well.
func (h *StoryEditorHandler) updateAction(c *gin.Context) {
	accountID, ok := getAccountIDFromContext(c)
	if !ok {
		return
	}
	actionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req actionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request data: " + err.Error()})
		return
	}

	action, err := h.actionRepo.GetByID(c.Request.Context(), actionID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if _, err := h.ownership.AuthorizeChapter(c.Request.Context(), accountID, action.SourceChapterID); err != nil {
		handleServiceError(c, err)
		return
	}

	source := (*models.Chapter)(nil)
	if req.SourceChapterID != action.SourceChapterID {
		source, err = h.ownership.AuthorizeChapter(c.Request.Context(), accountID, req.SourceChapterID)
		if err != nil {
			handleServiceError(c, err)
			return
		}
	} else {
		source, err = h.chapterRepo.GetByID(c.Request.Context(), action.SourceChapterID)
		if err != nil {
			handleServiceError(c, err)
			return
		}
	}

	if !h.validateActionTarget(c, source.StoryID, req.TargetChapterID) {
		return
	}

	action.Text = req.Text
	action.SourceChapterID = req.SourceChapterID
	action.TargetChapterID = req.TargetChapterID

	if err := h.actionRepo.Update(c.Request.Context(), action); err != nil {
		h.logger.Error("Failed to update action", zap.Error(err), zap.Int64("actionID", actionID))
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, action)
}

// deleteAction removes an action from a chapter the caller owns.
func (h *StoryEditorHandler) deleteAction(c *gin.Context) {
	accountID, ok := getAccountIDFromContext(c)
	if !ok {
		return
	}
	actionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	action, err := h.actionRepo.GetByID(c.Request.Context(), actionID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if _, err := h.ownership.AuthorizeChapter(c.Request.Context(), accountID, action.SourceChapterID); err != nil {
		handleServiceError(c, err)
		return
	}

	if err := h.actionRepo.Delete(c.Request.Context(), actionID); err != nil {
		h.logger.Error("Failed to delete action", zap.Error(err), zap.Int64("actionID", actionID))
		handleServiceError(c, err)
		return
	}

	h.logger.Info("Action deleted", zap.Int64("actionID", actionID))
	c.Status(http.StatusNoContent)
}
