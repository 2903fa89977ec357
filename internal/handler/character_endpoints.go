package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storyforge/internal/models"
)

// listCharacters lists characters, optionally restricted to one story with
// ?story_id=.
func (h *StoryEditorHandler) listCharacters(c *gin.Context) {
	storyID, ok := parseOptionalIDQuery(c, "story_id")
	if !ok {
		return
	}

	characters, err := h.characterRepo.List(c.Request.Context(), storyID)
	if err != nil {
		h.logger.Error("Failed to list characters", zap.Error(err), zap.Int64p("storyID", storyID))
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, characters)
}

// getCharacter returns a character by ID.
func (h *StoryEditorHandler) getCharacter(c *gin.Context) {
	characterID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	character, err := h.characterRepo.GetByID(c.Request.Context(), characterID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, character)
}

// createCharacter adds a character to a story the caller owns.
func (h *StoryEditorHandler) createCharacter(c *gin.Context) {
	accountID, ok := getAccountIDFromContext(c)
	if !ok {
		return
	}

	var req characterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request data: " + err.Error()})
		return
	}

	if _, err := h.ownership.AuthorizeStory(c.Request.Context(), accountID, req.StoryID); err != nil {
		handleServiceError(c, err)
		return
	}

	character := &models.Character{
		StoryID:         req.StoryID,
		Name:            req.Name,
		Description:     req.Description,
		IllustrationURL: req.IllustrationURL,
	}

	if err := h.characterRepo.Create(c.Request.Context(), character); err != nil {
		h.logger.Error("Failed to create character", zap.Error(err), zap.Int64("storyID", req.StoryID))
		handleServiceError(c, err)
		return
	}

	h.logger.Info("Character created", zap.Int64("characterID", character.ID), zap.Int64("storyID", character.StoryID))
	c.JSON(http.StatusCreated, character)
}

// updateCharacter replaces the mutable fields of a character in a story the
// caller owns.
func (h *StoryEditorHandler) updateCharacter(c *gin.Context) {
	accountID, ok := getAccountIDFromContext(c)
	if !ok {
		return
	}
	characterID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req characterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request data: " + err.Error()})
		return
	}

	character, err := h.characterRepo.GetByID(c.Request.Context(), characterID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if _, err := h.ownership.AuthorizeStory(c.Request.Context(), accountID, character.StoryID); err != nil {
		handleServiceError(c, err)
		return
	}

	if req.StoryID != character.StoryID {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Error: "A character cannot be moved to another story"})
		return
	}

	character.Name = req.Name
	character.Description = req.Description
	character.IllustrationURL = req.IllustrationURL

	if err := h.characterRepo.Update(c.Request.Context(), character); err != nil {
		h.logger.Error("Failed to update character", zap.Error(err), zap.Int64("characterID", characterID))
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, character)
}

// deleteCharacter removes a character from a story the caller owns.
func (h *StoryEditorHandler) deleteCharacter(c *gin.Context) {
	accountID, ok := getAccountIDFromContext(c)
	if !ok {
		return
	}
	characterID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	character, err := h.characterRepo.GetByID(c.Request.Context(), characterID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if _, err := h.ownership.AuthorizeStory(c.Request.Context(), accountID, character.StoryID); err != nil {
		handleServiceError(c, err)
		return
	}

	if err := h.characterRepo.Delete(c.Request.Context(), characterID); err != nil {
		h.logger.Error("Failed to delete character", zap.Error(err), zap.Int64("characterID", characterID))
		handleServiceError(c, err)
		return
	}

	h.logger.Info("Character deleted", zap.Int64("characterID", characterID))
	c.Status(http.StatusNoContent)
}
