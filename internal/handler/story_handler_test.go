package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storyforge/internal/models"
	"storyforge/internal/service"
)

type editorFixture struct {
	router     *gin.Engine
	stories    *fakeStoryRepo
	chapters   *fakeChapterRepo
	characters *fakeCharacterRepo
	actions    *fakeActionRepo
}

func newEditorFixture(t *testing.T) *editorFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &editorFixture{
		stories:    newFakeStoryRepo(),
		chapters:   newFakeChapterRepo(),
		characters: newFakeCharacterRepo(),
		actions:    newFakeActionRepo(),
	}

	auth := &stubAuthService{}
	ownership := service.NewOwnershipService(f.stories, f.chapters, zap.NewNop())
	h := NewStoryEditorHandler(f.stories, f.chapters, f.characters, f.actions, auth, ownership, zap.NewNop())

	f.router = gin.New()
	h.RegisterRoutes(f.router)
	return f
}

func (f *editorFixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *editorFixture) seedStory(t *testing.T, authorID int64, title string) *models.Story {
	t.Helper()
	story := &models.Story{AuthorID: authorID, Title: title}
	require.NoError(t, f.stories.Create(context.Background(), story))
	return story
}

func (f *editorFixture) seedChapter(t *testing.T, storyID int64, title string) *models.Chapter {
	t.Helper()
	chapter := &models.Chapter{StoryID: storyID, Title: title}
	require.NoError(t, f.chapters.Create(context.Background(), chapter))
	return chapter
}

func TestCreateStory(t *testing.T) {
	f := newEditorFixture(t)

	w := f.do(t, http.MethodPost, "/api/stories", tokenFor(1), gin.H{
		"title": "The Cave",
		"genre": "Fantasy",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var story models.Story
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &story))
	assert.Equal(t, int64(1), story.AuthorID)
	assert.Equal(t, "The Cave", story.Title)
	assert.NotZero(t, story.ID)
}

func TestCreateStoryRequiresAuth(t *testing.T) {
	f := newEditorFixture(t)

	w := f.do(t, http.MethodPost, "/api/stories", "", gin.H{"title": "The Cave"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.do(t, http.MethodPost, "/api/stories", "Bearer garbage", gin.H{"title": "The Cave"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListMyStoriesIsOwnerScoped(t *testing.T) {
	f := newEditorFixture(t)
	f.seedStory(t, 1, "Mine")
	f.seedStory(t, 2, "Theirs")

	w := f.do(t, http.MethodGet, "/api/stories", tokenFor(1), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stories []models.Story
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stories))
	require.Len(t, stories, 1)
	assert.Equal(t, "Mine", stories[0].Title)
}

func TestGetMyStoryForbiddenForNonOwner(t *testing.T) {
	f := newEditorFixture(t)
	story := f.seedStory(t, 1, "Mine")

	w := f.do(t, http.MethodGet, "/api/stories/1", tokenFor(2), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(t, http.MethodGet, "/api/stories/1", tokenFor(story.AuthorID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateStory(t *testing.T) {
	f := newEditorFixture(t)
	f.seedStory(t, 1, "Old Title")

	w := f.do(t, http.MethodPut, "/api/stories/1", tokenFor(2), gin.H{"title": "Hijacked"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(t, http.MethodPut, "/api/stories/1", tokenFor(1), gin.H{
		"title": "New Title",
		"genre": "Horror",
	})
	require.Equal(t, http.StatusOK, w.Code)

	stored, err := f.stories.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "New Title", stored.Title)
	assert.Equal(t, "Horror", stored.Genre)
}

func TestDeleteStory(t *testing.T) {
	f := newEditorFixture(t)
	f.seedStory(t, 1, "Doomed")

	w := f.do(t, http.MethodDelete, "/api/stories/1", tokenFor(2), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(t, http.MethodDelete, "/api/stories/1", tokenFor(1), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	_, err := f.stories.GetByID(context.Background(), 1)
	assert.ErrorIs(t, err, models.ErrStoryNotFound)
}

func TestBrowseStoriesIsPublic(t *testing.T) {
	f := newEditorFixture(t)
	f.seedStory(t, 1, "Alpha")
	f.seedStory(t, 2, "Beta")

	w := f.do(t, http.MethodGet, "/api/browse-stories", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stories []models.Story
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stories))
	assert.Len(t, stories, 2)

	w = f.do(t, http.MethodGet, "/api/browse-stories/2", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodGet, "/api/browse-stories/99", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestChapterMutationsRequireStoryOwnership(t *testing.T) {
	f := newEditorFixture(t)
	story := f.seedStory(t, 1, "Mine")

	// Non-owner cannot add a chapter.
	w := f.do(t, http.MethodPost, "/api/chapters", tokenFor(2), gin.H{
		"story": story.ID,
		"title": "Intruder Chapter",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(t, http.MethodPost, "/api/chapters", tokenFor(1), gin.H{
		"story": story.ID,
		"title": "Chapter One",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var chapter models.Chapter
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &chapter))

	// Anyone can read it.
	w = f.do(t, http.MethodGet, "/api/chapters/1", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Only the story owner can update or delete it.
	w = f.do(t, http.MethodPut, "/api/chapters/1", tokenFor(2), gin.H{
		"story": story.ID,
		"title": "Hijacked",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(t, http.MethodDelete, "/api/chapters/1", tokenFor(2), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(t, http.MethodDelete, "/api/chapters/1", tokenFor(1), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestChapterCannotMoveBetweenStories(t *testing.T) {
	f := newEditorFixture(t)
	storyA := f.seedStory(t, 1, "A")
	storyB := f.seedStory(t, 1, "B")
	chapter := f.seedChapter(t, storyA.ID, "One")

	w := f.do(t, http.MethodPut, "/api/chapters/1", tokenFor(1), gin.H{
		"story": storyB.ID,
		"title": "Moved",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	stored, err := f.chapters.GetByID(context.Background(), chapter.ID)
	require.NoError(t, err)
	assert.Equal(t, storyA.ID, stored.StoryID)
}

func TestListChaptersFilterByStory(t *testing.T) {
	f := newEditorFixture(t)
	storyA := f.seedStory(t, 1, "A")
	storyB := f.seedStory(t, 1, "B")
	f.seedChapter(t, storyA.ID, "A1")
	f.seedChapter(t, storyA.ID, "A2")
	f.seedChapter(t, storyB.ID, "B1")

	w := f.do(t, http.MethodGet, "/api/chapters?story_id=1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var chapters []models.Chapter
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &chapters))
	assert.Len(t, chapters, 2)

	w = f.do(t, http.MethodGet, "/api/chapters", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &chapters))
	assert.Len(t, chapters, 3)

	w = f.do(t, http.MethodGet, "/api/chapters?story_id=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCharacterLifecycle(t *testing.T) {
	f := newEditorFixture(t)
	story := f.seedStory(t, 1, "Mine")

	w := f.do(t, http.MethodPost, "/api/characters", tokenFor(2), gin.H{
		"story": story.ID,
		"name":  "Villain",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(t, http.MethodPost, "/api/characters", tokenFor(1), gin.H{
		"story":       story.ID,
		"name":        "Hero",
		"description": "Brave",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var character models.Character
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &character))
	assert.Equal(t, "Hero", character.Name)

	w = f.do(t, http.MethodPut, "/api/characters/1", tokenFor(1), gin.H{
		"story": story.ID,
		"name":  "Renamed Hero",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodGet, "/api/characters/1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &character))
	assert.Equal(t, "Renamed Hero", character.Name)

	w = f.do(t, http.MethodDelete, "/api/characters/1", tokenFor(1), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
