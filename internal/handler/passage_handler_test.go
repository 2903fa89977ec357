package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storyforge/internal/models"
)

func newPassageFixture(t *testing.T) (*gin.Engine, *fakePassageRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	passages := newFakePassageRepo()
	h := NewPassageHandler(passages, &stubAuthService{}, zap.NewNop())

	router := gin.New()
	h.RegisterRoutes(router)
	return router, passages
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
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
	router.ServeHTTP(w, req)
	return w
}

func TestCreatePassage(t *testing.T) {
	router, _ := newPassageFixture(t)

	path := []map[string]any{
		{"chapter": 1, "action": 10},
		{"chapter": 2, "action": 11},
	}
	w := doJSON(t, router, http.MethodPost, "/api/passages", tokenFor(7), gin.H{
		"story": 3,
		"path":  path,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var passage models.Passage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &passage))
	assert.NotZero(t, passage.ID)
	assert.Equal(t, int64(3), passage.StoryID)
	// The reader identity comes from the token, never the body.
	assert.Equal(t, int64(7), passage.AccountID)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(passage.Path, &decoded))
	assert.Len(t, decoded, 2)
}

func TestCreatePassageRequiresAuth(t *testing.T) {
	router, _ := newPassageFixture(t)

	w := doJSON(t, router, http.MethodPost, "/api/passages", "", gin.H{
		"story": 3,
		"path":  []int{1, 2},
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetPassageIsPublic(t *testing.T) {
	router, _ := newPassageFixture(t)

	w := doJSON(t, router, http.MethodPost, "/api/passages", tokenFor(7), gin.H{
		"story": 3,
		"path":  []int{1, 2, 3},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/passages/1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var passage models.Passage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &passage))
	assert.Equal(t, int64(3), passage.StoryID)

	w = doJSON(t, router, http.MethodGet, "/api/passages/99", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPassageHasNoMutationRoutes(t *testing.T) {
	router, _ := newPassageFixture(t)

	w := doJSON(t, router, http.MethodPost, "/api/passages", tokenFor(7), gin.H{
		"story": 3,
		"path":  []int{1},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Passages are immutable; no update or delete endpoints exist.
	w = doJSON(t, router, http.MethodPut, "/api/passages/1", tokenFor(7), gin.H{"path": []int{9}})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/api/passages/1", tokenFor(7), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
