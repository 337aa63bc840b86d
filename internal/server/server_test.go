package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/hackathon-api/internal/config"
	"github.com/gravadigital/hackathon-api/internal/middleware/auth"
	"github.com/gravadigital/hackathon-api/internal/services"
	"github.com/gravadigital/hackathon-api/internal/storage/memory"
)

const (
	testSecret = "server-test-secret"
	adminEmail = "admin@example.com"
	userEmail  = "ana@example.com"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Code    int             `json:"code"`
	Data    json.RawMessage `json:"data"`
}

type testAPI struct {
	t      *testing.T
	router *gin.Engine
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	cfg := &config.Config{}
	cfg.Server.GinMode = gin.TestMode
	cfg.Server.Environment = "test"
	cfg.Storage.Type = "memory"
	cfg.Auth.JWTSecret = testSecret
	cfg.CORS.AllowOrigins = "http://localhost:3000"
	cfg.CORS.AllowMethods = "GET,POST,PUT,DELETE"
	cfg.CORS.AllowHeaders = "Authorization,Content-Type"

	store := memory.NewContainer()
	svcs := services.New(store, services.Options{MaxIdeasPerEvent: 5})
	require.NoError(t, svcs.Users.SeedAdmins(t.Context(), []string{adminEmail}))

	return &testAPI{t: t, router: New(cfg, store, svcs).Router()}
}

func (a *testAPI) do(method, path, email string, body any) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if email != "" {
		token, err := auth.IssueToken(testSecret, email, "", time.Hour)
		require.NoError(a.t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func (a *testAPI) createEvent(title string) uint {
	a.t.Helper()
	w, env := a.do(http.MethodPost, "/api/events", adminEmail, gin.H{"title": title, "event_date": "2026-03-01"})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())

	var e struct {
		ID uint `json:"id"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &e))
	return e.ID
}

func TestOperationalRoutes(t *testing.T) {
	api := newTestAPI(t)

	w, _ := api.do(http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = api.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"storage":"memory"`)

	w = httptest.NewRecorder()
	api.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMutationsNeedToken(t *testing.T) {
	api := newTestAPI(t)

	w, env := api.do(http.MethodPost, "/api/events", "", gin.H{"title": "Spring", "event_date": "2026-03-01"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, env.Success)

	w, _ = api.do(http.MethodGet, "/api/contributor-requests/count", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = api.do(http.MethodGet, "/api/events", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestEventRoutes(t *testing.T) {
	api := newTestAPI(t)

	w, env := api.do(http.MethodPost, "/api/events", userEmail, gin.H{"title": "Spring", "event_date": "2026-03-01"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, http.StatusForbidden, env.Code)

	w, _ = api.do(http.MethodPost, "/api/events", adminEmail, gin.H{"title": "Spring", "event_date": "March"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	id := api.createEvent("Spring")

	w, env = api.do(http.MethodGet, fmt.Sprintf("/api/events/%d", id), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.Contains(t, string(env.Data), `"title":"Spring"`)

	w, _ = api.do(http.MethodGet, "/api/events/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = api.do(http.MethodGet, "/api/events/999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = api.do(http.MethodPut, fmt.Sprintf("/api/events/%d/stage", id), adminEmail, gin.H{"stage": "dancing"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = api.do(http.MethodPut, fmt.Sprintf("/api/events/%d/stage", id), adminEmail, gin.H{"stage": 2, "sub_stage": 1})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, string(env.Data), `"stage":2`)

	w, _ = api.do(http.MethodPut, fmt.Sprintf("/api/events/%d/stage", id), adminEmail, gin.H{"stage": "submission"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = api.do(http.MethodPut, fmt.Sprintf("/api/events/%d/sub-stage", id), adminEmail, gin.H{"sub_stage": 2})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, string(env.Data), `"current_sub_stage":2`)
}

func TestIdeaVoteFlow(t *testing.T) {
	api := newTestAPI(t)
	eventID := api.createEvent("Spring")

	w, env := api.do(http.MethodPost, "/api/ideas", userEmail, gin.H{
		"title":       "Solar",
		"description": "Panels on every roof",
		"event_id":    eventID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))

	w, _ = api.do(http.MethodPost, "/api/ideas", userEmail, gin.H{"title": "Missing fields"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = api.do(http.MethodPut, fmt.Sprintf("/api/ideas/%d", created.ID), "stranger@example.com", gin.H{"title": "Mine now"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = api.do(http.MethodPost, fmt.Sprintf("/api/ideas/%d/like", created.ID), "fan@example.com", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, string(env.Data), `"likes":1`)

	w, _ = api.do(http.MethodPost, fmt.Sprintf("/api/ideas/%d/like", created.ID), "fan@example.com", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = api.do(http.MethodPut, fmt.Sprintf("/api/events/%d/stage", eventID), adminEmail, gin.H{"stage": "voting"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, _ = api.do(http.MethodPost, "/api/votes/category", "fan@example.com", gin.H{
		"event_id": eventID,
		"idea_id":  created.ID,
		"category": "Most Creative",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, env = api.do(http.MethodGet, fmt.Sprintf("/api/events/%d/my-votes", eventID), "fan@example.com", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"category":"Most Creative"`)

	w, env = api.do(http.MethodPost, fmt.Sprintf("/api/events/%d/results-time", eventID), adminEmail, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, string(env.Data), `"Hackathon Winner"`)

	w, env = api.do(http.MethodGet, "/api/leaderboard", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"idea_title":"Solar"`)

	w, env = api.do(http.MethodGet, "/api/users/"+userEmail+"/wins", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"event_title":"Spring"`)
}

func TestCheckAdmin(t *testing.T) {
	api := newTestAPI(t)

	w, env := api.do(http.MethodGet, "/api/users/me/admin", adminEmail, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"is_admin":true`)

	w, env = api.do(http.MethodGet, "/api/users/me/admin", userEmail, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"is_admin":false`)
}
