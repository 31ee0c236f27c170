package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memeshare/internal/api/middleware"
	"memeshare/internal/app/service"
	"memeshare/internal/common/security"
	"memeshare/internal/domain/model"
	"memeshare/internal/domain/repository"
)

type testAPI struct {
	t       *testing.T
	db      *repository.MemoryDB
	handler http.Handler
}

func newTestAPI(t *testing.T, statEvents service.StatEventPublisher, limiter *middleware.RateLimiter) *testAPI {
	t.Helper()
	security.InitJWT([]byte("router-test-secret"), time.Hour)
	log, _ := logtest.NewNullLogger()
	db := repository.NewMemoryDB()
	return &testAPI{t: t, db: db, handler: NewRouter(db.Store, statEvents, limiter, log)}
}

func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// signup registers name and returns its id and token.
func (a *testAPI) signup(name string) (int64, string) {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/v1/auth/signup", "", service.SignupRequest{
		Username: name,
		Email:    name + "@example.com",
		Password: "hunter2",
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decode[service.AuthResponse](a.t, rec)
	return resp.User.ID, resp.Token
}

func (a *testAPI) createMeme(token, title string, public bool) model.Meme {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/v1/memes", token, map[string]any{
		"title":     title,
		"image_url": "https://img.example.com/" + title + ".png",
		"is_public": public,
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[model.Meme](a.t, rec)
}

func adminToken(t *testing.T, userID int64) string {
	t.Helper()
	token, err := security.GenerateToken(userID, model.RoleNameAdmin)
	require.NoError(t, err)
	return token
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []service.StatEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, ev service.StatEvent) error {
	if err := ev.Validate(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func TestHealthAndMetrics(t *testing.T) {
	api := newTestAPI(t, nil, nil)

	rec := api.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	rec = api.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "memeshare_http_requests_total")
}

func TestAuthFlow(t *testing.T) {
	api := newTestAPI(t, nil, nil)
	id, token := api.signup("alice")
	assert.NotZero(t, id)
	assert.NotEmpty(t, token)

	t.Run("login by username and email", func(t *testing.T) {
		for _, field := range []string{"alice", "alice@example.com"} {
			rec := api.do(http.MethodPost, "/api/v1/auth/login", "", service.LoginRequest{LoginField: field, Password: "hunter2"})
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, id, decode[service.AuthResponse](t, rec).User.ID)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/api/v1/auth/login", "", service.LoginRequest{LoginField: "alice", Password: "nope"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/api/v1/auth/signup", "", service.SignupRequest{
			Username: "alice2", Email: "alice@example.com", Password: "pw",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("password hash is never serialised", func(t *testing.T) {
		rec := api.do(http.MethodGet, fmt.Sprintf("/api/v1/users/%d", id), "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "password")
	})
}

func TestMemeOwnership(t *testing.T) {
	api := newTestAPI(t, nil, nil)
	_, aliceToken := api.signup("alice")
	_, bobToken := api.signup("bob")

	rec := api.do(http.MethodPost, "/api/v1/memes", "", map[string]any{"title": "x", "image_url": "y"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(http.MethodPost, "/api/v1/memes", "not-a-jwt", map[string]any{"title": "x", "image_url": "y"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	meme := api.createMeme(aliceToken, "cat", false)
	path := fmt.Sprintf("/api/v1/memes/%d", meme.ID)
	update := map[string]any{"title": "dog", "image_url": "https://img.example.com/dog.png"}

	rec = api.do(http.MethodPut, path, bobToken, update)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(http.MethodPut, path, aliceToken, update)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	t.Run("sub-resources are owner only", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/api/v1/tags", aliceToken, map[string]string{"tag_name": "funny"})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		tag := decode[model.Tag](t, rec)
		tagPath := fmt.Sprintf("%s/tags/%d", path, tag.ID)
		metadata := map[string]any{"file_size": 10, "width": 1, "height": 1, "format": "png", "mime_type": "image/png"}

		// alice sets everything up so that bob's removals have a target
		for _, call := range []struct {
			method, path string
			body         any
		}{
			{http.MethodPost, tagPath, nil},
			{http.MethodPost, path + "/metadata", metadata},
		} {
			rec := api.do(call.method, call.path, aliceToken, call.body)
			require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		}

		for _, call := range []struct {
			method, path string
			body         any
		}{
			{http.MethodPost, tagPath, nil},
			{http.MethodDelete, tagPath, nil},
			{http.MethodPost, path + "/metadata", metadata},
			{http.MethodPut, path + "/metadata", metadata},
			{http.MethodDelete, path + "/metadata", nil},
			{http.MethodPost, path + "/stats", nil},
		} {
			rec := api.do(call.method, call.path, bobToken, call.body)
			assert.Equal(t, http.StatusForbidden, rec.Code, "%s %s", call.method, call.path)
		}

		rec = api.do(http.MethodGet, path+"/tags", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []int64{tag.ID}, decode[[]int64](t, rec))
		assert.Equal(t, http.StatusOK, api.do(http.MethodGet, path+"/metadata", "", nil).Code)
		assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, path+"/stats", "", nil).Code)

		// clear the dependents so the meme itself can be deleted below
		assert.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, tagPath, aliceToken, nil).Code)
		assert.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, path+"/metadata", aliceToken, nil).Code)
	})

	rec = api.do(http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[model.Meme](t, rec)
	assert.Equal(t, "dog", got.Title)
	assert.Equal(t, meme.UserID, got.UserID)

	rec = api.do(http.MethodPut, path+"/visibility", aliceToken, map[string]bool{"is_public": true})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = api.do(http.MethodGet, "/api/v1/memes?public=true", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.Meme](t, rec), 1)

	rec = api.do(http.MethodDelete, path, adminToken(t, 99), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = api.do(http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBadRequests(t *testing.T) {
	api := newTestAPI(t, nil, nil)
	_, token := api.signup("alice")

	rec := api.do(http.MethodGet, "/api/v1/memes/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/memes", strings.NewReader("{"))
	req.Header.Set("Authorization", "Bearer "+token)
	raw := httptest.NewRecorder()
	api.handler.ServeHTTP(raw, req)
	assert.Equal(t, http.StatusBadRequest, raw.Code)

	rec = api.do(http.MethodPost, "/api/v1/memes", token, map[string]any{"title": "  ", "image_url": "y"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "title")
}

func TestAdminRoutes(t *testing.T) {
	api := newTestAPI(t, nil, nil)
	userID, token := api.signup("alice")

	rec := api.do(http.MethodGet, "/api/v1/roles", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	admin := adminToken(t, userID)
	rec = api.do(http.MethodPost, "/api/v1/roles", admin, map[string]any{"role_name": model.RoleNameAdmin})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	role := decode[model.Role](t, rec)

	rec = api.do(http.MethodPost, "/api/v1/user-roles", admin, map[string]any{"user_id": userID, "role_id": role.ID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// Login now issues an admin token.
	rec = api.do(http.MethodPost, "/api/v1/auth/login", "", service.LoginRequest{LoginField: "alice", Password: "hunter2"})
	require.Equal(t, http.StatusOK, rec.Code)
	fresh := decode[service.AuthResponse](t, rec).Token
	rec = api.do(http.MethodGet, "/api/v1/roles", fresh, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCommentsAndThread(t *testing.T) {
	api := newTestAPI(t, nil, nil)
	_, alice := api.signup("alice")
	_, bob := api.signup("bob")
	meme := api.createMeme(alice, "cat", true)

	rec := api.do(http.MethodPost, "/api/v1/comments", bob, map[string]any{"meme_id": meme.ID, "comment_text": "nice"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	root := decode[model.Comment](t, rec)

	rec = api.do(http.MethodPost, "/api/v1/comments", alice, map[string]any{
		"meme_id": meme.ID, "comment_text": "thanks", "parent_comment_id": root.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = api.do(http.MethodGet, fmt.Sprintf("/api/v1/memes/%d/thread", meme.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	thread := decode[[]model.CommentNode](t, rec)
	require.Len(t, thread, 1)
	require.Len(t, thread[0].Replies, 1)
	assert.Equal(t, "thanks", thread[0].Replies[0].CommentText)

	path := fmt.Sprintf("/api/v1/comments/%d", root.ID)
	rec = api.do(http.MethodPut, path, alice, map[string]string{"comment_text": "hijack"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(http.MethodPut, path, bob, map[string]string{"comment_text": "very nice"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[model.Comment](t, rec).IsEdited)

	rec = api.do(http.MethodDelete, path, bob, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCollectionsFlow(t *testing.T) {
	api := newTestAPI(t, nil, nil)
	aliceID, alice := api.signup("alice")
	meme := api.createMeme(alice, "cat", true)

	rec := api.do(http.MethodPost, "/api/v1/collections", alice, map[string]any{"name": "Best Cats"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	col := decode[model.Collection](t, rec)
	assert.Equal(t, "best-cats", col.Slug)

	rec = api.do(http.MethodPost, fmt.Sprintf("/api/v1/collections/%d/memes/%d", col.ID, meme.ID), alice, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = api.do(http.MethodPost, fmt.Sprintf("/api/v1/collections/%d/memes/%d", col.ID, meme.ID), alice, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = api.do(http.MethodGet, fmt.Sprintf("/api/v1/collections/%d/memes", col.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int64{meme.ID}, decode[[]int64](t, rec))

	rec = api.do(http.MethodGet, fmt.Sprintf("/api/v1/users/%d/collections/best-cats", aliceID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, col.ID, decode[model.Collection](t, rec).ID)

	rec = api.do(http.MethodDelete, fmt.Sprintf("/api/v1/collections/%d", col.ID), alice, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestStatIncrementInline(t *testing.T) {
	api := newTestAPI(t, nil, nil)
	_, alice := api.signup("alice")
	meme := api.createMeme(alice, "cat", true)
	base := fmt.Sprintf("/api/v1/memes/%d/stats", meme.ID)

	rec := api.do(http.MethodPost, base+"/views", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(http.MethodPost, base, alice, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	for i := 0; i < 2; i++ {
		rec = api.do(http.MethodPost, base+"/views", "", nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
	st := decode[model.UploadStat](t, rec)
	require.NotNil(t, st.Views)
	assert.Equal(t, 2, *st.Views)

	rec = api.do(http.MethodPost, base+"/likes", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(http.MethodGet, "/api/v1/stats/top?n=5", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.UploadStat](t, rec), 1)
}

func TestStatIncrementQueued(t *testing.T) {
	pub := &recordingPublisher{}
	api := newTestAPI(t, pub, nil)
	_, alice := api.signup("alice")
	meme := api.createMeme(alice, "cat", true)
	base := fmt.Sprintf("/api/v1/memes/%d/stats", meme.ID)

	// no stats row yet: same answer as the inline path, nothing queued
	rec := api.do(http.MethodPost, base+"/shares", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, pub.events)

	rec = api.do(http.MethodPost, base, alice, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = api.do(http.MethodPost, base+"/shares", "", nil)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	assert.Equal(t, []service.StatEvent{{MemeID: meme.ID, Kind: model.StatShares}}, pub.events)

	rec = api.do(http.MethodPost, base+"/likes", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, pub.events, 1)
}

func TestRateLimit(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	api := newTestAPI(t, nil, middleware.NewRateLimiter(0.001, 1, log))

	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/health", "", nil).Code)
	rec := api.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}
