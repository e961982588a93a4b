package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"alumnet/internal/api/middleware"
	"alumnet/internal/app/service"
	"alumnet/internal/domain/repository"
	"alumnet/internal/platform/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPresigner struct{}

func (testPresigner) PresignedPutURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "http://store/upload/" + key + "?signed=1", nil
}

func (testPresigner) ResourceURL(key string) string {
	return "http://store/bucket/" + key
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	config.Load()

	userRepo := repository.NewMemUserRepository()
	sessionRepo := repository.NewMemSessionRepository()
	postRepo := repository.NewMemPostRepository()
	followRepo := repository.NewMemFollowRepository()
	mediaRepo := repository.NewMemMediaRepository()
	followRepo.Users = userRepo
	userRepo.Follows = followRepo

	sessionService := service.NewSessionService(sessionRepo, userRepo, 168*time.Hour, 48*time.Hour)
	authService := service.NewAuthService(userRepo, sessionService)
	postService := service.NewPostService(postRepo, mediaRepo)
	profileService := service.NewProfileService(userRepo, mediaRepo)
	networkService := service.NewNetworkService(followRepo, userRepo)
	mediaService := service.NewMediaService(mediaRepo, testPresigner{}, time.Hour)

	authenticator := middleware.NewAuthenticator(sessionService, true)
	return NewRouter(authenticator, authService, postService, profileService, networkService, mediaService)
}

type envelope struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data"`
	Error   string                 `json:"error"`
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}, cookie *http.Cookie) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	if len(rec.Body.Bytes()) > 0 && rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func signupAndSignin(t *testing.T, router http.Handler, email, name string) *http.Cookie {
	t.Helper()

	rec, env := doJSON(t, router, http.MethodPost, "/api/auth/signup",
		map[string]string{"email": email, "password": "longenough", "name": name}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, env.Error)

	rec, env = doJSON(t, router, http.MethodPost, "/api/auth/signin",
		map[string]string{"email": email, "password": "longenough"}, nil)
	require.Equal(t, http.StatusOK, rec.Code, env.Error)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, middleware.TokenCookieName, cookies[0].Name)
	return cookies[0]
}

func TestSignupSigninSession_RoundTrip(t *testing.T) {
	router := newTestRouter(t)

	rec, env := doJSON(t, router, http.MethodPost, "/api/auth/signup",
		map[string]string{"email": "a@example.com", "password": "longenough", "name": "a"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)
	assert.EqualValues(t, 1, env.Data["userId"])

	// Duplicate email is a conflict.
	rec, env = doJSON(t, router, http.MethodPost, "/api/auth/signup",
		map[string]string{"email": "a@example.com", "password": "longenough", "name": "b"}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.False(t, env.Success)

	rec, env = doJSON(t, router, http.MethodPost, "/api/auth/signin",
		map[string]string{"email": "a@example.com", "password": "longenough"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, env.Data["token"])
	assert.Equal(t, false, env.Data["onboarded"])
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	// The cookie authorizes the session endpoint.
	rec, env = doJSON(t, router, http.MethodGet, "/api/auth/session", nil, cookies[0])
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
}

func TestSignin_IndistinguishableFailures(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := doJSON(t, router, http.MethodPost, "/api/auth/signup",
		map[string]string{"email": "a@example.com", "password": "longenough", "name": "a"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	wrongPassword, _ := doJSON(t, router, http.MethodPost, "/api/auth/signin",
		map[string]string{"email": "a@example.com", "password": "wrongpassword"}, nil)
	unknownEmail, _ := doJSON(t, router, http.MethodPost, "/api/auth/signin",
		map[string]string{"email": "nobody@example.com", "password": "longenough"}, nil)

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, wrongPassword.Code, unknownEmail.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String(),
		"failure responses must be byte-identical to resist account enumeration")
}

func TestSignout_ClearsSession(t *testing.T) {
	router := newTestRouter(t)
	cookie := signupAndSignin(t, router, "a@example.com", "a")

	rec, env := doJSON(t, router, http.MethodPost, "/api/auth/signout", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Empty(t, cleared[0].Value)

	// The invalidated token no longer authorizes.
	rec, _ = doJSON(t, router, http.MethodGet, "/api/auth/session", nil, cookie)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPostAndFeed(t *testing.T) {
	router := newTestRouter(t)
	cookie := signupAndSignin(t, router, "a@example.com", "a")

	// Creating a post requires auth.
	rec, _ := doJSON(t, router, http.MethodPost, "/api/post",
		map[string]string{"body": "hi", "type": "post"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, env := doJSON(t, router, http.MethodPost, "/api/post",
		map[string]string{"body": "hi", "type": "post"}, cookie)
	require.Equal(t, http.StatusCreated, rec.Code, env.Error)
	postID := env.Data["postId"]
	assert.EqualValues(t, 1, postID)

	// The feed is public and includes the new post.
	rec, env = doJSON(t, router, http.MethodGet, "/api/feed", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	posts := env.Data["posts"].([]interface{})
	require.Len(t, posts, 1)
	post := posts[0].(map[string]interface{})
	assert.Equal(t, "hi", post["body"])
	assert.EqualValues(t, 1, post["user_id"])

	// Type filter excludes it.
	rec, env = doJSON(t, router, http.MethodGet, "/api/feed?typeOnlyFeed=event", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, env.Data["posts"])

	// Delete own post.
	rec, _ = doJSON(t, router, http.MethodDelete, "/api/post/1", nil, cookie)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doJSON(t, router, http.MethodDelete, "/api/post/1", nil, cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFollowUnfollow(t *testing.T) {
	router := newTestRouter(t)
	alice := signupAndSignin(t, router, "alice@example.com", "alice")
	signupAndSignin(t, router, "bob@example.com", "bob")

	rec, _ := doJSON(t, router, http.MethodPost, "/api/network/follow",
		map[string]int64{"userId": 2}, alice)
	assert.Equal(t, http.StatusCreated, rec.Code)

	// Double-follow never produces a second edge.
	rec, env := doJSON(t, router, http.MethodPost, "/api/network/follow",
		map[string]int64{"userId": 2}, alice)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.False(t, env.Success)

	rec, env = doJSON(t, router, http.MethodGet, "/api/network", nil, alice)
	require.Equal(t, http.StatusOK, rec.Code)
	following := env.Data["following"].([]interface{})
	assert.Len(t, following, 1)

	rec, _ = doJSON(t, router, http.MethodPost, "/api/network/unfollow",
		map[string]int64{"userId": 2}, alice)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env = doJSON(t, router, http.MethodGet, "/api/network", nil, alice)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, env.Data["following"])
}

func TestExplore_ExcludesFollowed(t *testing.T) {
	router := newTestRouter(t)
	alice := signupAndSignin(t, router, "alice@example.com", "alice")
	signupAndSignin(t, router, "bob@example.com", "bob")
	signupAndSignin(t, router, "carol@example.com", "carol")

	rec, _ := doJSON(t, router, http.MethodPost, "/api/network/follow",
		map[string]int64{"userId": 2}, alice)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := doJSON(t, router, http.MethodGet, "/api/network/explore", nil, alice)
	require.Equal(t, http.StatusOK, rec.Code)
	users := env.Data["users"].([]interface{})
	require.Len(t, users, 1)
	assert.EqualValues(t, 3, users[0].(map[string]interface{})["id"])
}

func TestMediaUpload(t *testing.T) {
	router := newTestRouter(t)
	cookie := signupAndSignin(t, router, "a@example.com", "a")

	rec, _ := doJSON(t, router, http.MethodPost, "/api/media", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, env := doJSON(t, router, http.MethodPost, "/api/media",
		map[string]string{"filename": "My Photo.png"}, cookie)
	require.Equal(t, http.StatusCreated, rec.Code, env.Error)
	assert.EqualValues(t, 1, env.Data["mediaId"])
	assert.Contains(t, env.Data["uploadUrl"], "signed=1")
	assert.Contains(t, env.Data["resourceUrl"], "my-photo-png-")
}

func TestProfileFlow(t *testing.T) {
	router := newTestRouter(t)
	cookie := signupAndSignin(t, router, "a@example.com", "a")

	rec, env := doJSON(t, router, http.MethodPost, "/api/profile/update",
		map[string]interface{}{"bio": "hello", "onboarded": true}, cookie)
	require.Equal(t, http.StatusOK, rec.Code, env.Error)
	assert.Equal(t, "hello", env.Data["bio"])
	assert.Equal(t, true, env.Data["onboarded"])

	// Public profile is readable without auth.
	rec, env = doJSON(t, router, http.MethodGet, "/api/profile/1", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	profile := env.Data["profile"].(map[string]interface{})
	assert.Equal(t, "hello", profile["bio"])

	rec, _ = doJSON(t, router, http.MethodGet, "/api/profile/999", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Own profile requires auth.
	rec, _ = doJSON(t, router, http.MethodGet, "/api/profile", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, env = doJSON(t, router, http.MethodGet, "/api/profile", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a@example.com", env.Data["email"])
}

func TestPing(t *testing.T) {
	router := newTestRouter(t)

	rec, env := doJSON(t, router, http.MethodGet, "/api/ping", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", env.Data["message"])

	rec, _ = doJSON(t, router, http.MethodGet, "/api/ping/auth", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	cookie := signupAndSignin(t, router, "a@example.com", "a")
	rec, env = doJSON(t, router, http.MethodGet, "/api/ping/auth", nil, cookie)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, env.Data["userId"])
}
