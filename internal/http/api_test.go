package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/aashutosh585/LinkdinClone-assignment/internal/auth"
	"github.com/aashutosh585/LinkdinClone-assignment/internal/ratelimit"
	"github.com/aashutosh585/LinkdinClone-assignment/internal/repository/sqlite"
	"github.com/aashutosh585/LinkdinClone-assignment/internal/service"
)

type testAPI struct {
	router *gin.Engine
	tokens *auth.TokenService
}

func newTestAPI(t *testing.T, limiters Limiters) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	userRepo := sqlite.NewUserRepository(db)
	postRepo := sqlite.NewPostRepository(db)
	require.NoError(t, userRepo.Init(ctx))
	require.NoError(t, postRepo.Init(ctx))

	tokens, err := auth.NewTokenService("test-secret", time.Hour)
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	router := gin.New()
	NewHandler(Options{
		Users:       service.NewUserService(userRepo, bcrypt.MinCost),
		Posts:       service.NewPostService(postRepo, userRepo),
		Tokens:      tokens,
		Limiters:    limiters,
		Logger:      logger,
		CORSOrigins: []string{"http://localhost:5173"},
	}).RegisterRoutes(router)

	return &testAPI{router: router, tokens: tokens}
}

type response struct {
	Code   int
	Header http.Header
	Body   map[string]any
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = strings.NewReader(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	resp := response{Code: rec.Code, Header: rec.Header()}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp.Body), rec.Body.String())
	}
	return resp
}

// signup registers a user and returns its token and id.
func (a *testAPI) signup(t *testing.T, name, email string) (string, string) {
	t.Helper()
	resp := a.do(t, http.MethodPost, "/api/auth/signup", "", gin.H{"name": name, "email": email, "password": "secret1"})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body)
	user := resp.Body["user"].(map[string]any)
	return resp.Body["token"].(string), user["id"].(string)
}

func (a *testAPI) createPost(t *testing.T, token, content string) string {
	t.Helper()
	resp := a.do(t, http.MethodPost, "/api/posts", token, gin.H{"content": content})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body)
	return resp.Body["post"].(map[string]any)["id"].(string)
}

func TestSignup_ReturnsTokenAndUserWithoutPassword(t *testing.T) {
	api := newTestAPI(t, Limiters{})

	resp := api.do(t, http.MethodPost, "/api/auth/signup", "", gin.H{"name": "Ada", "email": "a@b.com", "password": "secret1"})
	require.Equal(t, http.StatusCreated, resp.Code)
	assert.Equal(t, true, resp.Body["success"])
	assert.Equal(t, "User registered successfully", resp.Body["message"])

	user := resp.Body["user"].(map[string]any)
	assert.Equal(t, "a@b.com", user["email"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "passwordHash")

	id, err := api.tokens.Verify(resp.Body["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, user["id"], id)
}

func TestSignup_DuplicateEmailAnyCase(t *testing.T) {
	api := newTestAPI(t, Limiters{})
	api.signup(t, "Ada", "a@b.com")

	resp := api.do(t, http.MethodPost, "/api/auth/signup", "", gin.H{"name": "Ada", "email": "A@B.COM", "password": "secret1"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body["message"], "already exists")
}

func TestSignup_Validation(t *testing.T) {
	api := newTestAPI(t, Limiters{})

	resp := api.do(t, http.MethodPost, "/api/auth/signup", "", gin.H{"name": " A ", "email": "nope", "password": "123"})
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "Validation failed", resp.Body["message"])
	assert.Equal(t, []any{
		"Name must be at least 2 characters long",
		"Please provide a valid email address",
		"Password must be at least 6 characters long",
	}, resp.Body["errors"])

	resp = api.do(t, http.MethodPost, "/api/auth/signup", "", nil)
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, []any{"Name is required", "Email is required", "Password is required"}, resp.Body["errors"])

	resp = api.do(t, http.MethodPost, "/api/auth/signup", "", "{not json")
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "Invalid request body", resp.Body["message"])
}

func TestLogin(t *testing.T) {
	api := newTestAPI(t, Limiters{})
	_, id := api.signup(t, "Ada", "a@b.com")

	resp := api.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "A@b.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, id, resp.Body["user"].(map[string]any)["id"])
	assert.NotEmpty(t, resp.Body["token"])

	for _, body := range []gin.H{
		{"email": "a@b.com", "password": "wrong-password"},
		{"email": "nobody@b.com", "password": "secret1"},
	} {
		resp = api.do(t, http.MethodPost, "/api/auth/login", "", body)
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
		assert.Equal(t, "Invalid email or password", resp.Body["message"])
	}
}

func TestAuthMiddleware(t *testing.T) {
	api := newTestAPI(t, Limiters{})
	token, id := api.signup(t, "Ada", "a@b.com")

	resp := api.do(t, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "Access denied. No token provided.", resp.Body["message"])

	resp = api.do(t, http.MethodGet, "/api/auth/me", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "Invalid token.", resp.Body["message"])

	expired, err := api.tokens.WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) }).Issue(id)
	require.NoError(t, err)
	resp = api.do(t, http.MethodGet, "/api/auth/me", expired, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "Token has expired.", resp.Body["message"])

	ghost, err := api.tokens.Issue("no-such-user")
	require.NoError(t, err)
	resp = api.do(t, http.MethodGet, "/api/auth/me", ghost, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "Invalid token. User not found.", resp.Body["message"])

	resp = api.do(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, id, resp.Body["user"].(map[string]any)["id"])
}

func TestAuthMiddleware_RawHeaderWithoutBearer(t *testing.T) {
	api := newTestAPI(t, Limiters{})
	token, _ := api.signup(t, "Ada", "a@b.com")

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", token)
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Token "+token)
	rec = httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateProfile(t *testing.T) {
	api := newTestAPI(t, Limiters{})
	token, _ := api.signup(t, "Ada", "a@b.com")

	resp := api.do(t, http.MethodPut, "/api/auth/profile", token, gin.H{"bio": " Analyst ", "location": "London"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body)
	user := resp.Body["user"].(map[string]any)
	assert.Equal(t, "Ada", user["name"])
	assert.Equal(t, "Analyst", user["bio"])
	assert.Equal(t, "London", user["location"])

	resp = api.do(t, http.MethodPut, "/api/auth/profile", token, gin.H{"name": "   ", "website": strings.Repeat("w", 201)})
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, []any{"Name cannot be empty", "Website URL cannot exceed 200 characters"}, resp.Body["errors"])
}

func TestCreatePost(t *testing.T) {
	api := newTestAPI(t, Limiters{})
	token, id := api.signup(t, "Ada", "a@b.com")

	resp := api.do(t, http.MethodPost, "/api/posts", "", gin.H{"content": "hello"})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = api.do(t, http.MethodPost, "/api/posts", token, gin.H{"content": strings.Repeat("x", 1001)})
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, []any{"Post content cannot exceed 1000 characters"}, resp.Body["errors"])

	resp = api.do(t, http.MethodPost, "/api/posts", token, gin.H{"content": "   "})
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, []any{"Post content is required"}, resp.Body["errors"])

	resp = api.do(t, http.MethodPost, "/api/posts", token, gin.H{"content": strings.Repeat("x", 1000)})
	require.Equal(t, http.StatusCreated, resp.Code)
	post := resp.Body["post"].(map[string]any)
	assert.Equal(t, id, post["author"].(map[string]any)["id"])
	assert.Equal(t, []any{}, post["likes"])
	assert.Equal(t, float64(0), post["likesCount"])
}

func TestOwnershipGuard(t *testing.T) {
	api := newTestAPI(t, Limiters{})
	alice, _ := api.signup(t, "Alice", "alice@b.com")
	bob, _ := api.signup(t, "Bob", "bob@b.com")
	postID := api.createPost(t, alice, "alice's post")

	resp := api.do(t, http.MethodPut, "/api/posts/"+postID, bob, gin.H{"content": "mine now"})
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Equal(t, "Not authorized to update this post", resp.Body["message"])

	resp = api.do(t, http.MethodDelete, "/api/posts/"+postID, bob, nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Equal(t, "Not authorized to delete this post", resp.Body["message"])

	resp = api.do(t, http.MethodPost, "/api/posts/"+postID+"/comment", alice, gin.H{"content": "first"})
	require.Equal(t, http.StatusCreated, resp.Code)
	commentID := resp.Body["comment"].(map[string]any)["id"].(string)

	resp = api.do(t, http.MethodDelete, "/api/posts/"+postID+"/comment/"+commentID, bob, nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Equal(t, "Not authorized to delete this comment", resp.Body["message"])

	// Non-owners may still like, bookmark and comment.
	resp = api.do(t, http.MethodPost, "/api/posts/"+postID+"/like", bob, nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	resp = api.do(t, http.MethodPost, "/api/posts/"+postID+"/bookmark", bob, nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	resp = api.do(t, http.MethodPost, "/api/posts/"+postID+"/comment", bob, gin.H{"content": "nice"})
	assert.Equal(t, http.StatusCreated, resp.Code)

	resp = api.do(t, http.MethodDelete, "/api/posts/"+postID+"/comment/"+commentID, alice, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, float64(1), resp.Body["commentsCount"])

	resp = api.do(t, http.MethodDelete, "/api/posts/"+postID, alice, nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	resp = api.do(t, http.MethodGet, "/api/posts/"+postID, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "Post not found", resp.Body["message"])
}

func TestToggleLikeAndListings(t *testing.T) {
	api := newTestAPI(t, Limiters{})
	alice, aliceID := api.signup(t, "Alice", "alice@b.com")
	bob, _ := api.signup(t, "Bob", "bob@b.com")
	postID := api.createPost(t, alice, "golang tips")
	api.createPost(t, alice, "other news")

	resp := api.do(t, http.MethodPost, "/api/posts/"+postID+"/like", bob, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, true, resp.Body["isLiked"])
	assert.Equal(t, float64(1), resp.Body["likesCount"])
	assert.Equal(t, "Post liked", resp.Body["message"])

	resp = api.do(t, http.MethodGet, "/api/posts/liked", bob, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, resp.Body["posts"], 1)

	resp = api.do(t, http.MethodPost, "/api/posts/"+postID+"/like", bob, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, false, resp.Body["isLiked"])
	assert.Equal(t, float64(0), resp.Body["likesCount"])

	resp = api.do(t, http.MethodGet, "/api/posts?limit=1&page=2", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, resp.Body["posts"], 1)
	assert.Equal(t, map[string]any{
		"currentPage": float64(2),
		"totalPages":  float64(2),
		"totalItems":  float64(2),
		"hasNextPage": false,
		"hasPrevPage": true,
	}, resp.Body["pagination"])

	resp = api.do(t, http.MethodGet, "/api/posts/search?query=GOLANG", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, resp.Body["posts"], 1)

	resp = api.do(t, http.MethodGet, "/api/posts/search", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "Search query is required", resp.Body["message"])

	resp = api.do(t, http.MethodGet, "/api/posts/user/"+aliceID, "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, resp.Body["posts"], 2)
	assert.Equal(t, "Alice", resp.Body["user"].(map[string]any)["name"])

	resp = api.do(t, http.MethodGet, "/api/auth/search?query=ali", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, resp.Body["users"], 1)
}

func TestBookmarks(t *testing.T) {
	api := newTestAPI(t, Limiters{})
	alice, _ := api.signup(t, "Alice", "alice@b.com")
	postID := api.createPost(t, alice, "save me")

	resp := api.do(t, http.MethodPost, "/api/posts/"+postID+"/bookmark", alice, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, true, resp.Body["isBookmarked"])

	resp = api.do(t, http.MethodGet, "/api/posts/bookmarks", alice, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, resp.Body["posts"], 1)

	resp = api.do(t, http.MethodPost, "/api/posts/missing/bookmark", alice, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestRateLimit(t *testing.T) {
	limiter, err := ratelimit.New("signup", ratelimit.Policy{Max: 2, Window: time.Minute}, ratelimit.NewMemoryStore())
	require.NoError(t, err)
	api := newTestAPI(t, Limiters{Signup: limiter})

	for i, email := range []string{"a@b.com", "c@d.com"} {
		resp := api.do(t, http.MethodPost, "/api/auth/signup", "", gin.H{"name": "Ada", "email": email, "password": "secret1"})
		require.Equal(t, http.StatusCreated, resp.Code, "request %d", i+1)
		assert.Equal(t, "2", resp.Header.Get("X-RateLimit-Limit"))
	}

	resp := api.do(t, http.MethodPost, "/api/auth/signup", "", gin.H{"name": "Ada", "email": "e@f.com", "password": "secret1"})
	require.Equal(t, http.StatusTooManyRequests, resp.Code)
	assert.Equal(t, false, resp.Body["success"])
	assert.Equal(t, "Too many requests. Please try again later.", resp.Body["message"])
	assert.Equal(t, float64(60), resp.Body["retryAfter"])
	assert.Equal(t, "60", resp.Header.Get("Retry-After"))

	// Other routes are unaffected.
	resp = api.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "a@b.com", "password": "secret1"})
	assert.Equal(t, http.StatusOK, resp.Code)
}

type brokenStore struct{}

func (brokenStore) Hit(context.Context, string, time.Time, time.Duration, int) (ratelimit.Result, error) {
	return ratelimit.Result{}, assert.AnError
}

func TestRateLimit_FailsOpen(t *testing.T) {
	limiter, err := ratelimit.New("login", ratelimit.Policy{Max: 1, Window: time.Minute}, brokenStore{})
	require.NoError(t, err)
	api := newTestAPI(t, Limiters{Login: limiter})
	api.signup(t, "Ada", "a@b.com")

	for i := 0; i < 3; i++ {
		resp := api.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "a@b.com", "password": "secret1"})
		assert.Equal(t, http.StatusOK, resp.Code)
	}
}

func TestMiscRoutes(t *testing.T) {
	api := newTestAPI(t, Limiters{})

	resp := api.do(t, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "LinkedIn Clone API running", resp.Body["message"])

	resp = api.do(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = api.do(t, http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "Route not found", resp.Body["message"])

	resp = api.do(t, http.MethodGet, "/api/auth/user/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "User not found", resp.Body["message"])

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "linkedin_http_requests_total")
}

func TestCORS(t *testing.T) {
	api := newTestAPI(t, Limiters{})

	req := httptest.NewRequest(http.MethodOptions, "/api/posts", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
