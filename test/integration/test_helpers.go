//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-blog-platform/internal/authclient"
	"go-blog-platform/internal/config"
	"go-blog-platform/internal/handler"
	"go-blog-platform/internal/middleware"
	"go-blog-platform/internal/model"
	"go-blog-platform/internal/router"
	"go-blog-platform/internal/service"
	"go-blog-platform/internal/token"
)

// In-memory stores stand in for PostgreSQL so the two services can be wired
// end to end inside one test process.

type memoryUserStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]model.User
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{nextID: 1, users: map[int64]model.User{}}
}

func (s *memoryUserStore) Create(_ context.Context, email string, passwordHash string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return model.User{}, model.ErrEmailTaken
		}
	}

	now := time.Now().UTC()
	user := model.User{ID: s.nextID, Email: email, PasswordHash: passwordHash, CreatedAt: now, UpdatedAt: now}
	s.users[user.ID] = user
	s.nextID++
	return user, nil
}

func (s *memoryUserStore) FindByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (s *memoryUserStore) FindByID(_ context.Context, id int64) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return user, nil
}

type memoryTokenStore struct {
	mu   sync.Mutex
	rows map[string]model.RefreshToken
}

func newMemoryTokenStore() *memoryTokenStore {
	return &memoryTokenStore{rows: map[string]model.RefreshToken{}}
}

func (s *memoryTokenStore) Store(_ context.Context, tokenString string, userID int64, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rows[tokenString] = model.RefreshToken{
		Token:     tokenString,
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

func (s *memoryTokenStore) Find(_ context.Context, tokenString string, userID int64) (model.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[tokenString]
	if !ok || row.UserID != userID {
		return model.RefreshToken{}, model.ErrTokenNotFound
	}
	return row, nil
}

func (s *memoryTokenStore) Delete(_ context.Context, tokenString string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, tokenString)
	return nil
}

type memoryPostStore struct {
	mu     sync.Mutex
	nextID int64
	clock  time.Time
	posts  map[int64]model.Post
}

func newMemoryPostStore() *memoryPostStore {
	return &memoryPostStore{nextID: 1, clock: time.Now().UTC(), posts: map[int64]model.Post{}}
}

func (s *memoryPostStore) Create(_ context.Context, title string, content string, userID int64) (model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clock = s.clock.Add(time.Second)
	post := model.Post{ID: s.nextID, Title: title, Content: content, UserID: userID, CreatedAt: s.clock, UpdatedAt: s.clock}
	s.posts[post.ID] = post
	s.nextID++
	return post, nil
}

func (s *memoryPostStore) List(_ context.Context) ([]model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Post, 0, len(s.posts))
	for _, p := range s.posts {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *memoryPostStore) FindByID(_ context.Context, id int64) (model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok {
		return model.Post{}, model.ErrPostNotFound
	}
	return post, nil
}

func (s *memoryPostStore) Update(_ context.Context, post model.Post) (model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.posts[post.ID]
	if !ok {
		return model.Post{}, model.ErrPostNotFound
	}

	stored.Title = post.Title
	stored.Content = post.Content
	stored.UpdatedAt = time.Now().UTC()
	s.posts[post.ID] = stored
	return stored, nil
}

func (s *memoryPostStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return model.ErrPostNotFound
	}
	delete(s.posts, id)
	return nil
}

// newTestPlatform starts both services on httptest servers, with the posts
// service validating tokens against the auth service over real HTTP.
func newTestPlatform(t *testing.T) (authServer *httptest.Server, postsServer *httptest.Server) {
	t.Helper()

	authCfg := &config.AuthConfig{
		ServerPort:       "3000",
		RequestTimeout:   30 * time.Second,
		JWTSecret:        "test-secret",
		AccessTTL:        time.Hour,
		RefreshTTL:       7 * 24 * time.Hour,
		BcryptCost:       4,
		CORSOrigins:      []string{"*"},
		RateLimitRPM:     10000,
		AuthRateLimitRPM: 10000,
	}

	issuer := token.NewIssuer(authCfg.JWTSecret)
	authService := service.NewAuthService(issuer, newMemoryUserStore(), newMemoryTokenStore(),
		authCfg.AccessTTL, authCfg.RefreshTTL, authCfg.BcryptCost)
	authServer = httptest.NewServer(router.NewAuth(authCfg, handler.NewAuthHandler(authService)))
	t.Cleanup(authServer.Close)

	postsCfg := &config.PostsConfig{
		ServerPort:     "3001",
		RequestTimeout: 30 * time.Second,
		AuthServiceURL: authServer.URL,
		AuthTimeout:    5 * time.Second,
		CORSOrigins:    []string{"*"},
		RateLimitRPM:   10000,
	}

	postService := service.NewPostService(newMemoryPostStore())
	authMiddleware := middleware.NewAuthMiddleware(authclient.New(postsCfg.AuthServiceURL, postsCfg.AuthTimeout))
	postsServer = httptest.NewServer(router.NewPosts(postsCfg, authMiddleware, handler.NewPostHandler(postService)))
	t.Cleanup(postsServer.Close)

	return authServer, postsServer
}

func doJSON(t *testing.T, method string, url string, body any, accessToken string) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func registerUser(t *testing.T, authURL string, email string, password string) model.TokenPair {
	t.Helper()

	resp, raw := doJSON(t, http.MethodPost, authURL+"/auth/register",
		map[string]string{"email": email, "password": password}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, "register %s: %s", email, raw)

	var pair model.TokenPair
	require.NoError(t, json.Unmarshal(raw, &pair))
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	return pair
}
