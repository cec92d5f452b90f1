//go:build integration

package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"go-blog-platform/internal/model"
)

func TestRegisterLoginAndPostLifecycle(t *testing.T) {
	authServer, postsServer := newTestPlatform(t)

	// Register.
	pair := registerUser(t, authServer.URL, "a@test.com", "password123")

	// Duplicate registration conflicts.
	resp, _ := doJSON(t, http.MethodPost, authServer.URL+"/auth/register",
		map[string]string{"email": "a@test.com", "password": "password123"}, "")
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	// Wrong password is a 401.
	resp, _ = doJSON(t, http.MethodPost, authServer.URL+"/auth/login",
		map[string]string{"email": "a@test.com", "password": "wrongpass"}, "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Create a post with the access token.
	resp, raw := doJSON(t, http.MethodPost, postsServer.URL+"/posts",
		map[string]string{"title": "My First Post", "content": "hello world"}, pair.AccessToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "create post: %s", raw)

	var post model.Post
	require.NoError(t, json.Unmarshal(raw, &post))
	require.Equal(t, "My First Post", post.Title)
	require.Equal(t, "hello world", post.Content)

	// A different user may not update it.
	other := registerUser(t, authServer.URL, "b@test.com", "password456")
	resp, _ = doJSON(t, http.MethodPut, fmt.Sprintf("%s/posts/%d", postsServer.URL, post.ID),
		map[string]string{"title": "Hijacked"}, other.AccessToken)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	// The owner deletes it.
	resp, _ = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/posts/%d", postsServer.URL, post.ID), nil, pair.AccessToken)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// And it is gone.
	resp, _ = doJSON(t, http.MethodGet, fmt.Sprintf("%s/posts/%d", postsServer.URL, post.ID), nil, "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRefreshRotationOverHTTP(t *testing.T) {
	authServer, _ := newTestPlatform(t)

	pair := registerUser(t, authServer.URL, "a@test.com", "password123")

	resp, raw := doJSON(t, http.MethodPost, authServer.URL+"/auth/refresh",
		map[string]string{"refresh_token": pair.RefreshToken}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, "refresh: %s", raw)

	var refreshed model.TokenPair
	require.NoError(t, json.Unmarshal(raw, &refreshed))
	require.NotEmpty(t, refreshed.AccessToken)

	// Replaying the consumed refresh token fails.
	resp, _ = doJSON(t, http.MethodPost, authServer.URL+"/auth/refresh",
		map[string]string{"refresh_token": pair.RefreshToken}, "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestValidateEndpoint(t *testing.T) {
	authServer, _ := newTestPlatform(t)

	pair := registerUser(t, authServer.URL, "a@test.com", "password123")

	// Missing header.
	resp, _ := doJSON(t, http.MethodGet, authServer.URL+"/auth/validate", nil, "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Valid token reflects the current user record.
	resp, raw := doJSON(t, http.MethodGet, authServer.URL+"/auth/validate", nil, pair.AccessToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result model.ValidateResponse
	require.NoError(t, json.Unmarshal(raw, &result))
	require.True(t, result.Valid)
	require.Equal(t, "a@test.com", result.Email)
	require.Equal(t, int64(1), result.UserID)

	// Garbage token.
	resp, _ = doJSON(t, http.MethodGet, authServer.URL+"/auth/validate", nil, "garbage")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPostsListIsPublicAndNewestFirst(t *testing.T) {
	authServer, postsServer := newTestPlatform(t)

	pair := registerUser(t, authServer.URL, "a@test.com", "password123")

	for _, title := range []string{"first post", "second post", "third post"} {
		resp, raw := doJSON(t, http.MethodPost, postsServer.URL+"/posts",
			map[string]string{"title": title, "content": "body"}, pair.AccessToken)
		require.Equal(t, http.StatusCreated, resp.StatusCode, "create %q: %s", title, raw)
	}

	// No auth required for reads.
	resp, raw := doJSON(t, http.MethodGet, postsServer.URL+"/posts", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var posts []model.Post
	require.NoError(t, json.Unmarshal(raw, &posts))
	require.Len(t, posts, 3)
	require.Equal(t, "third post", posts[0].Title)
	for i := 1; i < len(posts); i++ {
		require.False(t, posts[i].CreatedAt.After(posts[i-1].CreatedAt))
	}
}

func TestPostsRejectUnauthenticatedWrites(t *testing.T) {
	_, postsServer := newTestPlatform(t)

	resp, _ := doJSON(t, http.MethodPost, postsServer.URL+"/posts",
		map[string]string{"title": "nope", "content": "nope"}, "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPut, postsServer.URL+"/posts/1",
		map[string]string{"title": "nope"}, "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodDelete, postsServer.URL+"/posts/1", nil, "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPostsRejectTokensWhenAuthServiceIsDown(t *testing.T) {
	authServer, postsServer := newTestPlatform(t)

	pair := registerUser(t, authServer.URL, "a@test.com", "password123")
	authServer.Close()

	resp, _ := doJSON(t, http.MethodPost, postsServer.URL+"/posts",
		map[string]string{"title": "offline", "content": "body"}, pair.AccessToken)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
