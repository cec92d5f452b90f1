package service

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-blog-platform/internal/model"
)

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

	// Distinct creation times so ordering is deterministic.
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

func TestCreatePostValidation(t *testing.T) {
	t.Parallel()

	svc := NewPostService(newMemoryPostStore())
	ctx := context.Background()

	_, err := svc.Create(ctx, model.CreatePostRequest{Title: "", Content: "body"}, 1)
	requireStatus(t, err, http.StatusBadRequest)

	_, err = svc.Create(ctx, model.CreatePostRequest{Title: "ab", Content: "body"}, 1)
	requireStatus(t, err, http.StatusBadRequest)

	_, err = svc.Create(ctx, model.CreatePostRequest{Title: "abc", Content: ""}, 1)
	requireStatus(t, err, http.StatusBadRequest)

	post, err := svc.Create(ctx, model.CreatePostRequest{Title: "Hello", Content: "body"}, 1)
	require.NoError(t, err)
	require.Equal(t, "Hello", post.Title)
	require.Equal(t, int64(1), post.UserID)
}

func TestFindAllOrdersNewestFirst(t *testing.T) {
	t.Parallel()

	svc := NewPostService(newMemoryPostStore())
	ctx := context.Background()

	for _, title := range []string{"first", "second", "third"} {
		_, err := svc.Create(ctx, model.CreatePostRequest{Title: title, Content: "body"}, 1)
		require.NoError(t, err)
	}

	posts, err := svc.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	require.Equal(t, "third", posts[0].Title)
	require.Equal(t, "first", posts[2].Title)

	for i := 1; i < len(posts); i++ {
		require.False(t, posts[i].CreatedAt.After(posts[i-1].CreatedAt))
	}
}

func TestFindOneMissingPost(t *testing.T) {
	t.Parallel()

	svc := NewPostService(newMemoryPostStore())

	_, err := svc.FindOne(context.Background(), 999)
	requireStatus(t, err, http.StatusNotFound)
}

func TestUpdateByNonOwnerIsForbidden(t *testing.T) {
	t.Parallel()

	svc := NewPostService(newMemoryPostStore())
	ctx := context.Background()

	post, err := svc.Create(ctx, model.CreatePostRequest{Title: "Mine", Content: "body"}, 1)
	require.NoError(t, err)

	title := "Stolen"
	_, err = svc.Update(ctx, post.ID, model.UpdatePostRequest{Title: &title}, 2)
	requireStatus(t, err, http.StatusForbidden)

	// Even a patch that would fail validation is rejected on ownership first.
	bad := "x"
	_, err = svc.Update(ctx, post.ID, model.UpdatePostRequest{Title: &bad}, 2)
	requireStatus(t, err, http.StatusForbidden)
}

func TestUpdateAppliesPartialPatch(t *testing.T) {
	t.Parallel()

	svc := NewPostService(newMemoryPostStore())
	ctx := context.Background()

	post, err := svc.Create(ctx, model.CreatePostRequest{Title: "Original", Content: "original body"}, 1)
	require.NoError(t, err)

	title := "Updated"
	updated, err := svc.Update(ctx, post.ID, model.UpdatePostRequest{Title: &title}, 1)
	require.NoError(t, err)
	require.Equal(t, "Updated", updated.Title)
	require.Equal(t, "original body", updated.Content)

	content := "new body"
	updated, err = svc.Update(ctx, post.ID, model.UpdatePostRequest{Content: &content}, 1)
	require.NoError(t, err)
	require.Equal(t, "Updated", updated.Title)
	require.Equal(t, "new body", updated.Content)
}

func TestUpdateValidatesPatchFields(t *testing.T) {
	t.Parallel()

	svc := NewPostService(newMemoryPostStore())
	ctx := context.Background()

	post, err := svc.Create(ctx, model.CreatePostRequest{Title: "Original", Content: "body"}, 1)
	require.NoError(t, err)

	short := "ab"
	_, err = svc.Update(ctx, post.ID, model.UpdatePostRequest{Title: &short}, 1)
	requireStatus(t, err, http.StatusBadRequest)

	empty := ""
	_, err = svc.Update(ctx, post.ID, model.UpdatePostRequest{Content: &empty}, 1)
	requireStatus(t, err, http.StatusBadRequest)
}

func TestRemoveByNonOwnerIsForbidden(t *testing.T) {
	t.Parallel()

	store := newMemoryPostStore()
	svc := NewPostService(store)
	ctx := context.Background()

	post, err := svc.Create(ctx, model.CreatePostRequest{Title: "Mine", Content: "body"}, 1)
	require.NoError(t, err)

	err = svc.Remove(ctx, post.ID, 2)
	requireStatus(t, err, http.StatusForbidden)

	// Still present for the owner.
	_, err = svc.FindOne(ctx, post.ID)
	require.NoError(t, err)
}

func TestRemoveThenFindOneIsNotFound(t *testing.T) {
	t.Parallel()

	svc := NewPostService(newMemoryPostStore())
	ctx := context.Background()

	post, err := svc.Create(ctx, model.CreatePostRequest{Title: "Gone", Content: "body"}, 1)
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, post.ID, 1))

	_, err = svc.FindOne(ctx, post.ID)
	requireStatus(t, err, http.StatusNotFound)

	err = svc.Remove(ctx, post.ID, 1)
	requireStatus(t, err, http.StatusNotFound)
}
