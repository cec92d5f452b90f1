package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"go-blog-platform/internal/model"
	"go-blog-platform/pkg/apierror"
)

const minTitleLength = 3

type PostStore interface {
	Create(ctx context.Context, title string, content string, userID int64) (model.Post, error)
	List(ctx context.Context) ([]model.Post, error)
	FindByID(ctx context.Context, id int64) (model.Post, error)
	Update(ctx context.Context, post model.Post) (model.Post, error)
	Delete(ctx context.Context, id int64) error
}

type PostService struct {
	posts PostStore
}

func NewPostService(posts PostStore) *PostService {
	return &PostService{posts: posts}
}

func (s *PostService) Create(ctx context.Context, req model.CreatePostRequest, ownerID int64) (model.Post, error) {
	if err := validateTitle(req.Title); err != nil {
		return model.Post{}, err
	}
	if strings.TrimSpace(req.Content) == "" {
		return model.Post{}, apierror.BadRequest("content is required")
	}

	post, err := s.posts.Create(ctx, req.Title, req.Content, ownerID)
	if err != nil {
		return model.Post{}, err
	}

	slog.Info("post created", "post_id", post.ID, "user_id", ownerID)
	return post, nil
}

func (s *PostService) FindAll(ctx context.Context) ([]model.Post, error) {
	return s.posts.List(ctx)
}

func (s *PostService) FindOne(ctx context.Context, id int64) (model.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if errors.Is(err, model.ErrPostNotFound) {
		return model.Post{}, apierror.NotFound("post not found")
	}
	if err != nil {
		return model.Post{}, err
	}
	return post, nil
}

func (s *PostService) Update(ctx context.Context, id int64, patch model.UpdatePostRequest, requesterID int64) (model.Post, error) {
	post, err := s.FindOne(ctx, id)
	if err != nil {
		return model.Post{}, err
	}

	if post.UserID != requesterID {
		slog.Warn("post update denied", "post_id", id, "owner_id", post.UserID, "requester_id", requesterID)
		return model.Post{}, apierror.Forbidden("you can only update your own posts")
	}

	if patch.Title != nil {
		if err := validateTitle(*patch.Title); err != nil {
			return model.Post{}, err
		}
		post.Title = *patch.Title
	}
	if patch.Content != nil {
		if strings.TrimSpace(*patch.Content) == "" {
			return model.Post{}, apierror.BadRequest("content is required")
		}
		post.Content = *patch.Content
	}

	updated, err := s.posts.Update(ctx, post)
	if errors.Is(err, model.ErrPostNotFound) {
		return model.Post{}, apierror.NotFound("post not found")
	}
	if err != nil {
		return model.Post{}, err
	}

	slog.Info("post updated", "post_id", id, "user_id", requesterID)
	return updated, nil
}

func (s *PostService) Remove(ctx context.Context, id int64, requesterID int64) error {
	post, err := s.FindOne(ctx, id)
	if err != nil {
		return err
	}

	if post.UserID != requesterID {
		slog.Warn("post delete denied", "post_id", id, "owner_id", post.UserID, "requester_id", requesterID)
		return apierror.Forbidden("you can only delete your own posts")
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			return apierror.NotFound("post not found")
		}
		return err
	}

	slog.Info("post deleted", "post_id", id, "user_id", requesterID)
	return nil
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return apierror.BadRequest("title is required")
	}
	if len(title) < minTitleLength {
		return apierror.BadRequest("title must be at least 3 characters")
	}
	return nil
}
