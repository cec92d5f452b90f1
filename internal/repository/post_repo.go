package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-blog-platform/internal/model"
)

type PostRepository struct {
	pool *pgxpool.Pool
}

func NewPostRepository(pool *pgxpool.Pool) *PostRepository {
	return &PostRepository{pool: pool}
}

func (r *PostRepository) Create(ctx context.Context, title string, content string, userID int64) (model.Post, error) {
	now := time.Now().UTC()

	var p model.Post
	err := r.pool.QueryRow(ctx,
		`INSERT INTO posts (title, content, user_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $4)
		 RETURNING id, title, content, user_id, created_at, updated_at`,
		title, content, userID, now).
		Scan(&p.ID, &p.Title, &p.Content, &p.UserID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return model.Post{}, fmt.Errorf("create post: %w", err)
	}
	return p, nil
}

func (r *PostRepository) List(ctx context.Context) ([]model.Post, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, content, user_id, created_at, updated_at
		 FROM posts ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]model.Post, 0)
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.UserID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (r *PostRepository) FindByID(ctx context.Context, id int64) (model.Post, error) {
	var p model.Post
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, content, user_id, created_at, updated_at
		 FROM posts WHERE id = $1`, id).
		Scan(&p.ID, &p.Title, &p.Content, &p.UserID, &p.CreatedAt, &p.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Post{}, model.ErrPostNotFound
	}
	if err != nil {
		return model.Post{}, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

func (r *PostRepository) Update(ctx context.Context, post model.Post) (model.Post, error) {
	var p model.Post
	err := r.pool.QueryRow(ctx,
		`UPDATE posts SET title = $2, content = $3, updated_at = $4
		 WHERE id = $1
		 RETURNING id, title, content, user_id, created_at, updated_at`,
		post.ID, post.Title, post.Content, time.Now().UTC()).
		Scan(&p.ID, &p.Title, &p.Content, &p.UserID, &p.CreatedAt, &p.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Post{}, model.ErrPostNotFound
	}
	if err != nil {
		return model.Post{}, fmt.Errorf("update post: %w", err)
	}
	return p, nil
}

func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPostNotFound
	}
	return nil
}
