package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"golang.org/x/crypto/bcrypt"

	"go-blog-platform/internal/config"
	"go-blog-platform/internal/database"
	"go-blog-platform/internal/logger"
	"go-blog-platform/internal/model"
	"go-blog-platform/internal/repository"
)

// Seeds demo users and posts for local development. Safe to re-run: existing
// users are skipped, posts are appended.
func main() {
	logHandler := logger.NewPrettyHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(logHandler))

	cfg, err := config.LoadAuth()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.EnsureAuthSchema(ctx); err != nil {
		slog.Error("failed to ensure auth schema", "error", err)
		os.Exit(1)
	}
	if err := db.EnsurePostsSchema(ctx); err != nil {
		slog.Error("failed to ensure posts schema", "error", err)
		os.Exit(1)
	}

	userRepo := repository.NewUserRepository(db.Pool)
	postRepo := repository.NewPostRepository(db.Pool)

	users := []struct {
		email    string
		password string
	}{
		{"admin@test.com", "admin123"},
		{"user1@test.com", "user123"},
		{"user2@test.com", "user123"},
	}

	ids := make([]int64, 0, len(users))
	for _, u := range users {
		existing, err := userRepo.FindByEmail(ctx, u.email)
		if err == nil {
			slog.Info("user already exists", "email", u.email)
			ids = append(ids, existing.ID)
			continue
		}
		if !errors.Is(err, model.ErrUserNotFound) {
			slog.Error("failed to look up user", "email", u.email, "error", err)
			os.Exit(1)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), cfg.BcryptCost)
		if err != nil {
			slog.Error("failed to hash password", "error", err)
			os.Exit(1)
		}

		created, err := userRepo.Create(ctx, u.email, string(hash))
		if err != nil {
			slog.Error("failed to create user", "email", u.email, "error", err)
			os.Exit(1)
		}
		slog.Info("created user", "email", u.email, "user_id", created.ID)
		ids = append(ids, created.ID)
	}

	posts := []struct {
		title   string
		content string
		owner   int
	}{
		{"First Post", "This is the first test post", 0},
		{"Second Post", "Another test post", 0},
		{"User1 Post", "Post by user1", 1},
		{"User1 Second", "Another post by user1", 1},
		{"User2 Post", "Post by user2", 2},
	}

	for _, p := range posts {
		created, err := postRepo.Create(ctx, p.title, p.content, ids[p.owner])
		if err != nil {
			slog.Error("failed to create post", "title", p.title, "error", err)
			os.Exit(1)
		}
		slog.Info("created post", "post_id", created.ID, "title", p.title)
	}

	slog.Info("seeding completed")
}
