package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-blog-platform/internal/authclient"
	"go-blog-platform/internal/config"
	"go-blog-platform/internal/database"
	"go-blog-platform/internal/handler"
	"go-blog-platform/internal/middleware"
	"go-blog-platform/internal/repository"
	"go-blog-platform/internal/router"
	"go-blog-platform/internal/service"
	"go-blog-platform/internal/token"
)

type App struct {
	server *http.Server
	db     *database.DB
}

// NewAuth wires the auth service: config, database, token issuer, repositories
// and HTTP surface.
func NewAuth() (*App, error) {
	cfg, err := config.LoadAuth()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureAuthSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	userRepo := repository.NewUserRepository(db.Pool)
	tokenRepo := repository.NewTokenRepository(db.Pool)

	issuer := token.NewIssuer(cfg.JWTSecret)
	authService := service.NewAuthService(issuer, userRepo, tokenRepo, cfg.AccessTTL, cfg.RefreshTTL, cfg.BcryptCost)
	authHandler := handler.NewAuthHandler(authService)

	return newApp(cfg.ServerPort, cfg.ServerReadTimeout, cfg.ServerWriteTimeout, cfg.ServerIdleTimeout,
		router.NewAuth(cfg, authHandler), db), nil
}

// NewPosts wires the posts service. Authentication is delegated to the auth
// service through the remote validate call.
func NewPosts() (*App, error) {
	cfg, err := config.LoadPosts()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsurePostsSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	postRepo := repository.NewPostRepository(db.Pool)
	postService := service.NewPostService(postRepo)
	postHandler := handler.NewPostHandler(postService)

	authMiddleware := middleware.NewAuthMiddleware(authclient.New(cfg.AuthServiceURL, cfg.AuthTimeout))

	return newApp(cfg.ServerPort, cfg.ServerReadTimeout, cfg.ServerWriteTimeout, cfg.ServerIdleTimeout,
		router.NewPosts(cfg, authMiddleware, postHandler), db), nil
}

func newApp(port string, readTimeout, writeTimeout, idleTimeout time.Duration, h http.Handler, db *database.DB) *App {
	return &App{
		server: &http.Server{
			Addr:         ":" + port,
			Handler:      h,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			IdleTimeout:  idleTimeout,
		},
		db: db,
	}
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.db.Close()
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	a.db.Close()
	slog.Info("server stopped")
	return nil
}
