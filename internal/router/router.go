package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-blog-platform/internal/config"
	"go-blog-platform/internal/handler"
	"go-blog-platform/internal/middleware"
)

func NewAuth(cfg *config.AuthConfig, authHandler *handler.AuthHandler) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimitMiddleware.Handler)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.Get("/health", healthHandler)

	r.Route("/auth", func(auth chi.Router) {
		auth.Post("/register", authHandler.Register)
		auth.Post("/login", authHandler.Login)
		auth.Post("/refresh", authHandler.Refresh)
		auth.Get("/validate", authHandler.Validate)
	})

	return r
}

func NewPosts(cfg *config.PostsConfig, authMiddleware *middleware.AuthMiddleware, postHandler *handler.PostHandler) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, 0)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimitMiddleware.Handler)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.Get("/health", healthHandler)

	r.Route("/posts", func(posts chi.Router) {
		posts.With(authMiddleware.RequireAuth).Post("/", postHandler.Create)
		posts.Get("/", postHandler.List)
		posts.Get("/{id}", postHandler.Get)
		posts.With(authMiddleware.RequireAuth).Put("/{id}", postHandler.Update)
		posts.With(authMiddleware.RequireAuth).Delete("/{id}", postHandler.Delete)
	})

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
