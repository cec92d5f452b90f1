package main

import (
	"log/slog"
	"os"

	"go-blog-platform/internal/app"
	"go-blog-platform/internal/logger"
)

func main() {
	logHandler := logger.NewPrettyHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(logHandler))

	application, err := app.NewPosts()
	if err != nil {
		slog.Error("failed to initialize posts service", "error", err)
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("posts service run failed", "error", err)
		os.Exit(1)
	}
}
