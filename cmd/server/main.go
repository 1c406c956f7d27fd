package main

import (
	"context"
	"log/slog"
	"os"

	"sams/internal/app/server"
	"sams/internal/platform/config"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	app, err := server.New(context.Background(), config.Load())
	if err != nil {
		slog.Error("startup failed", "err", err)
		os.Exit(1)
	}
	defer app.Close()

	if err := app.Run(); err != nil {
		slog.Error("server failed", "err", err)
		os.Exit(1)
	}
}
