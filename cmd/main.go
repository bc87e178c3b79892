package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lumiforge/kinoteka-backend/internal/bootstrap"
)

// @title						Kinoteka API
// @version					1.0
// @description				Online cinema backend: catalog, watch state and role management.
// @BasePath					/api/v1
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
// @description				Type "Bearer" followed by a space and JWT token.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Initialize(ctx)
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}

	if err := bootstrap.Serve(ctx, app); err != nil {
		slog.Error("HTTP server stopped with error", "error", err)
		os.Exit(1)
	}
}
