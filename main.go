package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lumiforge/kinoteka-backend/internal/bootstrap"
	"github.com/lumiforge/kinoteka-backend/internal/cloudfunction"
)

// Handler точка входа Cloud Function (main.Handler)
func Handler(ctx context.Context, request []byte) ([]byte, error) {
	return cloudfunction.Handler(ctx, request)
}

// main локальный запуск того же приложения как HTTP сервера
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
