package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/joho/godotenv"
	"github.com/samber/do/v2"
	slogmulti "github.com/samber/slog-multi"

	"github.com/telewatch/telewatch/internal/di"
	rulesRepo "github.com/telewatch/telewatch/internal/modules/rules/repository"
	"github.com/telewatch/telewatch/internal/shared/config"
	httpServer "github.com/telewatch/telewatch/internal/transport/http"
	listenerTransport "github.com/telewatch/telewatch/internal/transport/listener"
)

// Retention must cover the largest configurable no_repeat_duration
// (30 days), or pruning would erase ledger entries that still suppress.
const pushRecordRetentionDays = 30

func main() {
	// Local development reads secrets from a .env file; missing file is fine.
	_ = godotenv.Load()

	// Setup structured logging with multiple handlers using slog-multi
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	jsonHandler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	})

	// Use Fanout to send logs to both handlers
	multiHandler := slogmulti.Fanout(textHandler, jsonHandler)
	logger := slog.New(multiHandler)
	slog.SetDefault(logger)

	// Setup dependency injection
	injector, err := di.Setup()
	if err != nil {
		slog.Error("Failed to setup dependency injection", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := di.Shutdown(injector); err != nil {
			slog.Error("Error during shutdown", "error", err)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Get services from DI container
	cfg := do.MustInvoke[*config.Config](injector)
	store := do.MustInvoke[rulesRepo.Store](injector)
	adapter := do.MustInvoke[*listenerTransport.Adapter](injector)
	server := do.MustInvoke[*httpServer.Server](injector)
	b := do.MustInvoke[*bot.Bot](injector)

	// Bot long polling
	go b.Start(ctx)

	// Listener events feed the same classification pipeline
	go adapter.Run(ctx)

	// HTTP surface: RSS feed, health, status
	go func() {
		if err := server.Start(); err != nil && ctx.Err() == nil {
			slog.Error("Failed to start HTTP server", "error", err)
			os.Exit(1)
		}
	}()

	go prunePushRecords(ctx, store)

	slog.Info("Application started", "port", cfg.HTTPPort, "env", cfg.AppEnv)
	slog.Info("Press Ctrl+C to stop")

	<-ctx.Done()
	slog.Info("Shutting down...")
}

// prunePushRecords drops dedup ledger entries old enough that no cooldown
// can still reference them.
func prunePushRecords(ctx context.Context, store rulesRepo.Store) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := store.PruneOldPushRecords(ctx, pushRecordRetentionDays); err != nil {
				slog.Error("Failed to prune push records", "error", err)
			}
		}
	}
}
