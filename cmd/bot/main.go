package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/ptucalc"
	"github.com/set-night/ptucalc/internal/config"
	"github.com/set-night/ptucalc/internal/handler"
	"github.com/set-night/ptucalc/internal/middleware"
	"github.com/set-night/ptucalc/internal/repository"
	"github.com/set-night/ptucalc/internal/service"
	"github.com/set-night/ptucalc/internal/telegram"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.ValidateBot(); err != nil {
		slog.Error("invalid bot config", "error", err)
		os.Exit(1)
	}

	// Setup structured logging
	slog.SetDefault(cfg.NewLogger(os.Stdout))

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open the price catalog, writing the built-in one on first start
	store, err := repository.NewCatalogStore(cfg.CatalogPath)
	if err != nil {
		slog.Error("failed to open catalog", "error", err)
		os.Exit(1)
	}
	created, err := store.Bootstrap(ctx, ptucalc.DefaultCatalog)
	if err != nil {
		slog.Error("failed to bootstrap catalog", "error", err, "path", cfg.CatalogPath)
		os.Exit(1)
	}
	if created {
		slog.Info("wrote built-in catalog", "path", cfg.CatalogPath)
	}

	catalog := service.NewCatalogService(store)
	if err := catalog.Reload(ctx); err != nil {
		slog.Error("failed to load catalog", "error", err, "path", cfg.CatalogPath)
		os.Exit(1)
	}
	slog.Info("catalog loaded", "path", cfg.CatalogPath, "models", len(catalog.Models()))

	// Initialize services
	sessions := service.NewSessionService(cfg.Term())
	comparison := service.NewComparisonService(catalog)
	export := service.NewExportService()
	limiter := service.NewRateLimiter(cfg.RateLimitPerMinute, config.RateLimitWindow)

	// Set once the bot exists; panics before that are only logged
	var tgLogger *telegram.TelegramLogger

	// Create bot
	opts := []bot.Option{
		bot.WithMiddlewares(
			middleware.Recover(func(err error) { tgLogger.LogError(err, "handler panic") }),
			middleware.Logging(),
			middleware.RateLimit(limiter),
			middleware.SessionLoader(sessions, cfg),
		),
		bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if update.Message == nil || update.Message.Text == "" {
				return
			}
			b.SendMessage(ctx, &bot.SendMessageParams{
				ChatID: update.Message.Chat.ID,
				Text:   "🤔 Unknown command. See /help",
			})
		}),
	}

	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	if cfg.DropPendingUpdates {
		if _, err := b.DeleteWebhook(ctx, &bot.DeleteWebhookParams{DropPendingUpdates: true}); err != nil {
			slog.Error("failed to drop pending updates", "error", err)
		}
	}

	// Get bot info
	me, err := b.GetMe(ctx)
	if err != nil {
		slog.Error("failed to get bot info", "error", err)
		os.Exit(1)
	}

	slog.Info("bot info retrieved", "id", me.ID, "username", me.Username)

	// Initialize telegram logger
	tgLogger = telegram.NewTelegramLogger(b, cfg)

	// Initialize handler
	h := handler.New(handler.Deps{
		Bot:        b,
		Catalog:    catalog,
		Sessions:   sessions,
		Comparison: comparison,
		Export:     export,
		TgLogger:   tgLogger,
	})

	// Register all handlers
	h.Register()

	// Drop idle sessions and stale rate limit windows
	go func() {
		ticker := time.NewTicker(config.SessionCleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := sessions.Prune(config.SessionIdleTimeout); n > 0 {
					slog.Info("pruned idle sessions", "count", n, "active", sessions.Len())
				}
				limiter.Cleanup()
			}
		}
	}()

	// Start bot
	slog.Info("starting bot", "username", me.Username, "id", me.ID)
	b.Start(ctx)

	// Graceful shutdown
	slog.Info("bot stopped gracefully")
}
