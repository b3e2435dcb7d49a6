package middleware

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/ptucalc/internal/service"
)

// RateLimit returns middleware that enforces per-chat per-minute rate limits.
func RateLimit(limiter *service.RateLimiter) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			// Only rate limit messages (not callbacks or other updates)
			if update.Message == nil {
				next(ctx, b, update)
				return
			}

			chatID := update.Message.Chat.ID
			ok, count := limiter.Allow(chatID)
			if !ok {
				slog.Debug("rate limited", "chat_id", chatID, "count", count)
				// Tell the chat once per window, then stay quiet.
				if count == limiter.Limit()+1 {
					b.SendMessage(ctx, &bot.SendMessageParams{
						ChatID: chatID,
						Text:   "⏳ Too many requests. Please wait a minute.",
					})
				}
				return
			}

			next(ctx, b, update)
		}
	}
}
