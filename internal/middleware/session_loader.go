package middleware

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/ptucalc/internal/service"
)

type ctxKey string

const (
	SessionKey ctxKey = "session"
	AdminKey   ctxKey = "admin"
)

// GetSession extracts the chat session from context.
func GetSession(ctx context.Context) *service.Session {
	s, ok := ctx.Value(SessionKey).(*service.Session)
	if !ok {
		return nil
	}
	return s
}

// IsAdmin reports whether the update was sent by a configured admin.
func IsAdmin(ctx context.Context) bool {
	admin, _ := ctx.Value(AdminKey).(bool)
	return admin
}

// SessionLoader returns middleware that loads the chat session and the
// sender's admin flag into context.
func SessionLoader(sessions *service.SessionService, cfg interface{ IsAdmin(int64) bool }) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			var from *models.User
			var chatID int64

			if update.Message != nil {
				from = update.Message.From
				chatID = update.Message.Chat.ID
			} else if update.CallbackQuery != nil {
				from = &update.CallbackQuery.From
				if update.CallbackQuery.Message.Message != nil {
					chatID = update.CallbackQuery.Message.Message.Chat.ID
				}
			}

			if from == nil || chatID == 0 {
				next(ctx, b, update)
				return
			}

			ctx = context.WithValue(ctx, SessionKey, sessions.FindOrCreate(chatID))
			ctx = context.WithValue(ctx, AdminKey, cfg.IsAdmin(from.ID))

			next(ctx, b, update)
		}
	}
}
