package handler

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/ptucalc/internal/domain"
	"github.com/set-night/ptucalc/internal/render"
	"github.com/set-night/ptucalc/internal/service"
	"github.com/set-night/ptucalc/internal/telegram"
)

// Handler holds all dependencies needed by command and callback handlers.
type Handler struct {
	bot        *bot.Bot
	catalog    *service.CatalogService
	sessions   *service.SessionService
	comparison *service.ComparisonService
	export     *service.ExportService
	render     *render.Renderer
	tgLogger   *telegram.TelegramLogger
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Bot        *bot.Bot
	Catalog    *service.CatalogService
	Sessions   *service.SessionService
	Comparison *service.ComparisonService
	Export     *service.ExportService
	TgLogger   *telegram.TelegramLogger
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		bot:        deps.Bot,
		catalog:    deps.Catalog,
		sessions:   deps.Sessions,
		comparison: deps.Comparison,
		export:     deps.Export,
		render:     render.New(false),
		tgLogger:   deps.TgLogger,
	}
}

// commandArgs splits a command message into its arguments, dropping the
// command itself.
func commandArgs(text string) []string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}
	return fields[1:]
}

// commandName returns the /command of a message without any @botname suffix.
func commandName(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return ""
	}
	name, _, _ := strings.Cut(fields[0], "@")
	return strings.ToLower(name)
}

// command matches text messages whose command is exactly name.
func command(name string) bot.MatchFunc {
	return func(update *models.Update) bool {
		return update.Message != nil && commandName(update.Message.Text) == name
	}
}

func (h *Handler) reply(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	if err := telegram.SendLongMessage(ctx, b, chatID, text, nil); err != nil {
		slog.Error("send reply", "error", err, "chat_id", chatID)
	}
}

// userMessage turns an error into the text shown in chat. The second result
// is false for errors the user cannot fix.
func userMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, domain.ErrNoModelSelected):
		return "⚠️ Choose a model first: /models", true
	case errors.Is(err, domain.ErrNoWorkload):
		return "⚠️ Set a workload first: /workload IN OUT RPM [CACHE%]", true
	case errors.Is(err, domain.ErrUnknownModel):
		return "❌ This model is not in the catalog. Pick one with /models", true
	case errors.Is(err, domain.ErrUnsupportedModel):
		return "⚠️ " + err.Error() + "\n\nSet the required PTU count with /ptu N", true
	case errors.Is(err, domain.ErrInvalidArgument):
		return "❌ " + err.Error(), true
	case errors.Is(err, domain.ErrConfigParse):
		return "❌ Catalog rejected, nothing was changed.\n\n" + err.Error(), true
	default:
		return "❌ Something went wrong. Please try again later.", false
	}
}

// replyError reports err to the chat in plain text and logs the errors the
// user cannot fix.
func (h *Handler) replyError(ctx context.Context, b *bot.Bot, chatID int64, where string, err error) {
	msg, expected := userMessage(err)
	if !expected {
		slog.Error(where, "error", err, "chat_id", chatID)
		h.tgLogger.LogError(err, where)
	}
	if _, sendErr := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: msg}); sendErr != nil {
		slog.Error("send error reply", "error", sendErr, "chat_id", chatID)
	}
}
