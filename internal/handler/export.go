package handler

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/ptucalc/internal/telegram"
)

func (h *Handler) handleExport(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	results := h.session(ctx, chatID).Results()
	if len(results) == 0 {
		h.reply(ctx, b, chatID, "📭 Nothing to export. Keep results with /add first.")
		return
	}

	buf, err := h.export.Workbook(results)
	if err != nil {
		h.replyError(ctx, b, chatID, "export workbook", err)
		return
	}

	caption := fmt.Sprintf("📊 %d result(s)", len(results))
	if err := telegram.SendDocument(ctx, b, chatID, h.export.FileName(), buf.Bytes(), caption); err != nil {
		h.replyError(ctx, b, chatID, "send export", err)
		return
	}

	h.tgLogger.LogExport(chatID, len(results))
}
