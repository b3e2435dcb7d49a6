package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/ptucalc/internal/config"
	"github.com/set-night/ptucalc/internal/middleware"
	"github.com/set-night/ptucalc/internal/telegram"
)

// isCatalogUpload matches a document sent with the caption /catalog.
func isCatalogUpload(update *models.Update) bool {
	return update.Message != nil &&
		update.Message.Document != nil &&
		commandName(update.Message.Caption) == "/catalog"
}

// handleCatalog sends the stored catalog file.
func (h *Handler) handleCatalog(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	data, name, err := h.catalog.File(ctx)
	if err != nil {
		h.replyError(ctx, b, chatID, "read catalog", err)
		return
	}

	caption := fmt.Sprintf("📒 %d models, loaded %s", len(h.catalog.Models()),
		h.catalog.LoadedAt().UTC().Format("2006-01-02 15:04 MST"))
	if middleware.IsAdmin(ctx) {
		caption += "\nSend an edited file back with the caption /catalog to replace it."
	}

	if err := telegram.SendDocument(ctx, b, chatID, name, data, caption); err != nil {
		h.replyError(ctx, b, chatID, "send catalog", err)
	}
}

// handleCatalogUpload validates an uploaded catalog and installs it.
func (h *Handler) handleCatalogUpload(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Document == nil {
		return
	}

	chatID := update.Message.Chat.ID
	if !middleware.IsAdmin(ctx) {
		h.reply(ctx, b, chatID, "⛔ Only admins can replace the price catalog.")
		return
	}

	doc := update.Message.Document
	if doc.FileSize > config.MaxCatalogUploadBytes {
		h.reply(ctx, b, chatID, fmt.Sprintf("❌ The file is too large, the limit is %d KB.", config.MaxCatalogUploadBytes/1024))
		return
	}

	data, err := telegram.DownloadDocument(ctx, b, doc, config.MaxCatalogUploadBytes)
	if err != nil {
		h.replyError(ctx, b, chatID, "download catalog", err)
		return
	}

	loaded, err := h.catalog.Replace(ctx, doc.FileName, data)
	if err != nil {
		h.replyError(ctx, b, chatID, "replace catalog", err)
		return
	}

	var adminID int64
	if update.Message.From != nil {
		adminID = update.Message.From.ID
	}
	slog.Info("catalog replaced", "admin_id", adminID, "file", doc.FileName, "models", len(loaded))
	h.tgLogger.LogCatalogReplaced(adminID, doc.FileName, len(loaded))

	names := make([]string, len(loaded))
	for i, m := range loaded {
		names[i] = "• " + telegram.Escape(m.Name())
	}
	h.reply(ctx, b, chatID, fmt.Sprintf("✅ *Catalog replaced:* %d models\n\n%s", len(loaded), strings.Join(names, "\n")))
}
