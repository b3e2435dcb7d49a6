package handler

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Register registers all command and callback handlers on the bot instance.
func (h *Handler) Register() {
	// Commands
	commands := []struct {
		name string
		fn   bot.HandlerFunc
	}{
		{"/start", h.handleStart},
		{"/help", h.handleHelp},
		{"/models", h.handleModels},
		{"/term", h.handleTerm},
		{"/workload", h.handleWorkload},
		{"/image", h.handleImage},
		{"/images", h.handleImages},
		{"/noimages", h.handleNoImages},
		{"/ptu", h.handlePTU},
		{"/evaluate", h.handleEvaluate},
		{"/add", h.handleAdd},
		{"/results", h.handleResults},
		{"/clear", h.handleClear},
		{"/export", h.handleExport},
		{"/catalog", h.handleCatalog},
	}
	for _, c := range commands {
		h.bot.RegisterHandlerMatchFunc(command(c.name), c.fn)
	}

	// Catalog upload: a document captioned /catalog
	h.bot.RegisterHandlerMatchFunc(isCatalogUpload, h.handleCatalogUpload)

	// Models callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "m_", bot.MatchTypePrefix, h.handleModelSelect)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "mp_", bot.MatchTypePrefix, h.handleModelPage)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "cur", bot.MatchTypeExact, h.handleNoop)

	// Term callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "t_", bot.MatchTypePrefix, h.handleTermSelect)
}

// handleNoop is a no-op callback handler used for pagination indicators and other
// non-interactive inline buttons. It simply acknowledges the callback query.
func (h *Handler) handleNoop(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery != nil {
		b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
			CallbackQueryID: update.CallbackQuery.ID,
		})
	}
}
