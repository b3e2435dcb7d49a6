package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/ptucalc/internal/domain"
	"github.com/set-night/ptucalc/internal/telegram"
)

// verdict is the one-line summary put above a result card.
func verdict(r domain.ComparisonResult) string {
	switch {
	case r.MeteredCost.IsZero() && r.CommittedCost.IsZero():
		return "💤 Idle workload, both options cost nothing"
	case r.CostSavingPercent > 0:
		return fmt.Sprintf("🟢 PTU is cheaper by %.2f%%", r.CostSavingPercent)
	case r.CostSavingPercent < 0:
		return fmt.Sprintf("🔴 Pay-as-you-go is cheaper, PTU costs %.2f%% more", -r.CostSavingPercent)
	default:
		return "⚖️ Both options cost the same"
	}
}

func (h *Handler) handleEvaluate(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	sel := h.session(ctx, chatID).Selection()

	ex, err := h.comparison.Explain(sel)
	if err != nil {
		h.replyError(ctx, b, chatID, "evaluate", err)
		return
	}

	var sb strings.Builder
	sb.WriteString(verdict(ex.Result) + "\n\n")
	sb.WriteString(telegram.CodeBlock(h.render.Card(ex.Result) + "\n" + h.render.Breakdown(ex)))
	sb.WriteString("\n/add to keep this result")
	h.reply(ctx, b, chatID, sb.String())
}

func (h *Handler) handleAdd(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	sess := h.session(ctx, chatID)

	r, err := h.comparison.EvaluateAndAdd(sess)
	if err != nil {
		h.replyError(ctx, b, chatID, "add result", err)
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("✅ Result #%d kept\n\n", len(sess.Results())))
	sb.WriteString(verdict(r) + "\n\n")
	sb.WriteString(telegram.CodeBlock(h.render.Card(r)))
	sb.WriteString("\n/results to see all, /export for Excel")
	h.reply(ctx, b, chatID, sb.String())
}

func (h *Handler) handleResults(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	results := h.session(ctx, chatID).Results()
	if len(results) == 0 {
		h.reply(ctx, b, chatID, "📭 No results yet. Use /add after setting a model and workload.")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📊 *Results:* %d\n\n", len(results)))
	for i, r := range results {
		sb.WriteString(fmt.Sprintf("*%d.* %s\n", i+1, verdict(r)))
		sb.WriteString(telegram.CodeBlock(h.render.Card(r)) + "\n")
	}
	sb.WriteString("/export for Excel, /clear to start over")
	h.reply(ctx, b, chatID, sb.String())
}

func (h *Handler) handleClear(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	h.session(ctx, chatID).Clear()
	h.reply(ctx, b, chatID, "🗑 Results cleared")
}
