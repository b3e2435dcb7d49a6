package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/ptucalc/internal/config"
	"github.com/set-night/ptucalc/internal/domain"
	"github.com/set-night/ptucalc/internal/middleware"
	"github.com/set-night/ptucalc/internal/service"
	"github.com/set-night/ptucalc/internal/telegram"
)

// session returns the chat session loaded by middleware, or loads it.
func (h *Handler) session(ctx context.Context, chatID int64) *service.Session {
	if s := middleware.GetSession(ctx); s != nil {
		return s
	}
	return h.sessions.FindOrCreate(chatID)
}

func familyIcon(f domain.VendorFamily) string {
	switch f {
	case domain.FamilyGemini:
		return "🔷"
	case domain.FamilyAzure:
		return "🟦"
	default:
		return "✍️"
	}
}

// buildModelsPage renders one page of the model list and its keyboard.
func (h *Handler) buildModelsPage(current string, page int) (string, *models.InlineKeyboardMarkup) {
	all := h.catalog.Models()
	totalPages := telegram.PageCount(len(all), config.ModelsPerPage)
	if page < 0 {
		page = 0
	}
	if page >= totalPages {
		page = totalPages - 1
	}

	var sb strings.Builder
	sb.WriteString("🤖 *Choose a model*\n\n")
	if current != "" {
		sb.WriteString(fmt.Sprintf("Current: %s\n\n", telegram.Code(current)))
	}
	sb.WriteString("🔷 GSU formula  🟦 PTU formula  ✍️ set PTU with /ptu\n")

	var rows [][]models.InlineKeyboardButton
	start := page * config.ModelsPerPage
	end := min(start+config.ModelsPerPage, len(all))
	for i := start; i < end; i++ {
		m := all[i]
		label := familyIcon(m.Family) + " " + m.Name()
		if strings.EqualFold(m.Name(), current) {
			label = "✅ " + m.Name()
		}
		rows = append(rows, telegram.ButtonRow(
			telegram.InlineButton(label, fmt.Sprintf("m_%d", i)),
		))
	}
	if totalPages > 1 {
		rows = append(rows, telegram.PaginationRow(page, totalPages, "mp_"))
	}

	return sb.String(), telegram.InlineKeyboard(rows...)
}

func (h *Handler) handleModels(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	sel := h.session(ctx, chatID).Selection()

	page := 0
	for i, m := range h.catalog.Names() {
		if strings.EqualFold(m, sel.Model) {
			page = i / config.ModelsPerPage
			break
		}
	}

	text, keyboard := h.buildModelsPage(sel.Model, page)
	if err := telegram.SendLongMessage(ctx, b, chatID, text, keyboard); err != nil {
		slog.Error("send models", "error", err, "chat_id", chatID)
	}
}

func (h *Handler) handleModelPage(ctx context.Context, b *bot.Bot, update *models.Update) {
	query := update.CallbackQuery
	if query == nil || query.Message.Message == nil {
		return
	}
	telegram.AnswerCallback(ctx, b, query, "")

	page, err := strconv.Atoi(strings.TrimPrefix(query.Data, "mp_"))
	if err != nil {
		return
	}

	msg := query.Message.Message
	sel := h.session(ctx, msg.Chat.ID).Selection()
	text, keyboard := h.buildModelsPage(sel.Model, page)
	if err := telegram.EditMessage(ctx, b, msg.Chat.ID, msg.ID, text, keyboard); err != nil {
		slog.Error("edit models page", "error", err, "chat_id", msg.Chat.ID)
	}
}

func (h *Handler) handleModelSelect(ctx context.Context, b *bot.Bot, update *models.Update) {
	query := update.CallbackQuery
	if query == nil || query.Message.Message == nil {
		return
	}

	msg := query.Message.Message
	idx, err := strconv.Atoi(strings.TrimPrefix(query.Data, "m_"))
	if err != nil {
		telegram.AnswerCallback(ctx, b, query, "")
		return
	}

	m, err := h.catalog.ModelAt(idx)
	if err != nil {
		telegram.AnswerCallback(ctx, b, query, "Model list is outdated, run /models again")
		return
	}

	sess := h.session(ctx, msg.Chat.ID)
	sess.SelectModel(m.Name())
	telegram.AnswerCallback(ctx, b, query, "✅ "+m.Name())

	text, keyboard := h.buildModelsPage(m.Name(), idx/config.ModelsPerPage)
	if err := telegram.EditMessage(ctx, b, msg.Chat.ID, msg.ID, text, keyboard); err != nil {
		slog.Error("edit models page", "error", err, "chat_id", msg.Chat.ID)
	}

	if m.Family == domain.FamilyManual && sess.Selection().ManualUnits == nil {
		h.reply(ctx, b, msg.Chat.ID, fmt.Sprintf(
			"✍️ There is no capacity formula for %s. Set the required PTU count with /ptu N before /evaluate.",
			telegram.Code(m.Name())))
	}
}

func termKeyboard(current domain.Term) *models.InlineKeyboardMarkup {
	label := func(t domain.Term) string {
		if t == current {
			return "✅ " + t.Title()
		}
		return t.Title()
	}
	return telegram.InlineKeyboard(telegram.ButtonRow(
		telegram.InlineButton(label(domain.TermMonthly), "t_"+string(domain.TermMonthly)),
		telegram.InlineButton(label(domain.TermYearly), "t_"+string(domain.TermYearly)),
	))
}

// handleTerm sets the term from an argument or shows the term keyboard.
func (h *Handler) handleTerm(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	sess := h.session(ctx, chatID)

	if args := commandArgs(update.Message.Text); len(args) > 0 {
		term, err := domain.ParseTerm(args[0])
		if err != nil {
			h.replyError(ctx, b, chatID, "term", err)
			return
		}
		sess.SetTerm(term)
		h.reply(ctx, b, chatID, "✅ Term: "+term.Title())
		return
	}

	current := sess.Selection().Term
	text := "📅 *Commitment term*\n\nCurrent: " + current.Title()
	if err := telegram.SendLongMessage(ctx, b, chatID, text, termKeyboard(current)); err != nil {
		slog.Error("send term", "error", err, "chat_id", chatID)
	}
}

func (h *Handler) handleTermSelect(ctx context.Context, b *bot.Bot, update *models.Update) {
	query := update.CallbackQuery
	if query == nil || query.Message.Message == nil {
		return
	}

	term, err := domain.ParseTerm(strings.TrimPrefix(query.Data, "t_"))
	if err != nil {
		telegram.AnswerCallback(ctx, b, query, "")
		return
	}

	msg := query.Message.Message
	h.session(ctx, msg.Chat.ID).SetTerm(term)
	telegram.AnswerCallback(ctx, b, query, "✅ "+term.Title())

	text := "📅 *Commitment term*\n\nCurrent: " + term.Title()
	if err := telegram.EditMessage(ctx, b, msg.Chat.ID, msg.ID, text, termKeyboard(term)); err != nil {
		slog.Error("edit term", "error", err, "chat_id", msg.Chat.ID)
	}
}
