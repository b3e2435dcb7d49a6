package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/ptucalc/internal/middleware"
)

func helpText(admin bool) string {
	var sb strings.Builder
	sb.WriteString("*Commands*\n\n")
	sb.WriteString("/models - choose a model\n")
	sb.WriteString("/term - monthly or yearly commitment\n")
	sb.WriteString("/workload IN OUT RPM \\[CACHE%] - tokens per request and requests per minute\n")
	sb.WriteString("/image WxH low|high - attach an image to each request\n")
	sb.WriteString("/images - list attached images\n")
	sb.WriteString("/noimages - drop all images\n")
	sb.WriteString("/ptu N|off - set the required PTU count by hand\n")
	sb.WriteString("/evaluate - compare the current selection\n")
	sb.WriteString("/add - compare and keep the result\n")
	sb.WriteString("/results - show kept results\n")
	sb.WriteString("/export - download kept results as Excel\n")
	sb.WriteString("/clear - forget kept results\n")
	sb.WriteString("/catalog - download the price catalog\n")
	if admin {
		sb.WriteString("\n*Admin*\n\n")
		sb.WriteString("Send a .json, .yaml or .toml file with the caption /catalog to replace the price catalog.\n")
	}
	return sb.String()
}

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	h.sessions.Reset(chatID)

	name := "there"
	if update.Message.From != nil && update.Message.From.FirstName != "" {
		name = update.Message.From.FirstName
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("👋 Hi, %s!\n\n", name))
	sb.WriteString("I compare provisioned throughput (PTU) with pay-as-you-go token pricing for LLM workloads.\n\n")
	sb.WriteString("1. Pick a model with /models\n")
	sb.WriteString("2. Describe the workload: `/workload 3500 300 60`\n")
	sb.WriteString("3. Run /evaluate\n\n")
	sb.WriteString(helpText(middleware.IsAdmin(ctx)))

	h.reply(ctx, b, chatID, sb.String())
}

func (h *Handler) handleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.reply(ctx, b, update.Message.Chat.ID, helpText(middleware.IsAdmin(ctx)))
}
