package handler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/ptucalc/internal/domain"
	"github.com/set-night/ptucalc/internal/service"
	"github.com/set-night/ptucalc/internal/telegram"
)

const workloadUsage = "Usage: /workload IN OUT RPM [CACHE%]\nExample: /workload 3500 300 60 20"

// parseWorkload reads "IN OUT RPM [CACHE%]".
func parseWorkload(args []string) (domain.WorkloadSpec, error) {
	if len(args) < 3 || len(args) > 4 {
		return domain.WorkloadSpec{}, fmt.Errorf("%w: expected 3 or 4 values\n\n%s", domain.ErrInvalidArgument, workloadUsage)
	}

	ints := make([]int, 3)
	names := []string{"input tokens", "output tokens", "rpm"}
	for i := range ints {
		n, err := strconv.Atoi(args[i])
		if err != nil {
			return domain.WorkloadSpec{}, fmt.Errorf("%w: %s must be a whole number, got %q", domain.ErrInvalidArgument, names[i], args[i])
		}
		ints[i] = n
	}

	w := domain.WorkloadSpec{
		InputTextTokens:   ints[0],
		OutputTokens:      ints[1],
		RequestsPerMinute: ints[2],
	}
	if len(args) == 4 {
		rate, err := strconv.ParseFloat(strings.TrimSuffix(args[3], "%"), 64)
		if err != nil {
			return domain.WorkloadSpec{}, fmt.Errorf("%w: cache hit rate must be a number, got %q", domain.ErrInvalidArgument, args[3])
		}
		w.CacheHitRate = rate
	}
	return w, w.Validate()
}

// parseUnits reads "/ptu N" or "/ptu off"; nil means the family formula.
func parseUnits(args []string) (*float64, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%w: usage /ptu N or /ptu off", domain.ErrInvalidArgument)
	}
	if strings.EqualFold(args[0], "off") {
		return nil, nil
	}
	v, err := strconv.ParseFloat(args[0], 64)
	if err != nil || v < 0 {
		return nil, fmt.Errorf("%w: PTU count must be a number >= 0, got %q", domain.ErrInvalidArgument, args[0])
	}
	return &v, nil
}

func selectionText(sel service.Selection) string {
	var sb strings.Builder
	sb.WriteString("📋 *Current selection*\n\n")

	model := "not chosen (/models)"
	if sel.Model != "" {
		model = telegram.Code(sel.Model)
	}
	sb.WriteString(fmt.Sprintf("Model: %s\n", model))
	sb.WriteString(fmt.Sprintf("Term: %s\n", sel.Term.Title()))

	if sel.HasWorkload {
		w := sel.Workload
		sb.WriteString(fmt.Sprintf("Workload: %d in / %d out @ %d rpm\n", w.InputTextTokens, w.OutputTokens, w.RequestsPerMinute))
		if w.CacheHitRate > 0 {
			sb.WriteString(fmt.Sprintf("Cache hit rate: %s%%\n", strconv.FormatFloat(w.CacheHitRate, 'f', -1, 64)))
		}
	} else {
		sb.WriteString("Workload: not set\n")
	}
	if n := len(sel.Workload.Images); n > 0 {
		sb.WriteString(fmt.Sprintf("Images: %d per request\n", n))
	}
	if sel.ManualUnits != nil {
		sb.WriteString(fmt.Sprintf("PTU count: %s (manual)\n", strconv.FormatFloat(*sel.ManualUnits, 'f', -1, 64)))
	}
	return sb.String()
}

// handleWorkload sets the workload, or shows the selection when called
// without arguments.
func (h *Handler) handleWorkload(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	sess := h.session(ctx, chatID)

	args := commandArgs(update.Message.Text)
	if len(args) == 0 {
		h.reply(ctx, b, chatID, selectionText(sess.Selection())+"\n"+telegram.Escape(workloadUsage))
		return
	}

	w, err := parseWorkload(args)
	if err != nil {
		h.replyError(ctx, b, chatID, "workload", err)
		return
	}
	if err := sess.SetWorkload(w); err != nil {
		h.replyError(ctx, b, chatID, "workload", err)
		return
	}

	h.reply(ctx, b, chatID, "✅ Workload saved\n\n"+selectionText(sess.Selection()))
}

func (h *Handler) handleImage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	args := commandArgs(update.Message.Text)
	if len(args) == 0 {
		h.reply(ctx, b, chatID, "Usage: `/image 1024x768 high` or `/image 1024x768:low`")
		return
	}

	img, err := domain.ParseImage(strings.Join(args, " "))
	if err != nil {
		h.replyError(ctx, b, chatID, "image", err)
		return
	}

	sess := h.session(ctx, chatID)
	if err := sess.AddImage(img); err != nil {
		h.replyError(ctx, b, chatID, "image", err)
		return
	}

	n := len(sess.Selection().Workload.Images)
	h.reply(ctx, b, chatID, fmt.Sprintf("🖼 Added %s, %d image(s) per request", telegram.Code(img.String()), n))
}

func (h *Handler) handleImages(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	images := h.session(ctx, chatID).Selection().Workload.Images
	if len(images) == 0 {
		h.reply(ctx, b, chatID, "No images attached. Add one with `/image 1024x768 high`")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🖼 *Images per request:* %d\n\n", len(images)))
	for i, img := range images {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, telegram.Code(img.String())))
	}
	sb.WriteString("\n/noimages to drop them")
	h.reply(ctx, b, chatID, sb.String())
}

func (h *Handler) handleNoImages(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	h.session(ctx, chatID).ClearImages()
	h.reply(ctx, b, chatID, "✅ Images removed")
}

func (h *Handler) handlePTU(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	units, err := parseUnits(commandArgs(update.Message.Text))
	if err != nil {
		h.replyError(ctx, b, chatID, "ptu", err)
		return
	}

	if err := h.session(ctx, chatID).SetManualUnits(units); err != nil {
		h.replyError(ctx, b, chatID, "ptu", err)
		return
	}

	if units == nil {
		h.reply(ctx, b, chatID, "✅ PTU count goes back to the model formula")
		return
	}
	h.reply(ctx, b, chatID, fmt.Sprintf("✅ Required PTU count set to %s", strconv.FormatFloat(*units, 'f', -1, 64)))
}
