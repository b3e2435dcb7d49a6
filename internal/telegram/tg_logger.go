package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"

	"github.com/set-night/ptucalc/internal/config"
)

// TelegramLogger mirrors operational events into topics of a log chat.
type TelegramLogger struct {
	bot *bot.Bot
	cfg *config.Config
}

func NewTelegramLogger(b *bot.Bot, cfg *config.Config) *TelegramLogger {
	return &TelegramLogger{bot: b, cfg: cfg}
}

type LogType string

const (
	LogTypeError   LogType = "error"
	LogTypeCatalog LogType = "catalog"
	LogTypeExport  LogType = "export"
)

func (l *TelegramLogger) topicID(logType LogType) int {
	switch logType {
	case LogTypeError:
		return l.cfg.LogTopicError
	case LogTypeCatalog:
		return l.cfg.LogTopicCatalog
	case LogTypeExport:
		return l.cfg.LogTopicExport
	default:
		return 0
	}
}

func (l *TelegramLogger) Log(logType LogType, message string) {
	if l == nil || l.cfg.LogTelegramChatID == 0 {
		return
	}

	topicID := l.topicID(logType)
	if topicID == 0 {
		return
	}

	if len([]rune(message)) > MaxMessageLen {
		message = string([]rune(message)[:MaxMessageLen-20]) + "\n\n... (truncated)"
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.TelegramLogTimeout)
	defer cancel()

	_, err := l.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          l.cfg.LogTelegramChatID,
		Text:            message,
		ParseMode:       "Markdown",
		MessageThreadID: topicID,
	})
	if err != nil {
		slog.Error("failed to send telegram log", "type", logType, "error", err)
	}
}

func (l *TelegramLogger) LogError(err error, where string) {
	msg := fmt.Sprintf("❌ *Error*\n\n*Context:* %s\n*Error:* %s\n*Time:* %s",
		Escape(where), Code(err.Error()), time.Now().Format("2006-01-02 15:04:05"))
	l.Log(LogTypeError, msg)
}

func (l *TelegramLogger) LogCatalogReplaced(adminID int64, filename string, models int) {
	msg := fmt.Sprintf("📒 *Catalog replaced*\n\n*Admin:* %s\n*File:* %s\n*Models:* %d",
		Code(fmt.Sprint(adminID)), Escape(filename), models)
	l.Log(LogTypeCatalog, msg)
}

func (l *TelegramLogger) LogExport(chatID int64, rows int) {
	msg := fmt.Sprintf("📤 *Export*\n\n*Chat:* %s\n*Rows:* %d", Code(fmt.Sprint(chatID)), rows)
	l.Log(LogTypeExport, msg)
}
