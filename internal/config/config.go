package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/set-night/ptucalc/internal/domain"
)

type Config struct {
	// Core
	BotToken    string `env:"BOT_TOKEN"`
	CatalogPath string `env:"PTU_CATALOG_PATH" envDefault:"model_config.json"`
	DefaultTerm string `env:"PTU_DEFAULT_TERM" envDefault:"monthly"`

	// Admin
	AdminIDs []int64 `env:"ADMIN_IDS" envSeparator:","`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Bot behavior
	DropPendingUpdates bool `env:"BOT_DROP_PENDING_UPDATES" envDefault:"false"`
	RateLimitPerMinute int  `env:"RATE_LIMIT_PER_MINUTE" envDefault:"20"`

	// Telegram logging
	LogTelegramChatID int64 `env:"LOG_TELEGRAM_CHAT_ID"`
	LogTopicError     int   `env:"LOG_TOPIC_ERROR"`
	LogTopicCatalog   int   `env:"LOG_TOPIC_CATALOG"`
	LogTopicExport    int   `env:"LOG_TOPIC_EXPORT"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if _, err := domain.ParseTerm(c.DefaultTerm); err != nil {
		return fmt.Errorf("PTU_DEFAULT_TERM: %w", err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be > 0, got %d", c.RateLimitPerMinute)
	}
	return nil
}

// ValidateBot checks the settings only the bot needs.
func (c *Config) ValidateBot() error {
	if strings.TrimSpace(c.BotToken) == "" {
		return errors.New("BOT_TOKEN is required")
	}
	return nil
}

// Term returns the validated default commitment term.
func (c *Config) Term() domain.Term {
	t, err := domain.ParseTerm(c.DefaultTerm)
	if err != nil {
		return domain.TermMonthly
	}
	return t
}

func (c *Config) IsAdmin(telegramID int64) bool {
	for _, id := range c.AdminIDs {
		if id == telegramID {
			return true
		}
	}
	return false
}
