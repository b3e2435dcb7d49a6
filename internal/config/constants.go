package config

import "time"

const (
	// Telegram limits
	MaxTelegramMessageLen = 4096
	MaxCatalogUploadBytes = 1 << 20

	// Rate limit window
	RateLimitWindow = time.Minute

	// Session limits
	MaxImagesPerWorkload = 50
	MaxResultsPerSession = 200

	// Idle sessions are dropped after SessionIdleTimeout, checked every
	// SessionCleanupInterval.
	SessionIdleTimeout     = 24 * time.Hour
	SessionCleanupInterval = 10 * time.Minute

	// Models per page
	ModelsPerPage = 6

	// Export
	ExportFilePrefix = "ptu-cost-compare-"
	ExportTimeLayout = "2006-01-02-15:04"
	ExportSheetName  = "Results"

	// Telegram logger send timeout
	TelegramLogTimeout = 10 * time.Second
)
