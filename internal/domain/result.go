package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ComparisonResult is one evaluated workload, as shown and exported.
type ComparisonResult struct {
	ID        uuid.UUID
	CreatedAt time.Time

	ModelName         string
	Family            VendorFamily
	InputTextTokens   int
	OutputTokens      int
	RequestsPerMinute int
	CacheHitRate      float64
	ImageCount        int
	ImageTokens       int
	Term              Term

	RequiredUnits       float64
	DeployedUnits       int
	Utilization         float64
	MeteredCost         decimal.Decimal
	CommittedCost       decimal.Decimal
	CostSavingPercent   float64
	ThroughputPerDollar float64
}
