package render

import (
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/set-night/ptucalc/internal/domain"
	"github.com/set-night/ptucalc/internal/pricing"
)

func sampleResult() domain.ComparisonResult {
	return domain.ComparisonResult{
		ModelName:           "azure-gpt-4o",
		Family:              domain.FamilyAzure,
		InputTextTokens:     1000,
		OutputTokens:        100,
		RequestsPerMinute:   60,
		Term:                domain.TermMonthly,
		RequiredUnits:       33.6,
		DeployedUnits:       45,
		Utilization:         33.6 / 45,
		MeteredCost:         decimal.RequireFromString("9199.008"),
		CommittedCost:       decimal.RequireFromString("11700"),
		CostSavingPercent:   -27.1877,
		ThroughputPerDollar: 0.2471,
	}
}

func TestCells(t *testing.T) {
	cells := Cells(sampleResult())
	require.Len(t, cells, len(Headers))
	assert.Equal(t, []string{
		"azure-gpt-4o", "1000", "100", "60", "0", "0", "Monthly",
		"33.60", "45", "74.7%", "9199.01", "11700.00", "-27.19", "0.2471",
	}, cells)
}

func TestPlainTable(t *testing.T) {
	out := New(false).Table([]domain.ComparisonResult{sampleResult(), sampleResult()})

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Contains(t, out, "Model Name")
	assert.Contains(t, out, "11700.00")
	assert.Equal(t, 2, strings.Count(out, "azure-gpt-4o"))
	assert.True(t, strings.HasPrefix(lines[0], "+"), "ASCII border: %q", lines[0])
	assert.NotContains(t, out, "\x1b[")
}

func TestSavingColour(t *testing.T) {
	prev := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = prev })

	pretty := New(true)
	assert.Contains(t, pretty.Saving(12.5), "\x1b[32m")
	assert.Contains(t, pretty.Saving(-3), "\x1b[31m")
	assert.Equal(t, "0.00", pretty.Saving(0))
	assert.Equal(t, "12.50", New(false).Saving(12.5))
}

func TestCard(t *testing.T) {
	out := New(false).Card(sampleResult())
	assert.Contains(t, out, "azure-gpt-4o\n")
	assert.Contains(t, out, "Deployed PTU          45")
	assert.Contains(t, out, "$9199.01")
	assert.Contains(t, out, "-27.19%")
	assert.NotContains(t, out, "Images")

	res := sampleResult()
	res.ImageCount, res.ImageTokens, res.CacheHitRate = 2, 1530, 25
	out = New(false).Card(res)
	assert.Contains(t, out, "2 (1530 tokens)")
	assert.Contains(t, out, "25.0%")
}

func TestBreakdown(t *testing.T) {
	ex, err := pricing.Explain(pricing.Request{
		Model: domain.NewModel(domain.ModelPriceEntry{
			Name:              "azure-gpt-4o",
			MinDeploymentUnit: 15,
			PriceMonthly:      260,
			PriceYearly:       221,
			InputPrice:        0.0025,
			OutputPrice:       0.01,
		}),
		Term:     domain.TermMonthly,
		Workload: domain.WorkloadSpec{InputTextTokens: 1000, OutputTokens: 100, RequestsPerMinute: 60},
	})
	require.NoError(t, err)

	out := New(false).Breakdown(ex)
	assert.Contains(t, out, "(3 * 15) * 260.00 = 11700.00")
	assert.Contains(t, out, "total:  6570.72 + 2628.29 = 9199.01")
	assert.NotContains(t, out, "images:")
}
