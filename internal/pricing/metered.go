package pricing

import (
	"fmt"

	"github.com/set-night/ptucalc/internal/domain"
	"github.com/shopspring/decimal"
)

// DaysPerMonth is the calendar-average month (365/12, rounded).
const DaysPerMonth = 30.42

var (
	thousand        = decimal.NewFromInt(1000)
	hundred         = decimal.NewFromInt(100)
	minutesPerMonth = decimal.NewFromInt(60 * 24).Mul(decimal.NewFromFloat(DaysPerMonth))
)

// CallsPerMonth extrapolates a steady request rate to a month:
// rpm/60 * 3600 * 24 * DaysPerMonth.
func CallsPerMonth(rpm int) decimal.Decimal {
	return decimal.NewFromInt(int64(rpm)).Mul(minutesPerMonth)
}

// MeteredBreakdown itemizes a metered monthly cost. The string fields are
// labeled expressions for on-screen audit.
type MeteredBreakdown struct {
	InputCost  decimal.Decimal
	ImageCost  decimal.Decimal
	OutputCost decimal.Decimal
	Total      decimal.Decimal

	Input  string
	Image  string
	Output string
	Sum    string
}

// tokenCost is tokens * calls / 1000 * pricePer1k.
func tokenCost(tokens decimal.Decimal, calls decimal.Decimal, pricePer1k decimal.Decimal) decimal.Decimal {
	return tokens.Mul(calls).Div(thousand).Mul(pricePer1k)
}

// MeteredCostDetailed prices one workload under pay-as-you-go billing.
//
// With a cached price and a positive hit rate the text input splits into a
// regular and a cached term. Images are billed per image when the entry has
// a per-image price for the tier, otherwise as uncached input tokens. Output
// is never discounted.
func MeteredCostDetailed(entry *domain.ModelPriceEntry, w domain.WorkloadSpec, imageTokens int) MeteredBreakdown {
	calls := CallsPerMonth(w.RequestsPerMinute)
	inputPrice := decimal.NewFromFloat(entry.InputPrice)
	outputPrice := decimal.NewFromFloat(entry.OutputPrice)
	textTokens := decimal.NewFromInt(int64(w.InputTextTokens))

	var b MeteredBreakdown

	if entry.SupportsCache() && w.CacheHitRate > 0 {
		rate := decimal.NewFromFloat(w.CacheHitRate).Div(hundred)
		cachedPrice := decimal.NewFromFloat(*entry.CachedInputPrice)
		regular := tokenCost(textTokens.Mul(decimal.NewFromInt(1).Sub(rate)), calls, inputPrice)
		cached := tokenCost(textTokens.Mul(rate), calls, cachedPrice)
		b.InputCost = regular.Add(cached)
		b.Input = fmt.Sprintf("((%d * (1 - %s) * (%d / 60) * 3600 * 24 * %g) / 1000) * %s + ((%d * %s * (%d / 60) * 3600 * 24 * %g) / 1000) * %s = %s",
			w.InputTextTokens, rate.String(), w.RequestsPerMinute, DaysPerMonth, inputPrice.StringFixed(6),
			w.InputTextTokens, rate.String(), w.RequestsPerMinute, DaysPerMonth, cachedPrice.StringFixed(6),
			b.InputCost.StringFixed(2))
	} else {
		b.InputCost = tokenCost(textTokens, calls, inputPrice)
		b.Input = fmt.Sprintf("((%d * (%d / 60) * 3600 * 24 * %g) / 1000) * %s = %s",
			w.InputTextTokens, w.RequestsPerMinute, DaysPerMonth, inputPrice.StringFixed(6), b.InputCost.StringFixed(2))
	}

	if n := len(w.Images); n > 0 {
		perImage := entry.PricePerImageOver128k
		if underLongContext(w.InputTextTokens) {
			perImage = entry.PricePerImageUnder128k
		}
		if perImage != nil {
			price := decimal.NewFromFloat(*perImage)
			b.ImageCost = decimal.NewFromInt(int64(n)).Mul(price).Mul(calls)
			b.Image = fmt.Sprintf("(%d * %s) * (%d / 60) * 3600 * 24 * %g = %s",
				n, price.String(), w.RequestsPerMinute, DaysPerMonth, b.ImageCost.StringFixed(2))
		} else {
			b.ImageCost = tokenCost(decimal.NewFromInt(int64(imageTokens)), calls, inputPrice)
			b.Image = fmt.Sprintf("((%d * (%d / 60) * 3600 * 24 * %g) / 1000) * %s = %s",
				imageTokens, w.RequestsPerMinute, DaysPerMonth, inputPrice.StringFixed(6), b.ImageCost.StringFixed(2))
		}
	}

	b.OutputCost = tokenCost(decimal.NewFromInt(int64(w.OutputTokens)), calls, outputPrice)
	b.Output = fmt.Sprintf("((%d * (%d / 60) * 3600 * 24 * %g) / 1000) * %s = %s",
		w.OutputTokens, w.RequestsPerMinute, DaysPerMonth, outputPrice.StringFixed(6), b.OutputCost.StringFixed(2))

	b.Total = b.InputCost.Add(b.ImageCost).Add(b.OutputCost)
	if b.Image != "" {
		b.Sum = fmt.Sprintf("%s + %s + %s = %s",
			b.InputCost.StringFixed(2), b.ImageCost.StringFixed(2), b.OutputCost.StringFixed(2), b.Total.StringFixed(2))
	} else {
		b.Sum = fmt.Sprintf("%s + %s = %s",
			b.InputCost.StringFixed(2), b.OutputCost.StringFixed(2), b.Total.StringFixed(2))
	}
	return b
}

// MeteredCost is MeteredCostDetailed without the breakdown.
func MeteredCost(entry *domain.ModelPriceEntry, w domain.WorkloadSpec, imageTokens int) decimal.Decimal {
	return MeteredCostDetailed(entry, w, imageTokens).Total
}
