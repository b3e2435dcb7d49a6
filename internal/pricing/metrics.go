package pricing

import "github.com/shopspring/decimal"

// Utilization is required/deployed capacity. Zero deployed capacity reports 0.
func Utilization(required float64, deployed int) float64 {
	if deployed <= 0 {
		return 0
	}
	return snapUnits(required) / float64(deployed)
}

// CostSavingPercent is the saving of committed over metered billing in
// percent; negative when committed capacity costs more. A zero metered cost
// reports 0.
func CostSavingPercent(metered, committed decimal.Decimal) float64 {
	if metered.IsZero() {
		return 0
	}
	return metered.Sub(committed).Div(metered).Mul(hundred).InexactFloat64()
}

// ThroughputPerDollar is tokens per minute divided by committed cost per
// minute, in millions.
func ThroughputPerDollar(tokensPerRequest, rpm int, committed decimal.Decimal) float64 {
	if committed.IsZero() {
		return 0
	}
	costPerMinute := committed.Div(minutesPerMonth).InexactFloat64()
	tokensPerMinute := float64(tokensPerRequest) * float64(rpm)
	return tokensPerMinute / costPerMinute / 1_000_000
}
