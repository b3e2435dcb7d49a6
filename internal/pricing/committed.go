package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CommittedBreakdown itemizes a committed-capacity monthly cost.
type CommittedBreakdown struct {
	DeployedUnits int
	Base          decimal.Decimal
	Final         decimal.Decimal

	Rounding string
	Discount string
}

// CommittedCostDetailed bills the required capacity rounded up to the
// deployment unit, then applies the term discount once.
func CommittedCostDetailed(required float64, minUnit int, pricePerUnit, discount float64) (CommittedBreakdown, error) {
	deployed, err := DeployedUnits(required, minUnit)
	if err != nil {
		return CommittedBreakdown{}, err
	}

	price := decimal.NewFromFloat(pricePerUnit)
	disc := decimal.NewFromFloat(discount)
	base := decimal.NewFromInt(int64(deployed)).Mul(price)
	final := base.Mul(decimal.NewFromInt(1).Sub(disc))

	return CommittedBreakdown{
		DeployedUnits: deployed,
		Base:          base,
		Final:         final,
		Rounding: fmt.Sprintf("(%d * %d) * %s = %s",
			deployed/minUnit, minUnit, price.StringFixed(2), base.StringFixed(2)),
		Discount: fmt.Sprintf("(%s) * (1 - %s) = %s",
			base.StringFixed(2), disc.StringFixed(2), final.StringFixed(2)),
	}, nil
}

// CommittedCost is CommittedCostDetailed without the breakdown.
func CommittedCost(required float64, minUnit int, pricePerUnit, discount float64) (decimal.Decimal, error) {
	b, err := CommittedCostDetailed(required, minUnit, pricePerUnit, discount)
	if err != nil {
		return decimal.Zero, err
	}
	return b.Final, nil
}
