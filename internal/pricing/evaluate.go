package pricing

import (
	"fmt"

	"github.com/set-night/ptucalc/internal/domain"
)

// Request is one evaluation: a resolved model, a term and a workload.
type Request struct {
	Model    domain.Model
	Term     domain.Term
	Workload domain.WorkloadSpec

	// RequiredUnits overrides the family capacity formula when set.
	RequiredUnits *float64
	// PricePerUnit overrides the catalog price for the term when set.
	PricePerUnit *float64
}

// Explanation is an evaluation with both itemized breakdowns.
type Explanation struct {
	Result    domain.ComparisonResult
	Metered   MeteredBreakdown
	Committed CommittedBreakdown
}

// Evaluate runs the full comparison for one workload.
func Evaluate(req Request) (domain.ComparisonResult, error) {
	ex, err := Explain(req)
	if err != nil {
		return domain.ComparisonResult{}, err
	}
	return ex.Result, nil
}

// Explain is Evaluate with the itemized breakdowns kept.
func Explain(req Request) (Explanation, error) {
	term, err := domain.ParseTerm(string(req.Term))
	if err != nil {
		return Explanation{}, err
	}
	w := req.Workload
	if err := w.Validate(); err != nil {
		return Explanation{}, err
	}
	entry := &req.Model.Entry

	imageTokens, err := ImageTokens(req.Model, w)
	if err != nil {
		return Explanation{}, fmt.Errorf("image tokens: %w", err)
	}

	var required float64
	if req.RequiredUnits != nil {
		required = snapUnits(*req.RequiredUnits)
	} else {
		required, err = RequiredUnits(req.Model, w)
		if err != nil {
			return Explanation{}, fmt.Errorf("required units: %w", err)
		}
	}

	price := entry.PricePerUnit(term)
	if req.PricePerUnit != nil {
		if *req.PricePerUnit <= 0 {
			return Explanation{}, fmt.Errorf("%w: price per unit must be > 0", domain.ErrInvalidArgument)
		}
		price = *req.PricePerUnit
	}

	committed, err := CommittedCostDetailed(required, entry.MinDeploymentUnit, price, entry.Discount(term))
	if err != nil {
		return Explanation{}, fmt.Errorf("committed cost: %w", err)
	}
	metered := MeteredCostDetailed(entry, w, imageTokens)

	tokensPerRequest := w.InputTextTokens + imageTokens + w.OutputTokens
	result := domain.ComparisonResult{
		ModelName:           entry.Name,
		Family:              req.Model.Family,
		InputTextTokens:     w.InputTextTokens,
		OutputTokens:        w.OutputTokens,
		RequestsPerMinute:   w.RequestsPerMinute,
		CacheHitRate:        w.CacheHitRate,
		ImageCount:          len(w.Images),
		ImageTokens:         imageTokens,
		Term:                term,
		RequiredUnits:       required,
		DeployedUnits:       committed.DeployedUnits,
		Utilization:         Utilization(required, committed.DeployedUnits),
		MeteredCost:         metered.Total,
		CommittedCost:       committed.Final,
		CostSavingPercent:   CostSavingPercent(metered.Total, committed.Final),
		ThroughputPerDollar: ThroughputPerDollar(tokensPerRequest, w.RequestsPerMinute, committed.Final),
	}

	return Explanation{Result: result, Metered: metered, Committed: committed}, nil
}
