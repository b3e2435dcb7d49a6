package service

import (
	"fmt"

	"github.com/set-night/ptucalc/internal/domain"
	"github.com/set-night/ptucalc/internal/pricing"
)

// ComparisonService resolves a selection against the catalog and runs the
// pricing engine on it.
type ComparisonService struct {
	catalog *CatalogService
}

func NewComparisonService(catalog *CatalogService) *ComparisonService {
	return &ComparisonService{catalog: catalog}
}

// Request builds the engine request for a selection.
func (s *ComparisonService) Request(sel Selection) (pricing.Request, error) {
	if sel.Model == "" {
		return pricing.Request{}, domain.ErrNoModelSelected
	}
	if !sel.HasWorkload {
		return pricing.Request{}, domain.ErrNoWorkload
	}
	model, err := s.catalog.Lookup(sel.Model)
	if err != nil {
		return pricing.Request{}, err
	}
	return pricing.Request{
		Model:         model,
		Term:          sel.Term,
		Workload:      sel.Workload,
		RequiredUnits: sel.ManualUnits,
	}, nil
}

func (s *ComparisonService) Explain(sel Selection) (pricing.Explanation, error) {
	req, err := s.Request(sel)
	if err != nil {
		return pricing.Explanation{}, err
	}
	ex, err := pricing.Explain(req)
	if err != nil {
		return pricing.Explanation{}, fmt.Errorf("evaluate %s: %w", req.Model.Name(), err)
	}
	return ex, nil
}

func (s *ComparisonService) Evaluate(sel Selection) (domain.ComparisonResult, error) {
	ex, err := s.Explain(sel)
	if err != nil {
		return domain.ComparisonResult{}, err
	}
	return ex.Result, nil
}

// EvaluateAndAdd evaluates the session's selection and appends the result.
// A failed evaluation leaves the session's results untouched.
func (s *ComparisonService) EvaluateAndAdd(sess *Session) (domain.ComparisonResult, error) {
	r, err := s.Evaluate(sess.Selection())
	if err != nil {
		return domain.ComparisonResult{}, err
	}
	return sess.Add(r)
}
