package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/set-night/ptucalc/internal/domain"
)

func TestComparisonRequiresSelection(t *testing.T) {
	catalog, _ := newTestCatalog(t)
	svc := NewComparisonService(catalog)

	_, err := svc.Evaluate(Selection{Term: domain.TermMonthly, HasWorkload: true})
	assert.ErrorIs(t, err, domain.ErrNoModelSelected)

	_, err = svc.Evaluate(Selection{Model: "azure-gpt-4o", Term: domain.TermMonthly})
	assert.ErrorIs(t, err, domain.ErrNoWorkload)

	_, err = svc.Evaluate(Selection{Model: "azure-gpt-9", Term: domain.TermMonthly, HasWorkload: true})
	assert.ErrorIs(t, err, domain.ErrUnknownModel)
}

func TestComparisonEvaluate(t *testing.T) {
	catalog, _ := newTestCatalog(t)
	svc := NewComparisonService(catalog)

	r, err := svc.Evaluate(Selection{
		Model:       "azure-gpt-4o",
		Term:        domain.TermMonthly,
		HasWorkload: true,
		Workload:    domain.WorkloadSpec{InputTextTokens: 1000, OutputTokens: 100, RequestsPerMinute: 60},
	})
	require.NoError(t, err)
	assert.Equal(t, 45, r.DeployedUnits)
	assert.Equal(t, "11700", r.CommittedCost.String())
}

func TestComparisonManualFamilyNeedsUnits(t *testing.T) {
	catalog, _ := newTestCatalog(t)
	svc := NewComparisonService(catalog)
	sel := Selection{
		Model:       "acme-llm",
		Term:        domain.TermYearly,
		HasWorkload: true,
		Workload:    domain.WorkloadSpec{InputTextTokens: 100, OutputTokens: 10, RequestsPerMinute: 5},
	}

	_, err := svc.Evaluate(sel)
	assert.ErrorIs(t, err, domain.ErrUnsupportedModel)

	units := 12.0
	sel.ManualUnits = &units
	r, err := svc.Evaluate(sel)
	require.NoError(t, err)
	assert.Equal(t, 20, r.DeployedUnits)
	assert.Equal(t, "1600", r.CommittedCost.String())
}

func TestEvaluateAndAdd(t *testing.T) {
	catalog, _ := newTestCatalog(t)
	svc := NewComparisonService(catalog)
	sess := NewSessionService(domain.TermMonthly).FindOrCreate(9)

	sess.SelectModel("azure-gpt-4o")
	require.NoError(t, sess.SetWorkload(domain.WorkloadSpec{InputTextTokens: 1000, OutputTokens: 100, RequestsPerMinute: 60}))
	_, err := svc.EvaluateAndAdd(sess)
	require.NoError(t, err)

	sess.SelectModel("acme-llm")
	_, err = svc.EvaluateAndAdd(sess)
	assert.ErrorIs(t, err, domain.ErrUnsupportedModel)

	results := sess.Results()
	require.Len(t, results, 1, "failed evaluation adds nothing")
	assert.Equal(t, "azure-gpt-4o", results[0].ModelName)
}
