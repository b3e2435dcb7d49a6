package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/set-night/ptucalc/internal/config"
	"github.com/set-night/ptucalc/internal/domain"
)

func TestSessionSelection(t *testing.T) {
	sessions := NewSessionService(domain.TermYearly)
	sess := sessions.FindOrCreate(42)

	sel := sess.Selection()
	assert.Equal(t, domain.TermYearly, sel.Term)
	assert.Empty(t, sel.Model)
	assert.False(t, sel.HasWorkload)

	sess.SelectModel("azure-gpt-4o")
	sess.SetTerm(domain.TermMonthly)
	require.NoError(t, sess.AddImage(domain.ImageInput{Width: 1024, Height: 1024, Quality: domain.QualityHigh}))
	require.NoError(t, sess.SetWorkload(domain.WorkloadSpec{InputTextTokens: 1000, OutputTokens: 100, RequestsPerMinute: 60, CacheHitRate: 20}))
	units := 30.0
	require.NoError(t, sess.SetManualUnits(&units))

	sel = sess.Selection()
	assert.Equal(t, "azure-gpt-4o", sel.Model)
	assert.Equal(t, domain.TermMonthly, sel.Term)
	assert.True(t, sel.HasWorkload)
	assert.Equal(t, 1000, sel.Workload.InputTextTokens)
	assert.Equal(t, 20.0, sel.Workload.CacheHitRate)
	assert.Len(t, sel.Workload.Images, 1, "setting the workload keeps images")
	require.NotNil(t, sel.ManualUnits)
	assert.Equal(t, 30.0, *sel.ManualUnits)

	sel.Workload.Images[0].Width = 1
	*sel.ManualUnits = 1
	again := sess.Selection()
	assert.Equal(t, 1024, again.Workload.Images[0].Width, "selection is a copy")
	assert.Equal(t, 30.0, *again.ManualUnits)

	sess.ClearImages()
	require.NoError(t, sess.SetManualUnits(nil))
	sel = sess.Selection()
	assert.Empty(t, sel.Workload.Images)
	assert.Nil(t, sel.ManualUnits)

	assert.Same(t, sess, sessions.FindOrCreate(42))
}

func TestSessionRejectsBadInput(t *testing.T) {
	sess := NewSessionService(domain.TermMonthly).FindOrCreate(1)

	err := sess.SetWorkload(domain.WorkloadSpec{InputTextTokens: 10, RequestsPerMinute: 1, CacheHitRate: 150})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.False(t, sess.Selection().HasWorkload)

	err = sess.AddImage(domain.ImageInput{Width: 10, Height: 0, Quality: domain.QualityLow})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	neg := -1.0
	assert.ErrorIs(t, sess.SetManualUnits(&neg), domain.ErrInvalidArgument)

	for i := 0; i < config.MaxImagesPerWorkload; i++ {
		require.NoError(t, sess.AddImage(domain.ImageInput{Width: 10, Height: 10, Quality: domain.QualityLow}))
	}
	err = sess.AddImage(domain.ImageInput{Width: 10, Height: 10, Quality: domain.QualityLow})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestSessionResults(t *testing.T) {
	sessions := NewSessionService(domain.TermMonthly)
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sessions.now = func() time.Time { return at }
	sess := sessions.FindOrCreate(7)

	first, err := sess.Add(domain.ComparisonResult{ModelName: "a"})
	require.NoError(t, err)
	second, err := sess.Add(domain.ComparisonResult{ModelName: "b"})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, at, first.CreatedAt)

	results := sess.Results()
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].ModelName)
	assert.Equal(t, "b", results[1].ModelName)

	results[0].ModelName = "changed"
	assert.Equal(t, "a", sess.Results()[0].ModelName)

	sess.Clear()
	assert.Empty(t, sess.Results())
}

func TestSessionResetAndPrune(t *testing.T) {
	sessions := NewSessionService(domain.TermMonthly)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sessions.now = func() time.Time { return now }

	old := sessions.FindOrCreate(1)
	_, err := old.Add(domain.ComparisonResult{ModelName: "a"})
	require.NoError(t, err)

	fresh := sessions.Reset(1)
	assert.NotSame(t, old, fresh)
	assert.Empty(t, fresh.Results())

	now = now.Add(2 * time.Hour)
	sessions.FindOrCreate(2)
	assert.Equal(t, 2, sessions.Len())

	assert.Equal(t, 1, sessions.Prune(time.Hour))
	assert.Equal(t, 1, sessions.Len())
	assert.Empty(t, sessions.FindOrCreate(1).Results(), "pruned chat starts over")
}
