package pricing

import (
	"testing"

	"github.com/set-night/ptucalc/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiUnitsReference(t *testing.T) {
	w := domain.WorkloadSpec{InputTextTokens: 3500, OutputTokens: 300, RequestsPerMinute: 60}

	// ((3500 + 300*3) * 4 * (60/60)) / 800
	assert.InDelta(t, 22.0, GeminiUnits(w, 0, 3, 800), 1e-9)
}

func TestGeminiUnitsIgnoresCacheHitRate(t *testing.T) {
	w := domain.WorkloadSpec{InputTextTokens: 3500, OutputTokens: 300, RequestsPerMinute: 60}
	cached := w
	cached.CacheHitRate = 75

	assert.InDelta(t, GeminiUnits(w, 0, 3, 800), GeminiUnits(cached, 0, 3, 800), 1e-12)
}

func TestGeminiUnitsCountsImages(t *testing.T) {
	w := domain.WorkloadSpec{InputTextTokens: 3500, OutputTokens: 300, RequestsPerMinute: 60}

	// (3500 + 266 + 900) * 4 / 800
	assert.InDelta(t, 23.33, GeminiUnits(w, 266, 3, 800), 1e-9)
}

func TestAzureUnits(t *testing.T) {
	tp, err := AzureThroughput("azure-gpt-4o")
	require.NoError(t, err)

	tests := []struct {
		name        string
		w           domain.WorkloadSpec
		imageTokens int
		want        float64
	}{
		{
			name: "no cache",
			w:    domain.WorkloadSpec{InputTextTokens: 1000, OutputTokens: 100, RequestsPerMinute: 60},
			want: 24 + 9.6,
		},
		{
			name: "half cached",
			w:    domain.WorkloadSpec{InputTextTokens: 1000, OutputTokens: 100, RequestsPerMinute: 60, CacheHitRate: 50},
			want: 12 + 9.6,
		},
		{
			name:        "images are never cached",
			w:           domain.WorkloadSpec{InputTextTokens: 1000, OutputTokens: 100, RequestsPerMinute: 60, CacheHitRate: 50},
			imageTokens: 765,
			want:        60.0*1265/2500 + 9.6,
		},
		{
			name: "idle workload",
			w:    domain.WorkloadSpec{InputTextTokens: 1000, OutputTokens: 100},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, AzureUnits(tp, tt.w, tt.imageTokens), 1e-9)
		})
	}
}

func TestAzureThroughputIsExactMatch(t *testing.T) {
	_, err := AzureThroughput("  Azure-GPT-4o ")
	require.NoError(t, err)

	_, err = AzureThroughput("azure-gpt-4o-2024-08-06")
	assert.ErrorIs(t, err, domain.ErrUnsupportedModel)
}

func TestRequiredUnits(t *testing.T) {
	w := domain.WorkloadSpec{InputTextTokens: 3500, OutputTokens: 300, RequestsPerMinute: 60}

	got, err := RequiredUnits(domain.NewModel(geminiEntry()), w)
	require.NoError(t, err)
	assert.InDelta(t, 22.0, got, 1e-9)

	got, err = RequiredUnits(domain.NewModel(domain.ModelPriceEntry{Name: "azure-gpt-4.1"}), w)
	require.NoError(t, err)
	assert.InDelta(t, 60.0*3500/3000+60.0*300/750, got, 1e-9)

	_, err = RequiredUnits(domain.NewModel(domain.ModelPriceEntry{Name: "azure-o1"}), w)
	assert.ErrorIs(t, err, domain.ErrUnsupportedModel)

	_, err = RequiredUnits(domain.NewModel(domain.ModelPriceEntry{Name: "anthropic-claude"}), w)
	assert.ErrorIs(t, err, domain.ErrUnsupportedModel)

	broken := geminiEntry()
	broken.CharsPerGSU = nil
	_, err = RequiredUnits(domain.NewModel(broken), w)
	assert.ErrorIs(t, err, domain.ErrUnsupportedModel)
}

func TestDeployedUnits(t *testing.T) {
	tests := []struct {
		required float64
		minUnit  int
		want     int
	}{
		{14.2, 15, 15},
		{15, 15, 15},
		{15.0001, 15, 30},
		{30, 15, 30},
		{22, 1, 22},
		{0.3, 1, 1},
		{0, 15, 0},
	}
	for _, tt := range tests {
		got, err := DeployedUnits(tt.required, tt.minUnit)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "DeployedUnits(%g, %d)", tt.required, tt.minUnit)
	}
}

func TestDeployedUnitsIsSmallestCoveringMultiple(t *testing.T) {
	for _, minUnit := range []int{1, 5, 15, 50} {
		for required := 0.25; required < 400; required += 3.7 {
			deployed, err := DeployedUnits(required, minUnit)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, float64(deployed), required)
			assert.Zero(t, deployed%minUnit)
			assert.Less(t, float64(deployed-minUnit), required)
		}
	}
}

func TestDeployedUnitsRejectsBadInput(t *testing.T) {
	_, err := DeployedUnits(-1, 15)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = DeployedUnits(10, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestExactMultipleDeploysOneBlock(t *testing.T) {
	// 125 rpm * 300 uncached tokens / 2500 per PTU = 15 PTU, one block of 15
	req := Request{
		Model: domain.NewModel(azureEntry()),
		Term:  domain.TermMonthly,
		Workload: domain.WorkloadSpec{
			InputTextTokens:   1000,
			RequestsPerMinute: 125,
			CacheHitRate:      70,
		},
	}

	got, err := Evaluate(req)
	require.NoError(t, err)
	assert.Equal(t, 15.0, got.RequiredUnits)
	assert.Equal(t, 15, got.DeployedUnits)
	assert.Equal(t, 1.0, got.Utilization)
	assertDecimal(t, "3900", got.CommittedCost)
}

func TestGeminiWholeUnitRequirementsAreNotRoundedUp(t *testing.T) {
	model := domain.NewModel(geminiEntry())

	// in * 4 * rpm/60 / 800 = in * rpm / 12000 GSU
	for in := 500; in <= 12000; in += 500 {
		for rpm := 1; rpm <= 120; rpm++ {
			if in*rpm%12000 != 0 {
				continue
			}
			want := in * rpm / 12000
			w := domain.WorkloadSpec{InputTextTokens: in, RequestsPerMinute: rpm}

			required, err := RequiredUnits(model, w)
			require.NoError(t, err)
			deployed, err := DeployedUnits(required, 1)
			require.NoError(t, err)
			assert.Equal(t, want, deployed, "in=%d rpm=%d required=%v", in, rpm, required)
			assert.Equal(t, 1.0, Utilization(required, deployed), "in=%d rpm=%d", in, rpm)
		}
	}
}

func TestDeployedUnitsIgnoresFloatNoise(t *testing.T) {
	got, err := DeployedUnits(15.000000000000004, 15)
	require.NoError(t, err)
	assert.Equal(t, 15, got)

	got, err = DeployedUnits(31.000000000000004, 1)
	require.NoError(t, err)
	assert.Equal(t, 31, got)

	assert.Equal(t, 1.0, Utilization(15.000000000000004, 15))
}

func TestGeminiImagesSizedFromExactChars(t *testing.T) {
	model := domain.NewModel(geminiEntry())
	w := domain.WorkloadSpec{
		InputTextTokens:   3500,
		OutputTokens:      300,
		RequestsPerMinute: 60,
		Images:            []domain.ImageInput{{Width: 640, Height: 480, Quality: domain.QualityLow}},
	}

	// 1067 chars / 4 = 266.75 tokens; (3500 + 266.75 + 900) * 4 / 800
	required, err := RequiredUnits(model, w)
	require.NoError(t, err)
	assert.InDelta(t, 23.33375, required, 1e-9)

	tokens, err := ImageTokens(model, w)
	require.NoError(t, err)
	assert.Equal(t, 266, tokens, "reported count stays whole tokens")
}
