package pricing

import (
	"fmt"
	"math"
	"strings"

	"github.com/set-night/ptucalc/internal/domain"
)

// Throughput is the token rate one provisioned unit absorbs per minute.
type Throughput struct {
	InputPerUnit  float64
	OutputPerUnit float64
}

// azureThroughput is keyed by exact lower-cased catalog model name.
var azureThroughput = map[string]Throughput{
	"azure-gpt-4o":      {InputPerUnit: 2500, OutputPerUnit: 625},
	"azure-gpt-4.1":     {InputPerUnit: 3000, OutputPerUnit: 750},
	"azure-gpt-4o-mini": {InputPerUnit: 37000, OutputPerUnit: 9250},
}

// AzureThroughput returns the per-unit throughput of a tokens-per-minute
// family model.
func AzureThroughput(modelName string) (Throughput, error) {
	tp, ok := azureThroughput[strings.ToLower(strings.TrimSpace(modelName))]
	if !ok {
		return Throughput{}, fmt.Errorf("%w: no throughput table for %q", domain.ErrUnsupportedModel, modelName)
	}
	return tp, nil
}

// unitPrecision is the resolution of a unit requirement: 1e-9 units.
const unitPrecision = 1e9

// snapUnits drops float noise below unitPrecision, so a requirement that is
// an exact multiple of the deployment unit stays on that multiple.
func snapUnits(units float64) float64 {
	return math.Round(units*unitPrecision) / unitPrecision
}

// GeminiUnits sizes a workload in character-per-second units. Output tokens
// weigh outputRatio times an input token. The cache hit rate is ignored:
// cached prompts still consume provisioned throughput.
func GeminiUnits(w domain.WorkloadSpec, imageTokens, outputRatio, charsPerUnit float64) float64 {
	tokens := float64(w.InputTextTokens) + imageTokens + float64(w.OutputTokens)*outputRatio
	perSecond := float64(w.RequestsPerMinute) / 60
	return snapUnits(tokens * charsPerToken * perSecond / charsPerUnit)
}

// AzureUnits sizes a workload in tokens-per-minute units. Cache hits reduce
// the text input tokens; image tokens are never cached.
func AzureUnits(tp Throughput, w domain.WorkloadSpec, imageTokens int) float64 {
	effectiveInput := float64(w.InputTextTokens)*(1-w.CacheHitRate/100) + float64(imageTokens)
	rpm := float64(w.RequestsPerMinute)
	return snapUnits(rpm*effectiveInput/tp.InputPerUnit + rpm*float64(w.OutputTokens)/tp.OutputPerUnit)
}

// RequiredUnits returns the capacity a workload needs, before rounding to
// the deployment unit. Gemini images are sized from their exact character
// count, not the whole-token figure ImageTokens reports.
func RequiredUnits(model domain.Model, w domain.WorkloadSpec) (float64, error) {
	switch model.Family {
	case domain.FamilyGemini:
		e := &model.Entry
		if e.OutputMultipleRatio == nil || e.CharsPerGSU == nil || *e.CharsPerGSU <= 0 {
			return 0, fmt.Errorf("%w: %s is missing its GSU parameters", domain.ErrUnsupportedModel, e.Name)
		}
		imageTokens, err := charImageTokens(e, w.InputTextTokens, w.Images)
		if err != nil {
			return 0, err
		}
		return GeminiUnits(w, imageTokens, *e.OutputMultipleRatio, *e.CharsPerGSU), nil
	case domain.FamilyAzure:
		tp, err := AzureThroughput(model.Name())
		if err != nil {
			return 0, err
		}
		imageTokens, err := ImageTokens(model, w)
		if err != nil {
			return 0, err
		}
		return AzureUnits(tp, w, imageTokens), nil
	default:
		return 0, fmt.Errorf("%w: %s has no capacity formula, a unit count must be given", domain.ErrUnsupportedModel, model.Name())
	}
}

// DeployedUnits rounds required capacity up to the deployment granularity.
func DeployedUnits(required float64, minUnit int) (int, error) {
	if minUnit <= 0 {
		return 0, fmt.Errorf("%w: deployment unit must be > 0, got %d", domain.ErrInvalidArgument, minUnit)
	}
	if required < 0 || math.IsNaN(required) || math.IsInf(required, 0) {
		return 0, fmt.Errorf("%w: required units must be a finite number >= 0, got %g", domain.ErrInvalidArgument, required)
	}
	blocks := int(math.Ceil(snapUnits(required) / float64(minUnit)))
	return blocks * minUnit, nil
}
