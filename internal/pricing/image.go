// Package pricing converts a workload into capacity units and monthly costs
// under metered and committed-capacity billing. Every function here is pure.
package pricing

import (
	"fmt"
	"math"

	"github.com/set-night/ptucalc/internal/domain"
)

const (
	maxImageSide   = 2048.0
	shortSideLimit = 768.0
	tileSide       = 512.0

	// charsPerToken converts between the character-based and token-based
	// vendor units.
	charsPerToken = 4

	// LongContextTokens splits the per-image tiers of the Gemini family.
	LongContextTokens = 128_000
)

type tileCost struct {
	perTile int
	base    int
	low     int
}

var tileCosts = map[domain.ImageSizeClass]tileCost{
	domain.SizeStandard: {perTile: 170, base: 85, low: 85},
	domain.SizeCompact:  {perTile: 5667, base: 2833, low: 2833},
}

// TileTokens returns the token cost of one image under the tile scheme.
//
// High detail fits the image into 2048x2048 without upscaling, shrinks it
// so the shorter side is at most 768, then bills every started 512x512 tile
// plus a base cost. Low detail is a flat cost.
func TileTokens(width, height int, detail domain.Quality, class domain.ImageSizeClass) (int, error) {
	cost, ok := tileCosts[class]
	if !ok {
		return 0, fmt.Errorf("%w: image size class %q", domain.ErrInvalidArgument, class)
	}
	quality, err := domain.ParseQuality(string(detail))
	if err != nil {
		return 0, err
	}
	if width <= 0 || height <= 0 {
		return 0, fmt.Errorf("%w: image size must be positive, got %dx%d", domain.ErrInvalidArgument, width, height)
	}

	if quality == domain.QualityLow {
		return cost.low, nil
	}

	w, h := float64(width), float64(height)
	scale := math.Min(math.Min(maxImageSide/w, maxImageSide/h), 1.0)
	w, h = w*scale, h*scale

	if short := math.Min(w, h); short > shortSideLimit {
		scale = shortSideLimit / short
		w, h = w*scale, h*scale
	}

	tiles := int(math.Ceil(w/tileSide)) * int(math.Ceil(h/tileSide))
	return tiles*cost.perTile + cost.base, nil
}

// underLongContext picks the per-image tier from the request's text input
// tokens, not from the image itself.
func underLongContext(inputTextTokens int) bool {
	return inputTextTokens <= LongContextTokens
}

// CharImageTokens returns the token cost of the images of one request under
// the character-per-image scheme, truncated to whole tokens like the tile
// scheme. Quality is validated but does not change the result. Capacity
// sizing uses the untruncated figure.
func CharImageTokens(entry *domain.ModelPriceEntry, inputTextTokens int, images []domain.ImageInput) (int, error) {
	tokens, err := charImageTokens(entry, inputTextTokens, images)
	if err != nil {
		return 0, err
	}
	return int(tokens), nil
}

func charImageTokens(entry *domain.ModelPriceEntry, inputTextTokens int, images []domain.ImageInput) (float64, error) {
	for _, img := range images {
		if err := img.Validate(); err != nil {
			return 0, err
		}
	}
	if len(images) == 0 {
		return 0, nil
	}

	chars := entry.CharsPerImageOver128k
	if underLongContext(inputTextTokens) {
		chars = entry.CharsPerImageUnder128k
	}
	if chars == nil {
		return 0, fmt.Errorf("%w: %s has no chars per image for this context size", domain.ErrUnsupportedModel, entry.Name)
	}
	return *chars * float64(len(images)) / charsPerToken, nil
}

// ImageTokens returns the image tokens of one request for the model's family.
func ImageTokens(model domain.Model, w domain.WorkloadSpec) (int, error) {
	if model.Family == domain.FamilyGemini {
		return CharImageTokens(&model.Entry, w.InputTextTokens, w.Images)
	}

	total := 0
	for _, img := range w.Images {
		n, err := TileTokens(img.Width, img.Height, img.Quality, model.TileClass())
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}
