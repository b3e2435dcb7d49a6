package domain

import (
	"fmt"
	"strings"
)

// ModelPriceEntry is one record of the price catalog. Keys follow the vendor
// documents the catalog was first written from and must not be renamed.
type ModelPriceEntry struct {
	Name              string  `json:"model name" yaml:"model name" toml:"model name"`
	MinDeploymentUnit int     `json:"PTU minumum deployment unit" yaml:"PTU minumum deployment unit" toml:"PTU minumum deployment unit"`
	PriceMonthly      float64 `json:"PTU price of monthly commitment" yaml:"PTU price of monthly commitment" toml:"PTU price of monthly commitment"`
	PriceYearly       float64 `json:"PTU price of yearly commitment" yaml:"PTU price of yearly commitment" toml:"PTU price of yearly commitment"`
	DiscountMonthly   float64 `json:"PTU monthly discount" yaml:"PTU monthly discount" toml:"PTU monthly discount"`
	DiscountYearly    float64 `json:"PTU yearly discount" yaml:"PTU yearly discount" toml:"PTU yearly discount"`
	InputPrice        float64 `json:"input token price per 1k" yaml:"input token price per 1k" toml:"input token price per 1k"`
	OutputPrice       float64 `json:"output token price per 1k" yaml:"output token price per 1k" toml:"output token price per 1k"`

	CachedInputPrice *float64 `json:"cached input token price per 1k,omitempty" yaml:"cached input token price per 1k,omitempty" toml:"cached input token price per 1k,omitempty"`

	// Gemini family
	OutputMultipleRatio    *float64 `json:"output token multiple ratio,omitempty" yaml:"output token multiple ratio,omitempty" toml:"output token multiple ratio,omitempty"`
	CharsPerGSU            *float64 `json:"chars per GSU,omitempty" yaml:"chars per GSU,omitempty" toml:"chars per GSU,omitempty"`
	CharsPerImageUnder128k *float64 `json:"chars per image under 128k,omitempty" yaml:"chars per image under 128k,omitempty" toml:"chars per image under 128k,omitempty"`
	CharsPerImageOver128k  *float64 `json:"chars per image over 128k,omitempty" yaml:"chars per image over 128k,omitempty" toml:"chars per image over 128k,omitempty"`
	PricePerImageUnder128k *float64 `json:"price per image under 128k,omitempty" yaml:"price per image under 128k,omitempty" toml:"price per image under 128k,omitempty"`
	PricePerImageOver128k  *float64 `json:"price per image over 128k,omitempty" yaml:"price per image over 128k,omitempty" toml:"price per image over 128k,omitempty"`
}

// PricePerUnit returns the committed price of one capacity unit for the term.
func (e *ModelPriceEntry) PricePerUnit(term Term) float64 {
	if term == TermYearly {
		return e.PriceYearly
	}
	return e.PriceMonthly
}

// Discount returns the committed-capacity discount for the term.
func (e *ModelPriceEntry) Discount(term Term) float64 {
	if term == TermYearly {
		return e.DiscountYearly
	}
	return e.DiscountMonthly
}

func (e *ModelPriceEntry) SupportsCache() bool {
	return e.CachedInputPrice != nil
}

// Validate checks the fields every entry needs plus the fields required by
// the entry's vendor family.
func (e *ModelPriceEntry) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("%w: model name is required", ErrConfigParse)
	}
	if e.MinDeploymentUnit <= 0 {
		return fmt.Errorf("%w: %s: PTU minumum deployment unit must be > 0", ErrConfigParse, e.Name)
	}
	positive := []struct {
		key string
		v   float64
	}{
		{"PTU price of monthly commitment", e.PriceMonthly},
		{"PTU price of yearly commitment", e.PriceYearly},
		{"input token price per 1k", e.InputPrice},
		{"output token price per 1k", e.OutputPrice},
	}
	for _, p := range positive {
		if p.v <= 0 {
			return fmt.Errorf("%w: %s: %s must be > 0", ErrConfigParse, e.Name, p.key)
		}
	}
	discounts := []struct {
		key string
		v   float64
	}{
		{"PTU monthly discount", e.DiscountMonthly},
		{"PTU yearly discount", e.DiscountYearly},
	}
	for _, d := range discounts {
		if d.v < 0 || d.v >= 1 {
			return fmt.Errorf("%w: %s: %s must be in [0,1)", ErrConfigParse, e.Name, d.key)
		}
	}
	if e.CachedInputPrice != nil && *e.CachedInputPrice < 0 {
		return fmt.Errorf("%w: %s: cached input token price per 1k must be >= 0", ErrConfigParse, e.Name)
	}

	if ResolveFamily(e.Name) == FamilyGemini {
		if e.OutputMultipleRatio == nil || *e.OutputMultipleRatio <= 0 {
			return fmt.Errorf("%w: %s: output token multiple ratio is required", ErrConfigParse, e.Name)
		}
		if e.CharsPerGSU == nil || *e.CharsPerGSU <= 0 {
			return fmt.Errorf("%w: %s: chars per GSU is required", ErrConfigParse, e.Name)
		}
	}
	return nil
}

// VendorFamily selects the capacity formula and the image tiling scheme.
type VendorFamily int

const (
	// FamilyManual has no capacity formula; the required unit count is
	// supplied by the user.
	FamilyManual VendorFamily = iota
	// FamilyGemini sizes capacity in characters per second per unit.
	FamilyGemini
	// FamilyAzure sizes capacity in tokens per minute per unit.
	FamilyAzure
)

func (f VendorFamily) String() string {
	switch f {
	case FamilyGemini:
		return "gemini"
	case FamilyAzure:
		return "azure"
	default:
		return "manual"
	}
}

// ResolveFamily maps a catalog model name to its vendor family.
func ResolveFamily(modelName string) VendorFamily {
	name := strings.ToLower(modelName)
	switch {
	case strings.Contains(name, "google"):
		return FamilyGemini
	case strings.Contains(name, "azure"),
		strings.Contains(name, "gpt-4o"),
		strings.Contains(name, "gpt-4.1"):
		return FamilyAzure
	default:
		return FamilyManual
	}
}

// Model is a catalog entry with its vendor family resolved.
type Model struct {
	Entry  ModelPriceEntry
	Family VendorFamily
}

func NewModel(entry ModelPriceEntry) Model {
	return Model{Entry: entry, Family: ResolveFamily(entry.Name)}
}

func (m Model) Name() string {
	return m.Entry.Name
}

// ImageSizeClass is the tile-scheme cost class of a model.
type ImageSizeClass string

const (
	SizeStandard ImageSizeClass = "standard"
	SizeCompact  ImageSizeClass = "compact"
)

// SizeClass returns the tile cost class; "mini" models are billed as compact.
func (m Model) SizeClass() ImageSizeClass {
	if strings.Contains(strings.ToLower(m.Entry.Name), "mini") {
		return SizeCompact
	}
	return SizeStandard
}

// TileClass is the size class the tile scheme prices this model's images
// with. Only Azure models have a compact class.
func (m Model) TileClass() ImageSizeClass {
	if m.Family == FamilyAzure {
		return m.SizeClass()
	}
	return SizeStandard
}
