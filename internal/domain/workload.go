package domain

import (
	"fmt"
	"strconv"
	"strings"
)

type Quality string

const (
	QualityLow  Quality = "low"
	QualityHigh Quality = "high"
)

func ParseQuality(s string) (Quality, error) {
	switch q := Quality(strings.ToLower(strings.TrimSpace(s))); q {
	case QualityLow, QualityHigh:
		return q, nil
	default:
		return "", fmt.Errorf("%w: quality must be low or high, got %q", ErrInvalidArgument, s)
	}
}

type ImageInput struct {
	Width   int
	Height  int
	Quality Quality
}

func (i ImageInput) Validate() error {
	if i.Width <= 0 || i.Height <= 0 {
		return fmt.Errorf("%w: image size must be positive, got %dx%d", ErrInvalidArgument, i.Width, i.Height)
	}
	if _, err := ParseQuality(string(i.Quality)); err != nil {
		return err
	}
	return nil
}

func (i ImageInput) String() string {
	return fmt.Sprintf("%dx%d:%s", i.Width, i.Height, i.Quality)
}

// ParseImage parses "WIDTHxHEIGHT:quality" or "WIDTHxHEIGHT quality".
func ParseImage(s string) (ImageInput, error) {
	s = strings.TrimSpace(s)
	size, quality, ok := strings.Cut(s, ":")
	if !ok {
		size, quality, ok = strings.Cut(s, " ")
	}
	if !ok {
		return ImageInput{}, fmt.Errorf("%w: image must look like 1024x768:high, got %q", ErrInvalidArgument, s)
	}
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(size)), "x")
	if !ok {
		return ImageInput{}, fmt.Errorf("%w: image size must look like 1024x768, got %q", ErrInvalidArgument, size)
	}
	width, err := strconv.Atoi(w)
	if err != nil {
		return ImageInput{}, fmt.Errorf("%w: image width %q", ErrInvalidArgument, w)
	}
	height, err := strconv.Atoi(h)
	if err != nil {
		return ImageInput{}, fmt.Errorf("%w: image height %q", ErrInvalidArgument, h)
	}
	q, err := ParseQuality(quality)
	if err != nil {
		return ImageInput{}, err
	}
	img := ImageInput{Width: width, Height: height, Quality: q}
	if err := img.Validate(); err != nil {
		return ImageInput{}, err
	}
	return img, nil
}

// WorkloadSpec describes the per-request shape and rate of one workload.
type WorkloadSpec struct {
	InputTextTokens   int
	OutputTokens      int
	RequestsPerMinute int
	CacheHitRate      float64 // percent, 0..100
	Images            []ImageInput
}

func (w WorkloadSpec) Validate() error {
	if w.InputTextTokens < 0 || w.OutputTokens < 0 {
		return fmt.Errorf("%w: token counts must be >= 0", ErrInvalidArgument)
	}
	if w.RequestsPerMinute < 0 {
		return fmt.Errorf("%w: rpm must be >= 0", ErrInvalidArgument)
	}
	if w.CacheHitRate < 0 || w.CacheHitRate > 100 {
		return fmt.Errorf("%w: cache hit rate must be in [0,100], got %g", ErrInvalidArgument, w.CacheHitRate)
	}
	for _, img := range w.Images {
		if err := img.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Term is the committed-capacity billing term.
type Term string

const (
	TermMonthly Term = "monthly"
	TermYearly  Term = "yearly"
)

func ParseTerm(s string) (Term, error) {
	switch t := Term(strings.ToLower(strings.TrimSpace(s))); t {
	case TermMonthly, TermYearly:
		return t, nil
	default:
		return "", fmt.Errorf("%w: term must be monthly or yearly, got %q", ErrInvalidArgument, s)
	}
}

// Title returns the term as shown in tables ("Monthly", "Yearly").
func (t Term) Title() string {
	if t == TermYearly {
		return "Yearly"
	}
	return "Monthly"
}
