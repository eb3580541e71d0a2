package brief

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jackzampolin/presence/internal/profile"
)

// ValidationError lists every problem found in a brief.
type ValidationError struct {
	Problems []string `json:"problems"`
}

func (e *ValidationError) Error() string {
	return "invalid brief: " + strings.Join(e.Problems, "; ")
}

// Options control validation.
type Options struct {
	// RequireBullets rejects a brief with no key points.
	RequireBullets bool
}

// Build normalizes raw input into a Brief and validates it against the
// profile. All problems are collected into a single *ValidationError.
func Build(in Input, p profile.Profile, opts Options) (Brief, error) {
	b := Brief{
		ContentType:  canonicalContentType(in.ContentType),
		Tone:         orDefault(in.Tone, DefaultTone),
		Length:       orDefault(in.Length, DefaultLength),
		Platform:     orDefault(in.Platform, DefaultPlatform),
		Audience:     orDefault(in.Audience, DefaultAudience),
		CTA:          strings.TrimSpace(in.CTA),
		Topic:        strings.TrimSpace(in.Topic),
		Bullets:      Bulletize(in.Bullets),
		Language:     orDefault(in.Language, DefaultLanguage),
		VariantCount: in.VariantCount,
		BrandRules:   orDefault(in.BrandRules, p.BrandRules),
	}
	if b.VariantCount == 0 {
		b.VariantCount = MinVariants
	}

	var problems []string
	if strings.TrimSpace(in.ContentType) == "" {
		b.ContentType = PressRelease
	} else if b.ContentType == "" {
		problems = append(problems, fmt.Sprintf("Unknown content type %q.", strings.TrimSpace(in.ContentType)))
	}
	problems = append(problems, Validate(b, p, opts)...)
	if len(problems) > 0 {
		return b, &ValidationError{Problems: problems}
	}
	return b, nil
}

// Validate returns the problems with b, or nil if it is acceptable.
func Validate(b Brief, p profile.Profile, opts Options) []string {
	var problems []string
	if strings.TrimSpace(p.Name) == "" {
		problems = append(problems, "Company name is required.")
	}
	if strings.TrimSpace(b.Topic) == "" {
		problems = append(problems, "Topic / Product / Offer is required.")
	}
	if opts.RequireBullets && len(b.Bullets) == 0 {
		problems = append(problems, "Add at least one key point (1 per line).")
	}
	if len(b.Bullets) > MaxBullets {
		problems = append(problems, fmt.Sprintf("At most %d key points are allowed.", MaxBullets))
	}
	for i, bullet := range b.Bullets {
		if utf8.RuneCountInString(bullet) > MaxBulletLen {
			problems = append(problems, fmt.Sprintf("Key point %d should be ≤ %d characters.", i+1, MaxBulletLen))
		}
	}
	if b.VariantCount < MinVariants || b.VariantCount > MaxVariants {
		problems = append(problems, fmt.Sprintf("Variant count must be between %d and %d.", MinVariants, MaxVariants))
	}
	return problems
}
