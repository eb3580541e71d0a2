// Package brief turns raw form input into a validated content Brief.
package brief

import "strings"

// Content types.
const (
	PressRelease = "Press Release"
	Ad           = "Ad"
	SocialPost   = "Social Post"
	LandingPage  = "Landing Page"
	Email        = "Email"
	BlogIntro    = "Blog Intro"
)

const (
	// MaxBullets caps the number of key points in a brief.
	MaxBullets = 15
	// MaxBulletLen is the longest accepted key point, in characters.
	MaxBulletLen = 220
	// MinVariants and MaxVariants bound the requested variant count.
	MinVariants = 1
	MaxVariants = 3
)

// Defaults applied by Build when a field is left empty.
const (
	DefaultTone     = "Professional"
	DefaultLength   = "Medium"
	DefaultPlatform = "Generic"
	DefaultLanguage = "English"
	DefaultAudience = "Decision-makers"
)

// Option lists offered to callers. Tone, length, platform and language
// accept free text; content type must be one of ContentTypes.
var (
	ContentTypes = []string{PressRelease, Ad, SocialPost, LandingPage, Email, BlogIntro}
	Tones        = []string{"Neutral", "Professional", "Friendly", "Bold", "Conversational", "Authoritative"}
	Lengths      = []string{"Short", "Medium", "Long"}
	Platforms    = []string{"Generic", "LinkedIn", "Instagram", "X/Twitter", "YouTube", "Search Ad", "Email", "Website"}
	Languages    = []string{"English", "Spanish", "French", "German", "Hindi", "Japanese"}
)

// Brief is the structured description of one content request.
type Brief struct {
	ContentType  string   `json:"content_type"`
	Tone         string   `json:"tone"`
	Length       string   `json:"length"`
	Platform     string   `json:"platform"`
	Audience     string   `json:"audience"`
	CTA          string   `json:"cta"`
	Topic        string   `json:"topic"`
	Bullets      []string `json:"bullets"`
	Language     string   `json:"language"`
	VariantCount int      `json:"variant_count"`
	BrandRules   string   `json:"brand_rules"`
}

// Payload returns the brief as a JSON-object map for history records.
func (b Brief) Payload() map[string]any {
	bullets := make([]any, len(b.Bullets))
	for i, s := range b.Bullets {
		bullets[i] = s
	}
	return map[string]any{
		"content_type":  b.ContentType,
		"tone":          b.Tone,
		"length":        b.Length,
		"platform":      b.Platform,
		"audience":      b.Audience,
		"cta":           b.CTA,
		"topic":         b.Topic,
		"bullets":       bullets,
		"language":      b.Language,
		"variant_count": b.VariantCount,
		"brand_rules":   b.BrandRules,
	}
}

// Input holds raw field values as a user typed them.
type Input struct {
	ContentType  string `json:"content_type"`
	Tone         string `json:"tone"`
	Length       string `json:"length"`
	Platform     string `json:"platform"`
	Audience     string `json:"audience"`
	CTA          string `json:"cta"`
	Topic        string `json:"topic"`
	Bullets      string `json:"bullets"`
	Language     string `json:"language"`
	VariantCount int    `json:"variant_count"`
	// BrandRules overrides the profile rules when non-empty.
	BrandRules string `json:"brand_rules,omitempty"`
}

// IsContentType reports whether name is a known content type (case-insensitive).
func IsContentType(name string) bool {
	return canonicalContentType(name) != ""
}

func canonicalContentType(name string) string {
	name = strings.TrimSpace(name)
	for _, ct := range ContentTypes {
		if strings.EqualFold(ct, name) {
			return ct
		}
	}
	return ""
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}
