package generation

import (
	"fmt"
	"strings"

	"github.com/jackzampolin/presence/internal/brief"
	"github.com/jackzampolin/presence/internal/profile"
)

// offlineFields are the brief and profile values templates draw on, with
// placeholders filled in.
type offlineFields struct {
	Company  string
	Industry string
	Size     string
	Topic    string
	Tone     string
	Audience string
	CTA      string
	Bullets  string
}

type templateFunc func(f offlineFields, style int) string

// offlineTemplates maps a content type to its template. Types not listed
// use genericTemplate.
var offlineTemplates = map[string]templateFunc{
	brief.PressRelease: pressReleaseTemplate,
	brief.Ad:           openerTemplate("Attention, innovators!"),
	brief.SocialPost:   openerTemplate("Quick update:"),
	brief.LandingPage:  openerTemplate("Welcome. Here's how we help:"),
	brief.Email:        openerTemplate("Hi there,"),
	brief.BlogIntro:    openerTemplate("Here's something useful:"),
}

// Offline returns VariantCount deterministic variants built only from p
// and b. Variant i uses style i, so variants differ from one another.
func Offline(p profile.Profile, b brief.Brief) []string {
	n := clampVariants(b.VariantCount)
	f := fieldsFor(p, b)

	tmpl, ok := offlineTemplates[b.ContentType]
	if !ok {
		tmpl = genericTemplate
	}
	out := make([]string, n)
	for i := range out {
		out[i] = strings.TrimSpace(tmpl(f, i))
	}
	return out
}

func fieldsFor(p profile.Profile, b brief.Brief) offlineFields {
	bullets := "• Add 2-3 benefits customers care about."
	if len(b.Bullets) > 0 {
		lines := make([]string, len(b.Bullets))
		for i, s := range b.Bullets {
			lines[i] = "• " + s
		}
		bullets = strings.Join(lines, "\n")
	}
	return offlineFields{
		Company:  fallback(p.Name, "Our company"),
		Industry: fallback(p.Industry, "Industry"),
		Size:     fallback(p.Size, "Company"),
		Topic:    fallback(b.Topic, "your offering"),
		Tone:     fallback(b.Tone, brief.DefaultTone),
		Audience: fallback(b.Audience, brief.DefaultAudience),
		CTA:      fallback(b.CTA, "Get started today."),
		Bullets:  bullets,
	}
}

func pressReleaseTemplate(f offlineFields, style int) string {
	headlines := []string{
		fmt.Sprintf("%s Introduces %s for %s", f.Company, f.Topic, f.Audience),
		fmt.Sprintf("%s Unveils %s: Built for %s", f.Company, f.Topic, f.Audience),
		fmt.Sprintf("%s Announces %s, A %s Step Forward", f.Company, f.Topic, f.Tone),
	}
	return fmt.Sprintf("FOR IMMEDIATE RELEASE\n\n%s\n\n[%s, %s]\n\nKey highlights:\n%s\n\nNext steps: %s\n",
		headlines[style%len(headlines)], f.Industry, f.Size, f.Bullets, f.CTA)
}

func genericHeadline(f offlineFields, style int) string {
	headlines := []string{
		fmt.Sprintf("%s: Faster results for %s", f.Topic, f.Audience),
		fmt.Sprintf("Meet %s, built for %s", f.Topic, f.Audience),
		fmt.Sprintf("%s that %s actually use", f.Topic, f.Audience),
	}
	return headlines[style%len(headlines)]
}

func genericTemplate(f offlineFields, style int) string {
	return fmt.Sprintf("**%s**\n\nTone: %s. What you'll get:\n%s\n\nCall to action: %s",
		genericHeadline(f, style), f.Tone, f.Bullets, f.CTA)
}

func openerTemplate(opener string) templateFunc {
	return func(f offlineFields, style int) string {
		return fmt.Sprintf("%s\n\n**%s**\n\n%s presents %s for %s.\nTone: %s.\n\nWhat you'll get:\n%s\n\nNext step: **%s**",
			opener, genericHeadline(f, style), f.Company, f.Topic, strings.ToLower(f.Audience), f.Tone, f.Bullets, f.CTA)
	}
}

func fallback(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}
