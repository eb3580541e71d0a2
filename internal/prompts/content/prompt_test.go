package content

import (
	"strings"
	"testing"

	"github.com/jackzampolin/presence/internal/brief"
	"github.com/jackzampolin/presence/internal/profile"
	"github.com/jackzampolin/presence/internal/prompts"
)

func testBrief() brief.Brief {
	return brief.Brief{
		ContentType:  brief.PressRelease,
		Tone:         "Bold",
		Length:       "Short",
		Platform:     "LinkedIn",
		Audience:     "CTOs",
		CTA:          "Book a demo",
		Topic:        "Launch X",
		Bullets:      []string{"fast", "secure"},
		Language:     "English",
		VariantCount: 3,
		BrandRules:   "Never say revolutionary",
	}
}

func TestCompile(t *testing.T) {
	p := profile.Default()
	b := testBrief()
	out := Compile(p, b)

	t.Run("deterministic", func(t *testing.T) {
		if again := Compile(p, b); again != out {
			t.Error("Compile() returned different prompts for the same inputs")
		}
	})

	t.Run("embeds brief fields", func(t *testing.T) {
		for _, want := range []string{
			"Generate 3 distinct variant(s) of a short press release",
			`platform "LinkedIn"`,
			"Topic / Offer: Launch X",
			"- fast\n- secure",
			"Call to action: Book a demo",
			"Never say revolutionary",
			"Company: Acme Innovations (Technology, size: Mid-market).",
			"brand-safe and factual",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("prompt missing %q\n%s", want, out)
			}
		}
	})

	t.Run("separator on its own line", func(t *testing.T) {
		found := false
		for _, line := range strings.Split(out, "\n") {
			if line == VariantSeparator {
				found = true
			}
		}
		if !found {
			t.Errorf("no %q line in prompt", VariantSeparator)
		}
	})

	t.Run("placeholders for empty fields", func(t *testing.T) {
		b := testBrief()
		b.Bullets = nil
		b.CTA = ""
		b.BrandRules = ""
		out := Compile(p, b)
		if !strings.Contains(out, "(no bullets provided)") {
			t.Error("expected bullet placeholder")
		}
		if strings.Count(out, "(none provided)") != 2 {
			t.Errorf("expected CTA and brand rule placeholders:\n%s", out)
		}
	})

	t.Run("changes with inputs", func(t *testing.T) {
		b := testBrief()
		b.Topic = "Launch Y"
		if Compile(p, b) == out {
			t.Error("different briefs compiled to the same prompt")
		}
	})
}

func TestRegisterPrompts(t *testing.T) {
	r := prompts.NewResolver(nil)
	RegisterPrompts(r)

	user, ok := r.Get(UserKey)
	if !ok {
		t.Fatalf("%s not registered", UserKey)
	}
	if user.Hash == "" {
		t.Error("expected hash to be computed")
	}
	want := map[string]bool{"Brief.Topic": false, "Profile.Name": false, "Separator": false}
	for _, v := range user.Variables {
		if _, ok := want[v]; ok {
			want[v] = true
		}
	}
	for v, seen := range want {
		if !seen {
			t.Errorf("variable %s not extracted from %v", v, user.Variables)
		}
	}
	if _, ok := r.Get(SystemKey); !ok {
		t.Errorf("%s not registered", SystemKey)
	}
}
