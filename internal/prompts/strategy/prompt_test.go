package strategy

import (
	"strings"
	"testing"

	"github.com/jackzampolin/presence/internal/profile"
)

func TestRender(t *testing.T) {
	p := profile.Default()

	t.Run("uses profile goals by default", func(t *testing.T) {
		out, err := Render(Params{Profile: p, Tone: "Bold", Length: "Short"})
		if err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		for _, want := range []string{"Acme Innovations", "Business goals: " + p.Goals, "- Tone: Bold", "- Length: Short"} {
			if !strings.Contains(out, want) {
				t.Errorf("missing %q in\n%s", want, out)
			}
		}
	})

	t.Run("goal override", func(t *testing.T) {
		out, err := Render(Params{Profile: p, Goals: "200 demo requests"})
		if err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		if !strings.Contains(out, "Business goals: 200 demo requests") {
			t.Errorf("override not used:\n%s", out)
		}
	})

	t.Run("missing goals", func(t *testing.T) {
		out, err := Render(Params{Profile: profile.Profile{Name: "X"}})
		if err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		if !strings.Contains(out, "(not specified)") {
			t.Errorf("expected placeholder:\n%s", out)
		}
	})
}
