package profile

import "testing"

func TestStore(t *testing.T) {
	t.Run("starts with defaults", func(t *testing.T) {
		s := NewStore()
		got := s.Get()
		if got != Default() {
			t.Errorf("Get() = %+v, want defaults", got)
		}
		if got.Name != "Acme Innovations" {
			t.Errorf("Name = %q, want %q", got.Name, "Acme Innovations")
		}
	})

	t.Run("set overwrites wholesale and trims", func(t *testing.T) {
		s := NewStore()
		s.Set(Profile{Name: "  Globex ", Industry: "Energy"})

		got := s.Get()
		if got.Name != "Globex" {
			t.Errorf("Name = %q, want %q", got.Name, "Globex")
		}
		if got.Size != "" || got.Goals != "" {
			t.Errorf("expected unset fields to be cleared, got %+v", got)
		}
	})

	t.Run("brand rules", func(t *testing.T) {
		s := NewStore()
		s.SetBrandRules("  no hype \n")
		if got := s.BrandRules(); got != "no hype" {
			t.Errorf("BrandRules() = %q, want %q", got, "no hype")
		}
		if s.Get().Name != "Acme Innovations" {
			t.Error("SetBrandRules should not touch other fields")
		}
	})

	t.Run("reset", func(t *testing.T) {
		s := NewStore()
		s.Set(Profile{Name: "Other"})
		s.Reset()
		if s.Get() != Default() {
			t.Error("Reset() did not restore defaults")
		}
	})
}
