// Package profile holds the company profile every generation is written for.
package profile

import (
	"strings"
	"sync"
)

// Profile describes the company and its brand rules.
type Profile struct {
	Name       string `json:"name"`
	Industry   string `json:"industry"`
	Size       string `json:"size"`
	Goals      string `json:"goals"`
	Audience   string `json:"audience,omitempty"`
	BrandVoice string `json:"brand_voice,omitempty"`
	BrandRules string `json:"brand_rules"`
	Website    string `json:"website,omitempty"`
}

// Default returns the profile a new session starts with.
func Default() Profile {
	return Profile{
		Name:     "Acme Innovations",
		Industry: "Technology",
		Size:     "Mid-market",
		Goals:    "Increase brand awareness and generate qualified leads",
	}
}

// Normalized returns a copy with every field trimmed.
func (p Profile) Normalized() Profile {
	return Profile{
		Name:       strings.TrimSpace(p.Name),
		Industry:   strings.TrimSpace(p.Industry),
		Size:       strings.TrimSpace(p.Size),
		Goals:      strings.TrimSpace(p.Goals),
		Audience:   strings.TrimSpace(p.Audience),
		BrandVoice: strings.TrimSpace(p.BrandVoice),
		BrandRules: strings.TrimSpace(p.BrandRules),
		Website:    strings.TrimSpace(p.Website),
	}
}

// Store holds the current profile of one session.
type Store struct {
	mu      sync.RWMutex
	profile Profile
}

// NewStore creates a store seeded with Default().
func NewStore() *Store {
	return &Store{profile: Default()}
}

// Get returns a copy of the current profile.
func (s *Store) Get() Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// Set overwrites the profile wholesale.
func (s *Store) Set(p Profile) Profile {
	p = p.Normalized()
	s.mu.Lock()
	s.profile = p
	s.mu.Unlock()
	return p
}

// Reset restores the defaults.
func (s *Store) Reset() Profile {
	return s.Set(Default())
}

// BrandRules returns the current brand-rule text.
func (s *Store) BrandRules() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile.BrandRules
}

// SetBrandRules replaces only the brand-rule text.
func (s *Store) SetBrandRules(rules string) {
	s.mu.Lock()
	s.profile.BrandRules = strings.TrimSpace(rules)
	s.mu.Unlock()
}
