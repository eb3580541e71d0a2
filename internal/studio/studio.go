// Package studio runs user actions end to end: validate the brief, apply
// the per-session cooldown, generate, and record the result in the
// session's history.
package studio

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/jackzampolin/presence/internal/brief"
	"github.com/jackzampolin/presence/internal/generation"
	"github.com/jackzampolin/presence/internal/history"
	"github.com/jackzampolin/presence/internal/rateguard"
	"github.com/jackzampolin/presence/internal/scoring"
	"github.com/jackzampolin/presence/internal/session"
)

// DefaultCooldown is the minimum interval between generations in one session.
const DefaultCooldown = 8 * time.Second

// FallbackTag marks history items produced by offline output.
const FallbackTag = "fallback"

// RateLimitedError is returned when a session asks again before its
// cooldown has elapsed.
type RateLimitedError struct {
	Wait time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("please wait %ds before generating again", e.WaitSeconds())
}

// WaitSeconds is Wait rounded up to whole seconds.
func (e *RateLimitedError) WaitSeconds() int {
	return int(math.Ceil(e.Wait.Seconds()))
}

// Settings are the parts of a Studio that follow configuration.
type Settings struct {
	Cooldown       time.Duration
	RequireBullets bool
}

// Config configures a Studio.
type Config struct {
	Settings
	Engine *generation.Engine
	Guard  *rateguard.Guard
	Scorer *scoring.Scorer
	Logger *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Studio is safe for concurrent use.
type Studio struct {
	engine *generation.Engine
	guard  *rateguard.Guard
	scorer *scoring.Scorer
	logger *slog.Logger
	now    func() time.Time

	mu       sync.RWMutex
	settings Settings
}

// New creates a Studio. A nil Engine runs offline only.
func New(cfg Config) *Studio {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Studio{
		engine: cfg.Engine,
		guard:  cfg.Guard,
		scorer: cfg.Scorer,
		logger: logger,
		now:    cfg.Now,
	}
	if s.engine == nil {
		s.engine = generation.NewEngine(generation.Config{Logger: logger})
	}
	if s.guard == nil {
		s.guard = rateguard.New()
	}
	if s.scorer == nil {
		s.scorer = scoring.New(s.engine, logger)
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.Apply(cfg.Settings)
	return s
}

// Apply replaces the cooldown and validation settings.
func (s *Studio) Apply(settings Settings) {
	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()
}

// Settings returns the active settings.
func (s *Studio) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Engine returns the generation engine.
func (s *Studio) Engine() *generation.Engine {
	return s.engine
}

// GenerateResult is the outcome of Generate.
type GenerateResult struct {
	Brief      brief.Brief            `json:"brief"`
	Variants   []string               `json:"variants"`
	Diagnostic *generation.Diagnostic `json:"diagnostic,omitempty"`
	Provider   string                 `json:"provider"`
	Item       history.Item           `json:"item"`
}

// Generate builds and validates a brief from in, then generates its
// variants and records them. A *brief.ValidationError leaves the cooldown
// untouched; a *RateLimitedError means nothing was generated.
func (s *Studio) Generate(ctx context.Context, st *session.State, in brief.Input) (*GenerateResult, error) {
	p := st.Profile.Get()
	b, err := brief.Build(in, p, brief.Options{RequireBullets: s.Settings().RequireBullets})
	if err != nil {
		return nil, err
	}
	if err := s.allow(st.ID); err != nil {
		return nil, err
	}

	res := s.engine.Generate(ctx, generation.Request{Profile: p, Brief: b})

	tags := []string{b.ContentType, b.Language, b.Tone, p.Industry}
	if res.Diagnostic != nil {
		tags = append(tags, FallbackTag)
	}
	payload := b.Payload()
	payload["company"] = p
	item := st.History.Append(history.KindVariants, payload, res.Variants, tags...)

	s.logger.Info("generated variants",
		"session", st.ID,
		"content_type", b.ContentType,
		"variants", len(res.Variants),
		"provider", res.Provider)

	return &GenerateResult{
		Brief:      b,
		Variants:   res.Variants,
		Diagnostic: res.Diagnostic,
		Provider:   res.Provider,
		Item:       item,
	}, nil
}

// Forget drops per-session state held by the studio, such as the cooldown.
// Call it when a session is deleted.
func (s *Studio) Forget(sessionID string) {
	s.guard.Reset(sessionID)
}

func (s *Studio) allow(sessionID string) error {
	cooldown := s.Settings().Cooldown
	if s.guard.Allow(sessionID, cooldown) {
		return nil
	}
	return &RateLimitedError{Wait: s.guard.Remaining(sessionID, cooldown)}
}
