// Package generation turns a compiled prompt into content variants. The
// Engine never fails: when the text generator is missing or misbehaves it
// substitutes deterministic offline copy and reports why in a Diagnostic.
package generation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/jackzampolin/presence/internal/brief"
	"github.com/jackzampolin/presence/internal/llmcall"
	"github.com/jackzampolin/presence/internal/profile"
	"github.com/jackzampolin/presence/internal/prompts/content"
)

// TextGenerator is the boundary to an external text-generation service.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error)
}

// Reason is a machine-readable cause for a degraded generation.
type Reason string

const (
	ReasonMissingCredential Reason = "missing_credential"
	ReasonServiceError      Reason = "service_error"
	ReasonEmptyResponse     Reason = "empty_response"
)

// Diagnostic explains why offline output was returned. A nil *Diagnostic
// means the external service answered.
type Diagnostic struct {
	Reason Reason `json:"reason"`
	Detail string `json:"detail,omitempty"`
}

func (d *Diagnostic) String() string {
	if d == nil {
		return "ok"
	}
	if d.Detail == "" {
		return string(d.Reason)
	}
	return fmt.Sprintf("%s: %s", d.Reason, d.Detail)
}

// OfflineProvider names the source of template output.
const OfflineProvider = "offline"

const (
	DefaultTemperature = 0.65
	DefaultMaxTokens   = 1100
)

// Settings are the parts of the engine that follow configuration.
type Settings struct {
	// Generator is nil when no credential is configured.
	Generator   TextGenerator
	Temperature float64
	MaxTokens   int
}

// Config configures an Engine.
type Config struct {
	Settings
	Logger *slog.Logger
}

// Engine runs generations. It is safe for concurrent use.
type Engine struct {
	mu       sync.RWMutex
	settings Settings
	logger   *slog.Logger
}

// NewEngine creates an engine.
func NewEngine(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{logger: logger}
	e.Apply(cfg.Settings)
	return e
}

// Apply swaps the generator and sampling parameters.
func (e *Engine) Apply(s Settings) {
	if s.Temperature <= 0 {
		s.Temperature = DefaultTemperature
	}
	if s.MaxTokens <= 0 {
		s.MaxTokens = DefaultMaxTokens
	}
	e.mu.Lock()
	e.settings = s
	e.mu.Unlock()
}

// Online reports whether a generator is configured.
func (e *Engine) Online() bool {
	return e.current().Generator != nil
}

// Settings returns the active settings.
func (e *Engine) Settings() Settings {
	return e.current()
}

func (e *Engine) current() Settings {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.settings
}

// Request is one content generation.
type Request struct {
	Profile profile.Profile
	Brief   brief.Brief
}

// Result always carries exactly Brief.VariantCount non-empty variants.
type Result struct {
	Prompt     string      `json:"prompt"`
	Variants   []string    `json:"variants"`
	Diagnostic *Diagnostic `json:"diagnostic,omitempty"`
	Provider   string      `json:"provider"`
}

// Generate compiles the prompt, calls the generator once and splits the
// answer into variants, falling back to Offline on any failure.
func (e *Engine) Generate(ctx context.Context, req Request) Result {
	n := clampVariants(req.Brief.VariantCount)
	prompt := content.Compile(req.Profile, req.Brief)
	res := Result{Prompt: prompt}

	ctx = llmcall.WithPromptKey(ctx, content.UserKey)
	raw, provider, diag := e.call(ctx, prompt)
	if diag == nil {
		if variants := SplitVariants(raw, n); len(variants) > 0 {
			res.Variants = variants
			res.Provider = provider
			return res
		}
		diag = &Diagnostic{Reason: ReasonEmptyResponse, Detail: "no variants in response"}
	}

	e.degraded("generate", diag)
	res.Variants = Offline(req.Profile, req.Brief)
	res.Diagnostic = diag
	res.Provider = OfflineProvider
	return res
}

// Complete runs a single-output prompt. On failure it returns fallback.
func (e *Engine) Complete(ctx context.Context, prompt, fallback string) (string, *Diagnostic) {
	raw, _, diag := e.call(ctx, prompt)
	if diag != nil {
		e.degraded("complete", diag)
		return fallback, diag
	}
	return raw, nil
}

// call makes one generator attempt. A non-nil Diagnostic means raw must
// not be used.
func (e *Engine) call(ctx context.Context, prompt string) (raw, provider string, diag *Diagnostic) {
	s := e.current()
	if s.Generator == nil {
		return "", "", &Diagnostic{Reason: ReasonMissingCredential, Detail: "no text generation service configured"}
	}

	defer func() {
		if r := recover(); r != nil {
			raw, provider = "", ""
			diag = &Diagnostic{Reason: ReasonServiceError, Detail: fmt.Sprintf("generator panic: %v", r)}
		}
	}()

	text, err := s.Generator.GenerateText(ctx, prompt, s.Temperature, s.MaxTokens)
	if err != nil {
		return "", "", &Diagnostic{Reason: ReasonServiceError, Detail: err.Error()}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", "", &Diagnostic{Reason: ReasonEmptyResponse, Detail: "generator returned no text"}
	}
	return text, generatorName(s.Generator), nil
}

func (e *Engine) degraded(op string, diag *Diagnostic) {
	e.logger.Warn("generation degraded to offline output",
		"op", op,
		"reason", diag.Reason,
		"detail", diag.Detail)
}

func generatorName(g TextGenerator) string {
	if named, ok := g.(interface{ Name() string }); ok {
		return named.Name()
	}
	return "external"
}

func clampVariants(n int) int {
	switch {
	case n < brief.MinVariants:
		return brief.MinVariants
	case n > brief.MaxVariants:
		return brief.MaxVariants
	}
	return n
}
