package studio

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackzampolin/presence/internal/brief"
	"github.com/jackzampolin/presence/internal/generation"
	"github.com/jackzampolin/presence/internal/history"
	"github.com/jackzampolin/presence/internal/llmcall"
	"github.com/jackzampolin/presence/internal/profile"
	"github.com/jackzampolin/presence/internal/prompts/strategy"
	"github.com/jackzampolin/presence/internal/session"
)

// StrategyInput is a strategy-idea request.
type StrategyInput struct {
	// Goals overrides the profile goals when set.
	Goals  string `json:"goals"`
	Tone   string `json:"tone"`
	Length string `json:"length"`
}

// StrategyResult is the outcome of Strategy.
type StrategyResult struct {
	Idea       string                 `json:"idea"`
	Diagnostic *generation.Diagnostic `json:"diagnostic,omitempty"`
	Item       history.Item           `json:"item"`
}

// Strategy drafts one PR or marketing initiative for the session's company.
func (s *Studio) Strategy(ctx context.Context, st *session.State, in StrategyInput) (*StrategyResult, error) {
	p := st.Profile.Get()
	params := strategy.Params{
		Profile: p,
		Goals:   strings.TrimSpace(in.Goals),
		Tone:    orDefault(in.Tone, brief.DefaultTone),
		Length:  orDefault(in.Length, brief.DefaultLength),
	}
	prompt, err := strategy.Render(params)
	if err != nil {
		return nil, fmt.Errorf("failed to render strategy prompt: %w", err)
	}

	ctx = llmcall.WithPromptKey(ctx, strategy.PromptKey)
	idea, diag := s.engine.Complete(ctx, prompt, OfflineStrategy(p))

	goals := params.Goals
	if goals == "" {
		goals = p.Goals
	}
	payload := map[string]any{
		"prompt":  prompt,
		"tone":    params.Tone,
		"length":  params.Length,
		"goals":   goals,
		"company": p,
	}
	tags := []string{"strategy", params.Tone, params.Length, p.Industry, p.Size}
	if diag != nil {
		payload["error"] = diag.String()
		tags = append(tags, FallbackTag)
	}
	item := st.History.Append(history.KindStrategy, payload, idea, tags...)

	return &StrategyResult{Idea: idea, Diagnostic: diag, Item: item}, nil
}

// OfflineStrategy is the strategy idea used when no generator answers.
func OfflineStrategy(p profile.Profile) string {
	industry := orDefault(p.Industry, "your industry")
	size := orDefault(p.Size, "target")
	return fmt.Sprintf(`**Objective:** Raise awareness among %[2]s buyers in %[1]s this quarter.

**Core Idea:** Publish a monthly "%[1]s Cost-Saver" benchmark: short, visual, and quotable.

**Execution Steps**
1) Analyze anonymized client data and public sources to extract 3 cost or time benchmarks.
2) Design a snackable 1-pager and 3 social posts; pitch the stat to niche reporters and newsletters.
3) Host a 20-min live breakdown with your Head of %[1]s on LinkedIn.
4) Gate a detailed PDF for MQL capture.

**Metric:** 20 qualified inbound requests or 5 media placements in 30 days.`, industry, size)
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}
