package studio

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackzampolin/presence/internal/generation"
	"github.com/jackzampolin/presence/internal/history"
	"github.com/jackzampolin/presence/internal/llmcall"
	"github.com/jackzampolin/presence/internal/profile"
	"github.com/jackzampolin/presence/internal/prompts/intel"
	"github.com/jackzampolin/presence/internal/session"
)

// Timing windows offered for PR intelligence.
var TimingWindows = []string{"Soon (2-4 weeks)", "Quarterly window", "Event-aligned"}

// Creator platforms offered for hook ideas.
var CreatorPlatforms = []string{"Instagram Reels", "YouTube Shorts", "TikTok", "LinkedIn Video"}

// Hook count bounds.
const (
	MinHooks     = 5
	MaxHooks     = 20
	DefaultHooks = 10
)

// PRIntelInput is a PR intelligence request.
type PRIntelInput struct {
	Topic  string `json:"topic"`
	Market string `json:"market"`
	Timing string `json:"timing"`
}

// CreatorHooksInput is a creator hooks request.
type CreatorHooksInput struct {
	Platform string `json:"platform"`
	Niche    string `json:"niche"`
	CTA      string `json:"cta"`
	Count    int    `json:"count"`
}

// IntelResult is the outcome of PRIntel and CreatorHooks.
type IntelResult struct {
	Text       string                 `json:"text"`
	Diagnostic *generation.Diagnostic `json:"diagnostic,omitempty"`
	Item       history.Item           `json:"item"`
}

// PRIntel suggests story angles, journalist beats, timing windows and
// pitches for a topic.
func (s *Studio) PRIntel(ctx context.Context, st *session.State, in PRIntelInput) (*IntelResult, error) {
	p := st.Profile.Get()
	params := intel.PRParams{
		Profile: p,
		Topic:   orDefault(in.Topic, "our latest announcement"),
		Market:  orDefault(in.Market, "US + EU"),
		Timing:  orDefault(in.Timing, TimingWindows[0]),
	}
	prompt, err := intel.RenderPR(params)
	if err != nil {
		return nil, fmt.Errorf("failed to render pr intel prompt: %w", err)
	}

	ctx = llmcall.WithPromptKey(ctx, intel.PRKey)
	text, diag := s.engine.Complete(ctx, prompt, OfflinePRIntel(p, params.Topic, params.Timing))

	payload := map[string]any{
		"topic":   params.Topic,
		"market":  params.Market,
		"timing":  params.Timing,
		"company": p,
	}
	tags := []string{"intel", "pr", p.Industry, p.Size}
	if diag != nil {
		payload["error"] = diag.String()
		tags = append(tags, FallbackTag)
	}
	item := st.History.Append(history.KindPRIntel, payload, text, tags...)

	s.logger.Info("generated pr intel", "session", st.ID, "topic", params.Topic, "offline", diag != nil)
	return &IntelResult{Text: text, Diagnostic: diag, Item: item}, nil
}

// CreatorHooks drafts short-form video hooks. Count is clamped to
// [MinHooks, MaxHooks]; zero means DefaultHooks.
func (s *Studio) CreatorHooks(ctx context.Context, st *session.State, in CreatorHooksInput) (*IntelResult, error) {
	p := st.Profile.Get()
	params := intel.HooksParams{
		Profile:  p,
		Platform: orDefault(in.Platform, CreatorPlatforms[0]),
		Niche:    orDefault(in.Niche, orDefault(p.Industry, "Your")+" buyers, decision-makers"),
		CTA:      orDefault(in.CTA, "Book a demo"),
		Count:    clampHooks(in.Count),
	}
	prompt, err := intel.RenderHooks(params)
	if err != nil {
		return nil, fmt.Errorf("failed to render creator hooks prompt: %w", err)
	}

	ctx = llmcall.WithPromptKey(ctx, intel.HooksKey)
	text, diag := s.engine.Complete(ctx, prompt, OfflineHooks(params.Count, params.CTA))

	payload := map[string]any{
		"platform": params.Platform,
		"niche":    params.Niche,
		"cta":      params.CTA,
		"count":    params.Count,
		"company":  p,
	}
	tags := []string{"intel", "creator", params.Platform, p.Industry}
	if diag != nil {
		payload["error"] = diag.String()
		tags = append(tags, FallbackTag)
	}
	item := st.History.Append(history.KindCreatorIntel, payload, text, tags...)

	s.logger.Info("generated creator hooks", "session", st.ID, "platform", params.Platform, "count", params.Count, "offline", diag != nil)
	return &IntelResult{Text: text, Diagnostic: diag, Item: item}, nil
}

func clampHooks(n int) int {
	switch {
	case n == 0:
		return DefaultHooks
	case n < MinHooks:
		return MinHooks
	case n > MaxHooks:
		return MaxHooks
	}
	return n
}

// OfflinePRIntel is the PR intelligence used when no generator answers.
func OfflinePRIntel(p profile.Profile, topic, timing string) string {
	industry := orDefault(p.Industry, "your industry")
	size := strings.ToLower(orDefault(p.Size, "growing"))
	return fmt.Sprintf(`### Angles
1) Automation & Workforce Uplift: how %[1]s augments teams.
2) Security & Compliance: the trust journey for %[3]s %[2]s companies.
3) Speed-to-Value: a case-study narrative with one hard number.

### Beats
- %[2]s
- Enterprise Tech
- Future of Work

### Timing
- %[4]s (align with an industry webinar or report)

### Pitches
- "How %[3]s %[2]s firms adopt %[1]s without disruption"`, topic, industry, size, timing)
}

// OfflineHooks is the numbered hook list used when no generator answers.
func OfflineHooks(count int, cta string) string {
	lines := make([]string, count)
	for i := range lines {
		lines[i] = fmt.Sprintf("%d. Hook idea #%d: talking head, text overlay, ends with %q.", i+1, i+1, cta)
	}
	return strings.Join(lines, "\n")
}
