package studio

import (
	"context"

	"github.com/jackzampolin/presence/internal/brief"
	"github.com/jackzampolin/presence/internal/generation"
	"github.com/jackzampolin/presence/internal/history"
	"github.com/jackzampolin/presence/internal/scoring"
	"github.com/jackzampolin/presence/internal/session"
)

// DefaultTestVariants is the variant count of an A/B/C test when none is given.
const DefaultTestVariants = 2

// OptimizeInput is an A/B/C test request.
type OptimizeInput struct {
	brief.Input
	Criteria []string `json:"criteria"`
}

// OptimizeResult is the outcome of Optimize.
type OptimizeResult struct {
	Brief      brief.Brief            `json:"brief"`
	Variants   []scoring.Score        `json:"variants"`
	Winner     int                    `json:"winner"`
	Diagnostic *generation.Diagnostic `json:"diagnostic,omitempty"`
	Item       history.Item           `json:"item"`
}

// WinnerLabel is the letter of the winning variant.
func (r *OptimizeResult) WinnerLabel() string {
	return VariantLabel(r.Winner)
}

// VariantLabel maps 0, 1, 2 to A, B, C.
func VariantLabel(i int) string {
	if i < 0 || i > 25 {
		return "?"
	}
	return string(rune('A' + i))
}

// Optimize generates competing variants for a brief, scores each against
// the criteria and picks a winner. It shares the generation cooldown.
func (s *Studio) Optimize(ctx context.Context, st *session.State, in OptimizeInput) (*OptimizeResult, error) {
	if in.VariantCount == 0 {
		in.VariantCount = DefaultTestVariants
	}
	criteria := in.Criteria
	if len(criteria) == 0 {
		criteria = scoring.DefaultCriteria
	}

	p := st.Profile.Get()
	b, err := brief.Build(in.Input, p, brief.Options{})
	if err != nil {
		return nil, err
	}
	if err := s.allow(st.ID); err != nil {
		return nil, err
	}

	res := s.engine.Generate(ctx, generation.Request{Profile: p, Brief: b})
	scores := s.scorer.ScoreAll(ctx, res.Variants, criteria, b.BrandRules)
	winner := scoring.Winner(scores)

	judged := make([]any, len(scores))
	for i, sc := range scores {
		judged[i] = map[string]any{"scores": sc.Scores, "total": sc.Total, "source": sc.Source}
	}
	payload := map[string]any{
		"company":      p.Name,
		"content_type": b.ContentType,
		"platform":     b.Platform,
		"topic":        b.Topic,
		"audience":     b.Audience,
		"tone":         b.Tone,
		"length":       b.Length,
		"language":     b.Language,
		"criteria":     criteria,
		"temperature":  s.engine.Settings().Temperature,
		"scores":       judged,
		"winner":       VariantLabel(winner),
	}
	tags := []string{"ab_test", b.ContentType, b.Language, b.Tone}
	if res.Diagnostic != nil {
		tags = append(tags, FallbackTag)
	}
	item := st.History.Append(history.KindABTest, payload, res.Variants, tags...)

	return &OptimizeResult{
		Brief:      b,
		Variants:   scores,
		Winner:     winner,
		Diagnostic: res.Diagnostic,
		Item:       item,
	}, nil
}
