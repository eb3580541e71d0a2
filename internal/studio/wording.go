package studio

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jackzampolin/presence/internal/brief"
	"github.com/jackzampolin/presence/internal/generation"
	"github.com/jackzampolin/presence/internal/history"
	"github.com/jackzampolin/presence/internal/llmcall"
	"github.com/jackzampolin/presence/internal/prompts/optimizer"
	"github.com/jackzampolin/presence/internal/session"
)

// Word optimizer actions.
const (
	ActionSuggest = "suggest"
	ActionRewrite = "rewrite"
)

var (
	// ErrEmptyText is returned when there is nothing to optimize.
	ErrEmptyText = errors.New("please paste some text first")
	// ErrUnknownAction is returned by Word for an action other than suggest or rewrite.
	ErrUnknownAction = errors.New("unknown optimizer action")
)

// OfflineSuggestions is returned by Suggest when no generator answers.
const OfflineSuggestions = "Draft:\n" +
	"• Replace weak verbs with action verbs (e.g., 'do' → 'achieve', 'get' → 'unlock').\n" +
	"• Avoid vague words (e.g., 'nice', 'great'); use specific outcomes (e.g., 'cut onboarding by 40%').\n" +
	"• Add a clear CTA (e.g., 'Book a demo').\n"

// WordInput is a word optimizer request.
type WordInput struct {
	Text     string `json:"text"`
	Mode     string `json:"mode"`
	Audience string `json:"audience"`
	Tone     string `json:"tone"`
	Language string `json:"language"`
	// BrandRules overrides the profile rules when set.
	BrandRules string `json:"brand_rules"`
}

// WordResult is the outcome of Suggest or Rewrite.
type WordResult struct {
	Action     string                 `json:"action"`
	Mode       string                 `json:"mode"`
	Text       string                 `json:"text"`
	Diagnostic *generation.Diagnostic `json:"diagnostic,omitempty"`
	Item       history.Item           `json:"item"`
}

// Suggest lists word and phrase improvements for in.Text.
func (s *Studio) Suggest(ctx context.Context, st *session.State, in WordInput) (*WordResult, error) {
	params, err := wordParams(st, in)
	if err != nil {
		return nil, err
	}
	params.Mode = "Suggestions"
	prompt, err := optimizer.Suggest(params)
	if err != nil {
		return nil, fmt.Errorf("failed to render suggest prompt: %w", err)
	}
	ctx = llmcall.WithPromptKey(ctx, optimizer.SuggestKey)
	out, diag := s.engine.Complete(ctx, prompt, OfflineSuggestions)
	return s.recordWord(st, ActionSuggest, params, out, diag), nil
}

// Rewrite rewrites in.Text in in.Mode.
func (s *Studio) Rewrite(ctx context.Context, st *session.State, in WordInput) (*WordResult, error) {
	params, err := wordParams(st, in)
	if err != nil {
		return nil, err
	}
	mode, ok := canonicalMode(in.Mode)
	if !ok {
		return nil, &brief.ValidationError{Problems: []string{
			fmt.Sprintf("Unknown rewrite mode %q; use one of %s.", in.Mode, strings.Join(optimizer.Modes, ", ")),
		}}
	}
	params.Mode = mode
	prompt, err := optimizer.Rewrite(params)
	if err != nil {
		return nil, fmt.Errorf("failed to render rewrite prompt: %w", err)
	}
	ctx = llmcall.WithPromptKey(ctx, optimizer.RewriteKey)
	out, diag := s.engine.Complete(ctx, prompt, OfflineRewrite(params.Text))
	return s.recordWord(st, ActionRewrite, params, out, diag), nil
}

// Word dispatches to Suggest or Rewrite by action name.
func (s *Studio) Word(ctx context.Context, st *session.State, action string, in WordInput) (*WordResult, error) {
	switch strings.ToLower(action) {
	case ActionSuggest, "suggestions":
		return s.Suggest(ctx, st, in)
	case ActionRewrite:
		return s.Rewrite(ctx, st, in)
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownAction, action)
}

func (s *Studio) recordWord(st *session.State, action string, params optimizer.Params, out string, diag *generation.Diagnostic) *WordResult {
	payload := map[string]any{
		"mode":        params.Mode,
		"audience":    params.Audience,
		"tone":        params.Tone,
		"language":    params.Language,
		"brand_rules": params.BrandRules,
		"text":        params.Text,
	}
	tags := []string{"optimizer", "suggestions", params.Language, params.Tone}
	if action == ActionRewrite {
		tags = []string{"optimizer", "rewrite", strings.ToLower(params.Mode), params.Language, params.Tone}
	}
	if diag != nil {
		tags = append(tags, FallbackTag)
	}
	item := st.History.Append(history.KindOptimizer, payload, out, tags...)
	return &WordResult{Action: action, Mode: params.Mode, Text: out, Diagnostic: diag, Item: item}
}

func wordParams(st *session.State, in WordInput) (optimizer.Params, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return optimizer.Params{}, ErrEmptyText
	}
	return optimizer.Params{
		Text:       text,
		Audience:   orDefault(in.Audience, brief.DefaultAudience),
		Tone:       orDefault(in.Tone, brief.DefaultTone),
		Language:   orDefault(in.Language, brief.DefaultLanguage),
		BrandRules: orDefault(in.BrandRules, st.Profile.BrandRules()),
	}, nil
}

func canonicalMode(mode string) (string, bool) {
	mode = strings.TrimSpace(mode)
	if mode == "" {
		return optimizer.Modes[0], true
	}
	for _, m := range optimizer.Modes {
		if strings.EqualFold(m, mode) {
			return m, true
		}
	}
	return "", false
}

var weakWords = []struct {
	re   *regexp.Regexp
	with string
}{
	{regexp.MustCompile(`(?i)\bvery good\b`), "effective"},
	{regexp.MustCompile(`(?i)\bnice\b`), "intuitive"},
	{regexp.MustCompile(`(?i)\bgreat\b`), "proven"},
	{regexp.MustCompile(`(?i)\bget\b`), "unlock"},
	{regexp.MustCompile(`(?i)\bdo\b`), "achieve"},
}

// OfflineRewrite swaps weak words for stronger ones, keeping the case of
// each replaced word's first letter.
func OfflineRewrite(text string) string {
	for _, w := range weakWords {
		text = w.re.ReplaceAllStringFunc(text, func(match string) string {
			r, _ := utf8.DecodeRuneInString(match)
			if unicode.IsUpper(r) {
				return strings.ToUpper(w.with[:1]) + w.with[1:]
			}
			return w.with
		})
	}
	return text
}
