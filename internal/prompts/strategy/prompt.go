// Package strategy holds the strategy-idea prompt.
package strategy

import (
	_ "embed"

	"github.com/jackzampolin/presence/internal/profile"
	"github.com/jackzampolin/presence/internal/prompts"
)

//go:embed idea.tmpl
var ideaPrompt string

// PromptKey is the hierarchical key for this prompt.
const PromptKey = "strategy.idea"

var ideaTmpl = prompts.MustParse(PromptKey, ideaPrompt)

// Params are the inputs of one strategy request.
type Params struct {
	Profile profile.Profile
	Goals   string // overrides Profile.Goals when set
	Tone    string
	Length  string
}

// Render returns the strategy prompt for params.
func Render(params Params) (string, error) {
	if params.Goals == "" {
		params.Goals = params.Profile.Goals
	}
	return prompts.Execute(ideaTmpl, params)
}

// RegisterPrompts registers the strategy prompt with the resolver.
func RegisterPrompts(r *prompts.Resolver) {
	r.Register(prompts.Prompt{
		Key:         PromptKey,
		Text:        ideaPrompt,
		Description: "Single actionable PR/marketing initiative for the company profile",
	})
}
