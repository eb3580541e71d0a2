// Package intel holds the PR intelligence and creator hook prompts.
package intel

import (
	_ "embed"

	"github.com/jackzampolin/presence/internal/profile"
	"github.com/jackzampolin/presence/internal/prompts"
)

//go:embed pr.tmpl
var prPrompt string

//go:embed hooks.tmpl
var hooksPrompt string

// Prompt keys.
const (
	PRKey    = "intel.pr"
	HooksKey = "intel.creator"
)

var (
	prTmpl    = prompts.MustParse(PRKey, prPrompt)
	hooksTmpl = prompts.MustParse(HooksKey, hooksPrompt)
)

// PRParams are the inputs of a PR intelligence request.
type PRParams struct {
	Profile profile.Profile
	Topic   string
	Market  string
	Timing  string
}

// HooksParams are the inputs of a creator hooks request.
type HooksParams struct {
	Profile  profile.Profile
	Platform string
	Niche    string
	CTA      string
	Count    int
}

// RenderPR returns the story-angle prompt.
func RenderPR(params PRParams) (string, error) {
	return prompts.Execute(prTmpl, params)
}

// RenderHooks returns the creator hook prompt.
func RenderHooks(params HooksParams) (string, error) {
	return prompts.Execute(hooksTmpl, params)
}

// RegisterPrompts registers both intel prompts with the resolver.
func RegisterPrompts(r *prompts.Resolver) {
	r.Register(prompts.Prompt{
		Key:         PRKey,
		Text:        prPrompt,
		Description: "Story angles, journalist beats, timing windows and pitches",
	})
	r.Register(prompts.Prompt{
		Key:         HooksKey,
		Text:        hooksPrompt,
		Description: "Short-form video hooks with format, visual beat and CTA",
	})
}
