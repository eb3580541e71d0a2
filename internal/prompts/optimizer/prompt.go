// Package optimizer holds the word-optimizer prompts.
package optimizer

import (
	_ "embed"

	"github.com/jackzampolin/presence/internal/prompts"
)

var (
	//go:embed suggest.tmpl
	suggestPrompt string
	//go:embed rewrite.tmpl
	rewritePrompt string
)

// Prompt keys.
const (
	SuggestKey = "optimizer.suggest"
	RewriteKey = "optimizer.rewrite"
)

// Modes accepted by the rewrite prompt.
var Modes = []string{"Clarity", "Conversion", "SEO", "Formal", "Friendly"}

var (
	suggestTmpl = prompts.MustParse(SuggestKey, suggestPrompt)
	rewriteTmpl = prompts.MustParse(RewriteKey, rewritePrompt)
)

// Params are the inputs of an optimizer request.
type Params struct {
	Text       string
	Mode       string
	Audience   string
	Tone       string
	Language   string
	BrandRules string
}

// Suggest renders the word-suggestion prompt.
func Suggest(p Params) (string, error) {
	return prompts.Execute(suggestTmpl, p)
}

// Rewrite renders the rewrite prompt for p.Mode.
func Rewrite(p Params) (string, error) {
	return prompts.Execute(rewriteTmpl, p)
}

// RegisterPrompts registers the optimizer prompts with the resolver.
func RegisterPrompts(r *prompts.Resolver) {
	r.Register(prompts.Prompt{
		Key:         SuggestKey,
		Text:        suggestPrompt,
		Description: "Word and phrase improvement suggestions",
	})
	r.Register(prompts.Prompt{
		Key:         RewriteKey,
		Text:        rewritePrompt,
		Description: "Rewrite copy in a given mode (Clarity, Conversion, SEO, Formal, Friendly)",
	})
}
