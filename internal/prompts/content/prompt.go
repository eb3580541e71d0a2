// Package content compiles the multi-variant copy prompt.
package content

import (
	_ "embed"
	"strings"

	"github.com/jackzampolin/presence/internal/brief"
	"github.com/jackzampolin/presence/internal/profile"
	"github.com/jackzampolin/presence/internal/prompts"
)

//go:embed system.tmpl
var systemPrompt string

//go:embed user.tmpl
var userPrompt string

// Prompt keys.
const (
	SystemKey = "content.system"
	UserKey   = "content.user"
)

// VariantSeparator is the line that separates variants in model output.
const VariantSeparator = "---"

var userTmpl = prompts.MustParse(UserKey, userPrompt)

type templateData struct {
	Profile   profile.Profile
	Brief     brief.Brief
	Separator string
}

// SystemPrompt returns the copywriter system prompt.
func SystemPrompt() string {
	return strings.TrimSpace(systemPrompt)
}

// Compile renders the user prompt for p and b. The same inputs always
// produce the same prompt.
func Compile(p profile.Profile, b brief.Brief) string {
	out, err := prompts.Execute(userTmpl, templateData{
		Profile:   p,
		Brief:     b,
		Separator: VariantSeparator,
	})
	if err != nil {
		// The template is embedded and the data shape is fixed.
		panic(err)
	}
	return out
}

// RegisterPrompts registers the content prompts with the resolver.
func RegisterPrompts(r *prompts.Resolver) {
	r.Register(prompts.Prompt{
		Key:         SystemKey,
		Text:        systemPrompt,
		Description: "Copywriter system prompt for multi-variant content generation",
	})
	r.Register(prompts.Prompt{
		Key:         UserKey,
		Text:        userPrompt,
		Description: "Content brief prompt - asks for N distinct variants separated by a --- line",
	})
}
