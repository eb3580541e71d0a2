// Package scoring holds the variant-judging prompt and its output schema.
package scoring

import (
	_ "embed"
	"encoding/json"

	"github.com/jackzampolin/presence/internal/prompts"
)

//go:embed judge.tmpl
var judgePrompt string

// PromptKey is the hierarchical key for this prompt.
const PromptKey = "scoring.judge"

var judgeTmpl = prompts.MustParse(PromptKey, judgePrompt)

// Params are the inputs of one scoring request.
type Params struct {
	Text       string
	Criteria   []string
	BrandRules string
}

// Render returns the judge prompt for params.
func Render(p Params) (string, error) {
	return prompts.Execute(judgeTmpl, p)
}

// Schema returns the JSON schema the judge's answer must satisfy.
func Schema() json.RawMessage {
	return json.RawMessage(`{
  "type": "object",
  "properties": {
    "scores": {
      "type": "object",
      "additionalProperties": {"type": "integer", "minimum": 0, "maximum": 10}
    },
    "total": {"type": "integer", "minimum": 0}
  },
  "required": ["scores", "total"]
}`)
}

// RegisterPrompts registers the judge prompt with the resolver.
func RegisterPrompts(r *prompts.Resolver) {
	r.Register(prompts.Prompt{
		Key:         PromptKey,
		Text:        judgePrompt,
		Description: "Score copy 1-10 per criterion; JSON output validated against Schema()",
	})
}
