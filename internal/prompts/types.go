// Package prompts manages the prompt templates embedded in the binary.
//
// Each prompt family lives in its own subpackage (content, strategy,
// optimizer, scoring) with .tmpl files next to the Go code. Subpackages
// register their templates with a Resolver so the server can list them and
// report a stable hash for each one.
package prompts

// Prompt is a registered template.
type Prompt struct {
	Key         string   `json:"key"`         // Hierarchical key: content.user
	Text        string   `json:"text"`        // The prompt text (Go template)
	Description string   `json:"description"` // Human-readable description
	Variables   []string `json:"variables,omitempty"`
	Hash        string   `json:"hash"` // SHA256 of Text
}
