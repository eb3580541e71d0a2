package prompts

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"text/template"
)

// variablePattern matches field references like {{.Topic}}, {{ .Brief.Topic }}
// or {{or .Brief.CTA "x"}}.
var variablePattern = regexp.MustCompile(`\.([A-Z][a-zA-Z0-9_]*(?:\.[A-Z][a-zA-Z0-9_]*)*)`)

var actionPattern = regexp.MustCompile(`\{\{[^}]*\}\}`)

// ExtractVariables returns the sorted, de-duplicated field paths a template
// references. "{{.Brief.Topic}} {{lower .Brief.Tone}}" yields
// ["Brief.Tone", "Brief.Topic"].
func ExtractVariables(text string) []string {
	seen := make(map[string]bool)
	var vars []string
	for _, action := range actionPattern.FindAllString(text, -1) {
		for _, m := range variablePattern.FindAllStringSubmatch(action, -1) {
			if !seen[m[1]] {
				seen[m[1]] = true
				vars = append(vars, m[1])
			}
		}
	}
	sort.Strings(vars)
	return vars
}

// HashText returns a SHA256 hash of the text for change detection.
func HashText(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}

// Funcs are available to every prompt template.
var Funcs = template.FuncMap{
	"lower": strings.ToLower,
	"upper": strings.ToUpper,
	"join":  strings.Join,
	"trim":  strings.TrimSpace,
}

// Parse parses a prompt template with Funcs installed. Missing map keys
// render as empty strings.
func Parse(name, text string) (*template.Template, error) {
	return template.New(name).Funcs(Funcs).Option("missingkey=zero").Parse(text)
}

// MustParse is like Parse but panics on error. Used for embedded templates.
func MustParse(name, text string) *template.Template {
	return template.Must(Parse(name, text))
}

// Execute renders t with data.
func Execute(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}
