// Package campaign assembles a campaign brief from the company profile and
// the newest strategy, content and optimizer records in history.
package campaign

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/jackzampolin/presence/internal/history"
	"github.com/jackzampolin/presence/internal/profile"
)

// Filename is the download name of a markdown brief.
const Filename = "campaign_brief.md"

// Footer closes every brief.
const Footer = "*Presence — PR & Marketing OS*"

// Placeholders used when history holds no matching record.
const (
	NoStrategy  = "_No strategy idea found in history yet._"
	NoVariants  = "_No content variants found in history yet._"
	NoOptimizer = "_No optimizer suggestions found in history yet._"
)

// NextSteps close every brief.
var NextSteps = []string{
	"Select one strategy angle and one draft variant.",
	"Apply any high-impact optimizer suggestions.",
	"Define channel plan (press release, landing page, email, social).",
	"Prepare media list (journalists & outlets) and send.",
	"Track performance and log to **History & Insights**.",
}

// Source finds the newest history item of the given kinds.
// *history.Store implements it.
type Source interface {
	Latest(kinds ...history.Kind) (history.Item, bool)
}

// Brief is an assembled campaign brief.
type Brief struct {
	Company   profile.Profile `json:"company"`
	Generated time.Time       `json:"generated"`
	Strategy  *history.Item   `json:"strategy,omitempty"`
	Variants  *history.Item   `json:"variants,omitempty"`
	Optimizer *history.Item   `json:"optimizer,omitempty"`
}

// Build collects the newest records from src.
func Build(p profile.Profile, src Source, now time.Time) Brief {
	b := Brief{Company: p, Generated: now.UTC().Truncate(time.Second)}
	if src == nil {
		return b
	}
	b.Strategy = latest(src, history.KindStrategy)
	b.Variants = latest(src, history.KindVariants, history.KindContent)
	b.Optimizer = latest(src, history.KindOptimizer)
	return b
}

func latest(src Source, kinds ...history.Kind) *history.Item {
	it, ok := src.Latest(kinds...)
	if !ok {
		return nil
	}
	return &it
}

// Markdown renders the brief.
func (b Brief) Markdown() string {
	var sb strings.Builder
	co := b.Company

	fmt.Fprintf(&sb, "# Campaign Brief — %s\n\n", co.Name)
	fmt.Fprintf(&sb, "**Generated:** %s\n\n", b.Generated.Format(history.TimeFormat))

	section(&sb, "1) Company Snapshot")
	voice := co.BrandVoice
	if voice == "" {
		voice = co.BrandRules
	}
	for _, row := range [][2]string{
		{"Name", co.Name},
		{"Industry", co.Industry},
		{"Size", co.Size},
		{"Audience", co.Audience},
		{"Goals", co.Goals},
		{"Voice/Brand rules", voice},
		{"Website", co.Website},
	} {
		fmt.Fprintf(&sb, "- **%s:** %s\n", row[0], row[1])
	}
	sb.WriteString("\n")

	section(&sb, "2) Strategy Idea (latest)")
	sb.WriteString(orPlaceholder(itemBody(b.Strategy), NoStrategy))
	sb.WriteString("\n\n")

	section(&sb, "3) Content Draft(s) (latest from Content Engine)")
	sb.WriteString(orPlaceholder(itemBody(b.Variants), NoVariants))
	sb.WriteString("\n\n")

	section(&sb, "4) Optimization Suggestions (latest from Word Optimizer)")
	sb.WriteString(orPlaceholder(itemBody(b.Optimizer), NoOptimizer))
	sb.WriteString("\n\n")

	section(&sb, "5) Next Steps (suggested)")
	for _, step := range NextSteps {
		fmt.Fprintf(&sb, "- %s\n", step)
	}
	sb.WriteString("\n")
	sb.WriteString(Footer)
	sb.WriteString("\n")
	return sb.String()
}

func section(sb *strings.Builder, title string) {
	sb.WriteString("---\n\n## ")
	sb.WriteString(title)
	sb.WriteString("\n")
}

// itemBody prefers the output; list outputs become numbered variants.
// Records with no output fall back to their payload.
func itemBody(it *history.Item) string {
	if it == nil {
		return ""
	}
	if it.Output.IsList() {
		var sb strings.Builder
		for i, v := range it.Output.Strings() {
			if i > 0 {
				sb.WriteString("\n\n")
			}
			fmt.Fprintf(&sb, "**Variant %d**\n\n%s", i+1, strings.TrimSpace(v))
		}
		return sb.String()
	}
	if s := strings.TrimSpace(it.Output.String()); s != "" {
		return s
	}
	if len(it.Payload) == 0 {
		return ""
	}
	data, err := json.MarshalIndent(it.Payload, "", "  ")
	if err != nil {
		return ""
	}
	return "```json\n" + string(data) + "\n```"
}

func orPlaceholder(s, placeholder string) string {
	if s == "" {
		return placeholder
	}
	return s
}

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// RenderHTML converts markdown to an HTML fragment.
func RenderHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.String(), nil
}
