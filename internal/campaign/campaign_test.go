package campaign

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackzampolin/presence/internal/history"
	"github.com/jackzampolin/presence/internal/profile"
)

var fixed = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

func TestMarkdownEmptyHistory(t *testing.T) {
	md := Build(profile.Default(), history.NewStore(0), fixed).Markdown()

	for _, want := range []string{
		"# Campaign Brief — Acme Innovations",
		"**Generated:** 2026-03-01T09:30:00Z",
		"## 1) Company Snapshot",
		"- **Industry:** Technology",
		NoStrategy,
		NoVariants,
		NoOptimizer,
		"## 5) Next Steps (suggested)",
		Footer,
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
	if n := strings.Count(md, "\n- ") - 7; n != len(NextSteps) {
		t.Errorf("got %d next-step bullets, want %d", n, len(NextSteps))
	}
}

func TestMarkdownUsesLatestRecords(t *testing.T) {
	h := history.NewStore(0)
	h.Append(history.KindStrategy, nil, "old idea")
	h.Append(history.KindStrategy, nil, "new idea")
	h.Append(history.KindVariants, nil, []string{"first draft", "second draft"})
	h.Append(history.ParseKind("word_optimizer"), map[string]any{"mode": "SEO"}, "")

	b := Build(profile.Default(), h, fixed)
	md := b.Markdown()

	if !strings.Contains(md, "new idea") || strings.Contains(md, "old idea") {
		t.Error("strategy section should hold only the newest idea")
	}
	if !strings.Contains(md, "**Variant 2**\n\nsecond draft") {
		t.Errorf("variants not numbered:\n%s", md)
	}
	if !strings.Contains(md, `"mode": "SEO"`) {
		t.Error("optimizer without output should fall back to its payload")
	}
}

func TestBuildNilSource(t *testing.T) {
	b := Build(profile.Default(), nil, fixed)
	if b.Strategy != nil || b.Variants != nil || b.Optimizer != nil {
		t.Errorf("expected empty sections, got %+v", b)
	}
}

func TestRenderHTML(t *testing.T) {
	html, err := RenderHTML(Build(profile.Default(), nil, fixed).Markdown())
	if err != nil {
		t.Fatalf("RenderHTML() error = %v", err)
	}
	for _, want := range []string{"<h1>Campaign Brief", "<h2>1) Company Snapshot</h2>", "<hr>", "<em>Presence"} {
		if !strings.Contains(html, want) {
			t.Errorf("html missing %q", want)
		}
	}
}

func TestShare(t *testing.T) {
	t.Run("defaults to email", func(t *testing.T) {
		s, err := Share{To: " a@b.co "}.Normalize()
		if err != nil {
			t.Fatalf("Normalize() error = %v", err)
		}
		if s.Channel != ChannelEmail || s.To != "a@b.co" {
			t.Errorf("got %+v", s)
		}
	})

	t.Run("rejects unknown channel", func(t *testing.T) {
		if _, err := (Share{Channel: "Fax"}).Normalize(); !errors.Is(err, ErrUnknownChannel) {
			t.Errorf("err = %v, want ErrUnknownChannel", err)
		}
	})

	t.Run("payload and tags", func(t *testing.T) {
		s, _ := Share{Channel: "Slack"}.Normalize()
		p := s.Payload(fixed)
		if p["file"] != Filename || p["created_at"] != "2026-03-01T09:30:00Z" {
			t.Errorf("payload = %v", p)
		}
		if got := strings.Join(s.Tags(), ","); got != "brief,share,slack" {
			t.Errorf("tags = %q", got)
		}
		if s.Recipient() != "recipient" {
			t.Errorf("Recipient() = %q", s.Recipient())
		}
	})
}
