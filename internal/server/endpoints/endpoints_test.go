package endpoints

import (
	"regexp"
	"strings"
	"testing"

	"github.com/jackzampolin/presence/internal/brief"
	"github.com/jackzampolin/presence/internal/studio"
)

var typeFlag = regexp.MustCompile(`--type "([^"]+)"`)

func TestCommandExamples(t *testing.T) {
	getURL := func() string { return "http://localhost:8080" }
	for _, ep := range All(Config{}) {
		cmd := ep.Command(getURL)
		if cmd == nil {
			continue
		}
		for _, m := range typeFlag.FindAllStringSubmatch(cmd.Example, -1) {
			if !brief.IsContentType(m[1]) {
				t.Errorf("%s example uses unknown content type %q", cmd.Name(), m[1])
			}
		}
	}
}

func TestOptimizeVariantsFlag(t *testing.T) {
	cmd := (&OptimizeEndpoint{}).Command(func() string { return "" })
	f := cmd.Flags().Lookup("variants")
	if f == nil {
		t.Fatal("missing --variants flag")
	}
	if !strings.Contains(f.Usage, "1-3") {
		t.Errorf("usage = %q, want the accepted range 1-3", f.Usage)
	}
}

func TestIntelCommands(t *testing.T) {
	pr := (&PRIntelEndpoint{}).Command(func() string { return "" })
	for _, name := range []string{"topic", "market", "timing"} {
		if pr.Flags().Lookup(name) == nil {
			t.Errorf("pr command missing --%s", name)
		}
	}
	hooks := (&CreatorHooksEndpoint{}).Command(func() string { return "" })
	count := hooks.Flags().Lookup("count")
	if count == nil || count.DefValue != "10" {
		t.Errorf("--count = %+v, want default %d", count, studio.DefaultHooks)
	}
}
