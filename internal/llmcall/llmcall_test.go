package llmcall

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackzampolin/presence/internal/providers"
)

func TestFromChatResult(t *testing.T) {
	if FromChatResult(nil, RecordOptions{}) != nil {
		t.Error("nil result should give nil call")
	}

	temp := 0.65
	call := FromChatResult(&providers.ChatResult{
		Provider:      "openai",
		ModelUsed:     "gpt-4o-mini",
		PromptTokens:  12,
		ExecutionTime: 1500 * time.Millisecond,
		Success:       false,
		ErrorType:     providers.ErrorTypeRateLimited,
		ErrorMessage:  "slow down",
	}, RecordOptions{PromptKey: "content.user", Temperature: &temp})

	if call.ID == "" {
		t.Error("ID should be set")
	}
	if call.LatencyMs != 1500 {
		t.Errorf("LatencyMs = %d", call.LatencyMs)
	}
	if call.Error != "slow down" || call.ErrorType != providers.ErrorTypeRateLimited {
		t.Errorf("error fields = %q / %q", call.ErrorType, call.Error)
	}
	if call.Temperature == nil || *call.Temperature != 0.65 {
		t.Errorf("Temperature = %v", call.Temperature)
	}
}

func TestRecorder(t *testing.T) {
	t.Run("keeps newest first up to capacity", func(t *testing.T) {
		r := NewRecorder(3)
		for i := 0; i < 5; i++ {
			r.RecordCall(&Call{ID: fmt.Sprint(i)})
		}
		got := r.List(QueryFilter{})
		if len(got) != 3 {
			t.Fatalf("len = %d, want 3", len(got))
		}
		if got[0].ID != "4" || got[2].ID != "2" {
			t.Errorf("order = %s,%s,%s", got[0].ID, got[1].ID, got[2].ID)
		}
	})

	t.Run("filters", func(t *testing.T) {
		r := NewRecorder(10)
		r.RecordCall(&Call{PromptKey: "a", Provider: "openai", Success: true})
		r.RecordCall(&Call{PromptKey: "b", Provider: "openai", Success: false})
		r.RecordCall(&Call{PromptKey: "a", Provider: "mock", Success: true})

		if got := r.List(QueryFilter{PromptKey: "a"}); len(got) != 2 {
			t.Errorf("by key = %d", len(got))
		}
		ok := true
		if got := r.List(QueryFilter{Provider: "openai", Success: &ok}); len(got) != 1 {
			t.Errorf("by provider+success = %d", len(got))
		}
		if got := r.List(QueryFilter{Limit: 1}); len(got) != 1 {
			t.Errorf("limit = %d", len(got))
		}
		stats := r.StatsByPromptKey()
		if stats["a"].Calls != 2 || stats["a"].Failed != 0 {
			t.Errorf("stats[a] = %+v", stats["a"])
		}
		if stats["b"].Calls != 1 || stats["b"].Failed != 1 {
			t.Errorf("stats[b] = %+v", stats["b"])
		}
	})

	t.Run("average latency", func(t *testing.T) {
		r := NewRecorder(10)
		r.RecordCall(&Call{PromptKey: "content.user", LatencyMs: 100, Success: true})
		r.RecordCall(&Call{PromptKey: "content.user", LatencyMs: 300, Success: true})
		if got := r.StatsByPromptKey()["content.user"].AvgLatencyMs; got != 200 {
			t.Errorf("AvgLatencyMs = %d, want 200", got)
		}
	})

	t.Run("nil recorder is a no-op", func(t *testing.T) {
		var r *Recorder
		r.RecordCall(&Call{})
		if got := r.List(QueryFilter{}); len(got) != 0 {
			t.Errorf("List() = %v", got)
		}
	})
}

func TestPromptKeyContext(t *testing.T) {
	ctx := WithPromptKey(context.Background(), "strategy.idea")
	if got := PromptKeyFrom(ctx); got != "strategy.idea" {
		t.Errorf("PromptKeyFrom() = %q", got)
	}
	if got := PromptKeyFrom(context.Background()); got != "" {
		t.Errorf("PromptKeyFrom(empty) = %q", got)
	}
}
