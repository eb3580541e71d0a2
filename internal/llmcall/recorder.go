package llmcall

import (
	"sync"

	"github.com/jackzampolin/presence/internal/providers"
)

// DefaultCapacity is the number of calls a Recorder keeps.
const DefaultCapacity = 100

// Recorder keeps the most recent calls in memory, newest first.
// A nil *Recorder discards everything.
type Recorder struct {
	mu       sync.RWMutex
	calls    []Call
	capacity int
}

// NewRecorder creates a recorder holding up to capacity calls.
func NewRecorder(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Recorder{capacity: capacity}
}

// Record captures a chat result.
func (r *Recorder) Record(result *providers.ChatResult, opts RecordOptions) {
	r.RecordCall(FromChatResult(result, opts))
}

// RecordCall captures an already-constructed Call.
func (r *Recorder) RecordCall(call *Call) {
	if r == nil || call == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append([]Call{*call}, r.calls...)
	if len(r.calls) > r.capacity {
		r.calls = r.calls[:r.capacity]
	}
}

// QueryFilter narrows List results. Zero values match everything.
type QueryFilter struct {
	PromptKey string
	Provider  string
	Success   *bool
	Limit     int
}

// List returns matching calls, newest first.
func (r *Recorder) List(filter QueryFilter) []Call {
	if r == nil {
		return []Call{}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Call, 0, len(r.calls))
	for _, c := range r.calls {
		if filter.PromptKey != "" && c.PromptKey != filter.PromptKey {
			continue
		}
		if filter.Provider != "" && c.Provider != filter.Provider {
			continue
		}
		if filter.Success != nil && c.Success != *filter.Success {
			continue
		}
		out = append(out, c)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out
}

// PromptStats summarizes the calls made for one prompt key.
type PromptStats struct {
	Calls        int `json:"calls"`
	Failed       int `json:"failed"`
	AvgLatencyMs int `json:"avg_latency_ms"`
}

// StatsByPromptKey aggregates recorded calls per prompt key. Calls without
// a key are grouped under "".
func (r *Recorder) StatsByPromptKey() map[string]PromptStats {
	stats := make(map[string]PromptStats)
	if r == nil {
		return stats
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	latency := make(map[string]int)
	for _, c := range r.calls {
		st := stats[c.PromptKey]
		st.Calls++
		if !c.Success {
			st.Failed++
		}
		latency[c.PromptKey] += c.LatencyMs
		stats[c.PromptKey] = st
	}
	for key, st := range stats {
		st.AvgLatencyMs = latency[key] / st.Calls
		stats[key] = st
	}
	return stats
}
