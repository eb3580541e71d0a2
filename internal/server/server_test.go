package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jackzampolin/presence/internal/api"
	"github.com/jackzampolin/presence/internal/history"
	"github.com/jackzampolin/presence/internal/llmcall"
	scoringprompt "github.com/jackzampolin/presence/internal/prompts/scoring"
	"github.com/jackzampolin/presence/internal/scoring"
	"github.com/jackzampolin/presence/internal/server/endpoints"
	"github.com/jackzampolin/presence/internal/studio"
)

type generatorFunc func(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error)

func (f generatorFunc) GenerateText(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	return f(ctx, prompt, temperature, maxTokens)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestServer returns an httptest server backed by gen. A nil gen
// leaves the server offline.
func newTestServer(t *testing.T, gen generatorFunc) *httptest.Server {
	t.Helper()
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENROUTER_API_KEY", "")

	cfg := Config{Logger: quietLogger()}
	if gen != nil {
		cfg.Generator = gen
	}
	srv, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url string, body any, out any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			t.Fatalf("decode %s %s (%d): %v\n%s", method, url, resp.StatusCode, err, data)
		}
	}
	return resp
}

func createSession(t *testing.T, base string) string {
	t.Helper()
	var resp endpoints.SessionResponse
	r := doJSON(t, http.MethodPost, base+"/api/sessions", nil, &resp)
	if r.StatusCode != http.StatusCreated {
		t.Fatalf("create session status = %d", r.StatusCode)
	}
	if resp.ID == "" {
		t.Fatal("session id is empty")
	}
	return resp.ID
}

var launch = map[string]any{
	"content_type":  "Press Release",
	"topic":         "Launch X",
	"bullets":       "fast\nsecure",
	"variant_count": 2,
}

func TestHealthAndStatus(t *testing.T) {
	ts := newTestServer(t, func(ctx context.Context, prompt string, _ float64, _ int) (string, error) {
		return "ok", nil
	})

	var health endpoints.HealthResponse
	if r := doJSON(t, http.MethodGet, ts.URL+"/health", nil, &health); r.StatusCode != http.StatusOK || health.Status != "ok" {
		t.Fatalf("health = %d %+v", r.StatusCode, health)
	}

	createSession(t, ts.URL)

	var status endpoints.StatusResponse
	doJSON(t, http.MethodGet, ts.URL+"/status", nil, &status)
	if status.Generator != endpoints.GeneratorOnline {
		t.Errorf("Generator = %q, want online", status.Generator)
	}
	if status.Sessions != 1 {
		t.Errorf("Sessions = %d, want 1", status.Sessions)
	}
	if len(status.Providers) == 0 {
		t.Error("expected configured providers in status")
	}
}

func TestStatusOffline(t *testing.T) {
	ts := newTestServer(t, nil)
	var status endpoints.StatusResponse
	doJSON(t, http.MethodGet, ts.URL+"/status", nil, &status)
	if status.Generator != endpoints.GeneratorOffline {
		t.Errorf("Generator = %q, want offline", status.Generator)
	}
	for _, p := range status.Providers {
		if p.Ready {
			t.Errorf("provider %s ready without a key", p.Name)
		}
	}
}

func TestSessions(t *testing.T) {
	ts := newTestServer(t, nil)
	id := createSession(t, ts.URL)

	var list endpoints.SessionsListResponse
	doJSON(t, http.MethodGet, ts.URL+"/api/sessions", nil, &list)
	if list.Total != 1 || list.Sessions[0].ID != id {
		t.Errorf("list = %+v", list)
	}

	var got endpoints.SessionResponse
	if r := doJSON(t, http.MethodGet, ts.URL+"/api/sessions/"+id, nil, &got); r.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d", r.StatusCode)
	}
	if got.Profile.Name != "Acme Innovations" {
		t.Errorf("default profile name = %q", got.Profile.Name)
	}

	if r := doJSON(t, http.MethodDelete, ts.URL+"/api/sessions/"+id, nil, nil); r.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d", r.StatusCode)
	}
	var errResp api.ErrorResponse
	if r := doJSON(t, http.MethodGet, ts.URL+"/api/sessions/"+id, nil, &errResp); r.StatusCode != http.StatusNotFound {
		t.Errorf("get deleted status = %d", r.StatusCode)
	}
	if errResp.Error == "" {
		t.Error("expected JSON error body")
	}
}

func TestProfile(t *testing.T) {
	ts := newTestServer(t, nil)
	id := createSession(t, ts.URL)
	path := ts.URL + "/api/sessions/" + id + "/profile"

	var p map[string]string
	r := doJSON(t, http.MethodPut, path, map[string]string{"name": "  Globex ", "industry": "Energy"}, &p)
	if r.StatusCode != http.StatusOK {
		t.Fatalf("put status = %d", r.StatusCode)
	}
	if p["name"] != "Globex" || p["goals"] != "" {
		t.Errorf("profile after put = %v", p)
	}

	doJSON(t, http.MethodGet, path, nil, &p)
	if p["industry"] != "Energy" {
		t.Errorf("get industry = %q", p["industry"])
	}

	if r := doJSON(t, http.MethodPut, path, "not an object", nil); r.StatusCode != http.StatusBadRequest {
		t.Errorf("bad body status = %d", r.StatusCode)
	}
}

func TestGenerate(t *testing.T) {
	var calls int
	ts := newTestServer(t, func(ctx context.Context, prompt string, _ float64, _ int) (string, error) {
		calls++
		if !strings.Contains(prompt, "Launch X") {
			t.Errorf("prompt missing topic: %q", prompt)
		}
		return "First take\n---\nSecond take", nil
	})
	id := createSession(t, ts.URL)
	path := ts.URL + "/api/sessions/" + id + "/generate"

	t.Run("validation does not consume cooldown", func(t *testing.T) {
		var errResp api.ErrorResponse
		r := doJSON(t, http.MethodPost, path, map[string]any{"content_type": "Billboard"}, &errResp)
		if r.StatusCode != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d, want 422", r.StatusCode)
		}
		if len(errResp.Problems) < 2 {
			t.Errorf("problems = %q", errResp.Problems)
		}
	})

	t.Run("online variants", func(t *testing.T) {
		var res studio.GenerateResult
		r := doJSON(t, http.MethodPost, path, launch, &res)
		if r.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", r.StatusCode)
		}
		if len(res.Variants) != 2 || res.Variants[0] != "First take" || res.Variants[1] != "Second take" {
			t.Errorf("variants = %q", res.Variants)
		}
		if res.Diagnostic != nil {
			t.Errorf("unexpected diagnostic %v", res.Diagnostic)
		}
		if res.Item.Kind != history.KindVariants {
			t.Errorf("item kind = %q", res.Item.Kind)
		}
	})

	t.Run("cooldown", func(t *testing.T) {
		var errResp api.ErrorResponse
		r := doJSON(t, http.MethodPost, path, launch, &errResp)
		if r.StatusCode != http.StatusTooManyRequests {
			t.Fatalf("status = %d, want 429", r.StatusCode)
		}
		if r.Header.Get("Retry-After") == "" || errResp.RetryAfterSeconds <= 0 {
			t.Errorf("missing retry hint: header %q body %+v", r.Header.Get("Retry-After"), errResp)
		}
	})

	if calls != 1 {
		t.Errorf("generator called %d times, want 1", calls)
	}

	t.Run("other sessions are independent", func(t *testing.T) {
		other := createSession(t, ts.URL)
		r := doJSON(t, http.MethodPost, ts.URL+"/api/sessions/"+other+"/generate", launch, nil)
		if r.StatusCode != http.StatusOK {
			t.Errorf("status = %d", r.StatusCode)
		}
	})
}

func TestGenerateOffline(t *testing.T) {
	ts := newTestServer(t, nil)
	id := createSession(t, ts.URL)

	var res studio.GenerateResult
	r := doJSON(t, http.MethodPost, ts.URL+"/api/sessions/"+id+"/generate", launch, &res)
	if r.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", r.StatusCode)
	}
	if res.Diagnostic == nil || res.Diagnostic.Reason != "missing_credential" {
		t.Fatalf("diagnostic = %v, want missing_credential", res.Diagnostic)
	}
	if len(res.Variants) != 2 {
		t.Errorf("got %d variants, want 2", len(res.Variants))
	}
	if !res.Item.Tags.Has(studio.FallbackTag) {
		t.Errorf("tags = %v, want fallback", res.Item.Tags)
	}
}

func TestGenerateServiceError(t *testing.T) {
	ts := newTestServer(t, func(ctx context.Context, prompt string, _ float64, _ int) (string, error) {
		return "", errors.New("upstream 500")
	})
	id := createSession(t, ts.URL)

	var res studio.GenerateResult
	doJSON(t, http.MethodPost, ts.URL+"/api/sessions/"+id+"/generate", launch, &res)
	if res.Diagnostic == nil || res.Diagnostic.Reason != "service_error" {
		t.Errorf("diagnostic = %v, want service_error", res.Diagnostic)
	}
	if len(res.Variants) != 2 {
		t.Errorf("got %d variants, want 2", len(res.Variants))
	}
}

func TestStrategyAndWords(t *testing.T) {
	ts := newTestServer(t, nil)
	id := createSession(t, ts.URL)
	base := ts.URL + "/api/sessions/" + id

	var strat studio.StrategyResult
	if r := doJSON(t, http.MethodPost, base+"/strategy", map[string]string{"tone": "Bold"}, &strat); r.StatusCode != http.StatusOK {
		t.Fatalf("strategy status = %d", r.StatusCode)
	}
	if strat.Idea == "" || strat.Item.Kind != history.KindStrategy {
		t.Errorf("strategy = %+v", strat)
	}
	if strat.Diagnostic == nil || !strat.Item.Tags.Has(studio.FallbackTag) {
		t.Errorf("offline strategy should carry a diagnostic and the fallback tag")
	}

	tests := []struct {
		name   string
		action string
		body   map[string]string
		status int
	}{
		{"suggest", "suggest", map[string]string{"text": "We do nice things"}, http.StatusOK},
		{"rewrite", "rewrite", map[string]string{"text": "We do nice things", "mode": "seo"}, http.StatusOK},
		{"unknown mode", "rewrite", map[string]string{"text": "x", "mode": "Shouty"}, http.StatusUnprocessableEntity},
		{"empty text", "suggest", map[string]string{"text": "  "}, http.StatusBadRequest},
		{"unknown action", "translate", map[string]string{"text": "x"}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := doJSON(t, http.MethodPost, base+"/optimizer/"+tt.action, tt.body, nil)
			if r.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", r.StatusCode, tt.status)
			}
		})
	}

	var hist endpoints.HistoryResponse
	doJSON(t, http.MethodGet, base+"/history?kind=optimizer", nil, &hist)
	if hist.Total != 2 {
		t.Errorf("optimizer items = %d, want 2", hist.Total)
	}
}

func TestIntel(t *testing.T) {
	ts := newTestServer(t, nil)
	id := createSession(t, ts.URL)
	base := ts.URL + "/api/sessions/" + id

	var pr studio.IntelResult
	if r := doJSON(t, http.MethodPost, base+"/pr-intel", map[string]string{"topic": "RoboHub 2.0"}, &pr); r.StatusCode != http.StatusOK {
		t.Fatalf("pr-intel status = %d", r.StatusCode)
	}
	if pr.Item.Kind != history.KindPRIntel || !strings.Contains(pr.Text, "RoboHub 2.0") {
		t.Errorf("pr-intel = %+v", pr)
	}

	var hooks studio.IntelResult
	if r := doJSON(t, http.MethodPost, base+"/creator-hooks", map[string]any{"platform": "TikTok", "count": 5}, &hooks); r.StatusCode != http.StatusOK {
		t.Fatalf("creator-hooks status = %d", r.StatusCode)
	}
	if hooks.Item.Kind != history.KindCreatorIntel || strings.Count(hooks.Text, "\n") != 4 {
		t.Errorf("creator-hooks = %+v", hooks)
	}

	if r := doJSON(t, http.MethodPost, base+"/creator-hooks", "not an object", nil); r.StatusCode != http.StatusBadRequest {
		t.Errorf("bad body status = %d", r.StatusCode)
	}

	var hist endpoints.HistoryResponse
	doJSON(t, http.MethodGet, base+"/history?tag=intel", nil, &hist)
	if hist.Total != 2 {
		t.Errorf("intel items = %d, want 2", hist.Total)
	}
}

func TestOptimize(t *testing.T) {
	ts := newTestServer(t, func(ctx context.Context, prompt string, _ float64, _ int) (string, error) {
		if llmcall.PromptKeyFrom(ctx) == scoringprompt.PromptKey {
			return "not json", nil
		}
		return "Cut costs fast\n---\nA longer take that says less", nil
	})
	id := createSession(t, ts.URL)

	var res studio.OptimizeResult
	r := doJSON(t, http.MethodPost, ts.URL+"/api/sessions/"+id+"/optimize", launch, &res)
	if r.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", r.StatusCode)
	}
	if len(res.Variants) != 2 {
		t.Fatalf("got %d variants", len(res.Variants))
	}
	for i, v := range res.Variants {
		if v.Source != scoring.SourceHeuristic {
			t.Errorf("variant %d scored by %q, want heuristic", i, v.Source)
		}
	}
	// "cut" earns the persuasion point
	if res.Winner != 0 {
		t.Errorf("winner = %d, want 0", res.Winner)
	}
	if res.Item.Kind != history.KindABTest {
		t.Errorf("kind = %q", res.Item.Kind)
	}
}

func TestHistoryEndpoints(t *testing.T) {
	fixed := time.Date(2026, 5, 4, 3, 2, 1, 0, time.UTC)
	t.Setenv("OPENAI_API_KEY", "")
	srv, err := New(Config{Logger: quietLogger(), Now: func() time.Time { return fixed }})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	id := createSession(t, ts.URL)
	base := ts.URL + "/api/sessions/" + id + "/history"

	st, err := srv.Sessions().Get(id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	st.History.Append(history.KindStrategy, map[string]any{"prompt": "p"}, "Fintech Cost-Saver", "strategy", "bold")
	st.History.Append(history.KindVariants, map[string]any{"topic": "Launch X"}, history.List("a", "b"), "Press Release")

	t.Run("list and filter", func(t *testing.T) {
		var all endpoints.HistoryResponse
		doJSON(t, http.MethodGet, base, nil, &all)
		if all.Total != 2 || all.Items[0].Kind != history.KindVariants {
			t.Fatalf("list = %+v", all)
		}
		if all.Cap != history.DefaultCap {
			t.Errorf("cap = %d", all.Cap)
		}

		var tagged endpoints.HistoryResponse
		doJSON(t, http.MethodGet, base+"?tag=bold&tag=nope", nil, &tagged)
		if tagged.Total != 1 || tagged.Items[0].Kind != history.KindStrategy {
			t.Errorf("tag filter = %+v", tagged)
		}

		var searched endpoints.HistoryResponse
		doJSON(t, http.MethodGet, base+"?q=launch%20x", nil, &searched)
		if searched.Total != 1 {
			t.Errorf("search = %+v", searched)
		}

		if r := doJSON(t, http.MethodGet, base+"?limit=abc", nil, nil); r.StatusCode != http.StatusBadRequest {
			t.Errorf("bad limit status = %d", r.StatusCode)
		}
	})

	t.Run("tags", func(t *testing.T) {
		var tags endpoints.TagsResponse
		doJSON(t, http.MethodGet, base+"/tags", nil, &tags)
		if strings.Join(tags.Tags, ",") != "Press Release,bold,strategy" {
			t.Errorf("tags = %q", tags.Tags)
		}

		var item history.Item
		r := doJSON(t, http.MethodPut, base+"/1/tags", endpoints.SetTagsRequest{Tags: []string{"keep", "keep", " "}}, &item)
		if r.StatusCode != http.StatusOK {
			t.Fatalf("set tags status = %d", r.StatusCode)
		}
		if len(item.Tags) != 1 || !item.Tags.Has("keep") {
			t.Errorf("tags = %v", item.Tags)
		}
		if r := doJSON(t, http.MethodPut, base+"/9/tags", endpoints.SetTagsRequest{}, nil); r.StatusCode != http.StatusBadRequest {
			t.Errorf("out of range status = %d", r.StatusCode)
		}
		if r := doJSON(t, http.MethodPut, base+"/x/tags", endpoints.SetTagsRequest{}, nil); r.StatusCode != http.StatusBadRequest {
			t.Errorf("bad index status = %d", r.StatusCode)
		}
	})

	var exported []byte
	t.Run("export", func(t *testing.T) {
		resp, err := http.Get(base + "/export")
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		exported, _ = io.ReadAll(resp.Body)
		want := `filename="presence_history_20260504_030201.json"`
		if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, want) {
			t.Errorf("Content-Disposition = %q", cd)
		}
		var items []map[string]any
		if err := json.Unmarshal(exported, &items); err != nil {
			t.Fatalf("export is not a JSON array: %v", err)
		}
		for _, key := range []string{"ts", "kind", "payload", "output", "tags"} {
			if _, ok := items[0][key]; !ok {
				t.Errorf("exported item missing %q", key)
			}
		}
	})

	t.Run("malformed import leaves history unchanged", func(t *testing.T) {
		resp, err := http.Post(base+"/import", "application/json", strings.NewReader(`[{"kind":`))
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d", resp.StatusCode)
		}
		if st.History.Len() != 2 {
			t.Errorf("len = %d, want 2", st.History.Len())
		}
	})

	t.Run("clear then import replaces", func(t *testing.T) {
		if r := doJSON(t, http.MethodDelete, base, nil, nil); r.StatusCode != http.StatusNoContent {
			t.Fatalf("clear status = %d", r.StatusCode)
		}
		st.History.Append(history.KindContent, nil, "stale")

		var imp endpoints.ImportResponse
		resp, err := http.Post(base+"/import", "application/json", bytes.NewReader(exported))
		if err != nil {
			t.Fatal(err)
		}
		json.NewDecoder(resp.Body).Decode(&imp)
		resp.Body.Close()
		if imp.Imported != 2 || st.History.Len() != 2 {
			t.Errorf("imported %d, len %d", imp.Imported, st.History.Len())
		}
		if latest, _ := st.History.Latest(); latest.Kind != history.KindVariants {
			t.Errorf("newest kind = %q", latest.Kind)
		}
	})
}

func TestCampaignBrief(t *testing.T) {
	ts := newTestServer(t, nil)
	id := createSession(t, ts.URL)
	base := ts.URL + "/api/sessions/" + id + "/campaign-brief"

	tests := []struct {
		name        string
		query       string
		status      int
		contentType string
		contains    string
	}{
		{"markdown", "", http.StatusOK, "text/markdown", "# Campaign Brief — Acme Innovations"},
		{"html", "?format=html", http.StatusOK, "text/html", "<h1>Campaign Brief — Acme Innovations</h1>"},
		{"bad format", "?format=pdf", http.StatusBadRequest, "application/json", "invalid format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(base + tt.query)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			body, _ := io.ReadAll(resp.Body)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, tt.contentType) {
				t.Errorf("Content-Type = %q", ct)
			}
			if !strings.Contains(string(body), tt.contains) {
				t.Errorf("body missing %q:\n%s", tt.contains, body)
			}
		})
	}

	t.Run("save records history", func(t *testing.T) {
		var res studio.CampaignResult
		if r := doJSON(t, http.MethodPost, base, nil, &res); r.StatusCode != http.StatusCreated {
			t.Fatalf("status = %d", r.StatusCode)
		}
		if res.Item == nil || res.Item.Kind != history.KindCampaignBrief {
			t.Errorf("item = %+v", res.Item)
		}
	})

	t.Run("share", func(t *testing.T) {
		var res studio.ShareResult
		r := doJSON(t, http.MethodPost, base+"/share", map[string]string{"channel": "Slack", "to": "#launch"}, &res)
		if r.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", r.StatusCode)
		}
		if res.Item.Kind != history.KindBriefShare || !res.Item.Tags.Has("slack") {
			t.Errorf("item = %+v", res.Item)
		}
		if r := doJSON(t, http.MethodPost, base+"/share", map[string]string{"channel": "fax"}, nil); r.StatusCode != http.StatusBadRequest {
			t.Errorf("unknown channel status = %d", r.StatusCode)
		}
	})
}

func TestPromptsAndCalls(t *testing.T) {
	ts := newTestServer(t, nil)

	var list endpoints.PromptsListResponse
	doJSON(t, http.MethodGet, ts.URL+"/api/prompts", nil, &list)
	keys := make(map[string]bool)
	for _, p := range list.Prompts {
		keys[p.Key] = true
		if p.Hash == "" {
			t.Errorf("prompt %s has no hash", p.Key)
		}
	}
	for _, k := range []string{"content.system", "content.user", "strategy.idea", "intel.pr", "intel.creator", "optimizer.suggest", "optimizer.rewrite", "scoring.judge"} {
		if !keys[k] {
			t.Errorf("prompt %s not registered", k)
		}
	}

	if r := doJSON(t, http.MethodGet, ts.URL+"/api/prompts/content.user", nil, nil); r.StatusCode != http.StatusOK {
		t.Errorf("get prompt status = %d", r.StatusCode)
	}
	if r := doJSON(t, http.MethodGet, ts.URL+"/api/prompts/nope", nil, nil); r.StatusCode != http.StatusNotFound {
		t.Errorf("missing prompt status = %d", r.StatusCode)
	}

	var calls endpoints.LLMCallsResponse
	if r := doJSON(t, http.MethodGet, ts.URL+"/api/llmcalls", nil, &calls); r.StatusCode != http.StatusOK {
		t.Errorf("llmcalls status = %d", r.StatusCode)
	}
	if r := doJSON(t, http.MethodGet, ts.URL+"/api/llmcalls?success=maybe", nil, nil); r.StatusCode != http.StatusBadRequest {
		t.Errorf("bad filter status = %d", r.StatusCode)
	}
	if r := doJSON(t, http.MethodGet, ts.URL+"/api/llmcalls?limit=0", nil, nil); r.StatusCode != http.StatusBadRequest {
		t.Errorf("zero limit status = %d", r.StatusCode)
	}
	var stats endpoints.LLMCallStatsResponse
	if r := doJSON(t, http.MethodGet, ts.URL+"/api/llmcalls/stats", nil, &stats); r.StatusCode != http.StatusOK || stats.Stats == nil {
		t.Errorf("stats = %d %+v", r.StatusCode, stats)
	}
}

func TestRouting(t *testing.T) {
	ts := newTestServer(t, nil)

	var errResp api.ErrorResponse
	if r := doJSON(t, http.MethodGet, ts.URL+"/nope", nil, &errResp); r.StatusCode != http.StatusNotFound || errResp.Error == "" {
		t.Errorf("unknown route = %d %+v", r.StatusCode, errResp)
	}
	if r := doJSON(t, http.MethodPatch, ts.URL+"/health", nil, nil); r.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("wrong method status = %d", r.StatusCode)
	}
	if r := doJSON(t, http.MethodGet, ts.URL+"/health", nil, nil); r.Header.Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %q", r.Header.Get("Content-Type"))
	}
}
