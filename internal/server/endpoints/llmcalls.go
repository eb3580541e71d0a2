package endpoints

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/presence/internal/api"
	"github.com/jackzampolin/presence/internal/llmcall"
	"github.com/jackzampolin/presence/internal/svcctx"
)

const defaultCallLimit = 100

// LLMCallsResponse contains recent generation-service calls.
type LLMCallsResponse struct {
	Calls []llmcall.Call `json:"calls"`
	Total int            `json:"total"`
}

// LLMCallStatsResponse contains per-prompt aggregates.
type LLMCallStatsResponse struct {
	Stats map[string]llmcall.PromptStats `json:"stats"`
}

// parseCallFilter reads prompt_key, provider, success and limit.
func parseCallFilter(q url.Values) (llmcall.QueryFilter, error) {
	filter := llmcall.QueryFilter{
		PromptKey: q.Get("prompt_key"),
		Provider:  q.Get("provider"),
		Limit:     defaultCallLimit,
	}
	if v := q.Get("success"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return filter, fmt.Errorf("invalid success filter %q: use true or false", v)
		}
		filter.Success = &b
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return filter, fmt.Errorf("invalid limit %q: must be a positive integer", v)
		}
		filter.Limit = n
	}
	return filter, nil
}

// ListLLMCallsEndpoint handles GET /api/llmcalls.
type ListLLMCallsEndpoint struct{}

func (e *ListLLMCallsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/llmcalls", e.handler
}

func (e *ListLLMCallsEndpoint) RequiresInit() bool { return false }
func (e *ListLLMCallsEndpoint) Group() string      { return "llmcalls" }

// handler godoc
//
//	@Summary		List generation-service calls
//	@Description	Calls made for generate, strategy, optimizer and scoring, newest first.
//	@Description	Offline output never reaches the service and is not listed.
//	@Tags			llmcalls
//	@Produce		json
//	@Param			prompt_key	query		string	false	"Prompt key, e.g. content.user"
//	@Param			provider	query		string	false	"Provider name"
//	@Param			success		query		bool	false	"true or false"
//	@Param			limit		query		int		false	"Max results (default 100)"
//	@Success		200			{object}	LLMCallsResponse
//	@Failure		400			{object}	ErrorResponse
//	@Router			/api/llmcalls [get]
func (e *ListLLMCallsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	filter, err := parseCallFilter(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	calls := svcctx.RecorderFrom(r.Context()).List(filter)
	writeJSON(w, http.StatusOK, LLMCallsResponse{Calls: calls, Total: len(calls)})
}

func (e *ListLLMCallsEndpoint) Command(getServerURL func() string) *cobra.Command {
	var promptKey, provider string
	var limit int
	var failed bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent generation-service calls",
		RunE: func(cmd *cobra.Command, args []string) error {
			params := url.Values{"limit": {strconv.Itoa(limit)}}
			if promptKey != "" {
				params.Set("prompt_key", promptKey)
			}
			if provider != "" {
				params.Set("provider", provider)
			}
			if failed {
				params.Set("success", "false")
			}

			client := api.NewClient(getServerURL())
			var resp LLMCallsResponse
			if err := client.Get(cmd.Context(), "/api/llmcalls?"+params.Encode(), &resp); err != nil {
				return err
			}
			if api.IsStructuredOutput() {
				return api.Output(resp)
			}
			for _, c := range resp.Calls {
				status := "ok"
				if !c.Success {
					status = c.ErrorType
				}
				fmt.Printf("%s  %-18s %-10s %6dms  %s\n",
					c.Timestamp.Local().Format("15:04:05"), c.PromptKey, c.Provider, c.LatencyMs, status)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&promptKey, "prompt-key", "", "Only this prompt key")
	cmd.Flags().StringVar(&provider, "provider", "", "Only this provider")
	cmd.Flags().BoolVar(&failed, "failed", false, "Only failed calls")
	cmd.Flags().IntVar(&limit, "limit", defaultCallLimit, "Max results")
	return cmd
}

// LLMCallStatsEndpoint handles GET /api/llmcalls/stats.
type LLMCallStatsEndpoint struct{}

func (e *LLMCallStatsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/llmcalls/stats", e.handler
}

func (e *LLMCallStatsEndpoint) RequiresInit() bool { return false }
func (e *LLMCallStatsEndpoint) Group() string      { return "llmcalls" }

// handler godoc
//
//	@Summary		Call counts, failures and average latency per prompt key
//	@Tags			llmcalls
//	@Produce		json
//	@Success		200	{object}	LLMCallStatsResponse
//	@Router			/api/llmcalls/stats [get]
func (e *LLMCallStatsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, LLMCallStatsResponse{
		Stats: svcctx.RecorderFrom(r.Context()).StatsByPromptKey(),
	})
}

func (e *LLMCallStatsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show per-prompt call statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp LLMCallStatsResponse
			if err := client.Get(cmd.Context(), "/api/llmcalls/stats", &resp); err != nil {
				return err
			}
			if api.IsStructuredOutput() {
				return api.Output(resp)
			}
			keys := make([]string, 0, len(resp.Stats))
			for k := range resp.Stats {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				st := resp.Stats[k]
				fmt.Printf("%-18s calls=%d failed=%d avg=%dms\n", k, st.Calls, st.Failed, st.AvgLatencyMs)
			}
			return nil
		},
	}
}
