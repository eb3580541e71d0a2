// Package llmcall records generation-service calls for traceability.
// Every call is kept with its prompt key, response and metrics.
package llmcall

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jackzampolin/presence/internal/providers"
)

// Call represents a recorded LLM API call.
type Call struct {
	ID string `json:"id"`

	Timestamp time.Time `json:"timestamp"`
	LatencyMs int       `json:"latency_ms"`

	// Prompt traceability
	PromptKey  string `json:"prompt_key,omitempty"`
	PromptHash string `json:"prompt_hash,omitempty"`

	Provider    string   `json:"provider"`
	Model       string   `json:"model"`
	Temperature *float64 `json:"temperature,omitempty"`

	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`

	Response string `json:"response,omitempty"`

	Success   bool   `json:"success"`
	ErrorType string `json:"error_type,omitempty"`
	Error     string `json:"error,omitempty"`
}

// RecordOptions provides context for recording an LLM call.
type RecordOptions struct {
	PromptKey  string
	PromptHash string

	// Pointer to distinguish "not set" from "set to 0"
	Temperature *float64
}

// FromChatResult creates a Call from a ChatResult.
// Returns nil if result is nil.
func FromChatResult(result *providers.ChatResult, opts RecordOptions) *Call {
	if result == nil {
		return nil
	}

	call := &Call{
		ID:           uuid.New().String(),
		Timestamp:    time.Now().UTC(),
		LatencyMs:    int(result.ExecutionTime.Milliseconds()),
		PromptKey:    opts.PromptKey,
		PromptHash:   opts.PromptHash,
		Provider:     result.Provider,
		Model:        result.ModelUsed,
		Temperature:  opts.Temperature,
		InputTokens:  result.PromptTokens,
		OutputTokens: result.CompletionTokens,
		Response:     result.Content,
		Success:      result.Success,
	}
	if !result.Success {
		call.ErrorType = result.ErrorType
		call.Error = result.ErrorMessage
	}
	return call
}

type promptKeyCtx struct{}

// WithPromptKey tags calls made under ctx with the registered prompt key.
func WithPromptKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, promptKeyCtx{}, key)
}

// PromptKeyFrom returns the prompt key set by WithPromptKey, or "".
func PromptKeyFrom(ctx context.Context) string {
	key, _ := ctx.Value(promptKeyCtx{}).(string)
	return key
}
