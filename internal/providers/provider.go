package providers

import (
	"context"
	"encoding/json"
	"time"
)

// LLMClient is the interface every text-generation backend implements.
type LLMClient interface {
	// Chat sends a single chat completion request. Implementations make
	// exactly one attempt; callers decide what to do on failure.
	Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error)

	// Name returns the client identifier (e.g., "openai").
	Name() string
}

// Message is one chat message.
type Message struct {
	Role    string `json:"role"` // "system", "user", "assistant"
	Content string `json:"content"`
}

// ResponseFormat requests structured JSON output.
type ResponseFormat struct {
	Type       string          `json:"type"` // "json_schema" or "json_object"
	JSONSchema json.RawMessage `json:"json_schema,omitempty"`
}

// ChatRequest is a request to an LLM.
type ChatRequest struct {
	Messages []Message `json:"messages"`

	// Model selection (uses client default if empty)
	Model string `json:"model,omitempty"`

	Temperature float64 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`

	// Structured output. When set, the result content is parsed and
	// validated against JSONSchema.
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`

	RequestID string `json:"-"`
}

// ChatResult is the complete response from an LLM call.
type ChatResult struct {
	Content    string          `json:"content"`
	ParsedJSON json.RawMessage `json:"parsed_json,omitempty"`

	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`

	ExecutionTime time.Duration `json:"execution_time"`

	Provider  string `json:"provider"`
	ModelUsed string `json:"model_used"`
	RequestID string `json:"request_id"`

	Success      bool   `json:"success"`
	ErrorType    string `json:"error_type,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// Error types reported in ChatResult.ErrorType.
const (
	ErrorTypeHTTP        = "http_error"
	ErrorTypeRateLimited = "rate_limited"
	ErrorTypeEmpty       = "empty_response"
	ErrorTypeJSONParse   = "json_parse"
	ErrorTypeCancelled   = "context_cancelled"
)

// fail records err on result and returns both, for one-line error exits.
func (r *ChatResult) fail(errType string, err error, start time.Time) (*ChatResult, error) {
	r.Success = false
	r.ErrorType = errType
	r.ErrorMessage = err.Error()
	r.ExecutionTime = time.Since(start)
	return r, err
}

// applyResponseFormat parses and validates structured output in place.
func applyResponseFormat(req *ChatRequest, result *ChatResult) error {
	if req.ResponseFormat == nil || result.Content == "" {
		return nil
	}
	parsed, err := ParseStructuredJSON(result.Content)
	if err != nil {
		return err
	}
	if err := ValidateStructuredJSON(req.ResponseFormat.JSONSchema, parsed); err != nil {
		return err
	}
	result.ParsedJSON = parsed
	return nil
}
