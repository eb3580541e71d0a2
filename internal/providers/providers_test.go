package providers

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestMockClient(t *testing.T) {
	t.Run("returns configured text", func(t *testing.T) {
		mock := NewMockClient()
		mock.ResponseText = "hello"

		result, err := mock.Chat(context.Background(), &ChatRequest{
			Messages: []Message{{Role: "user", Content: "say hello"}},
		})
		if err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		if !result.Success || result.Content != "hello" {
			t.Errorf("result = %+v", result)
		}
		if mock.RequestCount() != 1 {
			t.Errorf("RequestCount = %d, want 1", mock.RequestCount())
		}
		if got := mock.LastRequest(); got == nil || got.Messages[0].Content != "say hello" {
			t.Errorf("LastRequest = %+v", got)
		}
	})

	t.Run("should fail", func(t *testing.T) {
		mock := NewMockClient()
		mock.ShouldFail = true

		result, err := mock.Chat(context.Background(), &ChatRequest{})
		if err == nil {
			t.Fatal("expected error")
		}
		if result.Success || result.ErrorType != ErrorTypeHTTP {
			t.Errorf("result = %+v", result)
		}
	})

	t.Run("fail after", func(t *testing.T) {
		mock := NewMockClient()
		mock.FailAfter = 2

		for i := 0; i < 2; i++ {
			if _, err := mock.Chat(context.Background(), &ChatRequest{}); err != nil {
				t.Fatalf("request %d failed: %v", i+1, err)
			}
		}
		if _, err := mock.Chat(context.Background(), &ChatRequest{}); err == nil {
			t.Error("third request should fail")
		}
	})

	t.Run("rate limit error", func(t *testing.T) {
		mock := NewMockClient()
		mock.Err = &RateLimitError{Message: "slow down", RetryAfter: time.Second}

		result, err := mock.Chat(context.Background(), &ChatRequest{})
		if _, ok := IsRateLimitError(err); !ok {
			t.Fatalf("expected RateLimitError, got %v", err)
		}
		if result.ErrorType != ErrorTypeRateLimited {
			t.Errorf("ErrorType = %q", result.ErrorType)
		}
	})

	t.Run("respects cancellation", func(t *testing.T) {
		mock := NewMockClient()
		mock.Latency = time.Second

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := mock.Chat(ctx, &ChatRequest{})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("structured output", func(t *testing.T) {
		mock := NewMockClient()
		mock.ResponseJSON = json.RawMessage(`{"total": 21}`)

		result, err := mock.Chat(context.Background(), &ChatRequest{
			ResponseFormat: &ResponseFormat{
				Type:       "json_schema",
				JSONSchema: json.RawMessage(`{"type":"object","required":["total"]}`),
			},
		})
		if err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		if string(result.ParsedJSON) != `{"total":21}` {
			t.Errorf("ParsedJSON = %s", result.ParsedJSON)
		}
	})

	t.Run("structured output failing schema", func(t *testing.T) {
		mock := NewMockClient()
		mock.ResponseJSON = json.RawMessage(`{"nope": true}`)

		result, err := mock.Chat(context.Background(), &ChatRequest{
			ResponseFormat: &ResponseFormat{
				Type:       "json_schema",
				JSONSchema: json.RawMessage(`{"type":"object","required":["total"]}`),
			},
		})
		if err == nil {
			t.Fatal("expected schema error")
		}
		if result.ErrorType != ErrorTypeJSONParse {
			t.Errorf("ErrorType = %q, want %q", result.ErrorType, ErrorTypeJSONParse)
		}
	})
}

func TestRateLimiter(t *testing.T) {
	t.Run("allows burst up to limit", func(t *testing.T) {
		limiter := NewRateLimiter(5)
		for i := 0; i < 5; i++ {
			if !limiter.TryConsume() {
				t.Fatalf("request %d rejected", i+1)
			}
		}
	})

	t.Run("reserve reports wait when empty", func(t *testing.T) {
		limiter := NewRateLimiter(60)
		now := time.Now()
		limiter.now = func() time.Time { return now }
		limiter.lastUpdate = now

		for limiter.TryConsume() {
		}
		ok, wait := limiter.Reserve()
		if ok {
			t.Fatal("Reserve() succeeded on empty bucket")
		}
		if wait <= 0 || wait > time.Second {
			t.Errorf("wait = %v, want (0, 1s]", wait)
		}

		now = now.Add(time.Second)
		if ok, _ := limiter.Reserve(); !ok {
			t.Error("token should refill after one second at 60 rpm")
		}
	})

	t.Run("record 429 drains bucket", func(t *testing.T) {
		limiter := NewRateLimiter(60)
		limiter.Record429(time.Second)

		status := limiter.Status()
		if status.Last429Time.IsZero() {
			t.Error("Last429Time should be set")
		}
		if status.TokensAvailable != 0 {
			t.Errorf("TokensAvailable = %d, want 0", status.TokensAvailable)
		}
	})

	t.Run("respects cancellation", func(t *testing.T) {
		limiter := NewRateLimiter(1)
		limiter.TryConsume()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if err := limiter.Wait(ctx); err != context.Canceled {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("concurrent requests", func(t *testing.T) {
		limiter := NewRateLimiter(6000)

		var wg sync.WaitGroup
		var failures atomic.Int32
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := limiter.Wait(context.Background()); err != nil {
					failures.Add(1)
				}
			}()
		}
		wg.Wait()

		if failures.Load() > 0 {
			t.Errorf("had %d failures", failures.Load())
		}
		if got := limiter.Status().TotalConsumed; got != 10 {
			t.Errorf("TotalConsumed = %d, want 10", got)
		}
	})
}

func TestWithRateLimit(t *testing.T) {
	t.Run("rejects once exhausted", func(t *testing.T) {
		mock := NewMockClient()
		client := WithRateLimit(mock, NewRateLimiter(1))

		if _, err := client.Chat(context.Background(), &ChatRequest{}); err != nil {
			t.Fatalf("first call error = %v", err)
		}
		result, err := client.Chat(context.Background(), &ChatRequest{})
		rle, ok := IsRateLimitError(err)
		if !ok {
			t.Fatalf("expected RateLimitError, got %v", err)
		}
		if rle.RetryAfter <= 0 {
			t.Errorf("RetryAfter = %v, want > 0", rle.RetryAfter)
		}
		if result.ErrorType != ErrorTypeRateLimited {
			t.Errorf("ErrorType = %q", result.ErrorType)
		}
		if mock.RequestCount() != 1 {
			t.Errorf("upstream called %d times, want 1", mock.RequestCount())
		}
	})

	t.Run("upstream 429 drains bucket", func(t *testing.T) {
		mock := NewMockClient()
		mock.Err = &RateLimitError{Message: "429", RetryAfter: time.Minute}
		limiter := NewRateLimiter(100)
		client := WithRateLimit(mock, limiter)

		client.Chat(context.Background(), &ChatRequest{})
		if limiter.Status().TokensAvailable != 0 {
			t.Error("bucket should be drained after upstream 429")
		}
	})

	t.Run("nil limiter is passthrough", func(t *testing.T) {
		mock := NewMockClient()
		if WithRateLimit(mock, nil) != LLMClient(mock) {
			t.Error("expected the original client")
		}
	})
}

func TestParseRetryAfter(t *testing.T) {
	if got := parseRetryAfter("3"); got != 3*time.Second {
		t.Errorf("parseRetryAfter(3) = %v", got)
	}
	if got := parseRetryAfter("soon"); got != 0 {
		t.Errorf("parseRetryAfter(soon) = %v", got)
	}
	future := time.Now().Add(time.Hour).UTC().Format(time.RFC1123)
	if got := parseRetryAfter(future); got <= 0 {
		t.Errorf("parseRetryAfter(date) = %v", got)
	}
}
