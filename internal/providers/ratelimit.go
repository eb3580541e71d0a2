package providers

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// RateLimiter is a requests-per-minute token bucket guarding a provider's
// quota. It is independent of the per-session cooldown applied upstream.
type RateLimiter struct {
	mu sync.Mutex

	requestsPerMinute int
	tokens            float64
	lastUpdate        time.Time
	now               func() time.Time

	totalConsumed int64
	totalRejected int64
	last429Time   time.Time
}

// RateLimiterStatus reports current limiter state.
type RateLimiterStatus struct {
	TokensAvailable int           `json:"tokens_available"`
	TokensLimit     int           `json:"tokens_limit"`
	TimeUntilToken  time.Duration `json:"time_until_token"`
	TotalConsumed   int64         `json:"total_consumed"`
	TotalRejected   int64         `json:"total_rejected"`
	Last429Time     time.Time     `json:"last_429_time,omitempty"`
}

// NewRateLimiter creates a full bucket of requestsPerMinute tokens.
func NewRateLimiter(requestsPerMinute int) *RateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	return &RateLimiter{
		requestsPerMinute: requestsPerMinute,
		tokens:            float64(requestsPerMinute),
		lastUpdate:        time.Now(),
		now:               time.Now,
	}
}

// Wait blocks until a token is available or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		ok, wait := r.Reserve()
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// TryConsume takes a token if one is available.
func (r *RateLimiter) TryConsume() bool {
	ok, _ := r.Reserve()
	return ok
}

// Reserve takes a token if one is available. Otherwise it reports how long
// until the next token.
func (r *RateLimiter) Reserve() (bool, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.refill()
	if r.tokens >= 1.0 {
		r.tokens--
		r.totalConsumed++
		return true, 0
	}
	r.totalRejected++
	return false, r.untilToken()
}

// Record429 drains the bucket when the upstream asked us to back off.
func (r *RateLimiter) Record429(retryAfter time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.last429Time = r.now()
	if retryAfter > 0 {
		r.tokens = 0
		r.lastUpdate = r.now()
	}
}

// Status returns current limiter status.
func (r *RateLimiter) Status() RateLimiterStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.refill()
	return RateLimiterStatus{
		TokensAvailable: int(r.tokens),
		TokensLimit:     r.requestsPerMinute,
		TimeUntilToken:  r.untilToken(),
		TotalConsumed:   r.totalConsumed,
		TotalRejected:   r.totalRejected,
		Last429Time:     r.last429Time,
	}
}

// refill adds tokens based on elapsed time. Must be called with lock held.
func (r *RateLimiter) refill() {
	now := r.now()
	elapsed := now.Sub(r.lastUpdate).Seconds()
	r.lastUpdate = now

	r.tokens += elapsed * r.perSecond()
	if max := float64(r.requestsPerMinute); r.tokens > max {
		r.tokens = max
	}
}

func (r *RateLimiter) untilToken() time.Duration {
	if r.tokens >= 1.0 {
		return 0
	}
	secs := (1.0 - r.tokens) / r.perSecond()
	return time.Duration(secs * float64(time.Second))
}

func (r *RateLimiter) perSecond() float64 {
	return float64(r.requestsPerMinute) / 60.0
}

// limitedClient applies a RateLimiter in front of another client.
type limitedClient struct {
	LLMClient
	limiter *RateLimiter
}

// WithRateLimit wraps client so calls fail fast with a *RateLimitError once
// the bucket is empty. Upstream 429s drain the bucket.
func WithRateLimit(client LLMClient, limiter *RateLimiter) LLMClient {
	if limiter == nil {
		return client
	}
	return &limitedClient{LLMClient: client, limiter: limiter}
}

func (c *limitedClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
	if ok, wait := c.limiter.Reserve(); !ok {
		err := &RateLimitError{
			Message:    fmt.Sprintf("%s quota exhausted", c.Name()),
			RetryAfter: wait,
		}
		return &ChatResult{
			Provider:     c.Name(),
			ErrorType:    ErrorTypeRateLimited,
			ErrorMessage: err.Error(),
		}, err
	}

	result, err := c.LLMClient.Chat(ctx, req)
	if rle, ok := IsRateLimitError(err); ok {
		c.limiter.Record429(rle.RetryAfter)
	}
	return result, err
}

// Limiter returns the bucket guarding this client.
func (c *limitedClient) Limiter() *RateLimiter {
	return c.limiter
}
