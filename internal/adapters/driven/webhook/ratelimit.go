package webhook

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// ProactiveInterval spaces posts so a burst of five drains in two
	// seconds, Discord's per-webhook allowance.
	ProactiveInterval = 400 * time.Millisecond

	// ProactiveBurst is the number of posts allowed back to back.
	ProactiveBurst = 5

	// HeaderRateRemaining is the remaining requests header.
	HeaderRateRemaining = "X-RateLimit-Remaining"

	// HeaderRateResetAfter is the seconds until the bucket resets.
	HeaderRateResetAfter = "X-RateLimit-Reset-After"

	// HeaderRetryAfter is the retry-after header (seconds).
	HeaderRetryAfter = "Retry-After"
)

// RateLimiter combines proactive throttling with the bucket state the
// endpoint reports in its response headers.
type RateLimiter struct {
	mu        sync.Mutex
	remaining int
	resetTime time.Time
	bucket    *rate.Limiter
}

// NewRateLimiter creates a rate limiter with the default pacing.
func NewRateLimiter() *RateLimiter {
	return NewRateLimiterWith(rate.Every(ProactiveInterval), ProactiveBurst)
}

// NewRateLimiterWith creates a rate limiter with custom pacing.
func NewRateLimiterWith(limit rate.Limit, burst int) *RateLimiter {
	return &RateLimiter{
		remaining: -1, // unknown until the first response
		bucket:    rate.NewLimiter(limit, burst),
	}
}

// Wait blocks until it's safe to post.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.bucket.Wait(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	remaining := r.remaining
	resetTime := r.resetTime
	r.mu.Unlock()

	if remaining == 0 && time.Now().Before(resetTime) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Until(resetTime)):
		}
	}
	return nil
}

// UpdateFromResponse records the bucket state from response headers.
func (r *RateLimiter) UpdateFromResponse(resp *http.Response) {
	if resp == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if remaining := resp.Header.Get(HeaderRateRemaining); remaining != "" {
		if val, err := strconv.Atoi(remaining); err == nil {
			r.remaining = val
		}
	}

	if reset := resp.Header.Get(HeaderRateResetAfter); reset != "" {
		if secs, err := strconv.ParseFloat(reset, 64); err == nil {
			r.resetTime = time.Now().Add(time.Duration(secs * float64(time.Second)))
		}
	}
}

// CheckRateLimit returns a RateLimitError for a 429 response.
func (r *RateLimiter) CheckRateLimit(resp *http.Response) error {
	if resp == nil || resp.StatusCode != http.StatusTooManyRequests {
		return nil
	}

	r.UpdateFromResponse(resp)

	var retryAfter time.Duration
	if v := resp.Header.Get(HeaderRetryAfter); v != "" {
		if secs, err := strconv.ParseFloat(v, 64); err == nil {
			retryAfter = time.Duration(secs * float64(time.Second))
		}
	}
	return &RateLimitError{RetryAfter: retryAfter}
}

// Remaining returns the last reported remaining posts, or -1 if unknown.
func (r *RateLimiter) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remaining
}
