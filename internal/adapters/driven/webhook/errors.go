package webhook

import (
	"fmt"
	"time"
)

// RateLimitError is returned when the endpoint answers 429.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("webhook: rate limited, retry after %s", e.RetryAfter)
}

// StatusError is returned for any other non-2xx response.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("webhook: status %d", e.StatusCode)
	}
	return fmt.Sprintf("webhook: status %d: %s", e.StatusCode, e.Message)
}
