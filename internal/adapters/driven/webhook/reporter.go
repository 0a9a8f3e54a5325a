package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/custodia-labs/iptrace/internal/core/domain"
	"github.com/custodia-labs/iptrace/internal/core/ports/driven"
	"github.com/custodia-labs/iptrace/internal/logger"
)

// Ensure Reporter implements the interface.
var _ driven.Reporter = (*Reporter)(nil)

// DefaultTimeout bounds each post.
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps how much of an error response is kept.
const maxErrorBody = 512

// payload is the JSON body of one post.
type payload struct {
	Content  string `json:"content"`
	Username string `json:"username,omitempty"`
}

// Reporter posts result sets to a webhook endpoint.
type Reporter struct {
	client   *http.Client
	limiter  *RateLimiter
	username string
}

// New creates a reporter with its own HTTP client and rate limiter.
func New(username string) *Reporter {
	return NewWithClient(&http.Client{Timeout: DefaultTimeout}, NewRateLimiter(), username)
}

// NewWithClient creates a reporter with a custom client and limiter.
func NewWithClient(client *http.Client, limiter *RateLimiter, username string) *Reporter {
	return &Reporter{
		client:   client,
		limiter:  limiter,
		username: username,
	}
}

// Report posts the composed report for result to endpoint. Long reports
// are sent as several posts in order; the first failure stops delivery.
func (r *Reporter) Report(ctx context.Context, endpoint string, result *domain.ResultSet) error {
	if endpoint == "" {
		return fmt.Errorf("%w: empty webhook url", domain.ErrInvalidInput)
	}
	if result == nil {
		return fmt.Errorf("%w: nil result", domain.ErrInvalidInput)
	}

	messages := Split(Compose(result), MaxContentLength)
	for i, content := range messages {
		if err := r.limiter.Wait(ctx); err != nil {
			return err
		}
		if err := r.post(ctx, endpoint, content); err != nil {
			return fmt.Errorf("post %d of %d: %w", i+1, len(messages), err)
		}
	}

	logger.Info("webhook: reported %d addresses for %s in %d messages",
		result.Len(), result.Source.Label(), len(messages))
	return nil
}

func (r *Reporter) post(ctx context.Context, endpoint, content string) error {
	body, err := json.Marshal(payload{Content: content, Username: r.username})
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		// The webhook URL embeds its secret token; keep it out of errors.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			return fmt.Errorf("webhook request failed: %w", urlErr.Err)
		}
		return err
	}
	defer resp.Body.Close()

	r.limiter.UpdateFromResponse(resp)
	if err := r.limiter.CheckRateLimit(resp); err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
