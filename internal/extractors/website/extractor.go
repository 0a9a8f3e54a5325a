package website

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/custodia-labs/iptrace/internal/core/domain"
	"github.com/custodia-labs/iptrace/internal/core/ports/driven"
	"github.com/custodia-labs/iptrace/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Defaults applied when Config fields are zero.
const (
	DefaultTimeout      = 15 * time.Second
	DefaultMaxBodyBytes = 10 << 20
	DefaultUserAgent    = "iptrace"
)

// Config controls how pages are fetched.
type Config struct {
	// Timeout bounds the whole request, including reading the body.
	Timeout time.Duration

	// MaxBodyBytes caps how much of the body is read.
	MaxBodyBytes int64

	// UserAgent is sent with every request.
	UserAgent string
}

// Extractor fetches web pages.
type Extractor struct {
	client *http.Client
	cfg    Config
}

// New creates a website extractor with its own HTTP client.
func New(cfg Config) *Extractor {
	cfg = withDefaults(cfg)
	return NewWithClient(&http.Client{Timeout: cfg.Timeout}, cfg)
}

// NewWithClient creates a website extractor using client.
func NewWithClient(client *http.Client, cfg Config) *Extractor {
	return &Extractor{
		client: client,
		cfg:    withDefaults(cfg),
	}
}

func withDefaults(cfg Config) Config {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	return cfg
}

// Kind returns the source kind this extractor handles.
func (e *Extractor) Kind() domain.SourceKind {
	return domain.KindWebsite
}

// Extract fetches rawURL and returns the body unit followed by the
// headers unit. Any failure to obtain a 2xx response is unreachable.
func (e *Extractor) Extract(ctx context.Context, rawURL string) ([]domain.RawTextUnit, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSourceUnreachable, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, fmt.Errorf("%w: unsupported url %q", domain.ErrSourceUnreachable, rawURL)
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSourceUnreachable, err)
	}
	req.Header.Set("User-Agent", e.cfg.UserAgent)

	start := time.Now()
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSourceUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned %s", domain.ErrSourceUnreachable, u.Redacted(), resp.Status)
	}

	body, err := readBody(resp, e.cfg.MaxBodyBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %w", domain.ErrSourceUnreachable, err)
	}
	logger.Debug("website: %s %s, %d bytes in %s", u.Redacted(), resp.Status, len(body), time.Since(start))

	return []domain.RawTextUnit{
		{Label: domain.UnitBody, Text: body},
		{Label: domain.UnitHeaders, Text: formatHeaders(resp.Header)},
	}, nil
}

// readBody reads at most limit bytes and decodes them to UTF-8 using the
// charset declared by the response or sniffed from the content.
func readBody(resp *http.Response, limit int64) (string, error) {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return "", err
	}

	decoded, err := charset.NewReader(bytes.NewReader(raw), resp.Header.Get("Content-Type"))
	if err != nil {
		// Unknown charset label: keep the bytes as they are.
		return string(raw), nil
	}
	text, err := io.ReadAll(decoded)
	if err != nil {
		return string(raw), nil
	}
	return string(text), nil
}

// formatHeaders renders headers as "Name: v1, v2" lines sorted by name.
func formatHeaders(h http.Header) string {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	slices.Sort(names)

	var b strings.Builder
	for _, name := range names {
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(strings.Join(h[name], ", "))
		b.WriteByte('\n')
	}
	return b.String()
}
