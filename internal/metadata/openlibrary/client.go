// Package openlibrary is a rate-limited client for the Open Library books
// API. The item service resolves ISBNs through it before opening any
// transaction, so a miss never leaves partial writes behind.
package openlibrary

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/shelflistapp/shelflist-server/internal/ratelimit"
)

const (
	// Open Library asks for no more than a few requests per second.
	defaultRPS   = 2.0
	defaultBurst = 5

	defaultBaseURL = "https://openlibrary.org"
	defaultTimeout = 10 * time.Second

	// All requests share one limiter key; there is a single upstream host.
	limiterKey = "openlibrary"
)

// ISBN format after stripping separators: ISBN-10 (last digit may be X) or ISBN-13.
var isbnRegex = regexp.MustCompile(`^(?:[0-9]{9}[0-9Xx]|[0-9]{13})$`)

// NormalizeISBN strips hyphens and spaces and upper-cases a trailing X.
func NormalizeISBN(isbn string) string {
	cleaned := strings.Map(func(r rune) rune {
		if r == '-' || r == ' ' {
			return -1
		}
		return r
	}, isbn)
	return strings.ToUpper(cleaned)
}

// ValidateISBN checks if an ISBN has valid format after normalization.
func ValidateISBN(isbn string) bool {
	return isbnRegex.MatchString(NormalizeISBN(isbn))
}

// Client is a rate-limited Open Library API client.
type Client struct {
	http    *http.Client
	limiter *ratelimit.KeyedRateLimiter
	logger  *slog.Logger
	baseURL string
}

// Config holds client construction options.
type Config struct {
	// BaseURL overrides the Open Library endpoint, mainly for tests.
	BaseURL string
	// Timeout bounds a single lookup. Zero means the default.
	Timeout time.Duration
}

// New creates a new Open Library client.
func New(cfg Config, logger *slog.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		http: &http.Client{
			Timeout: timeout,
		},
		limiter: ratelimit.New(defaultRPS, defaultBurst),
		logger:  logger,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// Close releases resources held by the client.
func (c *Client) Close() {
	c.limiter.Stop()
}

// GetBookByISBN looks up one book. Returns ErrNotFound when Open Library
// has no record for the ISBN and ErrInvalidISBN for malformed input.
func (c *Client) GetBookByISBN(ctx context.Context, isbn string) (*Book, error) {
	normalized := NormalizeISBN(isbn)
	if !isbnRegex.MatchString(normalized) {
		return nil, wrapError("getBook", isbn, ErrInvalidISBN)
	}

	bibKey := "ISBN:" + normalized

	query := url.Values{}
	query.Set("bibkeys", bibKey)
	query.Set("format", "json")
	query.Set("jscmd", "details")

	body, err := c.doRequest(ctx, "/api/books?"+query.Encode())
	if err != nil {
		return nil, wrapError("getBook", normalized, err)
	}

	// The response is an object keyed by bib key; a missing key means the
	// ISBN is unknown upstream.
	var resp map[string]rawEntry
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, wrapError("getBook", normalized, fmt.Errorf("parse response: %w", err))
	}

	entry, ok := resp[bibKey]
	if !ok {
		return nil, wrapError("getBook", normalized, ErrNotFound)
	}

	return entry.toBook(), nil
}

// doRequest executes a GET with rate limiting.
func (c *Client) doRequest(ctx context.Context, path string) ([]byte, error) {
	if err := c.limiter.Wait(ctx, limiterKey); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Shelflist/1.0")

	if c.logger != nil {
		c.logger.Debug("openlibrary request", "path", path)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case resp.StatusCode >= 500:
		return nil, ErrServer
	default:
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
}
