package whoop

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/avast/retry-go/v4"
)

const (
	// DefaultBaseURL is the WHOOP developer API root.
	DefaultBaseURL = "https://api.prod.whoop.com/developer"

	// pageLimit is the maximum records-per-page the API accepts.
	pageLimit = 25

	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 4
	defaultRateLimit  = 100 // requests per minute
	retryDelayBase    = 2 * time.Second
)

// Sentinel errors callers branch on. ErrUnauthorized is terminal for a sync
// run; ErrRateLimited is retried up to the attempt cap before surfacing.
var (
	ErrUnauthorized = errors.New("whoop: unauthorized (token expired or invalid)")
	ErrRateLimited  = errors.New("whoop: rate limited")
)

// ClientConfig holds settings for the WHOOP API client.
type ClientConfig struct {
	AccessToken       string
	BaseURL           string
	Timeout           time.Duration
	MaxRetries        uint
	RetryDelay        time.Duration
	RequestsPerMinute int
	HTTPClient        *http.Client
	Logger            *slog.Logger
}

// Client is a paginated, rate-limited WHOOP API client.
type Client struct {
	baseURL    string
	token      string
	maxRetries uint
	retryDelay time.Duration
	http       *http.Client
	limiter    *RateLimiter
	logger     *slog.Logger
}

// NewClient creates a WHOOP API client. Zero-valued config fields fall back
// to defaults.
func NewClient(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = retryDelayBase
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		token:      cfg.AccessToken,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		http:       cfg.HTTPClient,
		limiter:    NewRateLimiter(cfg.RequestsPerMinute),
		logger:     cfg.Logger,
	}
}

// pageResponse is the API's pagination envelope.
type pageResponse struct {
	Records   []Record `json:"records"`
	NextToken string   `json:"next_token"`
}

// FetchPage retrieves one page of records for a data type. An empty nextToken
// requests the first page; the returned token is empty on the last page.
// Rate-limit (429) and server (5xx) responses are retried with exponential
// backoff up to the configured attempt cap; 401 fails immediately.
func (c *Client) FetchPage(ctx context.Context, t DataType, start, end time.Time, nextToken string) ([]Record, string, error) {
	var page pageResponse

	err := retry.Do(
		func() error {
			if err := c.limiter.Wait(ctx); err != nil {
				return retry.Unrecoverable(err)
			}

			p, err := c.fetchPageOnce(ctx, t, start, end, nextToken)
			if err != nil {
				if errors.Is(err, ErrUnauthorized) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			page = p
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.maxRetries),
		retry.Delay(c.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Warn("whoop request retry", "type", t, "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		return nil, "", err
	}

	return page.Records, page.NextToken, nil
}

func (c *Client) fetchPageOnce(ctx context.Context, t DataType, start, end time.Time, nextToken string) (pageResponse, error) {
	u, err := url.Parse(c.baseURL + t.endpointPath())
	if err != nil {
		return pageResponse{}, fmt.Errorf("bad endpoint URL: %w", err)
	}

	q := u.Query()
	q.Set("limit", strconv.Itoa(pageLimit))
	if !start.IsZero() {
		q.Set("start", start.UTC().Format(time.RFC3339))
	}
	if !end.IsZero() {
		q.Set("end", end.UTC().Format(time.RFC3339))
	}
	if nextToken != "" {
		q.Set("nextToken", nextToken)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return pageResponse{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return pageResponse{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return pageResponse{}, ErrUnauthorized
	case resp.StatusCode == http.StatusTooManyRequests:
		c.limiter.Record429()
		return pageResponse{}, ErrRateLimited
	case resp.StatusCode >= 500:
		return pageResponse{}, fmt.Errorf("whoop: server error %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		// Client errors other than 401/429 will not improve on retry.
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return pageResponse{}, retry.Unrecoverable(fmt.Errorf("whoop: unexpected status %d: %s", resp.StatusCode, body))
	}

	var page pageResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return pageResponse{}, fmt.Errorf("failed to decode response: %w", err)
	}
	return page, nil
}
