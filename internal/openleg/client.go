// Package openleg is the client for the upstream legislative API.
//
// Every authenticated request carries the API key as a query parameter. The
// API signals errors through a JSON envelope whose success field can be false
// even on an HTTP 200; that convention is surfaced here as ErrAPIFailure.
//
// Requests are paced with a rate limiter sized from the configured
// inter-request delay, and wrapped in a circuit breaker so a dead upstream
// fails fast instead of burning a sync run's time budget. Bill fetches are
// not retried; callers record the failure and move to the next bill.
package openleg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/mreyes/legisync/internal/config"
)

const (
	// maxErrorBodySize caps how much of a failed response body is read for
	// error reporting.
	maxErrorBodySize = 64 * 1024

	// breakerFailureThreshold opens the breaker after this many consecutive
	// upstream failures.
	breakerFailureThreshold = 5

	// breakerOpenInterval is how long the breaker stays open before probing.
	breakerOpenInterval = 60 * time.Second

	timeFormat = "2006-01-02T15:04:05"
)

// ErrAPIFailure marks an envelope-level failure (success=false).
var ErrAPIFailure = errors.New("upstream api failure")

// ErrUnavailable marks transport-level failures (connection errors,
// non-2xx statuses without a parseable envelope, open breaker).
var ErrUnavailable = errors.New("upstream api unavailable")

// Client talks to the legislative API.
type Client struct {
	baseURL string
	key     string
	client  *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[[]byte]
}

// NewClient creates a Client from the API configuration.
func NewClient(cfg config.APIConfig) *Client {
	limit := rate.Inf
	if cfg.RequestDelay > 0 {
		limit = rate.Every(cfg.RequestDelay)
	}

	return &Client{
		baseURL: cfg.BaseURL,
		key:     cfg.Key,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(limit, 1),
		breaker: gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
			Name:     "openleg",
			Interval: 0,
			Timeout:  breakerOpenInterval,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= breakerFailureThreshold
			},
		}),
	}
}

// GetBill fetches the full detail record for one bill.
func (c *Client) GetBill(ctx context.Context, session int, printNo string) (*Bill, error) {
	path := fmt.Sprintf("/api/3/bills/%d/%s", session, url.PathEscape(printNo))

	env, err := c.get(ctx, path, url.Values{"view": {"default"}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bill %s-%d: %w", printNo, session, err)
	}

	var bill Bill
	if err := json.Unmarshal(env.Result, &bill); err != nil {
		return nil, fmt.Errorf("failed to parse bill %s-%d: %w", printNo, session, err)
	}

	return &bill, nil
}

// ListBills fetches one page of the session bill listing. Returns the page
// items and the total bill count for the session.
func (c *Client) ListBills(ctx context.Context, session, limit, offset int) ([]Bill, int, error) {
	path := fmt.Sprintf("/api/3/bills/%d", session)
	q := url.Values{
		"limit":  {strconv.Itoa(limit)},
		"offset": {strconv.Itoa(offset)},
	}

	env, err := c.get(ctx, path, q)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bills for session %d: %w", session, err)
	}

	var result listResult
	if err := json.Unmarshal(env.Result, &result); err != nil {
		return nil, 0, fmt.Errorf("failed to parse bill listing for session %d: %w", session, err)
	}

	return result.Items, env.Total, nil
}

// GetBillUpdates fetches bill update events within [from, to). The window is
// not session-scoped; one bill can appear multiple times.
func (c *Client) GetBillUpdates(ctx context.Context, from, to time.Time) ([]UpdateToken, error) {
	path := fmt.Sprintf("/api/3/bills/updates/%s/%s", from.Format(timeFormat), to.Format(timeFormat))

	env, err := c.get(ctx, path, url.Values{"detail": {"true"}, "limit": {"1000"}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bill updates: %w", err)
	}

	var result updateResult
	if err := json.Unmarshal(env.Result, &result); err != nil {
		return nil, fmt.Errorf("failed to parse bill updates: %w", err)
	}

	return result.Items, nil
}

// SearchBills runs a term search and returns the total hit count plus the
// first page of matches. Used by diagnostics only.
func (c *Client) SearchBills(ctx context.Context, term string, limit int) (int, error) {
	q := url.Values{
		"term":  {term},
		"limit": {strconv.Itoa(limit)},
	}

	env, err := c.get(ctx, "/api/3/bills/search", q)
	if err != nil {
		return 0, fmt.Errorf("failed to search bills for %q: %w", term, err)
	}

	return env.Total, nil
}

// Ping checks bare reachability of the upstream host without an API key.
// Any HTTP response, including an auth rejection, counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/3/bills", nil)
	if err != nil {
		return fmt.Errorf("failed to create ping request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBodySize))

	return nil
}

// get performs one rate-limited, breaker-guarded GET and returns the decoded
// envelope. A success=false envelope is returned as ErrAPIFailure carrying
// the upstream message, even when the HTTP status is 200.
func (c *Client) get(ctx context.Context, path string, q url.Values) (*envelope, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	if q == nil {
		q = url.Values{}
	}
	q.Set("key", c.key)
	fullURL := c.baseURL + path + "?" + q.Encode()

	body, err := c.breaker.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
		if err != nil {
			return nil, fmt.Errorf("%w: reading response: %v", ErrUnavailable, err)
		}

		// Non-200 statuses still carry an envelope with a message for
		// well-formed API errors (missing bill, bad key). Let the envelope
		// check below produce the richer error when it can.
		if resp.StatusCode != http.StatusOK && !looksLikeJSON(data) {
			return nil, fmt.Errorf("%w: unexpected status %d: %s",
				ErrUnavailable, resp.StatusCode, truncate(data, maxErrorBodySize))
		}

		return data, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", ErrUnavailable, err)
	}

	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = "no message provided"
		}
		return nil, fmt.Errorf("%w: %s", ErrAPIFailure, msg)
	}
	if len(env.Result) == 0 {
		return nil, fmt.Errorf("%w: missing result payload", ErrAPIFailure)
	}

	return &env, nil
}

func looksLikeJSON(data []byte) bool {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		case '{', '[':
			return true
		default:
			return false
		}
	}
	return false
}

func truncate(data []byte, n int) string {
	if len(data) > n {
		return string(data[:n]) + "... (truncated)"
	}
	return string(data)
}
