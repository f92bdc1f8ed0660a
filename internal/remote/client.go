// Package remote talks to the authoritative user service over HTTP.
//
// Client never returns errors to its callers. Every failure is logged and
// surfaces as a result with a nil User, which the coordinator treats as the
// failure sentinel.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"nathanbeddoewebdev/usersync/internal/domain"
	"nathanbeddoewebdev/usersync/internal/fetchcache"
	"nathanbeddoewebdev/usersync/internal/retry"
)

const defaultTimeout = 30 * time.Second

var errMissingUser = errors.New("remote: response has no user")

// Client implements the coordinator's remote client against the user
// service HTTP API.
type Client struct {
	baseURL string
	client  *http.Client
	cache   *fetchcache.Cache
	retry   retry.Config
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// WithCache enables the stale fallback for FetchUser.
func WithCache(cache *fetchcache.Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithRetry sets the retry policy applied to user fetches. Posts are never
// retried within a single call.
func WithRetry(cfg retry.Config) Option {
	return func(c *Client) {
		c.retry = cfg
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a Client for the service rooted at endpoint.
func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(endpoint, "/"),
		client:  &http.Client{Timeout: defaultTimeout},
		retry:   retry.DefaultConfig(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "remote")
	return c
}

// --- Wire types ---

type postActionsRequest struct {
	Actions []domain.Action `json:"actions"`
}

type userResponse struct {
	User *domain.User `json:"user"`
}

// --- Operations ---

// PostBatch sends actions in one request. A nil User in the result means
// the batch was not accepted.
func (c *Client) PostBatch(ctx context.Context, actions []domain.Action, userID, token string) domain.PostResult {
	if userID == "" || token == "" {
		c.logger.Warn("post skipped: missing credentials", "actions", len(actions))
		return domain.PostResult{}
	}

	var out userResponse
	err := c.doJSON(ctx, http.MethodPost, userPath(userID)+"/actions", token, postActionsRequest{Actions: actions}, &out)
	if err == nil && out.User == nil {
		err = errMissingUser
	}
	if err != nil {
		c.logger.Warn("post actions failed", "user_id", userID, "actions", len(actions), "error", err)
		return domain.PostResult{}
	}

	c.logger.Debug("actions posted", "user_id", userID, "actions", len(actions))
	return domain.PostResult{User: out.User}
}

// FetchUser retrieves the user. Successful responses are cached; when the
// request fails, a cached copy is returned with IsFresh false.
func (c *Client) FetchUser(ctx context.Context, userID, token string) domain.FetchResult {
	if userID == "" || token == "" {
		c.logger.Warn("fetch skipped: missing credentials")
		return domain.FetchResult{}
	}

	fetch := func(ctx context.Context) (domain.User, error) {
		cfg := c.retry
		cfg.OnRetry = func(attempt int, delay time.Duration, err error) {
			c.logger.Debug("retrying user fetch", "user_id", userID, "attempt", attempt, "delay", delay, "error", err)
		}
		return retry.DoValue(ctx, cfg, retry.IsTransient, func() (domain.User, error) {
			return c.getUser(ctx, userID, token)
		})
	}

	user, fresh, err := fetchcache.FetchOrFallback(c.cache, ctx, cacheKey(userID), fetch)
	if err != nil {
		c.logger.Warn("fetch user failed", "user_id", userID, "error", err)
		return domain.FetchResult{}
	}
	if !fresh {
		c.logger.Info("serving cached user", "user_id", userID)
	}
	return domain.FetchResult{User: &user, IsFresh: fresh}
}

// ForgetUser drops every cached user.
func (c *Client) ForgetUser() error {
	if err := c.cache.Clear(); err != nil {
		return fmt.Errorf("remote: clear user cache: %w", err)
	}
	return nil
}

// CachedUser returns the last fetched copy of the user, if any.
func (c *Client) CachedUser(userID string) (domain.User, time.Time, bool) {
	entry, ok := fetchcache.Lookup[domain.User](c.cache, cacheKey(userID))
	if !ok {
		return domain.User{}, time.Time{}, false
	}
	return entry.Data, entry.FetchedAt, true
}

func (c *Client) getUser(ctx context.Context, userID, token string) (domain.User, error) {
	var out userResponse
	if err := c.doJSON(ctx, http.MethodGet, userPath(userID), token, nil, &out); err != nil {
		return domain.User{}, err
	}
	if out.User == nil {
		return domain.User{}, errMissingUser
	}
	return *out.User, nil
}

// --- HTTP helpers ---

// doJSON sends a request with an optional JSON body and decodes a 2xx
// response into out. Non-2xx statuses are mapped to domain sentinels.
func (c *Client) doJSON(ctx context.Context, method, path, token string, body any, out any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("remote: failed to encode request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("remote: failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("remote: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return statusError(method, path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("remote: failed to decode response: %w", err)
	}
	return nil
}

// statusError maps an HTTP status code to a wrapped domain sentinel.
func statusError(method, path string, status int) error {
	var sentinel error
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		sentinel = domain.ErrUnauthorized
	case status == http.StatusNotFound:
		sentinel = domain.ErrNotFound
	case status == http.StatusTooManyRequests:
		sentinel = domain.ErrRateLimited
	case status >= 500:
		sentinel = domain.ErrUnavailable
	default:
		return fmt.Errorf("remote: %s %s: unexpected status %d", method, path, status)
	}
	return fmt.Errorf("remote: %s %s: %w (status %d)", method, path, sentinel, status)
}

func userPath(userID string) string {
	return "/user/" + url.PathEscape(userID)
}

func cacheKey(userID string) string {
	return "user_" + userID
}
