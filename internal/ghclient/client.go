package ghclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v57/github"
	"github.com/spiffcs/ghlens/internal/constants"
	"github.com/spiffcs/ghlens/internal/log"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// Client wraps the GitHub REST client.
type Client struct {
	client     *gh.Client
	limits     *RateLimitState
	retryDelay time.Duration
}

type clientConfig struct {
	baseURL           string
	requestsPerSecond float64
	retryDelay        time.Duration
	transport         http.RoundTripper
}

// Option configures a Client.
type Option func(*clientConfig)

// WithBaseURL points the client at a GitHub Enterprise or test server.
func WithBaseURL(u string) Option {
	return func(c *clientConfig) {
		c.baseURL = u
	}
}

// WithRequestsPerSecond sets client-side pacing. Zero or less disables it.
func WithRequestsPerSecond(rps float64) Option {
	return func(c *clientConfig) {
		c.requestsPerSecond = rps
	}
}

// WithRetryDelay sets the pause before the single retry.
func WithRetryDelay(d time.Duration) Option {
	return func(c *clientConfig) {
		c.retryDelay = d
	}
}

// WithTransport replaces the underlying round tripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *clientConfig) {
		c.transport = rt
	}
}

// NewClient creates a GitHub client. The token is optional: public profile
// data is readable unauthenticated, at a lower rate limit.
func NewClient(ctx context.Context, token string, opts ...Option) (*Client, error) {
	cfg := clientConfig{
		requestsPerSecond: constants.DefaultRequestsPerSecond,
		retryDelay:        time.Second,
		transport:         http.DefaultTransport,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	base := cfg.transport
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		base = &oauth2.Transport{Source: ts, Base: base}
	} else {
		log.Debug("no GitHub token set, using unauthenticated requests")
	}

	var limiter *rate.Limiter
	if cfg.requestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.requestsPerSecond), 1)
	}

	state := &RateLimitState{}
	hc := &http.Client{
		Transport: &pacedTransport{
			base:    base,
			limiter: limiter,
			state:   state,
		},
	}

	client := gh.NewClient(hc)
	if cfg.baseURL != "" {
		u := cfg.baseURL
		if !strings.HasSuffix(u, "/") {
			u += "/"
		}
		parsed, err := url.Parse(u)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub base URL %q: %w", cfg.baseURL, err)
		}
		client.BaseURL = parsed
	}

	return &Client{
		client:     client,
		limits:     state,
		retryDelay: cfg.retryDelay,
	}, nil
}

// RateLimits fetches the current GitHub API rate limit status.
func (c *Client) RateLimits(ctx context.Context) (*gh.RateLimits, error) {
	limits, _, err := c.client.RateLimit.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get rate limits: %w", err)
	}
	return limits, nil
}

// LastRateLimit returns the rate limit headers seen on the most recent
// response.
func (c *Client) LastRateLimit() (remaining, limit int, resetAt time.Time, ok bool) {
	return c.limits.Status()
}

// withRetry runs op, retrying once when the first failure is retryable.
func (c *Client) withRetry(ctx context.Context, what string, op func() error) error {
	err := op()
	if !retryable(err) {
		return err
	}

	log.Debug("retrying github request", "request", what, "error", err)

	if c.retryDelay > 0 {
		timer := time.NewTimer(c.retryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
	}

	return op()
}
