package ghclient

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/spiffcs/ghlens/internal/constants"
	"github.com/spiffcs/ghlens/internal/log"
	"golang.org/x/time/rate"
)

// RateLimitState records the most recent rate limit headers seen.
type RateLimitState struct {
	mu        sync.RWMutex
	remaining int
	limit     int
	resetAt   time.Time
	seen      bool
}

// Update stores a header observation.
func (s *RateLimitState) Update(remaining, limit int, resetAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remaining = remaining
	s.limit = limit
	s.resetAt = resetAt
	s.seen = true
}

// Status returns the last observation. ok is false until a response
// carrying rate limit headers has been seen.
func (s *RateLimitState) Status() (remaining, limit int, resetAt time.Time, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.remaining, s.limit, s.resetAt, s.seen
}

// pacedTransport paces outgoing requests and records rate limit headers.
// It never short-circuits a response: a 403/429 reaches go-github and is
// surfaced as an ordinary FetchError.
type pacedTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
	state   *RateLimitState
}

func (t *pacedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(req.Context()); err != nil {
			return nil, err
		}
	}

	log.Debug("github request", "method", req.Method, "path", req.URL.Path)

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return resp, err
	}

	remaining, limit, resetAt := parseRateLimitHeaders(resp)
	if remaining >= 0 && limit > 0 {
		t.state.Update(remaining, limit, resetAt)
		if remaining <= constants.RateLimitLowWatermark {
			log.Warn("github rate limit low", "remaining", remaining, "resets_at", resetAt.Format(time.RFC3339))
		}
	}

	return resp, nil
}

// parseRateLimitHeaders extracts rate limit info from response headers.
// Missing values are reported as -1.
func parseRateLimitHeaders(resp *http.Response) (remaining, limit int, resetAt time.Time) {
	remaining = -1
	limit = -1

	if v := resp.Header.Get("X-RateLimit-Remaining"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			remaining = n
		}
	}
	if v := resp.Header.Get("X-RateLimit-Limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	if v := resp.Header.Get("X-RateLimit-Reset"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			resetAt = time.Unix(n, 0)
		}
	}

	return remaining, limit, resetAt
}
