package ghclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	gh "github.com/google/go-github/v57/github"
)

// ErrNotFound is returned when the requested user does not exist.
var ErrNotFound = errors.New("user not found")

// Resource names used in FetchError messages.
const (
	ResourceUser         = "user"
	ResourceRepositories = "repositories"
)

// FetchError is any lookup failure other than not-found: network errors,
// rate limiting, server errors. Status carries the transport's status
// text when a response was received.
type FetchError struct {
	Resource   string
	StatusCode int
	Status     string
	Err        error
}

func (e *FetchError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("failed to fetch %s: %s", e.Resource, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("failed to fetch %s: %v", e.Resource, e.Err)
	}
	return fmt.Sprintf("failed to fetch %s", e.Resource)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsRateLimited reports whether the failure was an upstream rate limit.
func (e *FetchError) IsRateLimited() bool {
	var rle *gh.RateLimitError
	var abuse *gh.AbuseRateLimitError
	return errors.As(e.Err, &rle) || errors.As(e.Err, &abuse) || e.StatusCode == http.StatusTooManyRequests
}

// classify maps a go-github error onto ErrNotFound or *FetchError.
func classify(resource string, resp *gh.Response, err error) error {
	if err == nil {
		return nil
	}

	statusCode := 0
	if resp != nil && resp.Response != nil {
		statusCode = resp.StatusCode
	}
	var er *gh.ErrorResponse
	if statusCode == 0 && errors.As(err, &er) && er.Response != nil {
		statusCode = er.Response.StatusCode
	}

	if statusCode == http.StatusNotFound {
		return ErrNotFound
	}

	fe := &FetchError{
		Resource:   resource,
		StatusCode: statusCode,
		Err:        err,
	}
	if statusCode != 0 {
		fe.Status = http.StatusText(statusCode)
	}
	return fe
}

// retryable reports whether err may be retried. Not-found answers and
// context cancellation are final.
func retryable(err error) bool {
	if err == nil || errors.Is(err, ErrNotFound) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var fe *FetchError
	return errors.As(err, &fe)
}
