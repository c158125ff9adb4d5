// Package analysis produces narrative assessments of a GitHub profile,
// either from fixed rules or from an external generative model.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spiffcs/ghlens/internal/constants"
	"github.com/spiffcs/ghlens/internal/model"
)

// ErrNotConfigured is reported when the model strategy has no credential.
var ErrNotConfigured = errors.New("analysis model is not configured: set ANTHROPIC_API_KEY")

// ParseError is reported when a model reply cannot be turned into a valid
// ProfileAnalysis.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse analysis response: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Analyzer produces an analysis for one profile.
type Analyzer interface {
	Analyze(ctx context.Context, profile model.Profile, repos []model.Repository) Response
}

// Response is the envelope shared by every strategy. Analysis is nil
// whenever Success is false.
type Response struct {
	Success  bool                   `json:"success"`
	Analysis *model.ProfileAnalysis `json:"analysis"`
	Error    string                 `json:"error,omitempty"`
}

func succeeded(a *model.ProfileAnalysis) Response {
	return Response{Success: true, Analysis: a}
}

// failed builds a failure response. A configuration error takes precedence,
// then the error's own message, then a generic fallback.
func failed(err error) Response {
	msg := constants.AnalysisFailed
	switch {
	case errors.Is(err, ErrNotConfigured):
		msg = ErrNotConfigured.Error()
	case err != nil && err.Error() != "":
		msg = err.Error()
	}
	return Response{Success: false, Error: msg}
}

type options struct {
	now func() time.Time
}

// Option configures an analyzer.
type Option func(*options)

// WithClock overrides the clock used for time-dependent rules and the
// analysis timestamp.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func newOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
