package analysis

import (
	"context"
	"errors"
	"sync"

	"github.com/spiffcs/ghlens/internal/model"
)

// ErrSessionClosed is returned once a Session has been closed.
var ErrSessionClosed = errors.New("analysis session closed")

// Session caches one response per login for the lifetime of a view.
// Analysis only runs on request; Retry is the only way to recompute.
type Session struct {
	analyzer Analyzer

	mu     sync.Mutex
	cache  map[string]Response
	gen    map[string]uint64
	closed bool
}

// NewSession creates a Session over analyzer.
func NewSession(analyzer Analyzer) *Session {
	return &Session{
		analyzer: analyzer,
		cache:    make(map[string]Response),
		gen:      make(map[string]uint64),
	}
}

// Analyze returns the cached response for the profile, computing it on
// first request.
func (s *Session) Analyze(ctx context.Context, profile model.Profile, repos []model.Repository) (Response, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Response{}, ErrSessionClosed
	}
	if resp, ok := s.cache[profile.Login]; ok {
		s.mu.Unlock()
		return resp, nil
	}
	s.mu.Unlock()

	return s.compute(ctx, profile, repos)
}

// Retry discards any cached response and recomputes.
func (s *Session) Retry(ctx context.Context, profile model.Profile, repos []model.Repository) (Response, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Response{}, ErrSessionClosed
	}
	delete(s.cache, profile.Login)
	s.mu.Unlock()

	return s.compute(ctx, profile, repos)
}

// Cached returns the cached response for login, if any.
func (s *Session) Cached(login string) (Response, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	resp, ok := s.cache[login]
	return resp, ok
}

// Close tears the session down. Responses that arrive afterwards are
// discarded.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.cache = make(map[string]Response)
}

func (s *Session) compute(ctx context.Context, profile model.Profile, repos []model.Repository) (Response, error) {
	s.mu.Lock()
	s.gen[profile.Login]++
	gen := s.gen[profile.Login]
	s.mu.Unlock()

	resp := s.analyzer.Analyze(ctx, profile, repos)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Response{}, ErrSessionClosed
	}
	// a later Retry for the same login owns the cache entry
	if gen == s.gen[profile.Login] {
		s.cache[profile.Login] = resp
	}
	return resp, nil
}
