// Package service orchestrates GitHub lookups for one or two profiles.
package service

import (
	"context"
	"errors"
	"strings"

	"github.com/spiffcs/ghlens/internal/log"
	"github.com/spiffcs/ghlens/internal/model"
	"golang.org/x/sync/errgroup"
)

// ErrEmptyUsername is returned when a lookup is requested for a blank name.
var ErrEmptyUsername = errors.New("username is required")

// ProfileFetcher is the GitHub surface the service depends on.
type ProfileFetcher interface {
	GetProfile(ctx context.Context, username string) (*model.Profile, error)
	ListRepositories(ctx context.Context, username string) ([]model.Repository, error)
}

// ProfileService looks up profiles and their repositories.
type ProfileService struct {
	fetcher    ProfileFetcher
	onProgress ProgressFunc
}

// Option configures a ProfileService.
type Option func(*ProfileService)

// WithProgress registers a callback invoked as each fetch completes.
func WithProgress(fn ProgressFunc) Option {
	return func(s *ProfileService) {
		s.onProgress = fn
	}
}

// New creates a ProfileService backed by fetcher.
func New(fetcher ProfileFetcher, opts ...Option) *ProfileService {
	s := &ProfileService{fetcher: fetcher}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LookupResult holds both halves of a successful lookup.
type LookupResult struct {
	Profile      *model.Profile
	Repositories []model.Repository
}

// Lookup fetches the profile and its repositories in parallel and returns
// once both have resolved. When both fail, the profile error wins.
func (s *ProfileService) Lookup(ctx context.Context, username string) (*LookupResult, error) {
	return s.lookup(ctx, SideNone, username)
}

func (s *ProfileService) lookup(ctx context.Context, side Side, username string) (*LookupResult, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrEmptyUsername
	}

	var (
		profile    *model.Profile
		repos      []model.Repository
		profileErr error
		reposErr   error
	)

	// Errors are collected per side rather than returned to the group so a
	// failing repository fetch cannot cancel the profile fetch and mask its
	// error.
	var g errgroup.Group

	g.Go(func() error {
		profile, profileErr = s.fetcher.GetProfile(ctx, username)
		s.report(Progress{Side: side, Username: username, Step: StepProfile, Err: profileErr})
		return nil
	})

	g.Go(func() error {
		repos, reposErr = s.fetcher.ListRepositories(ctx, username)
		s.report(Progress{Side: side, Username: username, Step: StepRepositories, Err: reposErr})
		return nil
	})

	_ = g.Wait()

	if profileErr != nil {
		return nil, profileErr
	}
	if reposErr != nil {
		return nil, reposErr
	}

	log.Debug("lookup complete", "user", username, "repos", len(repos))

	return &LookupResult{
		Profile:      profile,
		Repositories: repos,
	}, nil
}

func (s *ProfileService) report(p Progress) {
	if s.onProgress != nil {
		s.onProgress(p)
	}
}
