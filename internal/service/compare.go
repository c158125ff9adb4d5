package service

import (
	"context"
	"time"

	"github.com/spiffcs/ghlens/internal/compare"
	"github.com/spiffcs/ghlens/internal/metrics"
	"github.com/spiffcs/ghlens/internal/model"
	"golang.org/x/sync/errgroup"
)

// SideResult is one side of a comparison. Exactly one of Data and Err is set.
type SideResult struct {
	Username string
	Data     *model.ProfileData
	Err      error
}

// Comparison is the outcome of comparing two users. Result is nil unless
// both sides loaded.
type Comparison struct {
	First  SideResult
	Second SideResult
	Result *model.ComparisonResult
}

// Failed reports whether either side failed to load.
func (c *Comparison) Failed() bool {
	return c.First.Err != nil || c.Second.Err != nil
}

// Load fetches one user and computes their metrics at now.
func (s *ProfileService) Load(ctx context.Context, username string, now time.Time) (*model.ProfileData, error) {
	return s.load(ctx, SideNone, username, now)
}

func (s *ProfileService) load(ctx context.Context, side Side, username string, now time.Time) (*model.ProfileData, error) {
	res, err := s.lookup(ctx, side, username)
	if err != nil {
		return nil, err
	}
	return &model.ProfileData{
		Profile:      *res.Profile,
		Repositories: res.Repositories,
		Metrics:      metrics.Compute(*res.Profile, res.Repositories, now),
	}, nil
}

// Compare loads both users fully in parallel. Each side carries its own
// error so one failing side does not cancel the other.
func (s *ProfileService) Compare(ctx context.Context, userA, userB string, now time.Time) *Comparison {
	out := &Comparison{
		First:  SideResult{Username: userA},
		Second: SideResult{Username: userB},
	}

	var g errgroup.Group
	g.Go(func() error {
		out.First.Data, out.First.Err = s.load(ctx, SideFirst, userA, now)
		return nil
	})
	g.Go(func() error {
		out.Second.Data, out.Second.Err = s.load(ctx, SideSecond, userB, now)
		return nil
	})
	_ = g.Wait()

	if !out.Failed() {
		result := compare.Build(*out.First.Data, *out.Second.Data)
		out.Result = &result
	}

	return out
}
