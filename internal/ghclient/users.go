package ghclient

import (
	"context"
	"strings"
	"time"

	gh "github.com/google/go-github/v57/github"
	"github.com/spiffcs/ghlens/internal/constants"
	"github.com/spiffcs/ghlens/internal/model"
)

// GetProfile fetches a user's public profile.
func (c *Client) GetProfile(ctx context.Context, username string) (*model.Profile, error) {
	var profile *model.Profile
	err := c.withRetry(ctx, "user "+username, func() error {
		user, resp, err := c.client.Users.Get(ctx, username)
		if err != nil {
			return classify(ResourceUser, resp, err)
		}
		profile = toProfile(user)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// ListRepositories fetches the first page of a user's public repositories,
// most recently updated first.
func (c *Client) ListRepositories(ctx context.Context, username string) ([]model.Repository, error) {
	opts := &gh.RepositoryListByUserOptions{
		Sort: constants.RepositorySort,
		ListOptions: gh.ListOptions{
			PerPage: constants.MaxRepositories,
		},
	}

	var repos []model.Repository
	err := c.withRetry(ctx, "repositories "+username, func() error {
		result, resp, err := c.client.Repositories.ListByUser(ctx, username, opts)
		if err != nil {
			return classify(ResourceRepositories, resp, err)
		}
		repos = make([]model.Repository, 0, len(result))
		for _, r := range result {
			repos = append(repos, toRepository(r))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return repos, nil
}

func toProfile(u *gh.User) *model.Profile {
	return &model.Profile{
		ID:              u.GetID(),
		Login:           u.GetLogin(),
		Name:            strings.TrimSpace(u.GetName()),
		AvatarURL:       u.GetAvatarURL(),
		Bio:             strings.TrimSpace(u.GetBio()),
		PublicRepos:     u.GetPublicRepos(),
		Followers:       u.GetFollowers(),
		Following:       u.GetFollowing(),
		CreatedAt:       timestamp(u.CreatedAt),
		Location:        u.GetLocation(),
		Blog:            u.GetBlog(),
		TwitterUsername: u.GetTwitterUsername(),
		HTMLURL:         u.GetHTMLURL(),
	}
}

func toRepository(r *gh.Repository) model.Repository {
	return model.Repository{
		ID:          r.GetID(),
		Name:        r.GetName(),
		Description: r.GetDescription(),
		HTMLURL:     r.GetHTMLURL(),
		Language:    r.GetLanguage(),
		StarCount:   r.GetStargazersCount(),
		ForkCount:   r.GetForksCount(),
		CreatedAt:   timestamp(r.CreatedAt),
		UpdatedAt:   timestamp(r.UpdatedAt),
	}
}

func timestamp(ts *gh.Timestamp) time.Time {
	if ts == nil {
		return time.Time{}
	}
	return ts.Time
}
