// Package metrics derives aggregate statistics from a profile and its
// repositories.
package metrics

import (
	"math"
	"time"

	"github.com/spiffcs/ghlens/internal/constants"
	"github.com/spiffcs/ghlens/internal/model"
)

// Compute derives the Metrics for a profile. now is the evaluation instant
// for the two time-dependent fields.
func Compute(profile model.Profile, repos []model.Repository, now time.Time) model.Metrics {
	var totalStars, totalForks int
	for _, r := range repos {
		totalStars += r.StarCount
		totalForks += r.ForkCount
	}

	languages := Languages(repos)

	var average float64
	if len(repos) > 0 {
		average = float64(totalStars) / float64(len(repos))
	}

	return model.Metrics{
		TotalRepos:                len(repos),
		TotalStars:                totalStars,
		TotalForks:                totalForks,
		AverageRepoSize:           average,
		MostUsedLanguage:          MostUsedLanguage(languages),
		Languages:                 languages,
		AccountAgeDays:            AccountAgeDays(profile.CreatedAt, now),
		RecentActivity:            RecentActivity(repos, now),
		PublicGists:               0, // not part of the user payload
		FollowersToFollowingRatio: FollowerRatio(profile.Followers, profile.Following),
	}
}

// Languages builds the language histogram in first-seen order. Repositories
// without a language are skipped.
func Languages(repos []model.Repository) model.LanguageHistogram {
	h := model.LanguageHistogram{}
	for _, r := range repos {
		if r.Language != "" {
			h = h.Add(r.Language)
		}
	}
	return h
}

// MostUsedLanguage returns the language with the highest count. Ties go to
// the language seen first.
func MostUsedLanguage(h model.LanguageHistogram) string {
	best := constants.NoLanguage
	bestCount := 0
	for _, lc := range h {
		if lc.Count > bestCount {
			best = lc.Name
			bestCount = lc.Count
		}
	}
	return best
}

// AccountAgeDays is the floor of whole days between createdAt and now.
func AccountAgeDays(createdAt, now time.Time) int {
	return int(math.Floor(now.Sub(createdAt).Hours() / 24))
}

// RecentActivity counts repositories updated strictly after now minus the
// activity window.
func RecentActivity(repos []model.Repository, now time.Time) int {
	cutoff := now.Add(-constants.RecentActivityWindow)
	n := 0
	for _, r := range repos {
		if r.UpdatedAt.After(cutoff) {
			n++
		}
	}
	return n
}

// FollowerRatio is followers/following, or followers when following is 0.
func FollowerRatio(followers, following int) float64 {
	if following == 0 {
		return float64(followers)
	}
	return float64(followers) / float64(following)
}
