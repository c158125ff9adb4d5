// Package compare judges two profiles' metrics against each other.
package compare

import "github.com/spiffcs/ghlens/internal/model"

// Profiles returns the per-metric winners of a against b. Each metric is
// judged on its own; there is no overall winner.
func Profiles(a, b model.Metrics) model.Winners {
	return model.Winners{
		TotalRepos:                metric(float64(a.TotalRepos), float64(b.TotalRepos)),
		TotalStars:                metric(float64(a.TotalStars), float64(b.TotalStars)),
		TotalForks:                metric(float64(a.TotalForks), float64(b.TotalForks)),
		AccountAgeDays:            metric(float64(a.AccountAgeDays), float64(b.AccountAgeDays)),
		RecentActivity:            metric(float64(a.RecentActivity), float64(b.RecentActivity)),
		FollowersToFollowingRatio: metric(a.FollowersToFollowingRatio, b.FollowersToFollowingRatio),
	}
}

// Build assembles a ComparisonResult from two computed bundles.
func Build(first, second model.ProfileData) model.ComparisonResult {
	return model.ComparisonResult{
		First:  first,
		Second: second,
		Winner: Profiles(first.Metrics, second.Metrics),
	}
}

func metric(a, b float64) model.Winner {
	switch {
	case a > b:
		return model.WinnerFirst
	case b > a:
		return model.WinnerSecond
	default:
		return model.WinnerTie
	}
}
