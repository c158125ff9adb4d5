package analysis

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"

	"github.com/spiffcs/ghlens/internal/constants"
	"github.com/spiffcs/ghlens/internal/metrics"
	"github.com/spiffcs/ghlens/internal/model"
)

// modernLanguages are credited as a strength when any repository uses one.
var modernLanguages = []string{"TypeScript", "Rust", "Go"}

// domainAreas maps language families onto broader areas of expertise,
// in the order they are reported.
var domainAreas = []struct {
	languages []string
	area      string
}{
	{[]string{"JavaScript", "TypeScript"}, "Web Development"},
	{[]string{"Python"}, "Data Science & AI"},
	{[]string{"Java", "C#"}, "Enterprise Development"},
	{[]string{"Go", "Rust"}, "Systems Programming"},
	{[]string{"Swift", "Kotlin"}, "Mobile Development"},
}

// Rules is a deterministic, offline analyzer.
type Rules struct {
	opts options
}

// NewRules creates a rule-based analyzer.
func NewRules(opts ...Option) *Rules {
	return &Rules{opts: newOptions(opts)}
}

// facts are the inputs every rule draws from.
type facts struct {
	profile    model.Profile
	repos      []model.Repository
	totalStars int
	languages  model.LanguageHistogram
	ranked     model.LanguageHistogram
	ageDays    int
	recent     int
	level      model.ActivityLevel
}

// Analyze never fails.
func (r *Rules) Analyze(_ context.Context, profile model.Profile, repos []model.Repository) Response {
	now := r.opts.now()

	f := facts{
		profile:   profile,
		repos:     repos,
		languages: metrics.Languages(repos),
		ageDays:   metrics.AccountAgeDays(profile.CreatedAt, now),
		recent:    metrics.RecentActivity(repos, now),
	}
	for _, repo := range repos {
		f.totalStars += repo.StarCount
	}
	f.ranked = rankLanguages(f.languages)
	f.level = ActivityLevelFor(f.recent)

	return succeeded(&model.ProfileAnalysis{
		Summary:           summary(f),
		Strengths:         strengths(f),
		AreasOfExpertise:  expertise(f),
		ActivityLevel:     f.level,
		ContributionStyle: ContributionStyle(f.recent),
		NotableProjects:   NotableProjects(repos),
		Recommendations:   recommendations(f),
		OverallScore:      score(f),
		AnalysisDate:      now,
	})
}

// ActivityLevelFor buckets the number of recently updated repositories.
func ActivityLevelFor(recent int) model.ActivityLevel {
	switch {
	case recent >= 10:
		return model.ActivityVeryHigh
	case recent >= 5:
		return model.ActivityHigh
	case recent >= 2:
		return model.ActivityMedium
	default:
		return model.ActivityLow
	}
}

// ContributionStyle describes the cadence implied by recent activity.
func ContributionStyle(recent int) string {
	switch {
	case recent > 10:
		return "Highly active contributor with frequent updates and new projects"
	case recent > 5:
		return "Regular contributor maintaining active development pace"
	case recent > 2:
		return "Steady contributor with consistent but moderate activity"
	case recent > 0:
		return "Occasional contributor with selective project focus"
	default:
		return "Maintainer of established projects with less frequent updates"
	}
}

// NotableProjects returns up to five starred repositories, most starred
// first.
func NotableProjects(repos []model.Repository) []model.NotableProject {
	starred := make([]model.Repository, 0, len(repos))
	for _, repo := range repos {
		if repo.StarCount > 0 {
			starred = append(starred, repo)
		}
	}
	sort.SliceStable(starred, func(i, j int) bool {
		return starred[i].StarCount > starred[j].StarCount
	})

	projects := make([]model.NotableProject, 0, constants.MaxNotableProjects)
	for _, repo := range starred {
		if len(projects) == constants.MaxNotableProjects {
			break
		}
		p := model.NotableProject{
			Name:        repo.Name,
			Description: repo.Description,
			Stars:       repo.StarCount,
			Language:    repo.Language,
		}
		if p.Description == "" {
			p.Description = constants.NoDescription
		}
		if p.Language == "" {
			p.Language = constants.UnknownLanguage
		}
		projects = append(projects, p)
	}
	return projects
}

// rankLanguages orders the histogram by count, keeping first-seen order
// among equal counts.
func rankLanguages(h model.LanguageHistogram) model.LanguageHistogram {
	ranked := slices.Clone(h)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	return ranked
}

func summary(f facts) string {
	years := f.ageDays / 365
	avgStars := 0
	if len(f.repos) > 0 {
		avgStars = int(math.Round(float64(f.totalStars) / float64(len(f.repos))))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s is a %s activity developer ", f.profile.DisplayName(), strings.ToLower(string(f.level)))

	switch {
	case years > 5:
		fmt.Fprintf(&sb, "with %d+ years of experience on GitHub. ", years)
	case years > 2:
		fmt.Fprintf(&sb, "with %d years of experience on GitHub. ", years)
	default:
		fmt.Fprintf(&sb, "who joined GitHub %d months ago. ", f.ageDays/30)
	}

	fmt.Fprintf(&sb, "They have %d public repositories with a total of %d stars. ", len(f.repos), f.totalStars)

	switch {
	case avgStars > 50:
		fmt.Fprintf(&sb, "Their repositories show strong community engagement with an average of %d stars per repository. ", avgStars)
	case avgStars > 10:
		fmt.Fprintf(&sb, "Their repositories have moderate community interest with %d average stars. ", avgStars)
	}

	followers := f.profile.Followers
	switch {
	case followers > 1000:
		fmt.Fprintf(&sb, "They have built a significant following of %d developers.", followers)
	case followers > 100:
		fmt.Fprintf(&sb, "They have a growing community of %d followers.", followers)
	default:
		fmt.Fprintf(&sb, "They are building their developer community with %d followers.", followers)
	}

	return sb.String()
}

func strengths(f facts) []string {
	var out []string

	switch {
	case len(f.repos) > 50:
		out = append(out, "High productivity with extensive repository portfolio")
	case len(f.repos) > 20:
		out = append(out, "Active contributor with substantial project portfolio")
	}

	switch {
	case f.totalStars > 1000:
		out = append(out, "Strong community recognition and project quality")
	case f.totalStars > 100:
		out = append(out, "Good community engagement and project visibility")
	}

	if len(f.ranked) > 0 {
		top := f.ranked[0]
		if float64(top.Count) > float64(len(f.repos))*0.4 {
			out = append(out, fmt.Sprintf("Deep expertise in %s development", top.Name))
		}
	}

	if f.profile.Followers > f.profile.Following*2 {
		out = append(out, "Strong influence and thought leadership in the community")
	}

	if slices.ContainsFunc(f.repos, func(r model.Repository) bool { return r.StarCount > 100 }) {
		out = append(out, "Creator of popular open-source projects")
	}

	if f.languages.HasAny(modernLanguages...) {
		out = append(out, "Adopts modern, performant programming languages")
	}

	if len(out) == 0 {
		return []string{"Building their developer profile and expertise"}
	}
	return out
}

func expertise(f facts) []string {
	var out []string

	for i, lc := range f.ranked {
		if i == 3 {
			break
		}
		out = append(out, lc.Name+" Development")
	}

	for _, d := range domainAreas {
		if f.languages.HasAny(d.languages...) {
			out = append(out, d.area)
		}
	}

	if len(out) == 0 {
		return []string{"General Software Development"}
	}
	return out
}

func recommendations(f facts) []string {
	var out []string

	if len(f.repos) < 5 {
		out = append(out, "Consider creating more public repositories to showcase your work")
	}
	if len(f.languages) < 3 {
		out = append(out, "Explore additional programming languages to broaden your skill set")
	}
	if f.profile.Followers < 50 && len(f.repos) > 10 {
		out = append(out, "Engage more with the community to increase your following")
	}
	if f.level == model.ActivityLow {
		out = append(out, "Increase activity by contributing to open source projects or creating new ones")
	}
	if !slices.ContainsFunc(f.repos, func(r model.Repository) bool { return r.Description != "" }) {
		out = append(out, "Add descriptions to your repositories to improve discoverability")
	}
	if len(f.repos) > 0 && !slices.ContainsFunc(f.repos, func(r model.Repository) bool { return r.StarCount > 10 }) {
		out = append(out, "Focus on creating projects that solve real-world problems to gain more stars")
	}

	if len(out) == 0 {
		return []string{"Continue building and sharing great projects!"}
	}
	return out
}

// band awards points to values strictly above a breakpoint.
type band struct {
	above  float64
	points float64
}

// bandPoints returns the points of the first band value exceeds.
func bandPoints(value float64, bands []band) float64 {
	for _, b := range bands {
		if value > b.above {
			return b.points
		}
	}
	return 0
}

var (
	repoBands     = []band{{50, 2}, {20, 1.5}, {10, 1}, {5, 0.5}}
	starBands     = []band{{1000, 2}, {500, 1.5}, {100, 1}, {20, 0.5}}
	activityBands = []band{{10, 2}, {5, 1.5}, {2, 1}, {0, 0.5}}
	followerBands = []band{{1000, 2}, {500, 1.5}, {100, 1}, {20, 0.5}}
	ageBands      = []band{{365 * 5, 1}, {365 * 2, 0.5}}
	languageBands = []band{{5, 1}, {3, 0.5}}
)

func score(f facts) int {
	total := bandPoints(float64(len(f.repos)), repoBands) +
		bandPoints(float64(f.totalStars), starBands) +
		bandPoints(float64(f.recent), activityBands) +
		bandPoints(float64(f.profile.Followers), followerBands) +
		bandPoints(float64(f.ageDays), ageBands) +
		bandPoints(float64(len(f.languages)), languageBands)

	return min(int(math.Round(total)), constants.MaxOverallScore)
}
