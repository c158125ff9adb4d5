package analysis

import (
	"context"
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/spiffcs/ghlens/internal/model"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func TestRulesEmptyProfile(t *testing.T) {
	profile := model.Profile{
		Login:     "newbie",
		CreatedAt: testNow.Add(-100 * 24 * time.Hour),
	}

	resp := NewRules(WithClock(fixedClock)).Analyze(context.Background(), profile, nil)
	if !resp.Success || resp.Analysis == nil {
		t.Fatalf("expected success, got %+v", resp)
	}
	a := resp.Analysis

	if a.ActivityLevel != model.ActivityLow {
		t.Errorf("ActivityLevel = %q, want Low", a.ActivityLevel)
	}
	if a.OverallScore != 0 {
		t.Errorf("OverallScore = %d, want 0", a.OverallScore)
	}
	if a.NotableProjects == nil || len(a.NotableProjects) != 0 {
		t.Errorf("NotableProjects = %v, want empty list", a.NotableProjects)
	}
	if !slices.Contains(a.Recommendations, "Consider creating more public repositories to showcase your work") {
		t.Errorf("missing repository recommendation: %v", a.Recommendations)
	}
	if slices.Contains(a.Recommendations, "Focus on creating projects that solve real-world problems to gain more stars") {
		t.Errorf("stars recommendation should need at least one repository: %v", a.Recommendations)
	}
	if len(a.Recommendations) != 4 {
		t.Errorf("expected 4 recommendations, got %v", a.Recommendations)
	}
	if want := []string{"Building their developer profile and expertise"}; !slices.Equal(a.Strengths, want) {
		t.Errorf("Strengths = %v, want %v", a.Strengths, want)
	}
	if want := []string{"General Software Development"}; !slices.Equal(a.AreasOfExpertise, want) {
		t.Errorf("AreasOfExpertise = %v, want %v", a.AreasOfExpertise, want)
	}
	if a.ContributionStyle != "Maintainer of established projects with less frequent updates" {
		t.Errorf("ContributionStyle = %q", a.ContributionStyle)
	}

	wantSummary := "newbie is a low activity developer who joined GitHub 3 months ago. " +
		"They have 0 public repositories with a total of 0 stars. " +
		"They are building their developer community with 0 followers."
	if a.Summary != wantSummary {
		t.Errorf("Summary =\n%q\nwant\n%q", a.Summary, wantSummary)
	}
	if !a.AnalysisDate.Equal(testNow) {
		t.Errorf("AnalysisDate = %v, want %v", a.AnalysisDate, testNow)
	}
}

func establishedFixture() (model.Profile, []model.Repository) {
	profile := model.Profile{
		Login:     "ada",
		Name:      "Ada",
		Followers: 1500,
		Following: 10,
		CreatedAt: testNow.Add(-2200 * 24 * time.Hour),
	}

	stars := []int{600, 150, 50, 20, 10, 5, 3, 2, 1, 0, 0, 0}
	repos := make([]model.Repository, len(stars))
	for i, s := range stars {
		r := model.Repository{
			Name:      fmt.Sprintf("repo-%d", i),
			StarCount: s,
			UpdatedAt: testNow.Add(-time.Duration(i) * 24 * time.Hour),
		}
		switch {
		case i < 6:
			r.Language = "Go"
		case i < 9:
			r.Language = "Python"
		case i < 11:
			r.Language = "TypeScript"
		default:
			r.UpdatedAt = testNow.Add(-60 * 24 * time.Hour)
		}
		if i%2 == 0 {
			r.Description = "A project"
		}
		repos[i] = r
	}
	return profile, repos
}

func TestRulesEstablishedProfile(t *testing.T) {
	profile, repos := establishedFixture()

	resp := NewRules(WithClock(fixedClock)).Analyze(context.Background(), profile, repos)
	if !resp.Success {
		t.Fatalf("expected success, got %+v", resp)
	}
	a := resp.Analysis

	if a.ActivityLevel != model.ActivityVeryHigh {
		t.Errorf("ActivityLevel = %q, want Very High", a.ActivityLevel)
	}
	if a.OverallScore != 8 {
		t.Errorf("OverallScore = %d, want 8", a.OverallScore)
	}

	wantSummary := "Ada is a very high activity developer with 6+ years of experience on GitHub. " +
		"They have 12 public repositories with a total of 841 stars. " +
		"Their repositories show strong community engagement with an average of 70 stars per repository. " +
		"They have built a significant following of 1500 developers."
	if a.Summary != wantSummary {
		t.Errorf("Summary =\n%q\nwant\n%q", a.Summary, wantSummary)
	}

	wantStrengths := []string{
		"Good community engagement and project visibility",
		"Deep expertise in Go development",
		"Strong influence and thought leadership in the community",
		"Creator of popular open-source projects",
		"Adopts modern, performant programming languages",
	}
	if !slices.Equal(a.Strengths, wantStrengths) {
		t.Errorf("Strengths = %v, want %v", a.Strengths, wantStrengths)
	}

	wantExpertise := []string{
		"Go Development",
		"Python Development",
		"TypeScript Development",
		"Web Development",
		"Data Science & AI",
		"Systems Programming",
	}
	if !slices.Equal(a.AreasOfExpertise, wantExpertise) {
		t.Errorf("AreasOfExpertise = %v, want %v", a.AreasOfExpertise, wantExpertise)
	}

	if want := []string{"Continue building and sharing great projects!"}; !slices.Equal(a.Recommendations, want) {
		t.Errorf("Recommendations = %v, want %v", a.Recommendations, want)
	}
	if a.ContributionStyle != "Highly active contributor with frequent updates and new projects" {
		t.Errorf("ContributionStyle = %q", a.ContributionStyle)
	}
}

func TestNotableProjects(t *testing.T) {
	repos := []model.Repository{
		{Name: "zero", StarCount: 0},
		{Name: "a", StarCount: 3},
		{Name: "b", StarCount: 9, Description: "described", Language: "Go"},
		{Name: "c", StarCount: 3},
		{Name: "d", StarCount: 1},
		{Name: "e", StarCount: 7},
		{Name: "f", StarCount: 2},
	}

	got := NotableProjects(repos)
	if len(got) != 5 {
		t.Fatalf("expected 5 projects, got %d", len(got))
	}

	wantNames := []string{"b", "e", "a", "c", "f"}
	for i, p := range got {
		if p.Name != wantNames[i] {
			t.Errorf("project %d = %q, want %q", i, p.Name, wantNames[i])
		}
		if i > 0 && p.Stars > got[i-1].Stars {
			t.Errorf("projects not sorted by stars: %v", got)
		}
	}

	if got[0].Description != "described" || got[0].Language != "Go" {
		t.Errorf("unexpected first project: %+v", got[0])
	}
	if got[1].Description != "No description available" || got[1].Language != "Unknown" {
		t.Errorf("expected fallbacks, got %+v", got[1])
	}
}

func TestNotableProjectsOnlyZeroStars(t *testing.T) {
	got := NotableProjects([]model.Repository{{Name: "only", StarCount: 0}})
	if len(got) != 0 {
		t.Errorf("expected no notable projects, got %v", got)
	}
}

func TestActivityLevelFor(t *testing.T) {
	tests := []struct {
		recent int
		want   model.ActivityLevel
	}{
		{0, model.ActivityLow},
		{1, model.ActivityLow},
		{2, model.ActivityMedium},
		{4, model.ActivityMedium},
		{5, model.ActivityHigh},
		{9, model.ActivityHigh},
		{10, model.ActivityVeryHigh},
		{50, model.ActivityVeryHigh},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.recent), func(t *testing.T) {
			if got := ActivityLevelFor(tt.recent); got != tt.want {
				t.Errorf("ActivityLevelFor(%d) = %q, want %q", tt.recent, got, tt.want)
			}
		})
	}
}

func TestContributionStyleBands(t *testing.T) {
	tests := []struct {
		recent int
		want   string
	}{
		{0, "Maintainer of established projects with less frequent updates"},
		{1, "Occasional contributor with selective project focus"},
		{3, "Steady contributor with consistent but moderate activity"},
		{6, "Regular contributor maintaining active development pace"},
		{10, "Regular contributor maintaining active development pace"},
		{11, "Highly active contributor with frequent updates and new projects"},
	}

	for _, tt := range tests {
		if got := ContributionStyle(tt.recent); got != tt.want {
			t.Errorf("ContributionStyle(%d) = %q, want %q", tt.recent, got, tt.want)
		}
	}
}

func TestScoreBoundedAndMonotonic(t *testing.T) {
	r := NewRules(WithClock(fixedClock))
	langs := []string{"Go", "Rust", "Python", "Java", "C", "Ruby", "Zig"}

	repos := make([]model.Repository, 60)
	for i := range repos {
		repos[i] = model.Repository{
			Name:      fmt.Sprintf("r%d", i),
			StarCount: 100,
			Language:  langs[i%len(langs)],
			UpdatedAt: testNow,
		}
	}
	profile := model.Profile{
		Login:     "max",
		Followers: 5000,
		CreatedAt: testNow.AddDate(-10, 0, 0),
	}

	top := r.Analyze(context.Background(), profile, repos).Analysis.OverallScore
	if top != 10 {
		t.Errorf("maximal profile score = %d, want 10", top)
	}

	prev := -1
	for _, followers := range []int{0, 21, 101, 501, 1001} {
		p := model.Profile{Login: "x", Followers: followers, CreatedAt: testNow}
		got := r.Analyze(context.Background(), p, repos[:3]).Analysis.OverallScore
		if got < 0 || got > 10 {
			t.Errorf("score %d out of range", got)
		}
		if got < prev {
			t.Errorf("score decreased from %d to %d when followers rose to %d", prev, got, followers)
		}
		prev = got
	}
}

func TestTopLanguageTieKeepsFirstSeen(t *testing.T) {
	repos := []model.Repository{
		{Name: "a", Language: "Rust"},
		{Name: "b", Language: "Go"},
		{Name: "c", Language: "Go"},
		{Name: "d", Language: "Rust"},
	}
	profile := model.Profile{Login: "tie", CreatedAt: testNow}

	a := NewRules(WithClock(fixedClock)).Analyze(context.Background(), profile, repos).Analysis
	if len(a.AreasOfExpertise) < 2 || a.AreasOfExpertise[0] != "Rust Development" || a.AreasOfExpertise[1] != "Go Development" {
		t.Errorf("AreasOfExpertise = %v, want Rust before Go", a.AreasOfExpertise)
	}
	if !slices.Contains(a.Strengths, "Deep expertise in Rust development") {
		t.Errorf("expected Rust to be the top language, strengths = %v", a.Strengths)
	}
}
