package model

import "time"

// ActivityLevel buckets recent repository activity.
type ActivityLevel string

const (
	ActivityLow      ActivityLevel = "Low"
	ActivityMedium   ActivityLevel = "Medium"
	ActivityHigh     ActivityLevel = "High"
	ActivityVeryHigh ActivityLevel = "Very High"
)

// AllActivityLevels lists the valid activity levels, lowest first.
var AllActivityLevels = []ActivityLevel{
	ActivityLow,
	ActivityMedium,
	ActivityHigh,
	ActivityVeryHigh,
}

// Valid reports whether l is one of AllActivityLevels.
func (l ActivityLevel) Valid() bool {
	for _, v := range AllActivityLevels {
		if l == v {
			return true
		}
	}
	return false
}

// NotableProject is a starred repository highlighted by an analysis.
type NotableProject struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Stars       int    `json:"stars"`
	Language    string `json:"language"`
}

// ProfileAnalysis is a narrative assessment of one profile.
type ProfileAnalysis struct {
	Summary           string           `json:"summary"`
	Strengths         []string         `json:"strengths"`
	AreasOfExpertise  []string         `json:"areasOfExpertise"`
	ActivityLevel     ActivityLevel    `json:"activityLevel"`
	ContributionStyle string           `json:"contributionStyle"`
	NotableProjects   []NotableProject `json:"notableProjects"`
	Recommendations   []string         `json:"recommendations"`
	OverallScore      int              `json:"overallScore"`
	AnalysisDate      time.Time        `json:"analysisDate"`
}
