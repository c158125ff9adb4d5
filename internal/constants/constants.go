// Package constants holds the fixed values shared across ghlens packages.
package constants

import "time"

// GitHub API constants
const (
	// MaxRepositories is the per_page cap used for the single repository
	// listing request. The API never returns more than this in one page.
	MaxRepositories = 100

	// RepositorySort orders repositories by most recent update.
	RepositorySort = "updated"

	// RateLimitLowWatermark is the remaining-request count below which
	// rate limit headers are logged.
	RateLimitLowWatermark = 10

	// DefaultRequestsPerSecond paces outgoing GitHub requests.
	DefaultRequestsPerSecond = 5
)

// Metric constants
const (
	// RecentActivityWindow is the look-back window for RecentActivity.
	RecentActivityWindow = 30 * 24 * time.Hour

	// NoLanguage is reported as the most used language when no
	// repository declares one.
	NoLanguage = "None"

	// UnknownLanguage labels notable projects without a language.
	UnknownLanguage = "Unknown"

	// NoDescription labels notable projects without a description.
	NoDescription = "No description available"

	// MaxNotableProjects caps the notable project list.
	MaxNotableProjects = 5

	// MaxOverallScore is the upper bound of the analysis score.
	MaxOverallScore = 10
)

// Notes constants
const (
	// NotesStorageKey is the single key holding every note.
	NotesStorageKey = "github-notes"
)

// Analysis constants
const (
	// DefaultModel is the Anthropic model used by the model strategy.
	DefaultModel = "claude-sonnet-4-5"

	// DefaultMaxTokens bounds the model response.
	DefaultMaxTokens = 2048

	// AnalysisFailed is the fallback message for an analysis failure
	// that carries no message of its own.
	AnalysisFailed = "Analysis failed"
)
