package analysis

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spiffcs/ghlens/internal/constants"
	"github.com/spiffcs/ghlens/internal/model"
)

const systemPrompt = `You are an experienced engineering manager reviewing public GitHub profiles.
Respond with a JSON object containing exactly these fields:
- summary: a short paragraph describing the developer
- strengths: array of strings
- areasOfExpertise: array of strings
- activityLevel: one of "Low", "Medium", "High", "Very High"
- contributionStyle: one sentence describing how they contribute
- notableProjects: array of at most 5 objects with name, description, stars, language
- recommendations: array of strings
- overallScore: integer from 0 to 10

Respond ONLY with the raw JSON object. Do not wrap it in markdown or code fences.`

// promptRepository is the subset of a repository sent to the model.
type promptRepository struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Language    string `json:"language,omitempty"`
	Stars       int    `json:"stars"`
	Forks       int    `json:"forks"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

func buildPrompt(profile model.Profile, repos []model.Repository) (string, error) {
	user, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode profile: %w", err)
	}

	trimmed := make([]promptRepository, 0, len(repos))
	for _, r := range repos {
		trimmed = append(trimmed, promptRepository{
			Name:        r.Name,
			Description: r.Description,
			Language:    r.Language,
			Stars:       r.StarCount,
			Forks:       r.ForkCount,
			CreatedAt:   r.CreatedAt.Format("2006-01-02"),
			UpdatedAt:   r.UpdatedAt.Format("2006-01-02"),
		})
	}
	repoJSON, err := json.MarshalIndent(trimmed, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode repositories: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("Analyze this GitHub profile.\n\n")
	sb.WriteString("Profile:\n")
	sb.Write(user)
	sb.WriteString("\n\nRepositories (most recently updated first):\n")
	sb.Write(repoJSON)
	sb.WriteString("\n")

	return sb.String(), nil
}

// stripCodeFence removes a surrounding markdown code fence, if any.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	// drop the opening fence and its optional language tag
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// parseAnalysis decodes and validates a model reply.
func parseAnalysis(reply string) (*model.ProfileAnalysis, error) {
	text := stripCodeFence(reply)

	var analysis model.ProfileAnalysis
	if err := json.Unmarshal([]byte(text), &analysis); err != nil {
		// Try to extract JSON if there's extra text
		start := strings.Index(text, "{")
		end := strings.LastIndex(text, "}")
		if start < 0 || end <= start {
			return nil, &ParseError{Raw: reply, Err: err}
		}
		analysis = model.ProfileAnalysis{}
		if err := json.Unmarshal([]byte(text[start:end+1]), &analysis); err != nil {
			return nil, &ParseError{Raw: reply, Err: err}
		}
	}

	if err := validate(&analysis); err != nil {
		return nil, &ParseError{Raw: reply, Err: err}
	}
	return &analysis, nil
}

func validate(a *model.ProfileAnalysis) error {
	if strings.TrimSpace(a.Summary) == "" {
		return fmt.Errorf("missing summary")
	}
	if !a.ActivityLevel.Valid() {
		return fmt.Errorf("invalid activity level %q", a.ActivityLevel)
	}
	if a.OverallScore < 0 || a.OverallScore > constants.MaxOverallScore {
		return fmt.Errorf("overall score %d out of range", a.OverallScore)
	}
	if len(a.NotableProjects) > constants.MaxNotableProjects {
		return fmt.Errorf("too many notable projects: %d", len(a.NotableProjects))
	}
	return nil
}
