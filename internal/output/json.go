package output

import (
	"encoding/json"
	"io"

	"github.com/spiffcs/ghlens/internal/analysis"
	"github.com/spiffcs/ghlens/internal/model"
)

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	Pretty bool
}

// profileOutput wraps a profile with its notes for JSON output
type profileOutput struct {
	model.ProfileData
	Notes notesOutput `json:"notes"`
}

type notesOutput struct {
	User  []model.Note            `json:"user"`
	Repos map[string][]model.Note `json:"repos"`
}

// analysisOutput wraps an analysis response with the login it covers
type analysisOutput struct {
	Login string `json:"login"`
	analysis.Response
}

func (f *JSONFormatter) encode(v any, w io.Writer) error {
	encoder := json.NewEncoder(w)
	if f.Pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(v)
}

// FormatProfile outputs a profile, its repositories, metrics and notes
func (f *JSONFormatter) FormatProfile(v ProfileView, w io.Writer) error {
	out := profileOutput{
		ProfileData: v.Data,
		Notes: notesOutput{
			User:  v.UserNotes,
			Repos: v.RepoNotes,
		},
	}
	if out.Notes.User == nil {
		out.Notes.User = []model.Note{}
	}
	if out.Notes.Repos == nil {
		out.Notes.Repos = map[string][]model.Note{}
	}
	if out.Repositories == nil {
		out.Repositories = []model.Repository{}
	}
	if v.Limit > 0 && len(out.Repositories) > v.Limit {
		out.Repositories = out.Repositories[:v.Limit]
	}
	return f.encode(out, w)
}

// FormatComparison outputs both profiles and the per-metric winners
func (f *JSONFormatter) FormatComparison(c model.ComparisonResult, w io.Writer) error {
	return f.encode(c, w)
}

// FormatAnalysis outputs the analysis envelope
func (f *JSONFormatter) FormatAnalysis(login string, r analysis.Response, w io.Writer) error {
	return f.encode(analysisOutput{Login: login, Response: r}, w)
}

// FormatNotes outputs a list of notes
func (f *JSONFormatter) FormatNotes(notes []model.Note, w io.Writer) error {
	if notes == nil {
		notes = []model.Note{}
	}
	return f.encode(notes, w)
}
