package output

import (
	"io"
	"time"

	"github.com/spiffcs/ghlens/internal/analysis"
	"github.com/spiffcs/ghlens/internal/model"
)

// Format represents the output format
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// ProfileView is everything shown for a single profile.
type ProfileView struct {
	Data      model.ProfileData
	UserNotes []model.Note
	// RepoNotes maps repository name to its notes.
	RepoNotes map[string][]model.Note
	// Limit caps the repositories listed; zero lists all.
	Limit int
	Now   time.Time
}

// Formatter defines the interface for output formatters
type Formatter interface {
	FormatProfile(v ProfileView, w io.Writer) error
	FormatComparison(c model.ComparisonResult, w io.Writer) error
	FormatAnalysis(login string, r analysis.Response, w io.Writer) error
	FormatNotes(notes []model.Note, w io.Writer) error
}

// NewFormatter creates a formatter for the specified format
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Pretty: true}
	default:
		return &TableFormatter{}
	}
}
