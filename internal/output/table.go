package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spiffcs/ghlens/internal/analysis"
	"github.com/spiffcs/ghlens/internal/format"
	"github.com/spiffcs/ghlens/internal/model"
	"golang.org/x/term"
)

// TableFormatter formats output for a terminal
type TableFormatter struct{}

var (
	bold    = color.New(color.Bold)
	heading = color.New(color.Bold, color.Underline)
	dim     = color.New(color.Faint)
)

// hyperlink creates a clickable terminal hyperlink using OSC 8
// Format: \033]8;;URL\033\\TEXT\033]8;;\033\\
func hyperlink(text, url string) string {
	// Only use hyperlinks if stdout is a terminal
	if url == "" || color.NoColor || !term.IsTerminal(int(os.Stdout.Fd())) {
		return text
	}
	return fmt.Sprintf("\033]8;;%s\033\\%s\033]8;;\033\\", url, text)
}

// ScoreColor returns the display colour band for an overall score.
func ScoreColor(score int) *color.Color {
	switch {
	case score >= 8:
		return color.New(color.FgGreen, color.Bold)
	case score >= 6:
		return color.New(color.FgBlue, color.Bold)
	case score >= 4:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}

// ActivityColor returns the display colour for an activity level.
func ActivityColor(level model.ActivityLevel) *color.Color {
	switch level {
	case model.ActivityVeryHigh:
		return color.New(color.FgGreen)
	case model.ActivityHigh:
		return color.New(color.FgBlue)
	case model.ActivityMedium:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgWhite)
	}
}

// FormatProfile prints the profile header, notes, metrics and repositories
func (f *TableFormatter) FormatProfile(v ProfileView, w io.Writer) error {
	p := v.Data.Profile

	title := bold.Sprint(p.DisplayName())
	if p.Name != "" {
		title += " " + dim.Sprintf("(@%s)", p.Login)
	}
	fmt.Fprintln(w, hyperlink(title, p.HTMLURL))

	var details []string
	if p.Location != "" {
		details = append(details, p.Location)
	}
	if p.Blog != "" {
		details = append(details, p.Blog)
	}
	if p.TwitterUsername != "" {
		details = append(details, "@"+p.TwitterUsername)
	}
	if len(details) > 0 {
		fmt.Fprintf(w, "  %s\n", strings.Join(details, " · "))
	}
	if p.Bio != "" {
		for _, line := range format.Wrap(p.Bio, 76) {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
	fmt.Fprintf(w, "  Joined %s · %s repos · %s followers · %s following\n",
		format.Date(p.CreatedAt),
		format.Number(p.PublicRepos),
		format.Number(p.Followers),
		format.Number(p.Following))

	if len(v.UserNotes) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, heading.Sprint("Notes"))
		for _, n := range v.UserNotes {
			printNote(w, "  ", n)
		}
	}

	fmt.Fprintln(w)
	printMetrics(w, v.Data.Metrics)

	fmt.Fprintln(w)
	printRepositories(w, v)

	return nil
}

func printNote(w io.Writer, indent string, n model.Note) {
	fmt.Fprintf(w, "%s%s %s %s\n", indent, dim.Sprint(n.ID), n.Note, dim.Sprintf("(%s)", format.DateTime(n.UpdatedAt)))
}

func printMetrics(w io.Writer, m model.Metrics) {
	fmt.Fprintln(w, heading.Sprint("Metrics"))

	langs := make([]string, 0, len(m.Languages))
	for _, lc := range m.Languages {
		langs = append(langs, fmt.Sprintf("%s (%d)", lc.Name, lc.Count))
	}
	langList := "-"
	if len(langs) > 0 {
		langList = strings.Join(langs, ", ")
	}

	rows := [][2]string{
		{"Repositories", format.Number(m.TotalRepos)},
		{"Total stars", format.Number(m.TotalStars)},
		{"Total forks", format.Number(m.TotalForks)},
		{"Avg stars/repo", fmt.Sprintf("%.1f", m.AverageRepoSize)},
		{"Most used language", m.MostUsedLanguage},
		{"Languages", langList},
		{"Account age", format.Days(m.AccountAgeDays)},
		{"Recent activity", fmt.Sprintf("%d repos updated in the last 30 days", m.RecentActivity)},
		{"Follower ratio", format.Ratio(m.FollowersToFollowingRatio)},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "  %-20s %s\n", r[0], r[1])
	}
}

func printRepositories(w io.Writer, v ProfileView) {
	repos := v.Data.Repositories
	if len(repos) == 0 {
		fmt.Fprintln(w, "No public repositories.")
		return
	}

	shown := repos
	if v.Limit > 0 && len(shown) > v.Limit {
		shown = shown[:v.Limit]
	}

	// Column widths
	const (
		colName  = 28
		colLang  = 12
		colStars = 7
		colForks = 6
		colAge   = 7
		colDesc  = 44
	)

	fmt.Fprintln(w, heading.Sprint("Repositories"))
	fmt.Fprintf(w, "%-*s  %-*s  %*s  %*s  %-*s  %s\n",
		colName, "Name",
		colLang, "Language",
		colStars, "Stars",
		colForks, "Forks",
		colAge, "Updated",
		"Description")
	fmt.Fprintln(w, strings.Repeat("-", colName+colLang+colStars+colForks+colAge+colDesc+10))

	for _, r := range shown {
		// pad on the plain text; OSC 8 sequences have no visible width
		name := format.Truncate(r.Name, colName)
		name = hyperlink(name, r.HTMLURL) + strings.Repeat(" ", max(0, colName-format.Width(name)))

		lang := r.Language
		if lang == "" {
			lang = "-"
		}

		desc := r.Description
		if desc == "" {
			desc = dim.Sprint("-")
		} else {
			desc = format.Truncate(desc, colDesc)
		}

		fmt.Fprintf(w, "%s  %-*s  %*s  %*s  %-*s  %s\n",
			name,
			colLang, format.Truncate(lang, colLang),
			colStars, format.Number(r.StarCount),
			colForks, format.Number(r.ForkCount),
			colAge, format.Since(r.UpdatedAt, v.Now),
			desc)

		for _, n := range v.RepoNotes[r.Name] {
			printNote(w, "    ✎ ", n)
		}
	}

	if len(shown) < len(repos) {
		fmt.Fprintln(w, dim.Sprintf("... and %d more", len(repos)-len(shown)))
	}
}

// FormatComparison prints metrics side by side with the winner of each
func (f *TableFormatter) FormatComparison(c model.ComparisonResult, w io.Writer) error {
	a, b := c.First, c.Second
	nameA, nameB := a.Profile.Login, b.Profile.Login

	const colMetric = 20
	colUser := max(12, format.Width(nameA), format.Width(nameB))

	fmt.Fprintf(w, "%-*s  %-*s  %-*s  %s\n", colMetric, "Metric", colUser, nameA, colUser, nameB, "Winner")
	fmt.Fprintln(w, strings.Repeat("-", colMetric+2*colUser+16))

	winner := func(win model.Winner) string {
		switch win {
		case model.WinnerFirst:
			return color.GreenString(nameA)
		case model.WinnerSecond:
			return color.GreenString(nameB)
		default:
			return dim.Sprint("tie")
		}
	}

	rows := []struct {
		label string
		a, b  string
		win   model.Winner
	}{
		{"Repositories", format.Number(a.Metrics.TotalRepos), format.Number(b.Metrics.TotalRepos), c.Winner.TotalRepos},
		{"Total stars", format.Number(a.Metrics.TotalStars), format.Number(b.Metrics.TotalStars), c.Winner.TotalStars},
		{"Total forks", format.Number(a.Metrics.TotalForks), format.Number(b.Metrics.TotalForks), c.Winner.TotalForks},
		{"Account age", format.Days(a.Metrics.AccountAgeDays), format.Days(b.Metrics.AccountAgeDays), c.Winner.AccountAgeDays},
		{"Recent activity", fmt.Sprint(a.Metrics.RecentActivity), fmt.Sprint(b.Metrics.RecentActivity), c.Winner.RecentActivity},
		{"Follower ratio", format.Ratio(a.Metrics.FollowersToFollowingRatio), format.Ratio(b.Metrics.FollowersToFollowingRatio), c.Winner.FollowersToFollowingRatio},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%-*s  %-*s  %-*s  %s\n", colMetric, r.label, colUser, r.a, colUser, r.b, winner(r.win))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-*s  %-*s  %-*s\n", colMetric, "Followers", colUser, format.Number(a.Profile.Followers), colUser, format.Number(b.Profile.Followers))
	fmt.Fprintf(w, "%-*s  %-*s  %-*s\n", colMetric, "Following", colUser, format.Number(a.Profile.Following), colUser, format.Number(b.Profile.Following))
	fmt.Fprintf(w, "%-*s  %-*s  %-*s\n", colMetric, "Most used language", colUser, a.Metrics.MostUsedLanguage, colUser, b.Metrics.MostUsedLanguage)

	return nil
}

// FormatAnalysis prints an analysis, or the reason it failed
func (f *TableFormatter) FormatAnalysis(login string, r analysis.Response, w io.Writer) error {
	if !r.Success || r.Analysis == nil {
		fmt.Fprintf(w, "%s %s\n", color.RedString("Analysis of %s failed:", login), r.Error)
		return nil
	}
	a := r.Analysis

	fmt.Fprintln(w, heading.Sprintf("Analysis of %s", login))
	fmt.Fprintf(w, "Overall score: %s\n", ScoreColor(a.OverallScore).Sprintf("%d/10", a.OverallScore))
	fmt.Fprintf(w, "Activity level: %s\n", ActivityColor(a.ActivityLevel).Sprint(a.ActivityLevel))
	fmt.Fprintln(w)

	for _, line := range format.Wrap(a.Summary, 80) {
		fmt.Fprintln(w, line)
	}

	printList(w, "Strengths", "✓", a.Strengths)
	printList(w, "Areas of expertise", "•", a.AreasOfExpertise)

	fmt.Fprintln(w)
	fmt.Fprintln(w, bold.Sprint("Contribution style"))
	fmt.Fprintf(w, "  %s\n", a.ContributionStyle)

	if len(a.NotableProjects) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, bold.Sprint("Notable projects"))
		for _, p := range a.NotableProjects {
			fmt.Fprintf(w, "  %s %s %s\n", p.Name, color.YellowString("★ %s", format.Number(p.Stars)), dim.Sprintf("(%s)", p.Language))
			fmt.Fprintf(w, "    %s\n", format.Truncate(p.Description, 76))
		}
	}

	printList(w, "Recommendations", "→", a.Recommendations)

	fmt.Fprintln(w)
	fmt.Fprintln(w, dim.Sprintf("Analysis completed on %s", format.Date(a.AnalysisDate)))
	return nil
}

func printList(w io.Writer, title, bullet string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, bold.Sprint(title))
	for _, item := range items {
		fmt.Fprintf(w, "  %s %s\n", bullet, item)
	}
}

// FormatNotes prints notes with their ids so they can be edited
func (f *TableFormatter) FormatNotes(notes []model.Note, w io.Writer) error {
	if len(notes) == 0 {
		fmt.Fprintln(w, "No notes found.")
		return nil
	}

	const (
		colID    = 36
		colScope = 24
		colWhen  = 22
	)

	fmt.Fprintf(w, "%-*s  %-*s  %-*s  %s\n", colID, "ID", colScope, "Scope", colWhen, "Updated", "Note")
	fmt.Fprintln(w, strings.Repeat("-", colID+colScope+colWhen+40))

	for _, n := range notes {
		scope := "@" + n.Username
		if n.IsRepoNote() {
			scope = n.Username + "/" + n.RepoName
		}
		fmt.Fprintf(w, "%-*s  %-*s  %-*s  %s\n",
			colID, n.ID,
			colScope, format.Truncate(scope, colScope),
			colWhen, format.DateTime(n.UpdatedAt),
			n.Note)
	}
	return nil
}
