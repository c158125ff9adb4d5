package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
)

// Task represents a single task in the TUI progress display.
type Task struct {
	ID       TaskID
	Name     string
	Status   TaskStatus
	Message  string
	Count    int
	Progress float64
	Error    error
}

// NewTask creates a new task with the given ID and name.
func NewTask(id TaskID, name string) Task {
	return Task{
		ID:     id,
		Name:   name,
		Status: StatusPending,
	}
}

// ProfileTasks returns the tasks shown while looking up a single user.
func ProfileTasks(username string) []Task {
	return []Task{
		NewTask(TaskProfile, fmt.Sprintf("Fetching profile for @%s", username)),
		NewTask(TaskRepositories, "Listing repositories"),
		NewTask(TaskMetrics, "Computing metrics"),
	}
}

// AnalyzeTasks returns the lookup tasks followed by the analysis step.
func AnalyzeTasks(username, strategy string) []Task {
	name := "Analyzing profile"
	if strategy != "" {
		name = fmt.Sprintf("Analyzing profile (%s)", strategy)
	}
	return append(ProfileTasks(username), NewTask(TaskAnalysis, name))
}

// CompareTasks returns the tasks shown while comparing two users.
func CompareTasks(first, second string) []Task {
	return []Task{
		NewTask(TaskFirstUser, fmt.Sprintf("Loading @%s", first)),
		NewTask(TaskSecondUser, fmt.Sprintf("Loading @%s", second)),
		NewTask(TaskCompare, "Comparing metrics"),
	}
}

// View renders the task as a string.
func (t Task) View(spinnerFrame string, prog progress.Model) string {
	icon := StatusIcon(t.Status, spinnerFrame)

	var name string
	if t.Status == StatusPending {
		name = taskDimStyle.Render(t.Name)
	} else {
		name = taskNameStyle.Render(t.Name)
	}

	line := fmt.Sprintf("  %s %s", icon, name)

	switch {
	case t.Status == StatusRunning && t.Progress > 0:
		line += fmt.Sprintf(" %s %d%%", prog.ViewAs(t.Progress), int(t.Progress*100))
		if t.Message != "" {
			line += " " + messageStyle.Render(fmt.Sprintf("(%s)", t.Message))
		}
	case t.Message != "":
		line += " " + messageStyle.Render(t.Message)
	case t.Count > 0:
		line += " " + messageStyle.Render(fmt.Sprintf("(%d)", t.Count))
	}

	if t.Error != nil {
		line += " " + errorStyle.Render(t.Error.Error())
	}

	return line
}
