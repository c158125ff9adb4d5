// Package tui draws inline progress for long-running lookups with Bubble Tea.
package tui

import (
	"os"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// ciEnvVars are set by common CI providers; progress redraws only clutter
// their logs.
var ciEnvVars = []string{
	"CI",
	"GITHUB_ACTIONS",
	"GITLAB_CI",
	"BUILDKITE",
	"CIRCLECI",
	"JENKINS_URL",
	"TRAVIS",
}

// Run draws progress inline until the event channel is closed or a
// DoneEvent arrives.
func Run(events <-chan Event, opts ...ModelOption) error {
	_, err := tea.NewProgram(NewModel(events, opts...)).Run()
	return err
}

// ShouldUseTUI reports whether stdout is an interactive terminal outside CI.
func ShouldUseTUI() bool {
	if !term.IsTerminal(int(os.Stdout.Fd())) || os.Getenv("TERM") == "dumb" {
		return false
	}
	return !slices.ContainsFunc(ciEnvVars, func(name string) bool {
		return os.Getenv(name) != ""
	})
}

// SendEvent delivers e without blocking. Events are dropped when the
// channel is nil or its buffer is full.
func SendEvent(ch chan<- Event, e Event) {
	if ch == nil {
		return
	}
	select {
	case ch <- e:
	default:
	}
}

// TaskEventOption sets an optional TaskEvent field.
type TaskEventOption func(*TaskEvent)

// SendTaskEvent builds a TaskEvent from opts and sends it with SendEvent.
func SendTaskEvent(ch chan<- Event, task TaskID, status TaskStatus, opts ...TaskEventOption) {
	e := TaskEvent{Task: task, Status: status}
	for _, opt := range opts {
		opt(&e)
	}
	SendEvent(ch, e)
}

// WithMessage sets the text shown after the task name.
func WithMessage(msg string) TaskEventOption {
	return func(e *TaskEvent) { e.Message = msg }
}

// WithCount sets an item count shown when there is no message.
func WithCount(count int) TaskEventOption {
	return func(e *TaskEvent) { e.Count = count }
}

// WithProgress sets a completion fraction between 0 and 1.
func WithProgress(progress float64) TaskEventOption {
	return func(e *TaskEvent) { e.Progress = progress }
}

// WithError attaches the failure shown next to an errored task.
func WithError(err error) TaskEventOption {
	return func(e *TaskEvent) { e.Error = err }
}
