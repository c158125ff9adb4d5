package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spiffcs/ghlens/internal/constants"
)

// Model renders a fixed list of tasks whose state is driven by Events.
type Model struct {
	title    string
	tasks    []Task
	spinner  spinner.Model
	progress progress.Model
	events   <-chan Event
	quota    *RateLimitEvent
	done     bool
}

// channelClosedMsg is produced once the event channel has been drained.
type channelClosedMsg struct{}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithTasks sets the tasks to display.
func WithTasks(tasks []Task) ModelOption {
	return func(m *Model) { m.tasks = tasks }
}

// WithTitle sets a heading rendered above the tasks.
func WithTitle(title string) ModelOption {
	return func(m *Model) { m.title = title }
}

// NewModel creates a Model reading from events.
func NewModel(events <-chan Event, opts ...ModelOption) Model {
	m := Model{
		spinner: spinner.New(spinner.WithSpinner(spinner.MiniDot)),
		progress: progress.New(
			progress.WithScaledGradient("#7dd3fc", "#0369a1"),
			progress.WithWidth(20),
			progress.WithoutPercentage(),
		),
		events: events,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init starts the spinner and the first channel read.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, nextEvent(m.events))
}

// Update applies one message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		pm, cmd := m.progress.Update(msg)
		m.progress = pm.(progress.Model)
		return m, cmd

	case TaskEvent:
		cmd := m.apply(msg)
		return m, tea.Batch(cmd, nextEvent(m.events))

	case RateLimitEvent:
		m.quota = &msg
		return m, nextEvent(m.events)

	case DoneEvent, channelClosedMsg:
		m.done = true
		return m, tea.Quit
	}

	return m, nil
}

// apply merges e into the matching task. Zero-valued optional fields leave
// the previous value in place.
func (m *Model) apply(e TaskEvent) tea.Cmd {
	idx := -1
	for i := range m.tasks {
		if m.tasks[i].ID == e.Task {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	t := &m.tasks[idx]
	t.Status = e.Status
	if e.Message != "" {
		t.Message = e.Message
	}
	if e.Count > 0 {
		t.Count = e.Count
	}
	if e.Error != nil {
		t.Error = e.Error
	}
	if e.Progress > 0 {
		t.Progress = e.Progress
		return m.progress.SetPercent(e.Progress)
	}
	return nil
}

// View renders the title, every task, a low-quota warning and the
// cancel hint.
func (m Model) View() string {
	var b strings.Builder

	if m.title != "" {
		fmt.Fprintf(&b, "  %s\n\n", titleStyle.Render(m.title))
	}

	frame := m.spinner.View()
	for _, t := range m.tasks {
		b.WriteString(t.View(frame, m.progress))
		b.WriteByte('\n')
	}

	if q := m.quota; q != nil && q.Remaining <= constants.RateLimitLowWatermark {
		warn := fmt.Sprintf("\n  GitHub rate limit low: %d/%d remaining", q.Remaining, q.Limit)
		if wait := time.Until(q.ResetAt).Round(time.Second); wait > 0 {
			warn += fmt.Sprintf(" (resets in %s)", wait)
		}
		b.WriteString(warnStyle.Render(warn))
		b.WriteByte('\n')
	}

	if !m.done {
		b.WriteString(footerStyle.Render("\n  Press Ctrl+C to cancel"))
	}
	b.WriteByte('\n')

	return b.String()
}

// nextEvent reads one event, turning a closed channel into channelClosedMsg.
func nextEvent(events <-chan Event) tea.Cmd {
	return func() tea.Msg {
		if e, ok := <-events; ok {
			return e
		}
		return channelClosedMsg{}
	}
}
