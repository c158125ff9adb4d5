package tui

import "time"

// TaskID identifies a task in the TUI progress display.
type TaskID int

const (
	TaskProfile      TaskID = iota // Fetching the user record
	TaskRepositories               // Listing public repositories
	TaskMetrics                    // Computing derived metrics
	TaskAnalysis                   // Running the profile analyzer
	TaskFirstUser                  // Loading the left side of a comparison
	TaskSecondUser                 // Loading the right side of a comparison
	TaskCompare                    // Deciding per-metric winners
)

// TaskStatus represents the current status of a task.
type TaskStatus int

const (
	StatusPending TaskStatus = iota
	StatusRunning
	StatusComplete
	StatusError
	StatusSkipped
)

// Event is the interface for all TUI events.
type Event interface {
	isEvent()
}

// TaskEvent represents an update to a task's status.
type TaskEvent struct {
	Task     TaskID
	Status   TaskStatus
	Message  string  // Optional message (e.g., "42 repos")
	Count    int     // Count of items (e.g., repositories fetched)
	Progress float64 // Progress from 0.0 to 1.0
	Error    error   // Error if status is StatusError
}

func (TaskEvent) isEvent() {}

// RateLimitEvent reports the GitHub quota observed on the last response.
type RateLimitEvent struct {
	Remaining int
	Limit     int
	ResetAt   time.Time
}

func (RateLimitEvent) isEvent() {}

// DoneEvent signals that all work is complete.
type DoneEvent struct{}

func (DoneEvent) isEvent() {}
