package service

// Step identifies one fetch within a lookup.
type Step int

const (
	StepProfile Step = iota
	StepRepositories
)

func (s Step) String() string {
	switch s {
	case StepProfile:
		return "profile"
	case StepRepositories:
		return "repositories"
	default:
		return "unknown"
	}
}

// Side identifies which user of a comparison a fetch belongs to. Single
// lookups report SideNone.
type Side int

const (
	SideNone Side = iota
	SideFirst
	SideSecond
)

// Progress describes one completed fetch. Err is nil on success.
type Progress struct {
	Side     Side
	Username string
	Step     Step
	Err      error
}

// ProgressFunc is called as each fetch completes. It may be called
// concurrently.
type ProgressFunc func(p Progress)
